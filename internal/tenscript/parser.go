package tenscript

import (
	"math"
	"strings"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/physics"
)

const (
	maxTermLength = 40
	maxBricks     = 1000
	maxCountdown  = 1000000
)

// ParsePlan reads a (fabric ...) form.
func ParsePlan(source string) (*FabricPlan, error) {
	expr, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return PlanFromExpr(expr)
}

// PlanFromExpr interprets an already parsed (fabric ...) form.
func PlanFromExpr(expr Expr) (*FabricPlan, error) {
	if head, _ := expr.Head(); head != "fabric" {
		return nil, fail(expr, "(fabric ...)", ErrUnknownForm)
	}
	plan := &FabricPlan{Build: BuildPhase{Seed: Seed{Spin: fabric.Left}}}
	seen := make(map[string]bool)
	for _, form := range expr.Args() {
		head, ok := form.Head()
		if !ok {
			return nil, fail(form, "fabric section", ErrUnknownForm)
		}
		if seen[head] {
			return nil, fail(form, "one "+head+" section", ErrDuplicate)
		}
		seen[head] = true
		var err error
		switch head {
		case "name":
			plan.Name, err = stringArg(form)
		case "surface":
			var s physics.Surface
			if s, err = surfaceArg(form); err == nil {
				plan.Surface = &s
			}
		case "build":
			err = parseBuild(form, &plan.Build)
		case "shape":
			plan.Shape, err = parseShapeOperations(form.Args())
		case "pretense":
			plan.Pretense, err = parsePretense(form)
		default:
			err = fail(form, "name, surface, build, shape or pretense", ErrUnknownForm)
		}
		if err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func parseBuild(form Expr, build *BuildPhase) error {
	for _, arg := range form.Args() {
		head, _ := arg.Head()
		if head == "seed" {
			seed, err := parseSeedForm(arg)
			if err != nil {
				return err
			}
			build.Seed = seed
			continue
		}
		if build.Root != nil {
			return fail(arg, "a single root node", ErrDuplicate)
		}
		node, err := parseBuildNode(arg)
		if err != nil {
			return err
		}
		build.Root = node
	}
	return nil
}

func parseSeedForm(form Expr) (Seed, error) {
	args := form.Args()
	if len(args) == 0 || args[0].Kind != KindAtom {
		return Seed{}, fail(form, ":left, :right, :left-right or :right-left", ErrBadArgument)
	}
	seed, ok := parseSeed(args[0].Text)
	if !ok {
		return Seed{}, fail(args[0], ":left, :right, :left-right or :right-left", ErrBadArgument)
	}
	for _, extra := range args[1:] {
		if head, _ := extra.Head(); head != "down" {
			return Seed{}, fail(extra, "(down faces...)", ErrUnknownForm)
		}
		for _, f := range extra.Args() {
			name, err := faceArg(f)
			if err != nil {
				return Seed{}, err
			}
			seed.Down = append(seed.Down, name)
		}
	}
	return seed, nil
}

func parseBuildNode(form Expr) (BuildNode, error) {
	head, ok := form.Head()
	if !ok {
		return nil, fail(form, "build node", ErrUnknownForm)
	}
	args := form.Args()
	switch head {
	case "face":
		if len(args) != 2 {
			return nil, fail(form, "(face name node)", ErrBadArgument)
		}
		name, err := faceArg(args[0])
		if err != nil {
			return nil, err
		}
		node, err := parseBuildNode(args[1])
		if err != nil {
			return nil, err
		}
		return FaceNode{Name: name, Node: node}, nil
	case "grow":
		return parseGrow(form)
	case "mark":
		face, rest, hasFace := leadingFace(args)
		if len(rest) != 1 || rest[0].Kind != KindAtom {
			return nil, fail(form, "(mark :name)", ErrBadArgument)
		}
		var node BuildNode = MarkNode{Name: rest[0].Text}
		if hasFace {
			node = FaceNode{Name: face, Node: node}
		}
		return node, nil
	case "branch":
		if len(args) == 0 {
			return nil, fail(form, "at least one face", ErrBadArgument)
		}
		branch := BranchNode{}
		for _, arg := range args {
			node, err := parseBuildNode(arg)
			if err != nil {
				return nil, err
			}
			branch.Faces = append(branch.Faces, node)
		}
		return branch, nil
	}
	return nil, fail(form, "face, grow, mark or branch", ErrUnknownForm)
}

// parseGrow reads (grow [face] forward [(scale s)] [node]) where forward
// is a brick count or a string of 'X' and '.' steps.
func parseGrow(form Expr) (BuildNode, error) {
	face, args, hasFace := leadingFace(form.Args())
	if len(args) == 0 {
		return nil, fail(form, "brick count or forward string", ErrBadArgument)
	}
	grow := GrowNode{Scale: 1}
	switch first := args[0]; first.Kind {
	case KindInteger:
		if first.Number < 0 || first.Number > maxBricks {
			return nil, fail(first, "brick count up to 1000", ErrBadArgument)
		}
		grow.Forward = strings.Repeat("X", int(first.Number))
	case KindString:
		if strings.Trim(first.Text, "X.") != "" {
			return nil, fail(first, "only 'X' and '.' steps", ErrBadArgument)
		}
		if len(first.Text) > maxBricks {
			return nil, fail(first, "brick count up to 1000", ErrBadArgument)
		}
		grow.Forward = first.Text
	default:
		return nil, fail(first, "brick count or forward string", ErrBadArgument)
	}
	for _, arg := range args[1:] {
		if head, _ := arg.Head(); head == "scale" {
			scale, err := numberArg(arg)
			if err != nil {
				return nil, err
			}
			if scale <= 0 {
				return nil, fail(arg, "positive scale", ErrBadArgument)
			}
			grow.Scale = scale
			continue
		}
		if grow.Node != nil {
			return nil, fail(arg, "a single post-growth node", ErrDuplicate)
		}
		node, err := parseBuildNode(arg)
		if err != nil {
			return nil, err
		}
		grow.Node = node
	}
	if hasFace {
		return FaceNode{Name: face, Node: grow}, nil
	}
	return grow, nil
}

// leadingFace splits off an optional face name so (grow A+ 3) reads as
// (face :A+ (grow 3)).
func leadingFace(args []Expr) (fabric.FaceName, []Expr, bool) {
	if len(args) == 0 || (args[0].Kind != KindIdent && args[0].Kind != KindAtom) {
		return 0, args, false
	}
	name, ok := fabric.ParseFaceName(args[0].Text)
	if !ok {
		return 0, args, false
	}
	return name, args[1:], true
}

func parseShapeOperations(forms []Expr) ([]ShapeOperation, error) {
	ops := make([]ShapeOperation, 0, len(forms))
	for _, form := range forms {
		op, err := parseShapeOperation(form)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseShapeOperation(form Expr) (ShapeOperation, error) {
	head, ok := form.Head()
	if !ok {
		return nil, fail(form, "shape operation", ErrUnknownForm)
	}
	args := form.Args()
	switch head {
	case "join", "pull-together":
		if len(args) != 1 || args[0].Kind != KindAtom {
			return nil, fail(form, "("+head+" :mark)", ErrBadArgument)
		}
		return Join{Mark: args[0].Text}, nil
	case "space", "distance":
		if len(args) != 2 || args[0].Kind != KindAtom || !args[1].IsNumber() {
			return nil, fail(form, "("+head+" :mark factor)", ErrBadArgument)
		}
		if args[1].Number <= 0 {
			return nil, fail(args[1], "positive factor", ErrBadArgument)
		}
		return Distance{Mark: args[0].Text, Factor: args[1].Number}, nil
	case "remove-shapers":
		op := RemoveShapers{}
		for _, arg := range args {
			if arg.Kind != KindAtom {
				return nil, fail(arg, "mark name", ErrBadArgument)
			}
			op.Marks = append(op.Marks, arg.Text)
		}
		return op, nil
	case "countdown":
		if len(args) == 0 || args[0].Kind != KindInteger || args[0].Number < 0 || args[0].Number > maxCountdown {
			return nil, fail(form, "(countdown ticks operations...)", ErrBadArgument)
		}
		ops, err := parseShapeOperations(args[1:])
		if err != nil {
			return nil, err
		}
		return Countdown{Count: int(args[0].Number), Operations: ops}, nil
	case "vulcanize":
		if len(args) > 1 || (len(args) == 1 && args[0].Kind != KindAtom) {
			return nil, fail(form, "(vulcanize [:style])", ErrBadArgument)
		}
		return Vulcanize{}, nil
	case "replace-faces":
		if len(args) != 0 {
			return nil, fail(form, "(replace-faces)", ErrBadArgument)
		}
		return ReplaceFaces{}, nil
	case "set-viscosity":
		v, err := numberArg(form)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, fail(form, "non-negative viscosity", ErrBadArgument)
		}
		return SetViscosity{Viscosity: v}, nil
	}
	return nil, fail(form, "join, space, remove-shapers, countdown, vulcanize, replace-faces or set-viscosity", ErrUnknownForm)
}

func parsePretense(form Expr) (*PretensePhase, error) {
	phase := &PretensePhase{}
	for _, arg := range form.Args() {
		head, ok := arg.Head()
		if !ok {
			return nil, fail(arg, "pretense setting", ErrUnknownForm)
		}
		switch head {
		case "surface":
			s, err := surfaceArg(arg)
			if err != nil {
				return nil, err
			}
			phase.Surface = &s
		case "pretense-factor":
			f, err := numberArg(arg)
			if err != nil {
				return nil, err
			}
			if f <= 0 {
				return nil, fail(arg, "positive factor", ErrBadArgument)
			}
			phase.Factor = f
		case "muscle":
			args := arg.Args()
			if len(args) != 2 || !args[0].IsNumber() || args[1].Kind != KindInteger {
				return nil, fail(arg, "(muscle amplitude countdown)", ErrBadArgument)
			}
			if args[0].Number <= 0 || args[0].Number >= 1 || args[1].Number <= 0 || args[1].Number > maxCountdown {
				return nil, fail(arg, "amplitude in (0,1) and a positive countdown", ErrBadArgument)
			}
			phase.Muscle = &MusclePlan{Amplitude: args[0].Number, Countdown: int(args[1].Number)}
		default:
			return nil, fail(arg, "surface, pretense-factor or muscle", ErrUnknownForm)
		}
	}
	return phase, nil
}

func stringArg(form Expr) (string, error) {
	args := form.Args()
	if len(args) != 1 || args[0].Kind != KindString {
		return "", fail(form, "a quoted string", ErrBadArgument)
	}
	return args[0].Text, nil
}

func numberArg(form Expr) (float64, error) {
	args := form.Args()
	if len(args) != 1 || !args[0].IsNumber() || math.IsNaN(args[0].Number) {
		return 0, fail(form, "a number", ErrBadArgument)
	}
	return args[0].Number, nil
}

func surfaceArg(form Expr) (physics.Surface, error) {
	args := form.Args()
	if len(args) != 1 || args[0].Kind != KindAtom {
		return 0, fail(form, ":frozen, :bouncy, :sticky or :absent", ErrBadArgument)
	}
	s, err := physics.ParseSurface(args[0].Text)
	if err != nil {
		return 0, fail(args[0], ":frozen, :bouncy, :sticky or :absent", ErrBadArgument)
	}
	return s, nil
}

func faceArg(e Expr) (fabric.FaceName, error) {
	if e.Kind == KindIdent || e.Kind == KindAtom {
		if name, ok := fabric.ParseFaceName(e.Text); ok {
			return name, nil
		}
	}
	return 0, fail(e, "face name A+ through D-", ErrBadArgument)
}

func fail(e Expr, expected string, wrapped error) *Error {
	term := e.String()
	if len(term) > maxTermLength {
		term = term[:maxTermLength] + "..."
	}
	return &Error{Pos: e.Pos, Term: term, Expected: expected, Wrapped: wrapped}
}
