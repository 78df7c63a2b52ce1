package tenscript

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension marks plan files in a library directory.
const Extension = ".tenscript"

// ErrPlanNotFound indicates a name with no plan in the library.
var ErrPlanNotFound = errors.New("tenscript: plan not found")

//go:embed plans/*.tenscript
var bootstrapPlans embed.FS

type entry struct {
	plan   *FabricPlan
	source string
	origin string
}

// Library holds named fabric plans. Names match case-insensitively and
// with spaces or dashes interchangeable, so "Halo by Crane" is also
// "halo-by-crane".
type Library struct {
	entries map[string]entry
}

func NewLibrary() *Library {
	return &Library{entries: make(map[string]entry)}
}

// Bootstrap returns a library holding the built-in plans.
func Bootstrap() (*Library, error) {
	l := NewLibrary()
	if _, err := l.loadFS(bootstrapPlans, "plans"); err != nil {
		return nil, err
	}
	return l, nil
}

// Key normalizes a plan name for lookup.
func Key(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// AddSource parses every (fabric ...) form in source and adds the plans.
// Each plan needs a name. A plan replaces any earlier plan of the same name.
func (l *Library) AddSource(source, origin string) ([]*FabricPlan, error) {
	exprs, err := ParseAll(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", origin, err)
	}
	var plans []*FabricPlan
	for _, expr := range exprs {
		plan, err := PlanFromExpr(expr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", origin, err)
		}
		if plan.Name == "" {
			return nil, fmt.Errorf("%s: %w", origin, fail(expr, "(name \"...\")", ErrBadArgument))
		}
		plans = append(plans, plan)
	}
	for i, plan := range plans {
		l.entries[Key(plan.Name)] = entry{plan: plan, source: exprs[i].String(), origin: origin}
	}
	return plans, nil
}

// LoadDir adds every plan file in dir and reports how many plans it read.
func (l *Library) LoadDir(dir string) (int, error) {
	return l.loadFS(os.DirFS(dir), ".")
}

func (l *Library) loadFS(fsys fs.FS, dir string) (int, error) {
	files, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "*"+Extension)))
	if err != nil {
		return 0, err
	}
	sort.Strings(files)
	count := 0
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return count, err
		}
		plans, err := l.AddSource(string(data), file)
		if err != nil {
			return count, err
		}
		count += len(plans)
	}
	return count, nil
}

// Plan returns a plan by name.
func (l *Library) Plan(name string) (*FabricPlan, error) {
	e, ok := l.entries[Key(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlanNotFound, name)
	}
	return e.plan, nil
}

// Source returns the canonical s-expression text of a plan.
func (l *Library) Source(name string) (string, bool) {
	e, ok := l.entries[Key(name)]
	return e.source, ok
}

// Names lists the plan names in alphabetical order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		names = append(names, e.plan.Name)
	}
	sort.Strings(names)
	return names
}

func (l *Library) Len() int { return len(l.entries) }
