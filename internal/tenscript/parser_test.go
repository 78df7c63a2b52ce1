package tenscript_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/physics"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

const halo = `
(fabric
  (build (seed :left)
         (grow A+ 5 (scale 92%)
            (branch (grow B- 12 (branch (mark A+ :halo-end)))
                    (grow D- 11 (branch (mark A+ :halo-end))))))
  (shape (pull-together :halo-end)
         (vulcanize :bow-tie)))
`

var _ = Describe("ParsePlan", func() {
	It("reads a growth tree with shaping", func() {
		plan, err := tenscript.ParsePlan(halo)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Build.Seed).To(Equal(tenscript.Seed{Spin: fabric.Left}))

		root, ok := plan.Build.Root.(tenscript.FaceNode)
		Expect(ok).To(BeTrue())
		Expect(root.Name).To(Equal(fabric.APos))
		grow, ok := root.Node.(tenscript.GrowNode)
		Expect(ok).To(BeTrue())
		Expect(grow.Forward).To(Equal("XXXXX"))
		Expect(grow.Scale).To(Equal(0.92))

		branch, ok := grow.Node.(tenscript.BranchNode)
		Expect(ok).To(BeTrue())
		Expect(branch.Faces).To(HaveLen(2))
		arm := branch.Faces[1].(tenscript.FaceNode)
		Expect(arm.Name).To(Equal(fabric.DNeg))
		Expect(arm.Node.(tenscript.GrowNode).Forward).To(HaveLen(11))

		Expect(plan.Shape).To(Equal([]tenscript.ShapeOperation{
			tenscript.Join{Mark: "halo-end"},
			tenscript.Vulcanize{},
		}))
		Expect(plan.NeedsShaping()).To(BeTrue())
		Expect(plan.Pretense).To(BeNil())
	})

	It("treats a brick count as a string of flips", func() {
		counted, err := tenscript.ParsePlan(`(fabric (build (seed :right) (grow 3)))`)
		Expect(err).NotTo(HaveOccurred())
		spelled, err := tenscript.ParsePlan(`(fabric (build (seed :right) (grow "XXX")))`)
		Expect(err).NotTo(HaveOccurred())
		Expect(counted).To(Equal(spelled))
	})

	It("accepts an empty shape section", func() {
		plan, err := tenscript.ParsePlan(`(fabric (build (seed :left) (grow A+ 3)) (shape))`)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.NeedsShaping()).To(BeFalse())
	})

	It("reads omni seeds with down faces", func() {
		plan, err := tenscript.ParsePlan(`(fabric (build (seed :right-left (down :A- B+))))`)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Build.Seed.Omni).To(BeTrue())
		Expect(plan.Build.Seed.Spin).To(Equal(fabric.Right))
		Expect(plan.Build.Seed.Down).To(Equal([]fabric.FaceName{fabric.ANeg, fabric.BPos}))
		Expect(plan.Build.Root).To(BeNil())
	})

	It("reads nested shape operations", func() {
		plan, err := tenscript.ParsePlan(`
			(fabric
			  (build (seed :left))
			  (shape
			    (countdown 3000 (space :a 50%) (join :b))
			    (remove-shapers :a)
			    (replace-faces)
			    (set-viscosity 40.5)))`)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Shape).To(Equal([]tenscript.ShapeOperation{
			tenscript.Countdown{Count: 3000, Operations: []tenscript.ShapeOperation{
				tenscript.Distance{Mark: "a", Factor: 0.5},
				tenscript.Join{Mark: "b"},
			}},
			tenscript.RemoveShapers{Marks: []string{"a"}},
			tenscript.ReplaceFaces{},
			tenscript.SetViscosity{Viscosity: 40.5},
		}))
	})

	It("resolves pretense settings", func() {
		plan, err := tenscript.ParsePlan(`
			(fabric
			  (surface :sticky)
			  (build (seed :left))
			  (pretense (pretense-factor 1.1) (muscle 0.25 4000)))`)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.PretenseSurface()).To(Equal(physics.Sticky))
		Expect(plan.PretenseFactor()).To(Equal(1.1))
		Expect(plan.Pretense.Muscle).To(Equal(&tenscript.MusclePlan{Amplitude: 0.25, Countdown: 4000}))

		plain, err := tenscript.ParsePlan(`(fabric (build (seed :left)))`)
		Expect(err).NotTo(HaveOccurred())
		Expect(plain.PretenseSurface()).To(Equal(physics.Frozen))
		Expect(plain.PretenseFactor()).To(Equal(tenscript.DefaultPretenseFactor))
	})

	DescribeTable("rejects malformed plans",
		func(source string, sentinel error, pos tenscript.Pos) {
			_, err := tenscript.ParsePlan(source)
			Expect(err).To(MatchError(sentinel))
			var perr *tenscript.Error
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Pos).To(Equal(pos))
			Expect(perr.Term).NotTo(BeEmpty())
		},
		Entry("not a fabric", `(plan)`, tenscript.ErrUnknownForm, tenscript.Pos{Line: 1, Col: 1}),
		Entry("unknown section", "(fabric\n  (bogus))", tenscript.ErrUnknownForm, tenscript.Pos{Line: 2, Col: 3}),
		Entry("bad seed", `(fabric (build (seed :up)))`, tenscript.ErrBadArgument, tenscript.Pos{Line: 1, Col: 22}),
		Entry("bad face", `(fabric (build (face :E+ (mark :x))))`, tenscript.ErrBadArgument, tenscript.Pos{Line: 1, Col: 22}),
		Entry("bad forward", `(fabric (build (grow "XYZ")))`, tenscript.ErrBadArgument, tenscript.Pos{Line: 1, Col: 22}),
		Entry("two roots", `(fabric (build (grow 1) (grow 2)))`, tenscript.ErrDuplicate, tenscript.Pos{Line: 1, Col: 25}),
		Entry("duplicate section", `(fabric (shape) (shape))`, tenscript.ErrDuplicate, tenscript.Pos{Line: 1, Col: 17}),
		Entry("unknown operation", `(fabric (shape (twirl :x)))`, tenscript.ErrUnknownForm, tenscript.Pos{Line: 1, Col: 16}),
		Entry("unclosed", `(fabric (build)`, tenscript.ErrUnbalanced, tenscript.Pos{Line: 1, Col: 1}),
		Entry("huge grow count", `(fabric (build (grow A+ 99999999999999999999)))`, tenscript.ErrBadArgument, tenscript.Pos{Line: 1, Col: 25}),
		Entry("too many bricks", `(fabric (build (grow 1001)))`, tenscript.ErrBadArgument, tenscript.Pos{Line: 1, Col: 22}),
		Entry("huge countdown", `(fabric (shape (countdown 9999999999999 (vulcanize))))`, tenscript.ErrBadArgument, tenscript.Pos{Line: 1, Col: 16}),
		Entry("huge muscle countdown", `(fabric (pretense (muscle 0.2 99999999999)))`, tenscript.ErrBadArgument, tenscript.Pos{Line: 1, Col: 19}),
		Entry("muscle amplitude", `(fabric (pretense (muscle 2 100)))`, tenscript.ErrBadArgument, tenscript.Pos{Line: 1, Col: 19}),
	)
})

var _ = Describe("Library", func() {
	var library *tenscript.Library

	BeforeEach(func() {
		var err error
		library, err = tenscript.Bootstrap()
		Expect(err).NotTo(HaveOccurred())
	})

	It("holds the built-in plans", func() {
		Expect(library.Names()).To(ConsistOf(
			"Flagellum", "Halo by Crane", "Headless Hug", "Knee", "Seed", "Tower", "Zig Zag",
		))
	})

	It("finds plans by slug", func() {
		plan, err := library.Plan("halo-by-crane")
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Name).To(Equal("Halo by Crane"))
		Expect(plan.Shape).To(ContainElement(tenscript.Join{Mark: "halo-end"}))
	})

	It("reports unknown plans", func() {
		_, err := library.Plan("missing")
		Expect(err).To(MatchError(tenscript.ErrPlanNotFound))
	})

	It("keeps a source that parses back to the same plan", func() {
		for _, name := range library.Names() {
			source, ok := library.Source(name)
			Expect(ok).To(BeTrue())
			again, err := tenscript.ParsePlan(source)
			Expect(err).NotTo(HaveOccurred())
			plan, _ := library.Plan(name)
			Expect(again).To(Equal(plan), name)
		}
	})

	It("loads and overrides plans from a directory", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "mine.tenscript"), []byte(`
			(fabric (name "Seed") (build (seed :right)))
			(fabric (name "Stub") (build (seed :left) (grow 2)))
		`), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644)).To(Succeed())

		count, err := library.LoadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(2))
		Expect(library.Len()).To(Equal(8))
		seed, err := library.Plan("seed")
		Expect(err).NotTo(HaveOccurred())
		Expect(seed.Build.Seed.Omni).To(BeFalse())
	})

	It("rejects unnamed plans", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "bad.tenscript"), []byte(`(fabric (build))`), 0o644)).To(Succeed())
		_, err := library.LoadDir(dir)
		Expect(err).To(MatchError(tenscript.ErrBadArgument))
	})
})
