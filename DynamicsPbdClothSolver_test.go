package cloth_test

import (
	"math"
	"testing"

	cloth "github.com/Alexander-r/cloth.go"
	"github.com/go-gl/mathgl/mgl64"
)

func TestBendRestAnglesRoundTrip(t *testing.T) {
	def := cloth.MakePbdClothDef()
	def.EdgeCount = 4
	c := createCloth(t, def)

	for i, b := range c.GetBendConstraints() {
		angle, ok := cloth.PbdDihedralAngle(
			c.GetVertex(b.I1).Position,
			c.GetVertex(b.I2).Position,
			c.GetVertex(b.I3).Position,
			c.GetVertex(b.I4).Position,
		)
		if !ok {
			t.Fatalf("bend %d is degenerate", i)
		}
		if angle != b.RestAngle {
			t.Errorf("bend %d: angle %v, rest %v", i, angle, b.RestAngle)
		}
		if b.RestAngle < 0 || b.RestAngle > math.Pi {
			t.Errorf("bend %d: rest angle %v outside [0, pi]", i, b.RestAngle)
		}
	}

	if r := c.BendResidual(); r != 0 {
		t.Errorf("bend residual at rest = %v", r)
	}
	if r := c.StretchResidual(); r != 0 {
		t.Errorf("stretch residual at rest = %v", r)
	}
}

func TestFlatBendHasNoGradient(t *testing.T) {
	def := cloth.MakePbdClothDef()
	def.EdgeCount = 3
	c := createCloth(t, def)
	before := c.GetPositions(nil)

	skipped := c.SolveBend_PBD_Isometric()
	if skipped != len(c.GetBendConstraints()) {
		t.Errorf("skipped %d of %d flat bends", skipped, len(c.GetBendConstraints()))
	}

	for i := 0; i < c.GetVertexCount(); i++ {
		if c.GetVertex(i).PredictedPosition != before[i] {
			t.Fatalf("flat bend moved vertex %d", i)
		}
	}
}

func TestBendProjectionRestoresFold(t *testing.T) {
	c := cloth.MakePbdCloth()
	e1, _ := c.AddVertex(1, mgl64.Vec3{0, 0, 0}, true)
	e2, _ := c.AddVertex(1, mgl64.Vec3{1, 0, 0}, true)
	o1, _ := c.AddVertex(1, mgl64.Vec3{0.5, 0, 1}, false)
	o2, _ := c.AddVertex(1, mgl64.Vec3{0.5, 1, 0}, false)
	if _, err := c.AddBendConstraint(e1, e2, o1, o2, 1); err != nil {
		t.Fatalf("AddBendConstraint: %v", err)
	}

	rest := c.GetBendConstraints()[0].RestAngle
	if math.Abs(rest-math.Pi/2) > 1e-12 {
		t.Fatalf("rest angle %v, want pi/2", rest)
	}

	c.M_vertices[o2].PredictedPosition = mgl64.Vec3{0.5, 1, 0.3}

	deviation := func() float64 {
		angle, _ := cloth.PbdDihedralAngle(
			c.M_vertices[e1].PredictedPosition,
			c.M_vertices[e2].PredictedPosition,
			c.M_vertices[o1].PredictedPosition,
			c.M_vertices[o2].PredictedPosition,
		)
		return math.Abs(angle - rest)
	}

	prev := deviation()
	for pass := 0; pass < 5; pass++ {
		if skipped := c.SolveBend_PBD_Isometric(); skipped != 0 {
			t.Fatalf("pass %d skipped the bend", pass)
		}
		d := deviation()
		if d >= prev {
			t.Fatalf("pass %d: deviation %v, previous %v", pass, d, prev)
		}
		prev = d
	}

	if prev > 1e-3 {
		t.Errorf("deviation after 5 passes %v", prev)
	}
	if c.M_vertices[e1].PredictedPosition != (mgl64.Vec3{}) || c.M_vertices[e2].PredictedPosition != (mgl64.Vec3{1, 0, 0}) {
		t.Error("fixed hinge moved")
	}
}

func TestStretchProjectionWeights(t *testing.T) {
	tests := []struct {
		name      string
		fixedA    bool
		stiffness float64
		wantA     mgl64.Vec3
		wantB     mgl64.Vec3
	}{
		// Pinned particles keep their weight in the denominator, so the free
		// end only moves half the error.
		{"one end pinned", true, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1.5, 0, 0}},
		{"both free", false, 1, mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{1.5, 0, 0}},
		{"soft", false, 0.5, mgl64.Vec3{0.25, 0, 0}, mgl64.Vec3{1.75, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cloth.MakePbdCloth()
			a, _ := c.AddVertex(1, mgl64.Vec3{0, 0, 0}, tt.fixedA)
			b, _ := c.AddVertex(1, mgl64.Vec3{1, 0, 0}, false)
			if _, err := c.AddStretchConstraint(a, b, tt.stiffness); err != nil {
				t.Fatalf("AddStretchConstraint: %v", err)
			}
			c.M_vertices[b].PredictedPosition = mgl64.Vec3{2, 0, 0}

			if skipped := c.SolveStretch_PBD(); skipped != 0 {
				t.Fatalf("projection skipped")
			}

			if got := c.M_vertices[a].PredictedPosition; !vecNear(got, tt.wantA, 1e-15) {
				t.Errorf("a = %v, want %v", got, tt.wantA)
			}
			if got := c.M_vertices[b].PredictedPosition; !vecNear(got, tt.wantB, 1e-15) {
				t.Errorf("b = %v, want %v", got, tt.wantB)
			}
		})
	}
}

func TestStretchOrderIsGaussSeidel(t *testing.T) {
	// A chain pinned at one end: the second constraint must see the first
	// one's correction within the same pass.
	c := cloth.MakePbdCloth()
	a, _ := c.AddVertex(1, mgl64.Vec3{0, 0, 0}, true)
	b, _ := c.AddVertex(1, mgl64.Vec3{1, 0, 0}, false)
	d, _ := c.AddVertex(1, mgl64.Vec3{2, 0, 0}, false)
	c.AddStretchConstraint(a, b, 1)
	c.AddStretchConstraint(b, d, 1)

	c.M_vertices[b].PredictedPosition = mgl64.Vec3{2, 0, 0}
	c.M_vertices[d].PredictedPosition = mgl64.Vec3{3, 0, 0}

	c.SolveStretch_PBD()

	// a-b: b moves from 2 to 1.5. b-d: separation 1.5, each moves 0.25.
	if got := c.M_vertices[b].PredictedPosition; !vecNear(got, mgl64.Vec3{1.75, 0, 0}, 1e-15) {
		t.Errorf("b = %v", got)
	}
	if got := c.M_vertices[d].PredictedPosition; !vecNear(got, mgl64.Vec3{2.75, 0, 0}, 1e-15) {
		t.Errorf("d = %v", got)
	}
}

func TestCollapsedHingeIsSkipped(t *testing.T) {
	c := cloth.MakePbdCloth()
	e1, _ := c.AddVertex(1, mgl64.Vec3{0, 0, 0}, false)
	e2, _ := c.AddVertex(1, mgl64.Vec3{1, 0, 0}, false)
	o1, _ := c.AddVertex(1, mgl64.Vec3{0.5, 0, 1}, false)
	o2, _ := c.AddVertex(1, mgl64.Vec3{0.5, 1, 0}, false)
	if _, err := c.AddBendConstraint(e1, e2, o1, o2, 1); err != nil {
		t.Fatalf("AddBendConstraint: %v", err)
	}

	// Apex on the hinge line: the second triangle has no normal.
	c.M_vertices[o2].PredictedPosition = mgl64.Vec3{0.25, 0, 0}
	before := make([]mgl64.Vec3, c.GetVertexCount())
	for i := range before {
		before[i] = c.M_vertices[i].PredictedPosition
	}

	if skipped := c.SolveBend_PBD_Isometric(); skipped != 1 {
		t.Fatalf("skipped %d bends, want 1", skipped)
	}

	for i := range before {
		p := c.M_vertices[i].PredictedPosition
		if math.IsNaN(p.X()) || math.IsNaN(p.Y()) || math.IsNaN(p.Z()) {
			t.Fatalf("vertex %d became NaN", i)
		}
		if p != before[i] {
			t.Errorf("skipped bend moved vertex %d from %v to %v", i, before[i], p)
		}
	}

	// The same collapse inside a full tick is counted in the report.
	c.M_vertices[o2].Position = mgl64.Vec3{0.25, 0, 0}
	report, err := c.Step(0.016)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if report.SkippedBend != c.GetTuning().Iterations {
		t.Errorf("SkippedBend = %d, want %d", report.SkippedBend, c.GetTuning().Iterations)
	}
}
