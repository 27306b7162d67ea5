package cloth

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

/// Decides whether grid vertex (i, j) is pinned in place.
type PbdPinPredicate func(i, j, edgeCount int) bool

/// Pins the two corners (0,0) and (0,edgeCount-1), hanging the cloth from one edge.
func PbdPinCorners(i, j, edgeCount int) bool {
	return i == 0 && (j == 0 || j == edgeCount-1)
}

/// Pins the whole i = 0 edge.
func PbdPinRow(i, j, edgeCount int) bool {
	return i == 0
}

func PbdPinNone(i, j, edgeCount int) bool {
	return false
}

/// Cloth definition. Vertex (i, j) of the square grid is created at
/// Origin + (i, 0, j) and stored at index i*EdgeCount + j.
type PbdClothDef struct {
	EdgeCount int
	Mass      float64
	Origin    mgl64.Vec3
	Gravity   float64
	Wind      mgl64.Vec3
	Pinned    PbdPinPredicate
	Tuning    PbdClothTuning
}

func MakePbdClothDef() PbdClothDef {
	res := PbdClothDef{}

	res.EdgeCount = Pbd_defaultEdgeCount
	res.Mass = Pbd_defaultMass
	res.Origin = mgl64.Vec3{}
	res.Gravity = Pbd_defaultGravity
	res.Wind = mgl64.Vec3{}
	res.Pinned = PbdPinCorners
	res.Tuning = MakePbdClothTuning()

	return res
}

func (def *PbdClothDef) Validate() error {
	if def.EdgeCount <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "edge count must be positive, got %d", def.EdgeCount)
	}

	if err := validateMass(def.Mass); err != nil {
		return err
	}

	if !isFinite(def.Gravity) {
		return errors.Wrapf(ErrInvalidConfig, "gravity must be finite, got %v", def.Gravity)
	}

	for _, f := range []float64{def.Wind.X(), def.Wind.Y(), def.Wind.Z(), def.Origin.X(), def.Origin.Y(), def.Origin.Z()} {
		if !isFinite(f) {
			return errors.Wrapf(ErrInvalidConfig, "wind and origin must be finite, got %v and %v", def.Wind, def.Origin)
		}
	}

	return def.Tuning.Validate()
}

/// Build the grid described by def. On error the cloth is left unchanged.
/// A listener already set on the cloth is kept.
func (cloth *PbdCloth) Create(def *PbdClothDef) error {
	if err := def.Validate(); err != nil {
		return err
	}

	built := MakePbdCloth()
	built.M_edgeCount = def.EdgeCount
	built.M_gravity = mgl64.Vec3{0.0, def.Gravity, 0.0}
	built.M_wind = def.Wind
	built.M_tuning = def.Tuning
	built.M_listener = cloth.M_listener

	pinned := def.Pinned
	if pinned == nil {
		pinned = PbdPinCorners
	}

	if err := built.createVertices(def.EdgeCount, def.Mass, def.Origin, pinned); err != nil {
		return err
	}

	if err := built.createStretchConstraints(); err != nil {
		return err
	}

	if err := built.createBendConstraints(); err != nil {
		return err
	}

	*cloth = built

	return nil
}

func (cloth *PbdCloth) createVertices(edgeCount int, mass float64, origin mgl64.Vec3, pinned PbdPinPredicate) error {
	cloth.M_vertices = make([]PbdVertex, 0, edgeCount*edgeCount)
	cloth.M_bindPositions = make([]mgl64.Vec3, 0, edgeCount*edgeCount)

	for i := 0; i < edgeCount; i++ {
		for j := 0; j < edgeCount; j++ {
			p := origin.Add(mgl64.Vec3{float64(i), 0.0, float64(j)})
			if _, err := cloth.AddVertex(mass, p, pinned(i, j, edgeCount)); err != nil {
				return err
			}
		}
	}

	return nil
}

// Horizontal, vertical and diagonal neighbours, in row-major order.
func (cloth *PbdCloth) createStretchConstraints() error {
	n := cloth.M_edgeCount
	stiffness := cloth.M_tuning.StretchStiffness

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			current := i*n + j

			if j < n-1 {
				if _, err := cloth.AddStretchConstraint(current, i*n+(j+1), stiffness); err != nil {
					return err
				}
			}

			if i < n-1 {
				if _, err := cloth.AddStretchConstraint(current, (i+1)*n+j, stiffness); err != nil {
					return err
				}
			}

			if i < n-1 && j < n-1 {
				if _, err := cloth.AddStretchConstraint(current, (i+1)*n+(j+1), stiffness); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// One hinge on the diagonal of every quad, plus hinges spanning two quads
// along each axis where the grid is wide enough.
func (cloth *PbdCloth) createBendConstraints() error {
	n := cloth.M_edgeCount
	stiffness := cloth.M_tuning.BendStiffness

	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			v0 := i*n + j
			v1 := (i+1)*n + j
			v2 := (i+1)*n + (j + 1)
			v3 := i*n + (j + 1)

			if _, err := cloth.AddBendConstraint(v0, v2, v1, v3, stiffness); err != nil {
				return err
			}

			if i < n-2 {
				if _, err := cloth.AddBendConstraint(v1, v2, v0, (i+2)*n+j, stiffness); err != nil {
					return err
				}
			}

			if j < n-2 {
				if _, err := cloth.AddBendConstraint(v3, v2, v0, i*n+(j+2), stiffness); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

/// Append a particle at rest and return its index.
func (cloth *PbdCloth) AddVertex(mass float64, position mgl64.Vec3, isFixed bool) (int, error) {
	if err := validateMass(mass); err != nil {
		return -1, err
	}

	if !isFinite(position.X()) || !isFinite(position.Y()) || !isFinite(position.Z()) {
		return -1, errors.Wrapf(ErrInvalidConfig, "position must be finite, got %v", position)
	}

	cloth.M_vertices = append(cloth.M_vertices, MakePbdVertex(mass, position, isFixed))
	cloth.M_bindPositions = append(cloth.M_bindPositions, position)

	return len(cloth.M_vertices) - 1, nil
}

func (cloth *PbdCloth) checkIndices(indices ...int) error {
	for _, index := range indices {
		if index < 0 || index >= len(cloth.M_vertices) {
			return errors.Wrapf(ErrVertexIndex, "index %d, vertex count %d", index, len(cloth.M_vertices))
		}
	}
	return nil
}

/// Constrain particles i1 and i2 to their current separation.
func (cloth *PbdCloth) AddStretchConstraint(i1, i2 int, stiffness float64) (int, error) {
	if err := cloth.checkIndices(i1, i2); err != nil {
		return -1, err
	}

	if err := validateStiffness("stretch", stiffness); err != nil {
		return -1, err
	}

	c := PbdStretchConstraint{}
	c.I1 = i1
	c.I2 = i2
	c.RestLength = cloth.M_vertices[i1].Position.Sub(cloth.M_vertices[i2].Position).Len()
	c.Stiffness = stiffness

	if c.RestLength < Pbd_stretchSlop {
		return -1, errors.Wrapf(ErrDegenerateConstraint, "stretch %d-%d has zero rest length", i1, i2)
	}

	cloth.M_stretchConstraints = append(cloth.M_stretchConstraints, c)

	return len(cloth.M_stretchConstraints) - 1, nil
}

/// Constrain the fold angle over the hinge e1-e2 with apexes o1 and o2 to
/// its current value.
func (cloth *PbdCloth) AddBendConstraint(e1, e2, o1, o2 int, stiffness float64) (int, error) {
	if err := cloth.checkIndices(e1, e2, o1, o2); err != nil {
		return -1, err
	}

	if err := validateStiffness("bend", stiffness); err != nil {
		return -1, err
	}

	angle, ok := PbdDihedralAngle(
		cloth.M_vertices[e1].Position,
		cloth.M_vertices[e2].Position,
		cloth.M_vertices[o1].Position,
		cloth.M_vertices[o2].Position,
	)
	if !ok {
		return -1, errors.Wrapf(ErrDegenerateConstraint, "bend %d-%d/%d/%d has a zero-area triangle", e1, e2, o1, o2)
	}

	c := PbdBendConstraint{}
	c.I1 = e1
	c.I2 = e2
	c.I3 = o1
	c.I4 = o2
	c.RestAngle = angle
	c.Stiffness = stiffness

	cloth.M_bendConstraints = append(cloth.M_bendConstraints, c)

	return len(cloth.M_bendConstraints) - 1, nil
}
