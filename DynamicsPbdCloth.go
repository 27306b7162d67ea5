package cloth

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

/// A simulated particle. Weight is the cached inverse mass.
type PbdVertex struct {
	Mass              float64
	Weight            float64
	Position          mgl64.Vec3
	PredictedPosition mgl64.Vec3
	Velocity          mgl64.Vec3
	IsFixed           bool
}

func MakePbdVertex(mass float64, position mgl64.Vec3, isFixed bool) PbdVertex {
	res := PbdVertex{}

	res.Mass = mass
	res.Weight = 1.0 / mass
	res.Position = position
	res.PredictedPosition = position
	res.Velocity = mgl64.Vec3{}
	res.IsFixed = isFixed

	return res
}

/// Distance constraint between two particles.
type PbdStretchConstraint struct {
	I1         int
	I2         int
	RestLength float64
	Stiffness  float64
}

/// Dihedral constraint over the hinge I1-I2 with apexes I3 and I4.
type PbdBendConstraint struct {
	I1        int
	I2        int
	I3        int
	I4        int
	RestAngle float64
	Stiffness float64
}

///
type PbdClothTuning struct {
	DampingFactor    float64
	Iterations       int
	StretchStiffness float64
	BendStiffness    float64
}

func MakePbdClothTuning() PbdClothTuning {
	res := PbdClothTuning{}

	res.DampingFactor = Pbd_defaultDampingFactor
	res.Iterations = Pbd_defaultIterations
	res.StretchStiffness = Pbd_defaultStretchStiffness
	res.BendStiffness = Pbd_defaultBendStiffness

	return res
}

func (tuning PbdClothTuning) Validate() error {
	if !isFinite(tuning.DampingFactor) || tuning.DampingFactor < 0.0 || tuning.DampingFactor > 1.0 {
		return errors.Wrapf(ErrInvalidConfig, "damping factor must be in [0,1], got %v", tuning.DampingFactor)
	}

	if tuning.Iterations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "iterations must not be negative, got %d", tuning.Iterations)
	}

	if err := validateStiffness("stretch", tuning.StretchStiffness); err != nil {
		return err
	}

	return validateStiffness("bend", tuning.BendStiffness)
}

/// A cloth owns one contiguous vertex arena and two constraint lists that
/// address it by index. It is not safe for concurrent use.
type PbdCloth struct {
	M_edgeCount int

	M_vertices      []PbdVertex
	M_bindPositions []mgl64.Vec3

	M_stretchConstraints []PbdStretchConstraint
	M_bendConstraints    []PbdBendConstraint

	M_gravity mgl64.Vec3
	M_wind    mgl64.Vec3

	M_tuning   PbdClothTuning
	M_listener PbdClothListenerInterface
}

func MakePbdCloth() PbdCloth {
	res := PbdCloth{}

	res.M_edgeCount = 0
	res.M_vertices = nil
	res.M_bindPositions = nil
	res.M_stretchConstraints = nil
	res.M_bendConstraints = nil
	res.M_gravity = mgl64.Vec3{}
	res.M_wind = mgl64.Vec3{}
	res.M_tuning = MakePbdClothTuning()
	res.M_listener = nil

	return res
}

func (cloth *PbdCloth) Destroy() {
	cloth.M_vertices = nil
	cloth.M_bindPositions = nil
	cloth.M_stretchConstraints = nil
	cloth.M_bendConstraints = nil
}

/// Grid edge length the cloth was created with, 0 for hand-built cloths.
func (cloth PbdCloth) GetEdgeCount() int {
	return cloth.M_edgeCount
}

func (cloth PbdCloth) GetVertexCount() int {
	return len(cloth.M_vertices)
}

/// Value copy of vertex i.
func (cloth PbdCloth) GetVertex(i int) PbdVertex {
	return cloth.M_vertices[i]
}

/// Append the committed position of every vertex to dst[:0], in arena order.
func (cloth PbdCloth) GetPositions(dst []mgl64.Vec3) []mgl64.Vec3 {
	dst = dst[:0]
	for i := range cloth.M_vertices {
		dst = append(dst, cloth.M_vertices[i].Position)
	}
	return dst
}

/// The returned slice aliases the cloth and must be treated as read-only.
func (cloth PbdCloth) GetStretchConstraints() []PbdStretchConstraint {
	return cloth.M_stretchConstraints
}

/// The returned slice aliases the cloth and must be treated as read-only.
func (cloth PbdCloth) GetBendConstraints() []PbdBendConstraint {
	return cloth.M_bendConstraints
}

func (cloth PbdCloth) GetTuning() PbdClothTuning {
	return cloth.M_tuning
}

func (cloth PbdCloth) GetGravity() mgl64.Vec3 {
	return cloth.M_gravity
}

func (cloth PbdCloth) GetWind() mgl64.Vec3 {
	return cloth.M_wind
}

func (cloth *PbdCloth) SetListener(listener PbdClothListenerInterface) {
	cloth.M_listener = listener
}

/// Set the downward acceleration (the y component of gravity).
func (cloth *PbdCloth) SetGravity(gravity float64) error {
	if !isFinite(gravity) {
		return errors.Wrapf(ErrInvalidConfig, "gravity must be finite, got %v", gravity)
	}
	cloth.M_gravity = mgl64.Vec3{0.0, gravity, 0.0}
	return nil
}

func (cloth *PbdCloth) SetWind(wind mgl64.Vec3) error {
	if !isFinite(wind.X()) || !isFinite(wind.Y()) || !isFinite(wind.Z()) {
		return errors.Wrapf(ErrInvalidConfig, "wind must be finite, got %v", wind)
	}
	cloth.M_wind = wind
	return nil
}

/// Replace the tuning. Every existing constraint takes the new stretch or
/// bend stiffness.
func (cloth *PbdCloth) SetTuning(tuning PbdClothTuning) error {
	if err := tuning.Validate(); err != nil {
		return err
	}

	cloth.M_tuning = tuning

	for i := range cloth.M_stretchConstraints {
		cloth.M_stretchConstraints[i].Stiffness = tuning.StretchStiffness
	}

	for i := range cloth.M_bendConstraints {
		cloth.M_bendConstraints[i].Stiffness = tuning.BendStiffness
	}

	return nil
}

/// Advance the cloth by dt seconds.
func (cloth *PbdCloth) Step(dt float64) (PbdStepReport, error) {
	report := MakePbdStepReport()

	if err := validateTimeStep(dt); err != nil {
		return report, err
	}

	cloth.ApplyExternalForces(dt)

	report.DampingApplied, report.InertiaDeterminant = cloth.ApplyDamping()
	if !report.DampingApplied && cloth.M_listener != nil {
		cloth.M_listener.DampingSkipped(report.InertiaDeterminant)
	}

	cloth.PredictPositions(dt)

	// Solve constraints
	for i := 0; i < cloth.M_tuning.Iterations; i++ {
		report.SkippedStretch += cloth.SolveStretch_PBD()
		report.SkippedBend += cloth.SolveBend_PBD_Isometric()
	}

	cloth.CommitPositions(dt)

	if report.SkippedStretch > 0 && cloth.M_listener != nil {
		cloth.M_listener.StretchSkipped(report.SkippedStretch)
	}

	return report, nil
}

/// Put every vertex back at the position it was created at, at rest.
func (cloth *PbdCloth) Reset() {
	for i := range cloth.M_vertices {
		v := &cloth.M_vertices[i]
		v.Position = cloth.M_bindPositions[i]
		v.PredictedPosition = cloth.M_bindPositions[i]
		v.Velocity = mgl64.Vec3{}
	}
}
