package cloth

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrInvalidConfig        = errors.New("cloth: invalid configuration")
	ErrInvalidTimeStep      = errors.New("cloth: invalid time step")
	ErrVertexIndex          = errors.New("cloth: vertex index out of range")
	ErrDegenerateConstraint = errors.New("cloth: degenerate constraint")
)

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validateMass(mass float64) error {
	if !isFinite(mass) || mass <= 0.0 {
		return errors.Wrapf(ErrInvalidConfig, "mass must be positive, got %v", mass)
	}
	return nil
}

func validateStiffness(name string, stiffness float64) error {
	if !isFinite(stiffness) || stiffness <= 0.0 || stiffness > 1.0 {
		return errors.Wrapf(ErrInvalidConfig, "%s stiffness must be in (0,1], got %v", name, stiffness)
	}
	return nil
}

func validateTimeStep(dt float64) error {
	if !isFinite(dt) || dt <= 0.0 {
		return errors.Wrapf(ErrInvalidTimeStep, "dt must be positive, got %v", dt)
	}
	return nil
}
