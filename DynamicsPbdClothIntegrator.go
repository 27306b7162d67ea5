package cloth

import (
	"github.com/go-gl/mathgl/mgl64"
)

/// Accelerate every free particle by gravity plus wind over dt.
func (cloth *PbdCloth) ApplyExternalForces(dt float64) {
	PbdAssert(dt > 0.0)

	accel := cloth.M_gravity.Add(cloth.M_wind)

	for i := range cloth.M_vertices {
		v := &cloth.M_vertices[i]
		if v.IsFixed {
			continue
		}
		v.Velocity = v.Velocity.Add(accel.Mul(dt))
	}
}

/// Semi-implicit Euler prediction. Fixed particles keep their position.
func (cloth *PbdCloth) PredictPositions(dt float64) {
	PbdAssert(dt > 0.0)

	for i := range cloth.M_vertices {
		v := &cloth.M_vertices[i]
		if v.IsFixed {
			continue
		}
		v.PredictedPosition = v.Position.Add(v.Velocity.Mul(dt))
	}
}

/// Re-derive velocity from the constrained displacement and make the
/// prediction the new position. The displacement is divided by dt rather
/// than scaled by 1/dt so that velocity == (new - old) / dt holds exactly.
func (cloth *PbdCloth) CommitPositions(dt float64) {
	PbdAssert(dt > 0.0)

	for i := range cloth.M_vertices {
		v := &cloth.M_vertices[i]
		if v.IsFixed {
			continue
		}
		d := v.PredictedPosition.Sub(v.Position)
		v.Velocity = mgl64.Vec3{d[0] / dt, d[1] / dt, d[2] / dt}
		v.Position = v.PredictedPosition
	}
}
