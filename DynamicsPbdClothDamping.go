package cloth

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mass-weighted centre of mass and its velocity over every particle,
// fixed ones included.
func (cloth *PbdCloth) centerOfMass() (mgl64.Vec3, mgl64.Vec3, bool) {
	var xsum, vsum mgl64.Vec3
	msum := 0.0

	for i := range cloth.M_vertices {
		v := &cloth.M_vertices[i]
		xsum = xsum.Add(v.Position.Mul(v.Mass))
		vsum = vsum.Add(v.Velocity.Mul(v.Mass))
		msum += v.Mass
	}

	if msum == 0.0 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}

	return xsum.Mul(1.0 / msum), vsum.Mul(1.0 / msum), true
}

// Angular momentum and inertia tensor of the free particles about xcm.
func (cloth *PbdCloth) angularMomentum(xcm mgl64.Vec3) (mgl64.Vec3, mgl64.Mat3) {
	var L mgl64.Vec3
	var I mgl64.Mat3

	for i := range cloth.M_vertices {
		v := &cloth.M_vertices[i]
		if v.IsFixed {
			continue
		}

		r := v.Position.Sub(xcm)
		L = L.Add(r.Cross(v.Velocity.Mul(v.Mass)))

		rs := PbdSkew(r)
		I = I.Add(rs.Mul3(rs.Transpose()).Mul(v.Mass))
	}

	return L, I
}

/// Blend each free particle's velocity toward the rigid motion of the whole
/// cloth (translation of the centre of mass plus rotation about it).
/// Returns false, touching nothing, when the inertia tensor is singular.
/// The determinant of the tensor is returned either way.
func (cloth *PbdCloth) ApplyDamping() (bool, float64) {
	xcm, vcm, ok := cloth.centerOfMass()
	if !ok {
		return false, 0.0
	}

	L, I := cloth.angularMomentum(xcm)

	Iinv, det, ok := PbdInverse33(I)
	if !ok {
		return false, det
	}

	omega := Iinv.Mul3x1(L)
	k := cloth.M_tuning.DampingFactor

	for i := range cloth.M_vertices {
		v := &cloth.M_vertices[i]
		if v.IsFixed {
			continue
		}

		r := v.Position.Sub(xcm)
		goal := vcm.Add(omega.Cross(r))
		v.Velocity = v.Velocity.Sub(goal.Sub(v.Velocity).Mul(k))
	}

	return true, det
}
