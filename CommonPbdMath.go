package cloth

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Skew-symmetric cross product matrix of r, so that
/// PbdSkew(r).Mul3x1(v) == r.Cross(v).
func PbdSkew(r mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0.0, -r.Z(), r.Y()},
		mgl64.Vec3{r.Z(), 0.0, -r.X()},
		mgl64.Vec3{-r.Y(), r.X(), 0.0},
	)
}

/// Convert a vector into a unit vector. Returns the unit vector and the
/// original length. Vectors shorter than Pbd_degenerateArea map to zero.
func PbdNormalize(v mgl64.Vec3) (mgl64.Vec3, float64) {
	length := v.Len()
	if length < Pbd_degenerateArea {
		return mgl64.Vec3{}, length
	}

	return v.Mul(1.0 / length), length
}

/// Closed-form cofactor inverse of a 3-by-3 matrix. Reports false, with the
/// zero matrix, when |det| < Pbd_singularDeterminant.
func PbdInverse33(m mgl64.Mat3) (mgl64.Mat3, float64, bool) {
	det := m.Det()
	if math.Abs(det) < Pbd_singularDeterminant {
		return mgl64.Mat3{}, det, false
	}

	return m.Inv(), det, true
}

// pbdHinge holds the shared geometry of two triangles (p1,p2,p3) and
// (p1,p2,p4) hinged on the edge p1-p2.
type pbdHinge struct {
	E  mgl64.Vec3
	L1 float64
	L2 float64
	N1 mgl64.Vec3
	N2 mgl64.Vec3
	D  float64
}

func makePbdHinge(p1, p2, p3, p4 mgl64.Vec3) (pbdHinge, bool) {
	h := pbdHinge{}

	h.E = p2.Sub(p1)
	h.N1, h.L1 = PbdNormalize(h.E.Cross(p3.Sub(p1)))
	h.N2, h.L2 = PbdNormalize(h.E.Cross(p4.Sub(p1)))

	if h.L1 < Pbd_degenerateArea || h.L2 < Pbd_degenerateArea {
		return h, false
	}

	h.D = mgl64.Clamp(h.N1.Dot(h.N2), -1.0, 1.0)

	return h, true
}

/// Dihedral angle in [0, pi] between the normals of triangles (p1,p2,p3) and
/// (p1,p2,p4) sharing the hinge p1-p2. ok is false when either triangle has
/// zero area.
func PbdDihedralAngle(p1, p2, p3, p4 mgl64.Vec3) (angle float64, ok bool) {
	h, ok := makePbdHinge(p1, p2, p3, p4)
	if !ok {
		return 0.0, false
	}

	return math.Acos(h.D), true
}
