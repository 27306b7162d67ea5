package cloth

import (
	"math"
)

/// One Gauss-Seidel pass over the stretch constraints in creation order.
/// Returns the number of projections skipped for coincident particles.
func (cloth *PbdCloth) SolveStretch_PBD() int {
	skipped := 0

	for i := range cloth.M_stretchConstraints {
		if !cloth.projectStretch(&cloth.M_stretchConstraints[i]) {
			skipped++
		}
	}

	return skipped
}

func (cloth *PbdCloth) projectStretch(c *PbdStretchConstraint) bool {
	v1 := &cloth.M_vertices[c.I1]
	v2 := &cloth.M_vertices[c.I2]

	d := v1.PredictedPosition.Sub(v2.PredictedPosition)
	L := d.Len()

	if L < Pbd_stretchSlop {
		return false
	}

	n := d.Mul(1.0 / L)
	sum := v1.Weight + v2.Weight

	// Pinned particles still count in the denominator.
	corr := n.Mul(c.Stiffness * (L - c.RestLength) / sum)

	if !v1.IsFixed {
		v1.PredictedPosition = v1.PredictedPosition.Sub(corr.Mul(v1.Weight))
	}

	if !v2.IsFixed {
		v2.PredictedPosition = v2.PredictedPosition.Add(corr.Mul(v2.Weight))
	}

	return true
}

/// One Gauss-Seidel pass over the bend constraints in creation order using
/// the isometric bending gradient. Returns the number of projections skipped
/// because the hinge was degenerate or the gradient vanished.
func (cloth *PbdCloth) SolveBend_PBD_Isometric() int {
	skipped := 0

	for i := range cloth.M_bendConstraints {
		if !cloth.projectBend(&cloth.M_bendConstraints[i]) {
			skipped++
		}
	}

	return skipped
}

func (cloth *PbdCloth) projectBend(c *PbdBendConstraint) bool {
	v1 := &cloth.M_vertices[c.I1]
	v2 := &cloth.M_vertices[c.I2]
	v3 := &cloth.M_vertices[c.I3]
	v4 := &cloth.M_vertices[c.I4]

	p1 := v1.PredictedPosition
	p3 := v3.PredictedPosition
	p4 := v4.PredictedPosition

	h, ok := makePbdHinge(p1, v2.PredictedPosition, p3, p4)
	if !ok {
		return false
	}

	angle := math.Acos(h.D) - c.RestAngle

	e := h.E
	e3 := p3.Sub(p1)
	e4 := p4.Sub(p1)
	inv1 := 1.0 / h.L1
	inv2 := 1.0 / h.L2

	q3 := e.Cross(h.N2).Add(h.N1.Cross(e).Mul(h.D)).Mul(inv1)
	q4 := e.Cross(h.N1).Add(h.N2.Cross(e).Mul(h.D)).Mul(inv2)
	q2 := e3.Cross(h.N2).Add(h.N1.Cross(e3).Mul(h.D)).Mul(inv1).Mul(-1.0).
		Sub(e4.Cross(h.N1).Add(h.N2.Cross(e4).Mul(h.D)).Mul(inv2))
	q1 := q2.Add(q3).Add(q4).Mul(-1.0)

	sum := v1.Weight*q1.Dot(q1) + v2.Weight*q2.Dot(q2) + v3.Weight*q3.Dot(q3) + v4.Weight*q4.Dot(q4)
	if sum < Pbd_bendDenominatorSlop {
		return false
	}

	s := c.Stiffness * math.Sqrt(1.0-h.D*h.D) * angle / sum

	if !v1.IsFixed {
		v1.PredictedPosition = v1.PredictedPosition.Sub(q1.Mul(v1.Weight * s))
	}

	if !v2.IsFixed {
		v2.PredictedPosition = v2.PredictedPosition.Sub(q2.Mul(v2.Weight * s))
	}

	if !v3.IsFixed {
		v3.PredictedPosition = v3.PredictedPosition.Sub(q3.Mul(v3.Weight * s))
	}

	if !v4.IsFixed {
		v4.PredictedPosition = v4.PredictedPosition.Sub(q4.Mul(v4.Weight * s))
	}

	return true
}

/// Largest |length - rest length| over the stretch constraints, measured on
/// committed positions.
func (cloth PbdCloth) StretchResidual() float64 {
	worst := 0.0

	for _, c := range cloth.M_stretchConstraints {
		L := cloth.M_vertices[c.I1].Position.Sub(cloth.M_vertices[c.I2].Position).Len()
		worst = math.Max(worst, math.Abs(L-c.RestLength))
	}

	return worst
}

/// Largest |angle - rest angle| over the bend constraints whose hinge still
/// has two proper triangles, measured on committed positions.
func (cloth PbdCloth) BendResidual() float64 {
	worst := 0.0

	for _, c := range cloth.M_bendConstraints {
		angle, ok := PbdDihedralAngle(
			cloth.M_vertices[c.I1].Position,
			cloth.M_vertices[c.I2].Position,
			cloth.M_vertices[c.I3].Position,
			cloth.M_vertices[c.I4].Position,
		)
		if !ok {
			continue
		}
		worst = math.Max(worst, math.Abs(angle-c.RestAngle))
	}

	return worst
}
