package cloth

// @file
// Settings that can be overriden for your application
//

// Tunable Constants

// Inertia tensors whose determinant magnitude falls below this are treated as
// singular. The damping pass is skipped for that tick.
const Pbd_singularDeterminant = 1e-8

// Bend projections whose weighted gradient sum falls below this are skipped.
const Pbd_bendDenominatorSlop = 1e-6

// Stretch projections between particles closer than this are skipped.
const Pbd_stretchSlop = 1e-9

// A hinge triangle whose edge cross product is shorter than this has no
// usable normal.
const Pbd_degenerateArea = 1e-12

// Default grid used by MakePbdClothDef.
const Pbd_defaultEdgeCount = 5
const Pbd_defaultMass = 1.0
const Pbd_defaultGravity = -9.81
const Pbd_defaultDampingFactor = 0.01
const Pbd_defaultIterations = 8
const Pbd_defaultStretchStiffness = 1.0
const Pbd_defaultBendStiffness = 0.5

func PbdAssert(a bool) {
	if !a {
		panic("PbdAssert")
	}
}
