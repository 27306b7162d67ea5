package cloth

/// Implement this interface to be told when a tick degraded instead of
/// failing. Callbacks run synchronously inside Step.
type PbdClothListenerInterface interface {
	/// Called when the inertia tensor of the free particles could not be
	/// inverted and the damping pass was skipped for the tick.
	DampingSkipped(determinant float64)

	/// Called after a tick in which stretch projections were skipped because
	/// their two particles coincided.
	StretchSkipped(count int)
}

/// Per-tick outcome returned by Step.
type PbdStepReport struct {
	DampingApplied     bool
	InertiaDeterminant float64

	// Summed over all iterations of the tick.
	SkippedStretch int
	SkippedBend    int
}

func MakePbdStepReport() PbdStepReport {
	return PbdStepReport{}
}
