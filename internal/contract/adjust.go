package contract

// AdjustRequest records a learner-requested deferral of one item.
// Exactly one of TargetDay and DeltaDays must be set; the record is
// consumed by the next Plan call.
type AdjustRequest struct {
	LearnerID string
	UnitID    string
	TargetDay *int
	DeltaDays *int
	Reason    string
}
