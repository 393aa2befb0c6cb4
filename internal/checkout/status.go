package checkout

// Step is the checkout flow position. The flow is fixed and linear:
// Shipping -> Payment -> Review -> Completed, with backward moves always
// allowed between the non-terminal steps.
type Step string

const (
	StepShipping  Step = "SHIPPING"
	StepPayment   Step = "PAYMENT"
	StepReview    Step = "REVIEW"
	StepCompleted Step = "COMPLETED"
)

// IsTerminal reports whether the step ends the flow.
func (s Step) IsTerminal() bool {
	return s == StepCompleted
}

// String representation (for logging)
func (s Step) String() string {
	return string(s)
}

// canTransition is the transition table. Forward moves are additionally
// gated by per-step validation in the orchestrator; backward moves never
// re-validate the step being left.
func canTransition(from, to Step) bool {
	switch from {
	case StepShipping:
		return to == StepPayment
	case StepPayment:
		return to == StepReview || to == StepShipping
	case StepReview:
		return to == StepCompleted || to == StepPayment
	}
	return false
}
