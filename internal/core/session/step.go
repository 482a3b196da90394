package session

// Step is one screen of the intake wizard.
type Step int

const (
	StepOperator Step = iota
	StepLineBuilder
	StepClient
	StepCartReview
	StepPayment
)

var stepNames = map[Step]string{
	StepOperator:    "OPERATOR",
	StepLineBuilder: "LINE_BUILDER",
	StepClient:      "CLIENT",
	StepCartReview:  "CART_REVIEW",
	StepPayment:     "PAYMENT",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// canEnter is the transition guard table. A step is reachable only if its
// guard holds; Go treats a disallowed transition as a no-op, not an error.
func (s *Session) canEnter(target Step) bool {
	switch target {
	case StepOperator:
		return true
	case StepLineBuilder:
		return s.operator != nil
	case StepClient, StepCartReview:
		return s.operator != nil && s.cart.Len() > 0
	case StepPayment:
		return s.orderID != ""
	default:
		return false
	}
}

// Go moves the wizard to target if its guard holds. Returns the step the
// session is on afterwards, which is unchanged when the guard fails.
func (s *Session) Go(target Step) Step {
	if !s.canEnter(target) {
		return s.step
	}
	s.step = target
	s.saveDraft(nil)
	return s.step
}
