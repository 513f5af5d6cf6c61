package service

// CheckoutState tracks how far a checkout progressed, mainly for logs
// and traces when a checkout aborts midway.
type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateValidating
	StateAuthorizing
	StateCommitting
	StateDone
	StateAborted
)

func (s CheckoutState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAuthorizing:
		return "authorizing"
	case StateCommitting:
		return "committing"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
