package submission

import "go-agency-backend/internal/domain"

// Event drives the submission lifecycle
type Event string

const (
	EventSubmit    Event = "submit"
	EventSucceeded Event = "succeeded"
	EventFailed    Event = "failed"
	EventDismiss   Event = "dismiss"
	EventTimeout   Event = "timeout"
)

var transitions = map[domain.SubmissionStatus]map[Event]domain.SubmissionStatus{
	domain.StatusIdle: {
		EventSubmit: domain.StatusSubmitting,
	},
	domain.StatusSubmitting: {
		EventSucceeded: domain.StatusSuccess,
		EventFailed:    domain.StatusError,
	},
	domain.StatusSuccess: {
		EventDismiss: domain.StatusIdle,
		EventTimeout: domain.StatusIdle,
	},
	domain.StatusError: {
		EventDismiss: domain.StatusIdle,
		EventTimeout: domain.StatusIdle,
	},
}

// Transition returns the status reached from `from` on ev. The bool is false
// when ev is not allowed in `from`; the status is then unchanged.
func Transition(from domain.SubmissionStatus, ev Event) (domain.SubmissionStatus, bool) {
	to, ok := transitions[from][ev]
	if !ok {
		return from, false
	}
	return to, true
}

// Settled reports whether a status shows an outcome indicator
func Settled(s domain.SubmissionStatus) bool {
	return s == domain.StatusSuccess || s == domain.StatusError
}
