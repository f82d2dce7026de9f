package workflows

// Project statuses.
const (
	ProjectDraft      = "draft"
	ProjectRegistered = "registered"
	ProjectVerified   = "verified"
	ProjectRejected   = "rejected"
)

// StateMachine enforces project status transitions.
type StateMachine struct {
	allowedTransitions map[string][]string
}

// NewProjectStateMachine creates the state machine governing project statuses.
// Draft projects are submitted for registration; registered projects reach a
// terminal verified or rejected status through the verification pipeline.
func NewProjectStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[string][]string{
			ProjectDraft:      {ProjectRegistered},
			ProjectRegistered: {ProjectVerified, ProjectRejected},
			ProjectVerified:   {},
			ProjectRejected:   {},
		},
	}
}

// CanTransition checks if a status transition is allowed.
func (sm *StateMachine) CanTransition(from, to string) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the allowed next statuses for a given status.
func (sm *StateMachine) AllowedTransitions(from string) []string {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []string{}
	}
	return allowed
}

// IsTerminal reports whether a status permits no further transitions.
func (sm *StateMachine) IsTerminal(status string) bool {
	return len(sm.allowedTransitions[status]) == 0
}
