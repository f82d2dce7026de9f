package workflows

import "testing"

func TestProjectStateMachine_AllowedTransitions(t *testing.T) {
	sm := NewProjectStateMachine()

	cases := []struct {
		from, to string
		want     bool
	}{
		{ProjectDraft, ProjectRegistered, true},
		{ProjectRegistered, ProjectVerified, true},
		{ProjectRegistered, ProjectRejected, true},
		{ProjectDraft, ProjectVerified, false},
		{ProjectVerified, ProjectRegistered, false},
		{ProjectRejected, ProjectRegistered, false},
		{ProjectVerified, ProjectRejected, false},
		{"unknown", ProjectRegistered, false},
	}
	for _, c := range cases {
		if got := sm.CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, expected %v", c.from, c.to, got, c.want)
		}
	}
}

func TestProjectStateMachine_Terminal(t *testing.T) {
	sm := NewProjectStateMachine()

	for _, status := range []string{ProjectVerified, ProjectRejected} {
		if !sm.IsTerminal(status) {
			t.Errorf("%s should be terminal", status)
		}
	}
	for _, status := range []string{ProjectDraft, ProjectRegistered} {
		if sm.IsTerminal(status) {
			t.Errorf("%s should not be terminal", status)
		}
	}
}

func TestProjectStateMachine_AllowedList(t *testing.T) {
	sm := NewProjectStateMachine()

	next := sm.AllowedTransitions(ProjectRegistered)
	if len(next) != 2 {
		t.Fatalf("registered has %d next statuses, expected 2", len(next))
	}

	if len(sm.AllowedTransitions("unknown")) != 0 {
		t.Error("unknown status should have no transitions")
	}
}
