package sonic

import (
	"errors"
	"testing"
)

func TestNewSessionIdentifiersAreDistinct(t *testing.T) {
	session := NewSession()

	ids := map[string]bool{
		session.PromptID():        true,
		session.SystemContentID(): true,
		session.AudioContentID():  true,
	}
	if len(ids) != 3 {
		t.Fatalf("expected three distinct identifiers, got %v", ids)
	}
	if NewSession().PromptID() == session.PromptID() {
		t.Fatalf("expected a fresh prompt id per session")
	}
	if got := session.State(); got != StateIdle {
		t.Fatalf("expected new session to be idle, got %s", got)
	}
}

func TestSessionAdvancesOneStepAtATime(t *testing.T) {
	session := NewSession()

	for from := StateIdle; from < StateStreaming; from++ {
		if err := session.advance(from); err != nil {
			t.Fatalf("expected %s to advance, got %v", from, err)
		}
		if got := session.State(); got != from+1 {
			t.Fatalf("expected %s, got %s", from+1, got)
		}
	}

	if err := session.advance(StateStreaming); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected streaming to have no successor, got %v", err)
	}
}

func TestSessionRejectsStaleTransitions(t *testing.T) {
	session := NewSession()
	_ = session.advance(StateIdle)

	if err := session.advance(StateIdle); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected repeated transition to fail, got %v", err)
	}
	if err := session.advance(StateSystemPromptOpen); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected skipping ahead to fail, got %v", err)
	}
	if got := session.State(); got != StateNegotiating {
		t.Fatalf("expected state to be unchanged, got %s", got)
	}
}

func TestSessionTerminatesFromAnyState(t *testing.T) {
	for state := StateIdle; state <= StateTerminated; state++ {
		session := NewSession()
		for from := StateIdle; from < state && from < StateStreaming; from++ {
			_ = session.advance(from)
		}

		session.terminate()
		if got := session.State(); got != StateTerminated {
			t.Fatalf("expected terminated from %s, got %s", state, got)
		}
		if err := session.advance(StateTerminated); !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("expected terminated to be final, got %v", err)
		}
	}
}
