package sonic

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

type State int32

const (
	StateIdle State = iota
	StateNegotiating
	StateSystemPromptOpen
	StateSystemPromptClosed
	StateStreaming
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiating:
		return "negotiating"
	case StateSystemPromptOpen:
		return "system_prompt_open"
	case StateSystemPromptClosed:
		return "system_prompt_closed"
	case StateStreaming:
		return "streaming"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Session holds the identifiers every event of one conversation carries and
// the conversation's position in the setup sequence.
//
// The identifiers are generated once and never change. State only moves
// forward, one step at a time, except that any state may jump to
// [StateTerminated].
type Session struct {
	promptID        string
	systemContentID string
	audioContentID  string

	state atomic.Int32
}

func NewSession() *Session {
	return &Session{
		promptID:        uuid.NewString(),
		systemContentID: uuid.NewString(),
		audioContentID:  uuid.NewString(),
	}
}

// PromptID scopes the whole conversation.
func (s *Session) PromptID() string { return s.promptID }

// SystemContentID names the SYSTEM text content stream.
func (s *Session) SystemContentID() string { return s.systemContentID }

// AudioContentID names the USER audio content stream.
func (s *Session) AudioContentID() string { return s.audioContentID }

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) IsStreaming() bool { return s.State() == StateStreaming }

// advance moves the session to the state directly after from.
func (s *Session) advance(from State) error {
	to := from + 1
	if to >= StateTerminated {
		return fmt.Errorf("%w: %s has no successor", ErrInvalidStateTransition, from)
	}
	if !s.state.CompareAndSwap(int32(from), int32(to)) {
		return fmt.Errorf("%w: %s -> %s, session is %s", ErrInvalidStateTransition, from, to, s.State())
	}
	return nil
}

func (s *Session) terminate() {
	s.state.Store(int32(StateTerminated))
}
