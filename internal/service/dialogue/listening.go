package dialogue

import (
	"context"
	"strings"
	"time"

	"github.com/sojo06/smartcart/internal/model/dialogue"
)

// StartListening opens a voice capture window on the session. While
// the window is open, plain text submits are rejected as busy.
// Starting an already-listening session is a no-op.
func (s *Service) StartListening(_ context.Context, sessionID string) error {
	state, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	state.turnMu.Lock()
	defer state.turnMu.Unlock()

	if state.listening {
		return nil
	}
	state.listening = true

	if s.cfg.ListenTimeout > 0 {
		state.listenT = time.AfterFunc(s.cfg.ListenTimeout, func() {
			state.turnMu.Lock()
			state.listening = false
			state.listenT = nil
			state.turnMu.Unlock()
		})
	}
	return nil
}

// StopListening closes the capture window. Stopping before any
// utterance was captured returns the session to idle with no new
// messages and no error, including when no window was open.
func (s *Service) StopListening(_ context.Context, sessionID string) error {
	state, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	state.turnMu.Lock()
	defer state.turnMu.Unlock()
	state.stopListeningLocked()
	return nil
}

// CaptureUtterance delivers the transcribed text for an open listening
// window as a normal submit. The window closes atomically with the
// turn, so a concurrent stop never strands a partial message.
func (s *Service) CaptureUtterance(_ context.Context, sessionID, text string) (dialogue.Message, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return dialogue.Message{}, err
	}

	state.turnMu.Lock()
	defer state.turnMu.Unlock()

	if !state.listening {
		return dialogue.Message{}, ErrNotListening
	}
	state.stopListeningLocked()

	if strings.TrimSpace(text) == "" {
		return dialogue.Message{}, ErrEmptyInput
	}
	return state.appendTurn(text), nil
}

// IsListening reports whether a voice capture window is open.
func (s *Service) IsListening(_ context.Context, sessionID string) (bool, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return false, err
	}

	state.turnMu.Lock()
	defer state.turnMu.Unlock()
	return state.listening, nil
}

// stopListeningLocked clears the window and its timer. Callers hold turnMu.
func (st *sessionState) stopListeningLocked() {
	st.listening = false
	if st.listenT != nil {
		st.listenT.Stop()
		st.listenT = nil
	}
}
