package dialogue

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sojo06/smartcart/internal/analysis/intent"
	"github.com/sojo06/smartcart/internal/model/dialogue"
	"github.com/sojo06/smartcart/internal/model/ruleset"
)

var (
	ErrRuleSetNotFound = errors.New("rule set not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyInput      = errors.New("utterance is empty")
	ErrSessionBusy     = errors.New("session is busy")
	ErrNotListening    = errors.New("session is not listening")
)

// Config tunes dialogue behavior. The zero value is usable.
type Config struct {
	// FallbackSeed pins the fallback-template selection for
	// deterministic runs. Nil seeds from the clock.
	FallbackSeed *int64
	// ListenTimeout bounds a voice listening window. Zero disables
	// the timeout.
	ListenTimeout time.Duration
}

// Service owns dialogue sessions and runs the intent pipeline for
// each submitted utterance. Submits on one session queue behind a
// per-session lock, so no turn is ever dropped.
type Service struct {
	mu       sync.RWMutex
	rulesets ruleset.Store
	sessions map[string]*sessionState
	cfg      Config
}

type sessionState struct {
	info     dialogue.Session
	composer *intent.Composer

	// turnMu serializes submits and transcript reads for one session.
	turnMu    sync.Mutex
	messages  []dialogue.Message
	listening bool
	listenT   *time.Timer

	// awaiting is readable without turnMu so callers can observe an
	// in-flight submit.
	awaiting atomic.Bool
}

// NewService bootstraps the in-memory dialogue service.
func NewService(rulesets ruleset.Store, cfg Config) *Service {
	return &Service{
		rulesets: rulesets,
		sessions: make(map[string]*sessionState),
		cfg:      cfg,
	}
}

// CreateSession provisions a conversation bound to a rule set.
func (s *Service) CreateSession(_ context.Context, ruleSetID string) (dialogue.Session, error) {
	set, ok := s.rulesets.FindByID(ruleSetID)
	if !ok {
		return dialogue.Session{}, ErrRuleSetNotFound
	}

	seed := time.Now().UnixNano()
	if s.cfg.FallbackSeed != nil {
		seed = *s.cfg.FallbackSeed
	}

	state := &sessionState{
		info: dialogue.Session{
			ID:        uuid.NewString(),
			RuleSetID: set.ID,
			CreatedAt: time.Now().UTC(),
		},
		composer: intent.NewComposer(set, rand.New(rand.NewSource(seed))),
		messages: make([]dialogue.Message, 0, 16),
	}

	s.mu.Lock()
	s.sessions[state.info.ID] = state
	s.mu.Unlock()

	return state.info, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (dialogue.Session, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return dialogue.Session{}, err
	}
	return state.info, nil
}

// Submit records a user turn, composes the assistant reply and records
// that too, returning the assistant message. Blank input (after
// trimming) is rejected. A submit issued while the session is in a
// voice listening window is rejected as busy; concurrent text submits
// simply queue.
func (s *Service) Submit(_ context.Context, sessionID, text string) (dialogue.Message, error) {
	if strings.TrimSpace(text) == "" {
		return dialogue.Message{}, ErrEmptyInput
	}

	state, err := s.lookup(sessionID)
	if err != nil {
		return dialogue.Message{}, err
	}

	state.turnMu.Lock()
	defer state.turnMu.Unlock()

	if state.listening {
		return dialogue.Message{}, ErrSessionBusy
	}

	return state.appendTurn(text), nil
}

// appendTurn runs one full user/assistant exchange. Callers hold turnMu.
func (st *sessionState) appendTurn(text string) dialogue.Message {
	st.awaiting.Store(true)
	st.messages = append(st.messages, dialogue.Message{
		ID:        uuid.NewString(),
		SessionID: st.info.ID,
		Role:      dialogue.RoleUser,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})

	reply := st.composer.Respond(text)
	assistant := dialogue.Message{
		ID:        uuid.NewString(),
		SessionID: st.info.ID,
		Role:      dialogue.RoleAssistant,
		Text:      reply.Text,
		Steps:     reply.Steps,
		CreatedAt: time.Now().UTC(),
	}
	st.messages = append(st.messages, assistant)
	st.awaiting.Store(false)
	return assistant
}

// IsAwaitingResponse reports whether a submit is currently composing
// its reply.
func (s *Service) IsAwaitingResponse(_ context.Context, sessionID string) (bool, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return false, err
	}
	return state.awaiting.Load(), nil
}

// Transcript returns a snapshot of the session history.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]dialogue.Message, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	state.turnMu.Lock()
	defer state.turnMu.Unlock()

	copied := make([]dialogue.Message, len(state.messages))
	copy(copied, state.messages)
	return copied, nil
}

// Destroy tears the session down. Conversations have no persistence.
func (s *Service) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	state, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	state.turnMu.Lock()
	state.stopListeningLocked()
	state.turnMu.Unlock()
	return nil
}

func (s *Service) lookup(sessionID string) (*sessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state, nil
}
