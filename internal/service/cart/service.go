package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/sojo06/smartcart/internal/model/cart"
)

var (
	ErrSessionNotFound      = errors.New("cart session not found")
	ErrDuplicateParticipant = errors.New("participant already joined")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrInvalidPrice         = errors.New("unit price must not be negative")
	ErrItemNameRequired     = errors.New("item name is required")
	ErrItemNotFound         = errors.New("item not found")
	ErrNotHost              = errors.New("only the host may check out")
	ErrSessionClosed        = errors.New("cart session is closed")
)

// Join codes avoid lookalike characters so they survive being read
// aloud or copied by hand.
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Config tunes cart pricing and join codes. Zero values fall back to
// the defaults below.
type Config struct {
	TaxRateBasisPoints int64
	DeliveryFeeCents   int64
	JoinCodeLength     int
}

const (
	defaultTaxRateBasisPoints = 850
	defaultDeliveryFeeCents   = 299
	defaultJoinCodeLength     = 8
)

func (c Config) withDefaults() Config {
	if c.TaxRateBasisPoints == 0 {
		c.TaxRateBasisPoints = defaultTaxRateBasisPoints
	}
	if c.DeliveryFeeCents == 0 {
		c.DeliveryFeeCents = defaultDeliveryFeeCents
	}
	if c.JoinCodeLength == 0 {
		c.JoinCodeLength = defaultJoinCodeLength
	}
	return c
}

// Service owns every live cart session, keyed by join code. Sessions
// are fully independent: each carries its own lock and all mutations
// on one session serialize through it, which makes the per-session
// history linearizable.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session
	cfg      Config
}

type session struct {
	mu        sync.Mutex
	code      string
	createdAt time.Time
	completed bool

	participants []cart.Participant
	items        map[string]cart.LineItem
	itemOrder    []string

	subs    map[int64]chan Event
	nextSub int64
}

// Snapshot is a consistent read of one session, taken under the same
// serialization point as mutations.
type Snapshot struct {
	Code         string             `json:"code"`
	CreatedAt    time.Time          `json:"createdAt"`
	Completed    bool               `json:"completed"`
	Participants []cart.Participant `json:"participants"`
	Items        []cart.LineItem    `json:"items"`
	Totals       cart.Totals        `json:"totals"`
}

// NewService bootstraps the in-memory cart service.
func NewService(cfg Config) *Service {
	return &Service{
		sessions: make(map[string]*session),
		cfg:      cfg.withDefaults(),
	}
}

// Create starts a session with the given participant as host.
func (s *Service) Create(_ context.Context, hostID, hostName string) (Snapshot, error) {
	code, err := gonanoid.Generate(joinCodeAlphabet, s.cfg.JoinCodeLength)
	if err != nil {
		return Snapshot{}, fmt.Errorf("generate join code: %w", err)
	}

	if hostID == "" {
		hostID = uuid.NewString()
	}
	sess := &session{
		code:      code,
		createdAt: time.Now().UTC(),
		participants: []cart.Participant{{
			ID:       hostID,
			Name:     hostName,
			Role:     cart.RoleHost,
			JoinedAt: time.Now().UTC(),
		}},
		items: make(map[string]cart.LineItem),
		subs:  make(map[int64]chan Event),
	}

	s.mu.Lock()
	s.sessions[code] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess), nil
}

// Join adds a member to the roster. The host seat is taken at Create,
// so every later participant joins as a member.
func (s *Service) Join(_ context.Context, code, participantID, name string) (cart.Participant, error) {
	sess, err := s.lookup(code)
	if err != nil {
		return cart.Participant{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.completed {
		return cart.Participant{}, ErrSessionClosed
	}
	for _, p := range sess.participants {
		if p.ID == participantID {
			return cart.Participant{}, ErrDuplicateParticipant
		}
	}

	participant := cart.Participant{
		ID:       participantID,
		Name:     name,
		Role:     cart.RoleMember,
		JoinedAt: time.Now().UTC(),
	}
	sess.participants = append(sess.participants, participant)
	sess.publish(Event{Type: EventParticipantJoined, Participant: &participant})
	return participant, nil
}

// AddItem creates a line item with quantity 1 attributed to the
// contributor.
func (s *Service) AddItem(_ context.Context, code, contributorID, name string, unitPriceCents int64) (cart.LineItem, error) {
	sess, err := s.lookup(code)
	if err != nil {
		return cart.LineItem{}, err
	}
	if name == "" {
		return cart.LineItem{}, ErrItemNameRequired
	}
	if unitPriceCents < 0 {
		return cart.LineItem{}, ErrInvalidPrice
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.completed {
		return cart.LineItem{}, ErrSessionClosed
	}
	if _, ok := sess.findParticipant(contributorID); !ok {
		return cart.LineItem{}, ErrParticipantNotFound
	}

	item := cart.LineItem{
		ID:             uuid.NewString(),
		Name:           name,
		UnitPriceCents: unitPriceCents,
		Quantity:       1,
		AddedBy:        contributorID,
		AddedAt:        time.Now().UTC(),
	}
	sess.items[item.ID] = item
	sess.itemOrder = append(sess.itemOrder, item.ID)
	sess.publish(Event{Type: EventItemAdded, Item: &item})
	return item, nil
}

// SetQuantity changes an item's quantity. Requests for zero or
// negative quantities are accepted but change nothing; an item only
// ever leaves the cart through RemoveItem.
func (s *Service) SetQuantity(_ context.Context, code, itemID string, quantity int) (cart.LineItem, error) {
	sess, err := s.lookup(code)
	if err != nil {
		return cart.LineItem{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.completed {
		return cart.LineItem{}, ErrSessionClosed
	}
	item, ok := sess.items[itemID]
	if !ok {
		return cart.LineItem{}, ErrItemNotFound
	}
	if quantity <= 0 {
		return item, nil
	}

	item.Quantity = quantity
	sess.items[itemID] = item
	sess.publish(Event{Type: EventQuantityChanged, Item: &item})
	return item, nil
}

// RemoveItem deletes an item from the cart.
func (s *Service) RemoveItem(_ context.Context, code, itemID string) error {
	sess, err := s.lookup(code)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.completed {
		return ErrSessionClosed
	}
	item, ok := sess.items[itemID]
	if !ok {
		return ErrItemNotFound
	}

	delete(sess.items, itemID)
	for i, id := range sess.itemOrder {
		if id == itemID {
			sess.itemOrder = append(sess.itemOrder[:i], sess.itemOrder[i+1:]...)
			break
		}
	}
	sess.publish(Event{Type: EventItemRemoved, Item: &item})
	return nil
}

// Totals computes the price breakdown under the session lock, so the
// result always reflects a consistent state.
func (s *Service) Totals(_ context.Context, code string) (cart.Totals, error) {
	sess, err := s.lookup(code)
	if err != nil {
		return cart.Totals{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.totalsLocked(sess), nil
}

// GetSnapshot returns a consistent view of the roster, items and totals.
func (s *Service) GetSnapshot(_ context.Context, code string) (Snapshot, error) {
	sess, err := s.lookup(code)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess), nil
}

// Checkout completes the session. Only the host may call it; success
// moves the session to its terminal state and every later mutation
// fails with ErrSessionClosed.
func (s *Service) Checkout(_ context.Context, code, requesterID string) (cart.Totals, error) {
	sess, err := s.lookup(code)
	if err != nil {
		return cart.Totals{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.completed {
		return cart.Totals{}, ErrSessionClosed
	}
	requester, ok := sess.findParticipant(requesterID)
	if !ok || requester.Role != cart.RoleHost {
		return cart.Totals{}, ErrNotHost
	}

	sess.completed = true
	totals := s.totalsLocked(sess)
	sess.publish(Event{Type: EventCheckoutCompleted, Totals: &totals})
	return totals, nil
}

// Terminate destroys the session and closes its change feeds.
func (s *Service) Terminate(_ context.Context, code string) error {
	s.mu.Lock()
	sess, ok := s.sessions[code]
	delete(s.sessions, code)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.publish(Event{Type: EventSessionTerminated})
	sess.closeSubs()
	return nil
}

func (s *Service) lookup(code string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[code]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (sess *session) findParticipant(id string) (cart.Participant, bool) {
	for _, p := range sess.participants {
		if p.ID == id {
			return p, true
		}
	}
	return cart.Participant{}, false
}

// totalsLocked sums in integer cents; only the tax line can round.
func (s *Service) totalsLocked(sess *session) cart.Totals {
	var subtotal int64
	for _, id := range sess.itemOrder {
		item := sess.items[id]
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}

	tax := cart.ScaleCents(subtotal, s.cfg.TaxRateBasisPoints)
	return cart.Totals{
		SubtotalCents:    subtotal,
		TaxCents:         tax,
		DeliveryFeeCents: s.cfg.DeliveryFeeCents,
		GrandTotalCents:  subtotal + tax + s.cfg.DeliveryFeeCents,
	}
}

func (s *Service) snapshotLocked(sess *session) Snapshot {
	items := make([]cart.LineItem, 0, len(sess.itemOrder))
	for _, id := range sess.itemOrder {
		items = append(items, sess.items[id])
	}
	return Snapshot{
		Code:         sess.code,
		CreatedAt:    sess.createdAt,
		Completed:    sess.completed,
		Participants: append([]cart.Participant(nil), sess.participants...),
		Items:        items,
		Totals:       s.totalsLocked(sess),
	}
}
