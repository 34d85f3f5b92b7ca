package cart

import (
	"time"

	"github.com/sojo06/smartcart/internal/model/cart"
)

// Event types published on a session's change feed. This is exactly
// the set a networked backend would broadcast to participants.
const (
	EventParticipantJoined = "participant-joined"
	EventItemAdded         = "item-added"
	EventQuantityChanged   = "quantity-changed"
	EventItemRemoved       = "item-removed"
	EventCheckoutCompleted = "checkout-completed"
	EventSessionTerminated = "session-terminated"
)

// Event describes one successful mutation of a cart session.
type Event struct {
	Type        string            `json:"type"`
	Code        string            `json:"code"`
	Item        *cart.LineItem    `json:"item,omitempty"`
	Participant *cart.Participant `json:"participant,omitempty"`
	Totals      *cart.Totals      `json:"totals,omitempty"`
	At          time.Time         `json:"at"`
}

// subscriberBuffer bounds how far a feed consumer may lag before
// events are dropped. The snapshot endpoint is authoritative; the
// feed is a hint to re-render.
const subscriberBuffer = 16

// Subscribe opens a change feed for the session. The returned cancel
// func must be called to release the subscription. The channel closes
// when the session is terminated.
func (s *Service) Subscribe(code string) (<-chan Event, func(), error) {
	sess, err := s.lookup(code)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	id := sess.nextSub
	sess.nextSub++
	ch := make(chan Event, subscriberBuffer)
	sess.subs[id] = ch

	cancel := func() {
		sess.mu.Lock()
		if existing, ok := sess.subs[id]; ok {
			delete(sess.subs, id)
			close(existing)
		}
		sess.mu.Unlock()
	}
	return ch, cancel, nil
}

// publish fans an event out to all subscribers. Callers hold sess.mu.
// Sends never block: a subscriber that cannot keep up loses events and
// is expected to resync from a snapshot.
func (sess *session) publish(event Event) {
	event.Code = sess.code
	event.At = time.Now().UTC()
	for _, ch := range sess.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// closeSubs closes every feed. Callers hold sess.mu.
func (sess *session) closeSubs() {
	for id, ch := range sess.subs {
		delete(sess.subs, id)
		close(ch)
	}
}
