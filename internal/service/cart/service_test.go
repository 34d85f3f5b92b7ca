package cart_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	cartmodel "github.com/sojo06/smartcart/internal/model/cart"
	cartservice "github.com/sojo06/smartcart/internal/service/cart"
)

func newSession(t *testing.T) (*cartservice.Service, string, string) {
	t.Helper()
	svc := cartservice.NewService(cartservice.Config{})
	snap, err := svc.Create(context.Background(), "alice", "Alice")
	require.NoError(t, err)
	require.Len(t, snap.Participants, 1)
	require.Equal(t, cartmodel.RoleHost, snap.Participants[0].Role)
	return svc, snap.Code, snap.Participants[0].ID
}

func TestJoinAssignsMemberRoleAndRejectsDuplicates(t *testing.T) {
	svc, code, _ := newSession(t)
	ctx := context.Background()

	bob, err := svc.Join(ctx, code, "bob", "Bob")
	require.NoError(t, err)
	require.Equal(t, cartmodel.RoleMember, bob.Role)

	_, err = svc.Join(ctx, code, "bob", "Bob Again")
	require.ErrorIs(t, err, cartservice.ErrDuplicateParticipant)

	snap, err := svc.GetSnapshot(ctx, code)
	require.NoError(t, err)
	require.Len(t, snap.Participants, 2)
	// Roster keeps join order.
	require.Equal(t, "alice", snap.Participants[0].ID)
	require.Equal(t, "bob", snap.Participants[1].ID)
}

func TestAddItemValidation(t *testing.T) {
	svc, code, host := newSession(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, code, host, "Milk", -1)
	require.ErrorIs(t, err, cartservice.ErrInvalidPrice)

	_, err = svc.AddItem(ctx, code, host, "", 499)
	require.ErrorIs(t, err, cartservice.ErrItemNameRequired)

	_, err = svc.AddItem(ctx, code, "stranger", "Milk", 499)
	require.ErrorIs(t, err, cartservice.ErrParticipantNotFound)

	item, err := svc.AddItem(ctx, code, host, "Milk", 499)
	require.NoError(t, err)
	require.Equal(t, 1, item.Quantity)
	require.Equal(t, host, item.AddedBy)
}

func TestSetQuantityNonPositiveIsANoOp(t *testing.T) {
	svc, code, host := newSession(t)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, code, host, "Bread", 349)
	require.NoError(t, err)

	for _, q := range []int{0, -3} {
		got, err := svc.SetQuantity(ctx, code, item.ID, q)
		require.NoError(t, err, "quantity %d", q)
		require.Equal(t, 1, got.Quantity, "quantity %d must not change the item", q)
	}

	snap, err := svc.GetSnapshot(ctx, code)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1, "non-positive quantity must never remove the item")

	got, err := svc.SetQuantity(ctx, code, item.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 4, got.Quantity)

	_, err = svc.SetQuantity(ctx, code, "missing", 2)
	require.ErrorIs(t, err, cartservice.ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	svc, code, host := newSession(t)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, code, host, "Yogurt", 599)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, code, item.ID))
	require.ErrorIs(t, svc.RemoveItem(ctx, code, item.ID), cartservice.ErrItemNotFound)
}

func TestTotalsAreIdempotent(t *testing.T) {
	svc, code, host := newSession(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, code, host, "Cereal", 649)
	require.NoError(t, err)

	first, err := svc.Totals(ctx, code)
	require.NoError(t, err)
	second, err := svc.Totals(ctx, code)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSubtotalStaysExactOverManyRandomItems(t *testing.T) {
	svc, code, host := newSession(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(99))

	var want int64
	for i := 0; i < 10000; i++ {
		price := int64(rng.Intn(10000))
		_, err := svc.AddItem(ctx, code, host, fmt.Sprintf("item-%d", i), price)
		require.NoError(t, err)
		want += price
	}

	totals, err := svc.Totals(ctx, code)
	require.NoError(t, err)
	require.Equal(t, want, totals.SubtotalCents, "integer cents must not drift")
}

func TestCheckoutAuthorityAndTerminalState(t *testing.T) {
	svc, code, host := newSession(t)
	ctx := context.Background()

	_, err := svc.Join(ctx, code, "bob", "Bob")
	require.NoError(t, err)
	milk, err := svc.AddItem(ctx, code, host, "Milk", 499)
	require.NoError(t, err)

	before, err := svc.GetSnapshot(ctx, code)
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, code, "bob")
	require.ErrorIs(t, err, cartservice.ErrNotHost)
	_, err = svc.Checkout(ctx, code, "stranger")
	require.ErrorIs(t, err, cartservice.ErrNotHost)

	// A refused checkout leaves the cart untouched.
	after, err := svc.GetSnapshot(ctx, code)
	require.NoError(t, err)
	require.Equal(t, before, after)

	totals, err := svc.Checkout(ctx, code, host)
	require.NoError(t, err)
	require.Equal(t, int64(499), totals.SubtotalCents)

	_, err = svc.AddItem(ctx, code, host, "Bread", 349)
	require.ErrorIs(t, err, cartservice.ErrSessionClosed)
	_, err = svc.SetQuantity(ctx, code, milk.ID, 2)
	require.ErrorIs(t, err, cartservice.ErrSessionClosed)
	require.ErrorIs(t, svc.RemoveItem(ctx, code, milk.ID), cartservice.ErrSessionClosed)
	_, err = svc.Join(ctx, code, "carol", "Carol")
	require.ErrorIs(t, err, cartservice.ErrSessionClosed)
	_, err = svc.Checkout(ctx, code, host)
	require.ErrorIs(t, err, cartservice.ErrSessionClosed)
}

func TestGroupShoppingScenario(t *testing.T) {
	svc, code, host := newSession(t)
	ctx := context.Background()

	_, err := svc.Join(ctx, code, "bob", "Bob")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, code, host, "Milk", 499)
	require.NoError(t, err)
	bread, err := svc.AddItem(ctx, code, "bob", "Bread", 349)
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, code, bread.ID, 2)
	require.NoError(t, err)

	totals, err := svc.Totals(ctx, code)
	require.NoError(t, err)
	require.Equal(t, int64(1197), totals.SubtotalCents)
	require.Equal(t, int64(102), totals.TaxCents)
	require.Equal(t, int64(299), totals.DeliveryFeeCents)
	require.Equal(t, int64(1598), totals.GrandTotalCents)

	_, err = svc.Checkout(ctx, code, "bob")
	require.ErrorIs(t, err, cartservice.ErrNotHost)

	_, err = svc.Checkout(ctx, code, host)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, code, host, "Eggs", 299)
	require.ErrorIs(t, err, cartservice.ErrSessionClosed)
}

func TestConcurrentAddsLoseNoUpdates(t *testing.T) {
	svc, code, _ := newSession(t)
	ctx := context.Background()

	const participants = 8
	const itemsEach = 25
	for i := 0; i < participants; i++ {
		_, err := svc.Join(ctx, code, fmt.Sprintf("member-%d", i), fmt.Sprintf("Member %d", i))
		require.NoError(t, err)
	}

	var g errgroup.Group
	for i := 0; i < participants; i++ {
		id := fmt.Sprintf("member-%d", i)
		g.Go(func() error {
			for j := 0; j < itemsEach; j++ {
				if _, err := svc.AddItem(ctx, code, id, fmt.Sprintf("%s-item-%d", id, j), 100); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	snap, err := svc.GetSnapshot(ctx, code)
	require.NoError(t, err)
	require.Len(t, snap.Items, participants*itemsEach)
	require.Equal(t, int64(participants*itemsEach*100), snap.Totals.SubtotalCents)
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := cartservice.NewService(cartservice.Config{})
	ctx := context.Background()

	first, err := svc.Create(ctx, "alice", "Alice")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "dana", "Dana")
	require.NoError(t, err)
	require.NotEqual(t, first.Code, second.Code)

	_, err = svc.AddItem(ctx, first.Code, "alice", "Milk", 499)
	require.NoError(t, err)

	snap, err := svc.GetSnapshot(ctx, second.Code)
	require.NoError(t, err)
	require.Empty(t, snap.Items)
}

func TestSubscribeReceivesMutationEvents(t *testing.T) {
	svc, code, host := newSession(t)
	ctx := context.Background()

	events, cancel, err := svc.Subscribe(code)
	require.NoError(t, err)
	defer cancel()

	item, err := svc.AddItem(ctx, code, host, "Milk", 499)
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, code, item.ID, 3)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveItem(ctx, code, item.ID))
	_, err = svc.Checkout(ctx, code, host)
	require.NoError(t, err)

	wantTypes := []string{
		cartservice.EventItemAdded,
		cartservice.EventQuantityChanged,
		cartservice.EventItemRemoved,
		cartservice.EventCheckoutCompleted,
	}
	for _, want := range wantTypes {
		got := <-events
		require.Equal(t, want, got.Type)
		require.Equal(t, code, got.Code)
	}
}

func TestNoOpQuantityPublishesNoEvent(t *testing.T) {
	svc, code, host := newSession(t)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, code, host, "Milk", 499)
	require.NoError(t, err)

	events, cancel, err := svc.Subscribe(code)
	require.NoError(t, err)
	defer cancel()

	_, err = svc.SetQuantity(ctx, code, item.ID, 0)
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, code, item.ID, 2)
	require.NoError(t, err)

	got := <-events
	require.Equal(t, cartservice.EventQuantityChanged, got.Type)
	require.Equal(t, 2, got.Item.Quantity)
}

func TestTerminateClosesFeedsAndForgetsSession(t *testing.T) {
	svc, code, _ := newSession(t)
	ctx := context.Background()

	events, cancel, err := svc.Subscribe(code)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, svc.Terminate(ctx, code))

	got, ok := <-events
	require.True(t, ok)
	require.Equal(t, cartservice.EventSessionTerminated, got.Type)
	_, ok = <-events
	require.False(t, ok, "feed must close on termination")

	_, err = svc.GetSnapshot(ctx, code)
	require.ErrorIs(t, err, cartservice.ErrSessionNotFound)
}
