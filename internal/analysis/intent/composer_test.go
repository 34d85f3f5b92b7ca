package intent

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondReturnUtteranceYieldsGuidance(t *testing.T) {
	c := NewComposer(supportRules(t), rand.New(rand.NewSource(1)))

	reply := c.Respond("I need to return an item")
	require.Contains(t, reply.Text, "return process")
	require.Len(t, reply.Steps, 6)
	require.Equal(t, "Navigate to 'Order History'", reply.Steps[0])
	require.Equal(t, "Track your refund status", reply.Steps[5])
}

func TestRespondFallbackIsNonEmptyWithNoSteps(t *testing.T) {
	set := supportRules(t)
	c := NewComposer(set, rand.New(rand.NewSource(42)))

	for i := 0; i < 50; i++ {
		reply := c.Respond("hello there")
		require.NotEmpty(t, reply.Text)
		require.Empty(t, reply.Steps)
		require.Contains(t, set.Fallbacks, reply.Text)
	}
}

func TestRespondFallbackIsDeterministicUnderSeed(t *testing.T) {
	set := supportRules(t)

	first := NewComposer(set, rand.New(rand.NewSource(7)))
	second := NewComposer(set, rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		require.Equal(t, first.Respond("gibberish"), second.Respond("gibberish"))
	}
}

func TestRespondFallbackCoversAllTemplates(t *testing.T) {
	set := supportRules(t)
	c := NewComposer(set, rand.New(rand.NewSource(3)))

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[c.Respond("zzz").Text] = true
	}
	require.Len(t, seen, len(set.Fallbacks))
}

func TestRespondMatchedReplyIsVerbatim(t *testing.T) {
	set := voiceRules(t)
	c := NewComposer(set, rand.New(rand.NewSource(1)))

	reply := c.Respond("Checkout my cart")
	var checkoutReply string
	for _, rule := range set.Rules {
		if rule.ID == "voice-checkout" {
			checkoutReply = rule.Reply
		}
	}
	// "cart" alone satisfies no earlier voice rule, so the checkout
	// rule fires and its reply text comes through untouched.
	require.Equal(t, checkoutReply, reply.Text)
	require.Empty(t, reply.Steps)
}
