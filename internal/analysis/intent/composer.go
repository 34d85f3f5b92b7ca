package intent

import (
	"math/rand"

	"github.com/sojo06/smartcart/internal/model/ruleset"
)

// Reply is the composed assistant output: free text plus optional
// ordered guidance steps.
type Reply struct {
	Text  string   `json:"text"`
	Steps []string `json:"steps,omitempty"`
}

// Composer runs the full normalize/match/compose pipeline for one rule
// set. It is channel-agnostic: the chat and voice surfaces share it.
type Composer struct {
	matcher   *Matcher
	fallbacks []string
	rng       *rand.Rand
}

// NewComposer builds a composer for the rule set. The random source
// drives fallback selection only; inject a seeded one for
// deterministic tests.
func NewComposer(set ruleset.RuleSet, rng *rand.Rand) *Composer {
	return &Composer{
		matcher:   NewMatcher(set.Rules),
		fallbacks: append([]string(nil), set.Fallbacks...),
		rng:       rng,
	}
}

// Respond composes the reply for a raw utterance. When a rule matches,
// text and steps come verbatim from the rule; otherwise one fallback
// template is chosen uniformly at random and steps stay empty.
func (c *Composer) Respond(utterance string) Reply {
	rule, ok := c.matcher.Match(Normalize(utterance))
	if ok {
		return Reply{Text: rule.Reply, Steps: append([]string(nil), rule.Steps...)}
	}
	if len(c.fallbacks) == 0 {
		return Reply{}
	}
	return Reply{Text: c.fallbacks[c.rng.Intn(len(c.fallbacks))]}
}
