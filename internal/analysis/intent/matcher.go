package intent

import (
	"strings"

	"github.com/sojo06/smartcart/internal/model/ruleset"
)

// Matcher scans utterances against an ordered rule table. Table order
// is precedence: the first rule whose entire keyword set appears in
// the normalized text wins, and no later rule is consulted.
type Matcher struct {
	rules []ruleset.Rule
}

// NewMatcher builds a matcher over the given table. The table is
// copied; the matcher never mutates it.
func NewMatcher(rules []ruleset.Rule) *Matcher {
	return &Matcher{rules: append([]ruleset.Rule(nil), rules...)}
}

// Match returns the first rule fully satisfied by the normalized
// utterance, or false when none is. No match is not an error; it
// signals the fallback path.
func (m *Matcher) Match(normalized string) (ruleset.Rule, bool) {
	for _, rule := range m.rules {
		if ruleMatches(rule, normalized) {
			return rule, true
		}
	}
	return ruleset.Rule{}, false
}

func ruleMatches(rule ruleset.Rule, normalized string) bool {
	if len(rule.Keywords) == 0 {
		return false
	}
	for _, keyword := range rule.Keywords {
		if !strings.Contains(normalized, strings.ToLower(keyword)) {
			return false
		}
	}
	return true
}
