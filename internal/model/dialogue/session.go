package dialogue

import "time"

// Session captures one transient conversation bound to a rule set.
type Session struct {
	ID        string    `json:"id"`
	RuleSetID string    `json:"ruleSetId"`
	CreatedAt time.Time `json:"createdAt"`
}
