package models

// Rule is a named violation type with its penalty amount.
type Rule struct {
	ID        int64   `json:"id"`
	GroupID   int64   `json:"group_id,omitempty"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	CreatedAt Time    `json:"created_at"`
}

// RuleInput is the body for creating or updating a rule.
type RuleInput struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
}
