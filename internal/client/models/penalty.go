package models

import "strings"

// PenaltyStatus is the two-state paid flag of a penalty.
type PenaltyStatus string

const (
	StatusPaid   PenaltyStatus = "PAID"
	StatusUnpaid PenaltyStatus = "UNPAID"
)

// Toggle returns the opposite status. Anything that is not PAID toggles to
// PAID, matching how the status control picks its target.
func (s PenaltyStatus) Toggle() PenaltyStatus {
	if s == StatusPaid {
		return StatusUnpaid
	}
	return StatusPaid
}

type Penalty struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	RuleID    int64         `json:"rule_id"`
	GroupID   int64         `json:"group_id,omitempty"`
	Amount    float64       `json:"amount"`
	Status    PenaltyStatus `json:"status"`
	Note      *string       `json:"note"`
	UserName  string        `json:"user_name,omitempty"`
	RuleTitle string        `json:"rule_title,omitempty"`
	CreatedAt Time          `json:"created_at"`
}

// PenaltyInput is the body of POST /penalties?group_id=.
type PenaltyInput struct {
	UserID int64   `json:"user_id"`
	RuleID int64   `json:"rule_id"`
	Amount float64 `json:"amount"`
	Note   *string `json:"note"`
}

// PenaltyFilter selects penalties by status; FilterAll keeps everything.
type PenaltyFilter string

const (
	FilterAll    PenaltyFilter = "ALL"
	FilterPaid   PenaltyFilter = PenaltyFilter(StatusPaid)
	FilterUnpaid PenaltyFilter = PenaltyFilter(StatusUnpaid)
)

// ParsePenaltyFilter is case-insensitive; unknown input means FilterAll.
func ParsePenaltyFilter(s string) PenaltyFilter {
	switch PenaltyFilter(strings.ToUpper(strings.TrimSpace(s))) {
	case FilterPaid:
		return FilterPaid
	case FilterUnpaid:
		return FilterUnpaid
	default:
		return FilterAll
	}
}

// FilterPenalties returns the penalties matching f.
func FilterPenalties(ps []Penalty, f PenaltyFilter) []Penalty {
	if f == FilterAll || f == "" {
		return ps
	}
	out := make([]Penalty, 0, len(ps))
	for _, p := range ps {
		if PenaltyFilter(p.Status) == f {
			out = append(out, p)
		}
	}
	return out
}

// PenaltyStats are the totals shown above a penalty list.
type PenaltyStats struct {
	Total       int
	Paid        int
	Unpaid      int
	TotalAmount float64
	PaidAmount  float64
	DueAmount   float64
}

// SummarizePenalties aggregates counts and amounts by status.
func SummarizePenalties(ps []Penalty) PenaltyStats {
	var st PenaltyStats
	for _, p := range ps {
		st.Total++
		st.TotalAmount += p.Amount
		switch p.Status {
		case StatusPaid:
			st.Paid++
			st.PaidAmount += p.Amount
		case StatusUnpaid:
			st.Unpaid++
			st.DueAmount += p.Amount
		}
	}
	return st
}
