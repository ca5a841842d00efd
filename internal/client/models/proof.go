package models

import "strings"

// ProofStatus is the review state of an uploaded proof.
type ProofStatus string

const (
	ProofPending  ProofStatus = "PENDING"
	ProofApproved ProofStatus = "APPROVED"
	ProofDeclined ProofStatus = "DECLINED"
)

// ProofFilter is a ProofStatus or ProofFilterAll.
type ProofFilter string

const ProofFilterAll ProofFilter = "ALL"

// ParseProofFilter defaults to PENDING, the review queue.
func ParseProofFilter(s string) ProofFilter {
	switch v := ProofFilter(strings.ToUpper(strings.TrimSpace(s))); v {
	case ProofFilterAll, ProofFilter(ProofApproved), ProofFilter(ProofDeclined), ProofFilter(ProofPending):
		return v
	default:
		return ProofFilter(ProofPending)
	}
}

type Proof struct {
	ID         int64       `json:"id"`
	PenaltyID  int64       `json:"penalty_id"`
	ImageURL   string      `json:"image_url"`
	Status     ProofStatus `json:"status"`
	Reference  *string     `json:"reference,omitempty"`
	AdminNote  *string     `json:"admin_note,omitempty"`
	CreatedAt  Time        `json:"created_at"`
	ReviewedAt *Time       `json:"reviewed_at,omitempty"`
	Penalty    *Penalty    `json:"penalty,omitempty"`
	User       *User       `json:"user,omitempty"`
}

// ReviewInput is the body of the approve and decline calls.
type ReviewInput struct {
	AdminNote *string `json:"admin_note"`
}

// ProofCounts are the per-status tallies on the review page.
type ProofCounts struct {
	Pending  int
	Approved int
	Declined int
}

func CountProofs(ps []Proof) ProofCounts {
	var c ProofCounts
	for _, p := range ps {
		switch p.Status {
		case ProofPending:
			c.Pending++
		case ProofApproved:
			c.Approved++
		case ProofDeclined:
			c.Declined++
		}
	}
	return c
}
