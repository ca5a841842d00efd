package models

import (
	"sort"
	"strings"
)

// LeaderboardEntry ranks one user by penalty amounts.
type LeaderboardEntry struct {
	UserID       int64   `json:"user_id"`
	UserName     string  `json:"user_name"`
	TotalAmount  float64 `json:"total_amount"`
	PaidAmount   float64 `json:"paid_amount"`
	UnpaidAmount float64 `json:"unpaid_amount"`
	PenaltyCount int     `json:"penalty_count"`
}

// SortLeaderboard orders entries by total amount, highest first; ties are
// broken by name so output is stable between refreshes.
func SortLeaderboard(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalAmount != entries[j].TotalAmount {
			return entries[i].TotalAmount > entries[j].TotalAmount
		}
		return strings.ToLower(entries[i].UserName) < strings.ToLower(entries[j].UserName)
	})
}
