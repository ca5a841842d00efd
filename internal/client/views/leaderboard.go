package views

import (
	"context"
	"io"
	"strconv"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"golang.org/x/sync/errgroup"
)

// Leaderboard ranks users by penalty totals, globally or within a group.
type Leaderboard struct {
	d       *Deps
	groupID int64
	entries []models.LeaderboardEntry
}

func NewLeaderboard(d *Deps, groupID int64) *Leaderboard {
	return &Leaderboard{d: d, groupID: groupID}
}

func (v *Leaderboard) Title() string {
	if v.groupID != 0 {
		return "Leaderboard: group " + itoa(v.groupID)
	}
	return "Leaderboard"
}

func (v *Leaderboard) Load(ctx context.Context) error {
	get := v.d.API.GlobalLeaderboard
	if v.groupID != 0 {
		get = func(ctx context.Context) ([]models.LeaderboardEntry, error) {
			return v.d.API.GroupLeaderboard(ctx, v.groupID)
		}
	}
	var g errgroup.Group
	fetch(ctx, &g, v.d, &v.entries, MsgLoadBoardFailed, get)
	return g.Wait()
}

func (v *Leaderboard) Reload(ctx context.Context) error { return v.Load(ctx) }

func (v *Leaderboard) Render(w io.Writer) {
	io.WriteString(w, leaderboardTable(ui.For(w), v.entries)+"\n")
}

func leaderboardTable(s ui.Styles, entries []models.LeaderboardEntry) string {
	sorted := append([]models.LeaderboardEntry(nil), entries...)
	models.SortLeaderboard(sorted)
	rows := make([][]string, 0, len(sorted))
	for i, e := range sorted {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), e.UserName, strconv.Itoa(e.PenaltyCount),
			models.FormatAmount(e.TotalAmount), models.FormatAmount(e.PaidAmount), models.FormatAmount(e.UnpaidAmount),
		})
	}
	return s.Table([]string{"#", "Name", "Penalties", "Total", "Paid", "Unpaid"}, rows, "No penalties yet.")
}
