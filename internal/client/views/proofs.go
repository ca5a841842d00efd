package views

import (
	"context"
	"io"
	"strconv"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/router"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"golang.org/x/sync/errgroup"
)

const (
	MsgLoadProofsFailed = "Failed to load proofs"
	MsgAdminRequired    = "Admin access required"
)

// ProofReview is the admin queue of uploaded payment proofs.
type ProofReview struct {
	d      *Deps
	filter models.ProofFilter
	proofs []models.Proof
}

func NewProofReview(d *Deps, filter models.ProofFilter) *ProofReview {
	if filter == "" {
		filter = models.ProofFilter(models.ProofPending)
	}
	return &ProofReview{d: d, filter: filter}
}

func (*ProofReview) Title() string { return "Proof Review" }

// Load sends non-admins to the dashboard.
func (v *ProofReview) Load(ctx context.Context) error {
	if !IsGlobalAdmin(v.d.user()) {
		return &router.Redirect{To: RouteDashboard, Message: MsgAdminRequired}
	}
	var g errgroup.Group
	fetch(ctx, &g, v.d, &v.proofs, MsgLoadProofsFailed, func(ctx context.Context) ([]models.Proof, error) {
		return v.d.API.ListProofs(ctx, v.filter)
	})
	return g.Wait()
}

func (v *ProofReview) Reload(ctx context.Context) error { return v.Load(ctx) }

func (v *ProofReview) Proofs() []models.Proof { return v.proofs }

func (v *ProofReview) Counts() models.ProofCounts { return models.CountProofs(v.proofs) }

func (v *ProofReview) Render(w io.Writer) {
	s := ui.For(w)
	c := v.Counts()
	io.WriteString(w, s.KeyValues(
		[2]string{"Pending", strconv.Itoa(c.Pending)},
		[2]string{"Approved", strconv.Itoa(c.Approved)},
		[2]string{"Declined", strconv.Itoa(c.Declined)},
	)+"\n\n")
	io.WriteString(w, s.Faint.Render("Filter: "+string(v.filter))+"\n")
	io.WriteString(w, proofTable(s, v.d, v.proofs, true)+"\n")
}

func proofTable(s ui.Styles, d *Deps, proofs []models.Proof, withUser bool) string {
	headers := []string{"ID", "Penalty"}
	if withUser {
		headers = append(headers, "User")
	}
	headers = append(headers, "Amount", "Status", "Reference", "Note", "Image", "Submitted")

	rows := make([][]string, 0, len(proofs))
	for _, p := range proofs {
		row := []string{itoa(p.ID), itoa(p.PenaltyID)}
		amount := "-"
		if p.Penalty != nil {
			amount = models.FormatAmount(p.Penalty.Amount)
			if p.Penalty.RuleTitle != "" {
				row[1] += " " + p.Penalty.RuleTitle
			}
		}
		if withUser {
			who := "-"
			if p.User != nil {
				who = p.User.DisplayName()
			}
			row = append(row, who)
		}
		row = append(row, amount, s.Status(string(p.Status)), orDash(p.Reference), orDash(p.AdminNote),
			d.API.ProofImageURL(p.ImageURL), p.CreatedAt.Short())
		rows = append(rows, row)
	}
	return s.Table(headers, rows, "No proofs found.")
}

// PenaltyProofs shows the proofs uploaded for one penalty.
type PenaltyProofs struct {
	d         *Deps
	penaltyID int64
	proofs    []models.Proof
}

func NewPenaltyProofs(d *Deps, penaltyID int64) *PenaltyProofs {
	return &PenaltyProofs{d: d, penaltyID: penaltyID}
}

func (v *PenaltyProofs) Title() string { return "Proofs: penalty " + itoa(v.penaltyID) }

func (v *PenaltyProofs) Load(ctx context.Context) error {
	var g errgroup.Group
	fetch(ctx, &g, v.d, &v.proofs, MsgLoadProofsFailed, func(ctx context.Context) ([]models.Proof, error) {
		return v.d.API.PenaltyProofs(ctx, v.penaltyID)
	})
	return g.Wait()
}

func (v *PenaltyProofs) Proofs() []models.Proof { return v.proofs }

func (v *PenaltyProofs) Reload(ctx context.Context) error { return v.Load(ctx) }

func (v *PenaltyProofs) Render(w io.Writer) {
	io.WriteString(w, proofTable(ui.For(w), v.d, v.proofs, false)+"\n")
}
