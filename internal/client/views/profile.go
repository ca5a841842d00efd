package views

import (
	"context"
	"io"

	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
)

// Profile shows the stored profile. It makes no requests.
type Profile struct {
	d *Deps
}

func NewProfile(d *Deps) *Profile { return &Profile{d: d} }

func (*Profile) Title() string { return "Profile" }

func (*Profile) Load(context.Context) error { return nil }

func (v *Profile) Reload(context.Context) error { return nil }

func (v *Profile) Render(w io.Writer) {
	s := ui.For(w)
	u := v.d.user()
	if u == nil {
		return
	}
	role := "Member"
	if u.IsAdmin {
		role = "Administrator"
	}
	pairs := [][2]string{
		{"Name", u.DisplayName()},
		{"Email", u.Email},
		{"Role", role},
	}
	if u.ID != 0 {
		pairs = append(pairs, [2]string{"User ID", itoa(u.ID)})
	}
	io.WriteString(w, s.KeyValues(pairs...)+"\n\n")
	io.WriteString(w, s.Faint.Render("Use 'editprofile' to change your details or 'passwd' to change your password.")+"\n")
}
