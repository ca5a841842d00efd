package views

import (
	"context"
	"io"

	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
)

// Login is shown to signed-out users.
type Login struct{}

func NewLogin() *Login { return &Login{} }

func (*Login) Title() string { return "Login" }

func (*Login) Load(context.Context) error { return nil }

func (*Login) Render(w io.Writer) {
	s := ui.For(w)
	io.WriteString(w, s.Title.Render("PenaltyBox")+"\n")
	io.WriteString(w, "You are not signed in.\n")
	io.WriteString(w, s.Faint.Render("Type 'login' to sign in or 'register' to create an account.")+"\n")
}
