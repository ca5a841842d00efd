package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/notify"
	"github.com/dmitrijs2005/penaltybox/internal/client/router"
	"github.com/dmitrijs2005/penaltybox/internal/client/services"
	"github.com/dmitrijs2005/penaltybox/internal/client/session"
	"github.com/dmitrijs2005/penaltybox/internal/client/views"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

// MsgSessionExpired is shown when the backend rejects the stored token.
const MsgSessionExpired = "Your session has expired. Please log in again."

// DownloadDir is where proof images are saved, relative to the working
// directory.
const DownloadDir = "downloads"

type App struct {
	session  *session.Session
	api      api.Client
	router   *router.Router
	notifier notify.Notifier
	logger   logging.Logger
	modal    *views.Modal

	groups    services.GroupService
	members   services.MemberService
	rules     services.RuleService
	penalties services.PenaltyService
	proofs    services.ProofService
	profile   services.ProfileService

	reader *bufio.Reader
	out    io.Writer

	wasAuthenticated atomic.Bool
	expired          atomic.Bool
	unsubscribe      func()
}

// NewApp builds the client around an initialized-or-not session and an API
// client whose token source is the session's store.
func NewApp(sess *session.Session, client api.Client, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	notifier := notify.NewConsole(out)
	deps := &views.Deps{API: client, Session: sess, Notifier: notifier, Logger: logger}
	r := router.New(sess, notifier, logger, out, views.Routes(deps)...)

	a := &App{
		session:   sess,
		api:       client,
		router:    r,
		notifier:  notifier,
		logger:    logger,
		modal:     &views.Modal{Notifier: notifier, Page: r, Logger: logger},
		groups:    services.NewGroupService(client, logger),
		members:   services.NewMemberService(client, logger),
		rules:     services.NewRuleService(client, logger),
		penalties: services.NewPenaltyService(client, logger),
		proofs:    services.NewProofService(client, logger),
		profile:   services.NewProfileService(client, sess, logger),
		reader:    bufio.NewReader(in),
		out:       out,
	}
	a.unsubscribe = sess.Subscribe(a.onSessionChange)
	return a
}

// onSessionChange notices a session that was dropped by a 401.
func (a *App) onSessionChange(st session.State) {
	if st.Loading {
		return
	}
	if a.wasAuthenticated.Swap(st.Authenticated) && !st.Authenticated {
		a.expired.Store(true)
	}
}

// Run restores the session, shows the first page and runs the REPL until
// the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	fmt.Fprintln(a.out, "Welcome to PenaltyBox CLI (type 'help' for commands)")
	_ = a.router.Navigate(ctx, views.RouteDashboard, nil)

	if err := a.session.Init(ctx); err != nil {
		a.logger.Warn(ctx, "could not restore session", "error", err)
	}
	a.wasAuthenticated.Store(a.session.IsAuthenticated())
	if err := a.router.Navigate(ctx, views.RouteDashboard, nil); err != nil {
		a.logger.Error(ctx, "navigation failed", "error", err)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) close() {
	a.router.Close()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.session.Dispose()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// status is the prompt decoration, "(email [admin])" or "".
func (a *App) status() string {
	u := a.session.User()
	if u == nil || !a.session.IsAuthenticated() {
		return ""
	}
	s := u.Email
	if u.IsAdmin {
		s += " " + router.AdminMarker
	}
	return "(" + s + ")"
}

func (a *App) user() *models.User { return a.session.User() }

// afterCommand sends the user to login when a request revoked the session.
func (a *App) afterCommand(ctx context.Context) {
	if !a.expired.Swap(false) {
		return
	}
	a.notifier.Error(MsgSessionExpired)
	if err := a.router.Navigate(ctx, views.RouteLogin, nil); err != nil {
		a.logger.Error(ctx, "navigation failed", "error", err)
	}
}

func (a *App) navigate(ctx context.Context, route string, p router.Params) error {
	return a.router.Navigate(ctx, route, p)
}

// loadFailed reports a read a command needs before prompting. The backend
// detail wins over msg.
func (a *App) loadFailed(ctx context.Context, msg string, err error) error {
	a.logger.Error(ctx, msg, "status", api.StatusCode(err), "detail", api.DetailOr(err, ""), "error", err)
	a.notifier.Error(api.DetailOr(err, msg))
	return err
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
