// Package router maps route names to views and guards the protected ones.
//
// Navigate renders a "Loading..." placeholder while the session is still
// being restored, sends unauthenticated users to the login route and shows
// authenticated views inside the shared Layout. The guard only knows about
// authentication; admin checks belong to the views and the backend.
package router

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/notify"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

// LoadingPlaceholder is all that is rendered before the session is restored.
const LoadingPlaceholder = "Loading..."

const maxRedirects = 5

var (
	ErrUnknownRoute  = errors.New("unknown route")
	ErrRedirectLoop  = errors.New("too many redirects")
	ErrNothingLoaded = errors.New("no view is mounted")
)

// Params are the route parameters, e.g. {"id": "7"}.
type Params map[string]string

// View is one page. Load fetches what the page shows using ctx, which is
// cancelled when the page is left. Render must not do I/O.
type View interface {
	Title() string
	Load(ctx context.Context) error
	Render(w io.Writer)
}

// Unmounter is implemented by views that hold resources past Load.
type Unmounter interface {
	Unmount()
}

// Reloader is implemented by views whose data can be refetched in place.
type Reloader interface {
	Reload(ctx context.Context) error
}

type Route struct {
	Name  string
	Label string
	// Protected routes require a session.
	Protected bool
	// AdminOnly hides the sidebar entry from non-admins. It is not checked
	// on navigation.
	AdminOnly bool
	// Hidden routes are not listed in the sidebar.
	Hidden bool
	View   func(p Params) (View, error)
}

// Session is what the guard needs to know about the current user.
type Session interface {
	Loading() bool
	IsAuthenticated() bool
	User() *models.User
}

// Redirect is returned by a view's Load to send the user elsewhere.
type Redirect struct {
	To      string
	Params  Params
	Message string
}

func (r *Redirect) Error() string {
	if r.Message != "" {
		return fmt.Sprintf("redirect to %s: %s", r.To, r.Message)
	}
	return "redirect to " + r.To
}

type mounted struct {
	route  Route
	params Params
	view   View
	cancel context.CancelFunc
}

type Router struct {
	session  Session
	notifier notify.Notifier
	logger   logging.Logger
	out      io.Writer
	styles   ui.Styles

	routes map[string]Route
	order  []string
	login  string

	mu      sync.Mutex
	current *mounted
}

// New builds a router writing to out. The first route named "login" is the
// redirect target for unauthenticated users.
func New(session Session, notifier notify.Notifier, logger logging.Logger, out io.Writer, routes ...Route) *Router {
	if logger == nil {
		logger = logging.Nop()
	}
	r := &Router{
		session:  session,
		notifier: notifier,
		logger:   logger,
		out:      out,
		styles:   ui.For(out),
		routes:   make(map[string]Route, len(routes)),
		login:    "login",
	}
	for _, rt := range routes {
		if _, dup := r.routes[rt.Name]; !dup {
			r.order = append(r.order, rt.Name)
		}
		r.routes[rt.Name] = rt
	}
	return r
}

// Routes returns the routes in registration order.
func (r *Router) Routes() []Route {
	out := make([]Route, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.routes[n])
	}
	return out
}

// Current returns the mounted route name, "" when none.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return ""
	}
	return r.current.route.Name
}

// CurrentView returns the mounted view, nil when none.
func (r *Router) CurrentView() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	return r.current.view
}

func (r *Router) Navigate(ctx context.Context, name string, params Params) error {
	for i := 0; i < maxRedirects; i++ {
		next, err := r.navigate(ctx, name, params)
		if err != nil || next == nil {
			return err
		}
		if next.Message != "" {
			r.notifier.Error(next.Message)
		}
		name, params = next.To, next.Params
	}
	return ErrRedirectLoop
}

// navigate performs one step and returns the redirect to follow, if any.
func (r *Router) navigate(ctx context.Context, name string, params Params) (*Redirect, error) {
	rt, ok := r.routes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}

	if r.session.Loading() {
		r.unmount()
		fmt.Fprintln(r.out, LoadingPlaceholder)
		return nil, nil
	}

	if rt.Protected && !r.session.IsAuthenticated() {
		if name == r.login {
			return nil, fmt.Errorf("login route %q must not be protected", name)
		}
		r.logger.Debug(ctx, "redirect to login", "from", name)
		return &Redirect{To: r.login}, nil
	}

	view, err := rt.View(params)
	if err != nil {
		return nil, err
	}

	r.unmount()
	viewCtx, cancel := context.WithCancel(ctx)
	m := &mounted{route: rt, params: params, view: view, cancel: cancel}

	if err := view.Load(viewCtx); err != nil {
		cancel()
		unmountView(view)
		var redirect *Redirect
		if errors.As(err, &redirect) {
			return redirect, nil
		}
		return nil, err
	}

	r.mu.Lock()
	r.current = m
	r.mu.Unlock()

	r.render(m)
	return nil, nil
}

// Reload refetches the mounted view and renders it again.
func (r *Router) Reload(ctx context.Context) error {
	r.mu.Lock()
	m := r.current
	r.mu.Unlock()
	if m == nil {
		return ErrNothingLoaded
	}

	if rl, ok := m.view.(Reloader); ok {
		if err := rl.Reload(ctx); err != nil {
			var redirect *Redirect
			if errors.As(err, &redirect) {
				if redirect.Message != "" {
					r.notifier.Error(redirect.Message)
				}
				return r.Navigate(ctx, redirect.To, redirect.Params)
			}
			return err
		}
		r.render(m)
		return nil
	}
	return r.Navigate(ctx, m.route.Name, m.params)
}

// Close unmounts the current view.
func (r *Router) Close() {
	r.unmount()
}

func (r *Router) unmount() {
	r.mu.Lock()
	m := r.current
	r.current = nil
	r.mu.Unlock()
	if m == nil {
		return
	}
	m.cancel()
	unmountView(m.view)
}

func unmountView(v View) {
	if u, ok := v.(Unmounter); ok {
		u.Unmount()
	}
}

func (r *Router) render(m *mounted) {
	var body bytes.Buffer
	m.view.Render(&body)

	if !m.route.Protected {
		fmt.Fprint(r.out, body.String())
		return
	}
	fmt.Fprint(r.out, Layout(r.styles, r.session.User(), r.Routes(), m.route.Name, m.view.Title(), body.String()))
}
