// Package session holds who is logged in.
//
// A Session is created explicitly with New and passed to whoever needs it.
// It starts in the loading state; Init rehydrates it from the Store. Login,
// Register and Logout keep memory and the Store in step, and any 401 seen
// by the API client invalidates it through HandleUnauthorized.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/common"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

const (
	LoginFailedMessage        = "Login failed. Please check your credentials."
	RegistrationFailedMessage = "Registration failed. Please try again."
)

// AuthAPI is the part of the backend the session talks to.
type AuthAPI interface {
	Register(ctx context.Context, r models.Registration) (*models.User, error)
	Login(ctx context.Context, c models.Credentials) (*models.TokenResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// Result is what login and registration forms get back. Error is set only
// when Success is false.
type Result struct {
	Success bool
	Error   string
}

// State is a point-in-time view passed to subscribers.
type State struct {
	Loading       bool
	Authenticated bool
	User          *models.User
}

type Session struct {
	store  Store
	auth   AuthAPI
	logger logging.Logger

	mu       sync.RWMutex
	loading  bool
	disposed bool
	token    string
	user     *models.User
	subs     map[int]func(State)
	nextSub  int
}

func New(store Store, auth AuthAPI, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Session{
		store:   store,
		auth:    auth,
		logger:  logger,
		loading: true,
		subs:    map[int]func(State){},
	}
}

// Init restores token and user from the store. The session is restored
// only when both are present; the token is not checked with the backend.
// Loading is false afterwards even when the store fails.
func (s *Session) Init(ctx context.Context) error {
	s.mu.RLock()
	disposed := s.disposed
	s.mu.RUnlock()
	if disposed {
		return common.ErrSessionDisposed
	}

	snap, err := s.store.Load(ctx)

	s.mu.Lock()
	if err == nil && snap.Token != "" && snap.User != nil {
		s.token = snap.Token
		s.user = snap.User
	}
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(ctx, "session restore failed", "error", err)
	}
	s.notify()
	return err
}

// Dispose drops all subscribers. Calling it again does nothing.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposed = true
	s.subs = map[int]func(State){}
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAuthenticated is true while a token is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// User returns a copy of the current user, nil when logged out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenExpiry reports the exp claim of the current token, if it has one.
func (s *Session) TokenExpiry() (time.Time, bool) {
	return TokenExpiry(s.Token())
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{Loading: s.loading, Authenticated: s.token != "", User: copyUser(s.user)}
}

// Subscribe registers fn for state changes and returns its cancel func.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) notify() {
	s.mu.RLock()
	st := s.stateLocked()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(st)
	}
}

func (s *Session) set(token string, user *models.User) {
	s.mu.Lock()
	s.token = token
	s.user = copyUser(user)
	s.mu.Unlock()
	s.notify()
}

// Login exchanges credentials for a token, stores it, then fetches the full
// profile with it. When the profile call fails the user is just the email.
func (s *Session) Login(ctx context.Context, c models.Credentials) Result {
	tr, err := s.auth.Login(ctx, c)
	if err != nil {
		s.logger.Error(ctx, "login failed", "email", c.Email, "status", api.StatusCode(err), "error", err)
		return Result{Error: api.DetailOr(err, LoginFailedMessage)}
	}
	if tr.AccessToken == "" {
		s.logger.Error(ctx, "login response without token", "email", c.Email)
		return Result{Error: LoginFailedMessage}
	}

	// the profile call reads the token from the store
	if err := s.store.Save(ctx, Snapshot{Token: tr.AccessToken}); err != nil {
		s.logger.Error(ctx, "persist token failed", "error", err)
		return Result{Error: LoginFailedMessage}
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		s.logger.Warn(ctx, "fetch profile failed, using email only", "email", c.Email, "error", err)
		user = &models.User{Email: c.Email}
	}

	if err := s.store.Save(ctx, Snapshot{Token: tr.AccessToken, User: user}); err != nil {
		s.logger.Error(ctx, "persist session failed", "error", err)
		_ = s.store.Clear(ctx)
		return Result{Error: LoginFailedMessage}
	}
	s.set(tr.AccessToken, user)
	s.logger.Info(ctx, "logged in", "email", user.Email, "admin", user.IsAdmin)
	return Result{Success: true}
}

// Register creates the account, logs in with the same credentials and then
// merges the registration response into the stored user.
func (s *Session) Register(ctx context.Context, r models.Registration) Result {
	created, err := s.auth.Register(ctx, r)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "email", r.Email, "status", api.StatusCode(err), "error", err)
		return Result{Error: api.DetailOr(err, RegistrationFailedMessage)}
	}

	res := s.Login(ctx, models.Credentials{Email: r.Email, Password: r.Password})
	if !res.Success {
		return res
	}

	user := s.User()
	token := s.Token()
	if user == nil || token == "" {
		return res
	}
	if created.ID != 0 {
		user.ID = created.ID
	}
	if created.Name != "" {
		user.Name = created.Name
	}
	if created.Email != "" {
		user.Email = created.Email
	}
	user.IsAdmin = created.IsAdmin
	user.GroupID = created.GroupID

	if err := s.store.Save(ctx, Snapshot{Token: token, User: user}); err != nil {
		s.logger.Error(ctx, "persist registered user failed", "error", err)
	}
	s.set(token, user)
	return res
}

// Logout forgets the session locally. There is no backend call, and
// logging out twice is the same as once.
func (s *Session) Logout(ctx context.Context) {
	s.clear(ctx)
}

// HandleUnauthorized is registered with the API client as its 401 hook.
func (s *Session) HandleUnauthorized(ctx context.Context) {
	if s.IsAuthenticated() {
		s.logger.Warn(ctx, "session rejected by backend, logging out")
	}
	s.clear(ctx)
}

func (s *Session) clear(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error(ctx, "clear stored session failed", "error", err)
	}

	s.mu.Lock()
	changed := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// UpdateUser replaces the stored profile, e.g. after editing it.
func (s *Session) UpdateUser(ctx context.Context, u models.User) error {
	token := s.Token()
	if token == "" {
		return common.ErrNotAuthenticated
	}
	if err := s.store.Save(ctx, Snapshot{Token: token, User: &u}); err != nil {
		return err
	}
	s.set(token, &u)
	return nil
}
