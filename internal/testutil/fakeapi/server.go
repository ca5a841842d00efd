package fakeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

var signingKey = []byte("fakeapi-test-key")

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into v.
func (r Request) JSON(v any) error { return json.Unmarshal(r.Body, v) }

// Upload is a received proof file.
type Upload struct {
	PenaltyID   int64
	Filename    string
	ContentType string
	Size        int
	Reference   *string
}

type failure struct {
	status int
	detail string
}

type user struct {
	models.User
	password string
}

type group struct {
	models.Group
	members []models.Member
}

// Server is the fake backend. The zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	nextID    int64
	users     map[int64]*user
	groups    map[int64]*group
	rules     map[int64]models.Rule
	penalties map[int64]models.Penalty
	proofs    map[int64]models.Proof
	requests  []Request
	uploads   []Upload
	failures  map[string]failure
	revoked   bool
	now       time.Time
}

// New starts a fake backend. It is closed with t.Cleanup by the caller.
func New() *Server {
	s := &Server{
		users:     map[int64]*user{},
		groups:    map[int64]*group{},
		rules:     map[int64]models.Rule{},
		penalties: map[int64]models.Penalty{},
		proofs:    map[int64]models.Proof{},
		failures:  map[string]failure{},
		now:       time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/auth/login", s.login)
	r.Post("/auth/register", s.register)

	r.Group(func(r chi.Router) {
		r.Use(s.auth)

		r.Get("/auth/me", s.me)

		r.Get("/users", s.listUsers)
		r.Put("/users/{id}", s.updateUser)
		r.Post("/users/{id}/change-password", s.changePassword)

		r.Get("/groups", s.listGroups)
		r.Post("/groups", s.createGroup)
		r.Get("/groups/{id}", s.getGroup)
		r.Put("/groups/{id}", s.updateGroup)
		r.Delete("/groups/{id}", s.deleteGroup)
		r.Post("/groups/{id}/members", s.addMember)
		r.Delete("/groups/{id}/members", s.removeMember)
		r.Get("/groups/{id}/rules", s.listRules)
		r.Post("/groups/{id}/rules", s.createRule)
		r.Put("/groups/{id}/rules/{ruleID}", s.updateRule)
		r.Delete("/groups/{id}/rules/{ruleID}", s.deleteRule)
		r.Get("/groups/leaderboard/global", s.globalLeaderboard)
		r.Get("/groups/{id}/leaderboard", s.groupLeaderboard)

		r.Get("/penalties", s.listPenalties)
		r.Post("/penalties", s.issuePenalty)
		r.Get("/penalties/user/{id}", s.userPenalties)
		r.Put("/penalties/{id}/status", s.updatePenaltyStatus)

		r.Get("/proofs", s.listProofs)
		r.Get("/proofs/penalty/{id}", s.penaltyProofs)
		r.Post("/proofs/upload/{id}", s.uploadProof)
		r.Post("/proofs/{id}/approve", s.approveProof)
		r.Post("/proofs/{id}/decline", s.declineProof)
	})

	r.Get("/uploads/{name}", s.serveUpload)
	return r
}

// record stores the request and applies any configured failure for the
// matched route pattern.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		f, failed := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if failed {
			writeDetail(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Fail makes every request to method+path (a concrete path such as
// "/groups/7") answer status with detail. An empty detail omits the body.
func (s *Server) Fail(method, path string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, detail: detail}
}

// ClearFailures removes every configured failure.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]failure{}
}

// RevokeTokens makes every authenticated route answer 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = true
}

// Requests returns a copy of all recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the recorded requests for method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Mutations returns the recorded non-GET requests.
func (s *Server) Mutations() []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

// ResetRequests forgets recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Uploads returns the received proof files.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// AddUser seeds a user account.
func (s *Server) AddUser(name, email, password string, admin bool) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, admin)
}

func (s *Server) addUserLocked(name, email, password string, admin bool) models.User {
	u := &user{User: models.User{ID: s.id(), Name: name, Email: email, IsAdmin: admin}, password: password}
	s.users[u.ID] = u
	return u.User
}

// AddGroup seeds a group with adminID as its admin and the given members.
func (s *Server) AddGroup(name string, adminID int64, memberIDs ...int64) models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := &group{Group: models.Group{ID: s.id(), Name: name, CreatedAt: models.Time{Time: s.now}}}
	s.groups[g.ID] = g
	s.joinLocked(g, adminID, models.RoleAdmin)
	for _, id := range memberIDs {
		s.joinLocked(g, id, models.RoleMember)
	}
	return g.view()
}

// AddRule seeds a rule in groupID.
func (s *Server) AddRule(groupID int64, title string, amount float64) models.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := models.Rule{ID: s.id(), GroupID: groupID, Title: title, Amount: amount, CreatedAt: models.Time{Time: s.now}}
	s.rules[r.ID] = r
	return r
}

// AddPenalty seeds a penalty.
func (s *Server) AddPenalty(groupID, userID, ruleID int64, amount float64, status models.PenaltyStatus) models.Penalty {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Penalty{
		ID: s.id(), GroupID: groupID, UserID: userID, RuleID: ruleID,
		Amount: amount, Status: status, CreatedAt: models.Time{Time: s.now},
	}
	s.penalties[p.ID] = p
	return s.enrichLocked(p)
}

// AddProof seeds a proof for penaltyID.
func (s *Server) AddProof(penaltyID int64, status models.ProofStatus) models.Proof {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Proof{
		ID: s.id(), PenaltyID: penaltyID, Status: status,
		ImageURL: fmt.Sprintf("proof-%d.png", s.nextID), CreatedAt: models.Time{Time: s.now},
	}
	s.proofs[p.ID] = p
	return p
}

// Penalty returns the stored penalty.
func (s *Server) Penalty(id int64) (models.Penalty, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.penalties[id]
	return p, ok
}

// Proof returns the stored proof.
func (s *Server) Proof(id int64) (models.Proof, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proofs[id]
	return p, ok
}

// Group returns the stored group with members.
func (s *Server) Group(id int64) (models.GroupDetail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return models.GroupDetail{}, false
	}
	return models.GroupDetail{Group: g.view(), Members: append([]models.Member(nil), g.members...)}, true
}

// TokenFor issues a valid access token for userID, expiring in an hour.
func (s *Server) TokenFor(userID int64) string {
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprint(userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return tok
}

func (g *group) view() models.Group {
	out := g.Group
	out.MemberCount = len(g.members)
	out.AdminCount = 0
	for _, m := range g.members {
		if m.Role == models.RoleAdmin {
			out.AdminCount++
		}
	}
	return out
}

func (s *Server) joinLocked(g *group, userID int64, role models.Role) {
	u, ok := s.users[userID]
	if !ok {
		return
	}
	g.members = append(g.members, models.Member{
		ID: u.ID, Name: u.Name, Email: u.Email, Role: role, JoinedAt: models.Time{Time: s.now},
	})
}

func (s *Server) enrichLocked(p models.Penalty) models.Penalty {
	if u, ok := s.users[p.UserID]; ok {
		p.UserName = u.Name
	}
	if r, ok := s.rules[p.RuleID]; ok {
		p.RuleTitle = r.Title
	}
	return p
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
