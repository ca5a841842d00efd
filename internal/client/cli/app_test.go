package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/router"
	"github.com/dmitrijs2005/penaltybox/internal/client/services"
	"github.com/dmitrijs2005/penaltybox/internal/client/session"
	"github.com/dmitrijs2005/penaltybox/internal/testutil/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv     *fakeapi.Server
	store   *session.MemoryStore
	admin   models.User
	member  models.User
	group   models.Group
	rule    models.Rule
	penalty models.Penalty
	proof   models.Proof
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stubTerminal(t, false)

	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	f := &fixture{srv: srv, store: session.NewMemoryStore()}
	f.admin = srv.AddUser("Mia", "mia@example.com", "secret1", true)
	f.member = srv.AddUser("Tom", "tom@example.com", "secret2", false)
	f.group = srv.AddGroup("Flat 4B", f.admin.ID, f.member.ID)
	f.rule = srv.AddRule(f.group.ID, "Late rent", 20)
	f.penalty = srv.AddPenalty(f.group.ID, f.member.ID, f.rule.ID, 20, models.StatusUnpaid)
	f.proof = srv.AddProof(f.penalty.ID, models.ProofPending)
	return f
}

// run drives a fresh App through the scripted input lines and returns
// everything it printed.
func (f *fixture) run(t *testing.T, lines ...string) string {
	t.Helper()
	client := api.NewHTTPClient(f.srv.URL, f.store)
	sess := session.New(f.store, client, nil)
	client.OnUnauthorized(sess.HandleUnauthorized)

	var out bytes.Buffer
	app := NewApp(sess, client, nil, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, app.Run(context.Background()))
	return out.String()
}

func (f *fixture) signIn(t *testing.T, u models.User) {
	t.Helper()
	require.NoError(t, f.store.Save(context.Background(), session.Snapshot{Token: f.srv.TokenFor(u.ID), User: &u}))
}

func TestApp_LoginLogout(t *testing.T) {
	f := newFixture(t)
	out := f.run(t,
		"groups",
		"login", "mia@example.com", "secret1",
		"groups",
		"logout",
		"groups",
		"exit",
	)

	assert.Contains(t, out, router.LoadingPlaceholder)
	assert.Contains(t, out, "Please log in first (type 'login').")
	assert.Contains(t, out, "Welcome back, Mia!")
	assert.Contains(t, out, "pb (mia@example.com "+router.AdminMarker+") > ")
	assert.Contains(t, out, "Flat 4B")
	assert.Contains(t, out, "Logged out successfully")
	assert.Equal(t, 2, strings.Count(out, "Please log in first (type 'login')."))

	snap, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Token)
}

func TestApp_LoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "login", "mia@example.com", "nope", "exit")

	assert.NotContains(t, out, "Welcome back")
	assert.Contains(t, out, "pb > ")
	snap, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Token)
}

func TestApp_ReloginWhenProfileFetchIsRejected(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.admin)
	f.srv.Fail(http.MethodGet, "/auth/me", http.StatusUnauthorized, "")

	out := f.run(t, "login", "tom@example.com", "secret2", "groups", "exit")

	assert.Contains(t, out, "Welcome back, tom@example.com!")
	assert.NotContains(t, out, MsgSessionExpired)
	assert.Contains(t, out, "pb (tom@example.com) > ")
	assert.NotContains(t, out, "Please log in first")

	snap, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, "tom@example.com", snap.User.Email)
}

func TestApp_RestoresStoredSession(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.member)

	out := f.run(t, "exit")
	assert.Contains(t, out, "Welcome back")
	assert.Contains(t, out, "pb (tom@example.com) > ")
}

func TestApp_ExpiredTokenReturnsToLogin(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.member)
	f.srv.RevokeTokens()

	out := f.run(t, "groups", "groups", "exit")

	assert.Contains(t, out, MsgSessionExpired)
	assert.Equal(t, 1, strings.Count(out, MsgSessionExpired))
	assert.Contains(t, out, "Please log in first (type 'login').")

	snap, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
}

func TestApp_CreateGroup(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.member)

	out := f.run(t,
		"creategroup", "ab", "",
		"creategroup", "Book club", "  ",
		"exit",
	)
	assert.Contains(t, out, "Group name must be at least 3 characters")
	assert.Contains(t, out, "Group created successfully")

	posts := f.srv.RequestsTo(http.MethodPost, "/groups")
	require.Len(t, posts, 1)
	var body map[string]any
	require.NoError(t, posts[0].JSON(&body))
	assert.Equal(t, "Book club", body["name"])
	assert.Nil(t, body["description"])
}

func TestApp_ToggleStatusFromGroupPenalties(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.admin)

	pid := itoa(f.penalty.ID)
	out := f.run(t,
		"status "+pid,
		"grouppenalties "+itoa(f.group.ID),
		"status "+pid, "cash received 5 Jan",
		"exit",
	)
	assert.Contains(t, out, "Open a penalty list first")
	assert.Contains(t, out, "Penalty marked as paid")

	muts := f.srv.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, "/penalties/"+pid+"/status", muts[0].Path)
	assert.Equal(t, "PAID", muts[0].Query.Get("status"))
	assert.Equal(t, "cash received 5 Jan", muts[0].Query.Get("admin_note"))

	p, _ := f.srv.Penalty(f.penalty.ID)
	assert.Equal(t, models.StatusPaid, p.Status)
}

func TestApp_DeclineRequiresNote(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.admin)

	id := itoa(f.proof.ID)
	out := f.run(t,
		"decline "+id, "   ",
		"decline "+id, " blurry photo ",
		"exit",
	)
	assert.Contains(t, out, "Admin note is required when declining")
	assert.Contains(t, out, "Proof declined")

	muts := f.srv.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, "/proofs/"+id+"/decline", muts[0].Path)

	p, _ := f.srv.Proof(f.proof.ID)
	assert.Equal(t, models.ProofDeclined, p.Status)
}

func TestApp_UploadProof(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.member)

	dir := t.TempDir()
	good := filepath.Join(dir, "receipt.png")
	require.NoError(t, os.WriteFile(good, fakeapi.PNGHeader, 0o600))
	big := filepath.Join(dir, "huge.png")
	require.NoError(t, os.WriteFile(big, append(append([]byte(nil), fakeapi.PNGHeader...), make([]byte, services.MaxProofSize)...), 0o600))
	doc := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(doc, []byte("just text"), 0o600))

	pid := itoa(f.penalty.ID)
	out := f.run(t,
		"upload "+pid+" "+big,
		"upload "+pid+" "+doc,
		"upload "+pid+" "+filepath.Join(dir, "missing.png"),
		"upload "+pid+" "+good+" TX-42",
		"exit",
	)
	assert.Contains(t, out, "File size must be less than 5MB")
	assert.Contains(t, out, "Only JPG and PNG images are allowed")
	assert.Contains(t, out, "Cannot read")
	assert.Contains(t, out, "Proof uploaded successfully! Processing...")

	ups := f.srv.Uploads()
	require.Len(t, ups, 1)
	assert.Equal(t, "receipt.png", ups[0].Filename)
	assert.Equal(t, "image/png", ups[0].ContentType)
	require.NotNil(t, ups[0].Reference)
	assert.Equal(t, "TX-42", *ups[0].Reference)
}

func TestApp_DownloadProofImage(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.admin)
	chdir(t, t.TempDir())

	out := f.run(t, "image "+itoa(f.proof.ID), "image 999", "exit")
	assert.Contains(t, out, "Saved ")
	assert.Contains(t, out, "Proof not found")

	got, err := os.ReadFile(filepath.Join(DownloadDir, f.proof.ImageURL))
	require.NoError(t, err)
	assert.Equal(t, fakeapi.PNGHeader, got)
}

func TestApp_FailedDownloadLeavesNoFile(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.admin)
	chdir(t, t.TempDir())
	f.srv.Fail(http.MethodGet, "/uploads/"+f.proof.ImageURL, http.StatusInternalServerError, "")

	out := f.run(t, "image "+itoa(f.proof.ID), "exit")
	assert.Contains(t, out, "Failed to download proof image")

	entries, err := os.ReadDir(DownloadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	f.srv.ClearFailures()
	f.run(t, "image "+itoa(f.proof.ID), "exit")
	_, err = os.Stat(filepath.Join(DownloadDir, f.proof.ImageURL))
	assert.NoError(t, err, "next download keeps the original name")
}

func TestApp_ProofsAdminOnly(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.member)

	out := f.run(t, "proofs", "exit")
	assert.Contains(t, out, "Admin access required")
	assert.Empty(t, f.srv.RequestsTo(http.MethodGet, "/proofs"))
}

func TestApp_ArgumentChecks(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.member)

	out := f.run(t, "group", "group abc", "exit")
	assert.Contains(t, out, "Usage: group <id>")
	assert.Contains(t, out, "Invalid group id: abc")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
