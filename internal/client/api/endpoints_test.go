package api

import (
	"bytes"
	"context"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/testutil/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv    *fakeapi.Server
	c      *HTTPClient
	admin  models.User
	member models.User
	group  models.Group
	rule   models.Rule
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := newFake(t)
	f := &fixture{srv: srv}
	f.admin = srv.AddUser("Admin", "admin@example.com", "secret1", true)
	f.member = srv.AddUser("Mia", "mia@example.com", "secret2", false)
	f.group = srv.AddGroup("Flat 4B", f.admin.ID, f.member.ID)
	f.rule = srv.AddRule(f.group.ID, "Late rent", 500)
	token := srv.TokenFor(f.admin.ID)
	f.c = NewHTTPClient(srv.URL, TokenFunc(func(context.Context) (string, error) { return token, nil }))
	return f
}

func strPtr(s string) *string { return &s }

func TestEndpoints_RegisterLoginMe(t *testing.T) {
	srv := newFake(t)
	c := NewHTTPClient(srv.URL, nil)
	ctx := context.Background()

	u, err := c.Register(ctx, models.Registration{Name: "Neo", Email: "neo@example.com", Password: "matrix"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Neo", u.Name)

	_, err = c.Register(ctx, models.Registration{Name: "Neo", Email: "neo@example.com", Password: "matrix"})
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, "Email already registered", DetailOr(err, ""))

	tr, err := c.Login(ctx, models.Credentials{Email: "neo@example.com", Password: "matrix"})
	require.NoError(t, err)
	require.NotEmpty(t, tr.AccessToken)

	c2 := NewHTTPClient(srv.URL, TokenFunc(func(context.Context) (string, error) { return tr.AccessToken, nil }))
	me, err := c2.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)
}

func TestEndpoints_Groups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.c.CreateGroup(ctx, models.GroupInput{Name: "Office"})
	require.NoError(t, err)
	assert.Equal(t, "Office", g.Name)
	assert.Nil(t, g.Description)

	create := f.srv.RequestsTo(http.MethodPost, "/groups")
	require.Len(t, create, 1)
	assert.JSONEq(t, `{"name":"Office","description":null}`, string(create[0].Body))

	groups, err := f.c.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	_, err = f.c.UpdateGroup(ctx, g.ID, models.GroupInput{Name: "Office 2", Description: strPtr("upstairs")})
	require.NoError(t, err)

	d, err := f.c.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Office 2", d.Name)
	require.Len(t, d.Members, 1)
	assert.Equal(t, models.RoleAdmin, d.Members[0].Role)

	require.NoError(t, f.c.DeleteGroup(ctx, g.ID))
	_, err = f.c.GetGroup(ctx, g.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEndpoints_Members(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	newbie := f.srv.AddUser("Ned", "ned@example.com", "secret3", false)

	require.NoError(t, f.c.AddMember(ctx, f.group.ID, models.MemberInput{UserID: newbie.ID, Role: models.RoleMember}))
	require.NoError(t, f.c.RemoveMember(ctx, f.group.ID, newbie.ID))

	dels := f.srv.RequestsTo(http.MethodDelete, "/groups/"+itoa(f.group.ID)+"/members")
	require.Len(t, dels, 1)
	assert.JSONEq(t, `{"user_id":`+itoa(newbie.ID)+`}`, string(dels[0].Body))
	assert.Equal(t, "application/json", dels[0].Header.Get("Content-Type"))

	err := f.c.RemoveMember(ctx, f.group.ID, newbie.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEndpoints_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.c.CreateRule(ctx, f.group.ID, models.RuleInput{Title: "Dishes", Amount: 50})
	require.NoError(t, err)

	_, err = f.c.UpdateRule(ctx, f.group.ID, r.ID, models.RuleInput{Title: "Dishes left", Amount: 75})
	require.NoError(t, err)

	rules, err := f.c.ListRules(ctx, f.group.ID)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, 75.0, rules[1].Amount)

	require.NoError(t, f.c.DeleteRule(ctx, f.group.ID, r.ID))
	err = f.c.DeleteRule(ctx, f.group.ID, r.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEndpoints_Penalties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.c.IssuePenalty(ctx, f.group.ID, models.PenaltyInput{UserID: f.member.ID, RuleID: f.rule.ID, Amount: 500})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnpaid, p.Status)
	assert.Equal(t, "Mia", p.UserName)
	assert.Equal(t, "Late rent", p.RuleTitle)

	issue := f.srv.RequestsTo(http.MethodPost, "/penalties")
	require.Len(t, issue, 1)
	assert.Equal(t, itoa(f.group.ID), issue[0].Query.Get("group_id"))
	assert.JSONEq(t, `{"user_id":`+itoa(f.member.ID)+`,"rule_id":`+itoa(f.rule.ID)+`,"amount":500,"note":null}`, string(issue[0].Body))

	up, err := f.c.UpdatePenaltyStatus(ctx, p.ID, models.StatusPaid, strPtr("cash received 5 Jan"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, up.Status)

	put := f.srv.RequestsTo(http.MethodPut, "/penalties/"+itoa(p.ID)+"/status")
	require.Len(t, put, 1)
	assert.Equal(t, "PAID", put[0].Query.Get("status"))
	assert.Equal(t, "cash received 5 Jan", put[0].Query.Get("admin_note"))
	assert.Empty(t, put[0].Body)

	_, err = f.c.UpdatePenaltyStatus(ctx, p.ID, models.StatusUnpaid, nil)
	require.NoError(t, err)
	put = f.srv.RequestsTo(http.MethodPut, "/penalties/"+itoa(p.ID)+"/status")
	require.Len(t, put, 2)
	assert.False(t, put[1].Query.Has("admin_note"))

	mine, err := f.c.UserPenalties(ctx, f.member.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.c.ListPenalties(ctx, f.group.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEndpoints_Proofs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.srv.AddPenalty(f.group.ID, f.member.ID, f.rule.ID, 500, models.StatusUnpaid)

	data := append([]byte("\xff\xd8\xff\xe0"), bytes.Repeat([]byte{0}, 64)...)
	proof, err := f.c.UploadProof(ctx, p.ID, Upload{
		Filename: "receipt.jpg", ContentType: "image/jpeg", Data: data, Reference: strPtr("UPI-123"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProofPending, proof.Status)

	ups := f.srv.Uploads()
	require.Len(t, ups, 1)
	assert.Equal(t, "receipt.jpg", ups[0].Filename)
	assert.Equal(t, "image/jpeg", ups[0].ContentType)
	assert.Equal(t, len(data), ups[0].Size)
	require.NotNil(t, ups[0].Reference)
	assert.Equal(t, "UPI-123", *ups[0].Reference)

	raw := f.srv.RequestsTo(http.MethodPost, "/proofs/upload/"+itoa(p.ID))
	require.Len(t, raw, 1)
	mt, params, err := mime.ParseMediaType(raw[0].Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mt)
	form, err := multipart.NewReader(bytes.NewReader(raw[0].Body), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Len(t, form.File["file"], 1)

	pending, err := f.c.ListProofs(ctx, models.ProofFilter(models.ProofPending))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].Penalty)
	assert.Equal(t, p.ID, pending[0].Penalty.ID)

	_, err = f.c.ListProofs(ctx, models.ProofFilterAll)
	require.NoError(t, err)
	lists := f.srv.RequestsTo(http.MethodGet, "/proofs")
	require.Len(t, lists, 2)
	assert.Equal(t, "PENDING", lists[0].Query.Get("status_filter"))
	assert.False(t, lists[1].Query.Has("status_filter"))

	byPenalty, err := f.c.PenaltyProofs(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, byPenalty, 1)

	approved, err := f.c.ApproveProof(ctx, proof.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ProofApproved, approved.Status)
	appr := f.srv.RequestsTo(http.MethodPost, "/proofs/"+itoa(proof.ID)+"/approve")
	require.Len(t, appr, 1)
	assert.JSONEq(t, `{"admin_note":null}`, string(appr[0].Body))

	second := f.srv.AddProof(p.ID, models.ProofPending)
	declined, err := f.c.DeclineProof(ctx, second.ID, "blurry photo")
	require.NoError(t, err)
	assert.Equal(t, models.ProofDeclined, declined.Status)
	require.NotNil(t, declined.AdminNote)
	assert.Equal(t, "blurry photo", *declined.AdminNote)
}

func TestEndpoints_Users(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	users, err := f.c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	u, err := f.c.UpdateUser(ctx, f.admin.ID, models.ProfileUpdate{Name: "Boss", Email: "boss@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Boss", u.Name)

	err = f.c.ChangePassword(ctx, f.admin.ID, models.PasswordChange{CurrentPassword: "wrong", NewPassword: "newpass"})
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, "Current password is incorrect", DetailOr(err, ""))

	require.NoError(t, f.c.ChangePassword(ctx, f.admin.ID, models.PasswordChange{CurrentPassword: "secret1", NewPassword: "newpass"}))
}

func TestEndpoints_Leaderboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddPenalty(f.group.ID, f.member.ID, f.rule.ID, 500, models.StatusPaid)
	f.srv.AddPenalty(f.group.ID, f.member.ID, f.rule.ID, 200, models.StatusUnpaid)

	global, err := f.c.GlobalLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Equal(t, 700.0, global[0].TotalAmount)
	assert.Equal(t, 500.0, global[0].PaidAmount)
	assert.Equal(t, 200.0, global[0].UnpaidAmount)
	assert.Equal(t, 2, global[0].PenaltyCount)

	group, err := f.c.GroupLeaderboard(ctx, f.group.ID)
	require.NoError(t, err)
	assert.Len(t, group, 1)
}
