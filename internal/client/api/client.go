package api

import (
	"context"
	"io"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
)

// Client is the full backend surface used by the terminal client.
// *HTTPClient implements it; tests substitute fakes.
type Client interface {
	Register(ctx context.Context, r models.Registration) (*models.User, error)
	Login(ctx context.Context, c models.Credentials) (*models.TokenResponse, error)
	Me(ctx context.Context) (*models.User, error)

	ListGroups(ctx context.Context) ([]models.Group, error)
	GetGroup(ctx context.Context, id int64) (*models.GroupDetail, error)
	CreateGroup(ctx context.Context, in models.GroupInput) (*models.Group, error)
	UpdateGroup(ctx context.Context, id int64, in models.GroupInput) (*models.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
	AddMember(ctx context.Context, groupID int64, in models.MemberInput) error
	RemoveMember(ctx context.Context, groupID, userID int64) error

	ListRules(ctx context.Context, groupID int64) ([]models.Rule, error)
	CreateRule(ctx context.Context, groupID int64, in models.RuleInput) (*models.Rule, error)
	UpdateRule(ctx context.Context, groupID, ruleID int64, in models.RuleInput) (*models.Rule, error)
	DeleteRule(ctx context.Context, groupID, ruleID int64) error

	ListPenalties(ctx context.Context, groupID int64) ([]models.Penalty, error)
	UserPenalties(ctx context.Context, userID int64) ([]models.Penalty, error)
	IssuePenalty(ctx context.Context, groupID int64, in models.PenaltyInput) (*models.Penalty, error)
	UpdatePenaltyStatus(ctx context.Context, penaltyID int64, status models.PenaltyStatus, adminNote *string) (*models.Penalty, error)

	UploadProof(ctx context.Context, penaltyID int64, up Upload) (*models.Proof, error)
	ListProofs(ctx context.Context, filter models.ProofFilter) ([]models.Proof, error)
	PenaltyProofs(ctx context.Context, penaltyID int64) ([]models.Proof, error)
	ApproveProof(ctx context.Context, proofID int64, adminNote *string) (*models.Proof, error)
	DeclineProof(ctx context.Context, proofID int64, adminNote string) (*models.Proof, error)
	ProofImageURL(imageURL string) string
	DownloadProofImage(ctx context.Context, imageURL string, w io.Writer) (int64, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, userID int64, in models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, in models.PasswordChange) error

	GlobalLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	GroupLeaderboard(ctx context.Context, groupID int64) ([]models.LeaderboardEntry, error)
}

var _ Client = (*HTTPClient)(nil)
