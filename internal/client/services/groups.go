package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/common"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

const minGroupName = 3

type GroupService interface {
	Create(ctx context.Context, name, description string) (*models.Group, error)
	Update(ctx context.Context, id int64, name, description string) (*models.Group, error)
	Delete(ctx context.Context, id int64) error
}

type groupService struct{ base }

func NewGroupService(c api.Client, l logging.Logger) GroupService {
	return &groupService{newBase(c, l)}
}

func groupInput(name, description string) (models.GroupInput, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return models.GroupInput{}, invalid("name", "Group name is required")
	case utf8.RuneCountInString(name) < minGroupName:
		return models.GroupInput{}, invalid("name", "Group name must be at least 3 characters")
	}
	return models.GroupInput{Name: name, Description: common.TrimmedOrNil(description)}, nil
}

func (s *groupService) Create(ctx context.Context, name, description string) (*models.Group, error) {
	in, err := groupInput(name, description)
	if err != nil {
		return nil, err
	}
	g, err := s.api.CreateGroup(ctx, in)
	if err != nil {
		return nil, s.fail(ctx, "create group", err, "Failed to create group", nil)
	}
	return g, nil
}

func (s *groupService) Update(ctx context.Context, id int64, name, description string) (*models.Group, error) {
	in, err := groupInput(name, description)
	if err != nil {
		return nil, err
	}
	g, err := s.api.UpdateGroup(ctx, id, in)
	if err != nil {
		return nil, s.fail(ctx, "update group", err, "Failed to update group", nil)
	}
	return g, nil
}

func (s *groupService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteGroup(ctx, id); err != nil {
		return s.fail(ctx, "delete group", err, "Failed to delete group", nil)
	}
	return nil
}

type MemberService interface {
	Add(ctx context.Context, groupID, userID int64, role models.Role) error
	Remove(ctx context.Context, groupID, userID int64) error
}

type memberService struct{ base }

func NewMemberService(c api.Client, l logging.Logger) MemberService {
	return &memberService{newBase(c, l)}
}

// Add puts userID into the group. An empty role means member.
func (s *memberService) Add(ctx context.Context, groupID, userID int64, role models.Role) error {
	if userID <= 0 {
		return invalid("user_id", "Please select a user")
	}
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return invalid("role", "Role must be admin or member")
	}
	if err := s.api.AddMember(ctx, groupID, models.MemberInput{UserID: userID, Role: role}); err != nil {
		return s.fail(ctx, "add member", err, "Failed to add member", nil)
	}
	return nil
}

func (s *memberService) Remove(ctx context.Context, groupID, userID int64) error {
	if userID <= 0 {
		return invalid("user_id", "Please select a member")
	}
	if err := s.api.RemoveMember(ctx, groupID, userID); err != nil {
		return s.fail(ctx, "remove member", err, "Failed to remove member", nil)
	}
	return nil
}
