package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/common"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

const minPasswordLen = 6

// MsgProfileUnavailable is returned when the signed-in user has no id, as
// after a login whose profile fetch failed.
const MsgProfileUnavailable = "Profile is not loaded. Please log in again."

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// UserStore receives the edited profile. *session.Session implements it.
type UserStore interface {
	User() *models.User
	UpdateUser(ctx context.Context, u models.User) error
}

type ProfileService interface {
	Update(ctx context.Context, name, email string) (*models.User, error)
	ChangePassword(ctx context.Context, current, next, confirm string) error
}

type profileService struct {
	base
	users UserStore
}

func NewProfileService(c api.Client, users UserStore, l logging.Logger) ProfileService {
	return &profileService{base: newBase(c, l), users: users}
}

func (s *profileService) current() (*models.User, error) {
	u := s.users.User()
	if u == nil {
		return nil, common.ErrNotAuthenticated
	}
	if u.ID == 0 {
		return nil, invalid("user", MsgProfileUnavailable)
	}
	return u, nil
}

// Update saves name and email and refreshes the session copy, keeping the
// fields the backend does not echo.
func (s *profileService) Update(ctx context.Context, name, email string) (*models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, invalid("name", "Name and email are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, invalid("email", "Please enter a valid email address")
	}
	me, err := s.current()
	if err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateUser(ctx, me.ID, models.ProfileUpdate{Name: name, Email: email})
	if err != nil {
		return nil, s.fail(ctx, "update profile", err, "Failed to update profile", nil)
	}

	merged := *me
	merged.Name, merged.Email = name, email
	if updated != nil {
		if updated.Name != "" {
			merged.Name = updated.Name
		}
		if updated.Email != "" {
			merged.Email = updated.Email
		}
	}
	if err := s.users.UpdateUser(ctx, merged); err != nil {
		s.logger.Warn(ctx, "could not persist updated profile", "error", err)
	}
	return &merged, nil
}

func (s *profileService) ChangePassword(ctx context.Context, current, next, confirm string) error {
	switch {
	case current == "" || next == "" || confirm == "":
		return invalid("password", "All password fields are required")
	case len(next) < minPasswordLen:
		return invalid("new_password", "New password must be at least 6 characters long")
	case next != confirm:
		return invalid("confirm_password", "New passwords do not match")
	}
	me, err := s.current()
	if err != nil {
		return err
	}
	if err := s.api.ChangePassword(ctx, me.ID, models.PasswordChange{CurrentPassword: current, NewPassword: next}); err != nil {
		return s.fail(ctx, "change password", err, "Failed to change password", nil)
	}
	return nil
}
