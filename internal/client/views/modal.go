package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/notify"
	"github.com/dmitrijs2005/penaltybox/internal/client/router"
	"github.com/dmitrijs2005/penaltybox/internal/client/services"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

// Page is what a modal refreshes after a successful action.
type Page interface {
	Reload(ctx context.Context) error
}

// Modal runs one mutating action and reports the outcome as a toast.
type Modal struct {
	Notifier notify.Notifier
	Page     Page
	Logger   logging.Logger
}

// Run executes action. On failure it toasts the error message and returns
// the error. On success it toasts success and reloads the page.
func (m *Modal) Run(ctx context.Context, success string, action func(ctx context.Context) error) error {
	if err := action(ctx); err != nil {
		m.Notifier.Error(services.Message(err))
		return err
	}
	m.Notifier.Success(success)
	if m.Page == nil {
		return nil
	}
	if err := m.Page.Reload(ctx); err != nil && !errors.Is(err, router.ErrNothingLoaded) {
		if m.Logger != nil {
			m.Logger.Warn(ctx, "reload after action failed", "error", err)
		}
		return err
	}
	return nil
}

// Success messages shown after modal actions.
const (
	MsgGroupCreated     = "Group created successfully!"
	MsgGroupUpdated     = "Group updated successfully!"
	MsgGroupDeleted     = "Group deleted successfully!"
	MsgRuleCreated      = "Rule created successfully!"
	MsgRuleUpdated      = "Rule updated successfully!"
	MsgPenaltyIssued    = "Penalty issued successfully!"
	MsgProofUploaded    = "Proof uploaded successfully! Processing..."
	MsgProofApproved    = "Proof approved and penalty marked as PAID!"
	MsgProofDeclined    = "Proof declined"
	MsgProfileUpdated   = "Profile updated successfully!"
	MsgPasswordChanged  = "Password changed successfully!"
	MsgLoggedOut        = "Logged out successfully"
	MsgLoadUsersFailed  = "Failed to load users"
	MsgLoadIssueFailed  = "Failed to load members and rules"
	MsgLoadGroupsFailed = "Failed to load groups"
)

func MsgMemberAdded(user, group string) string {
	return fmt.Sprintf("%s added to %s", user, group)
}

func MsgMemberRemoved(user, group string) string {
	return fmt.Sprintf("%s removed from %s", user, group)
}

func MsgRuleDeleted(title string) string {
	return fmt.Sprintf(`Rule "%s" deleted successfully!`, title)
}

func MsgPenaltyMarked(s models.PenaltyStatus) string {
	return "Penalty marked as " + strings.ToLower(string(s))
}
