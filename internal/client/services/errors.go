package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/common"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

// ValidationError is a form field that failed local checks.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ActionError is a failed API call with the message to display.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// Message returns the text to show for err.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// byStatus are messages that replace the backend detail for a status code.
type byStatus map[int]string

type base struct {
	api    api.Client
	logger logging.Logger
}

func newBase(c api.Client, l logging.Logger) base {
	if l == nil {
		l = logging.Nop()
	}
	return base{api: c, logger: l}
}

// fail logs err and wraps it into an *ActionError.
func (b base) fail(ctx context.Context, op string, err error, fallback string, overrides byStatus) error {
	status := api.StatusCode(err)
	var apiErr *api.APIError
	requestID := ""
	if errors.As(err, &apiErr) {
		requestID = apiErr.RequestID
	}
	b.logger.Error(ctx, op+" failed", "status", status, "detail", api.DetailOr(err, ""), "request_id", requestID, "error", err)

	if msg, ok := overrides[status]; ok {
		return &ActionError{Message: msg, Err: err}
	}
	return &ActionError{Message: api.DetailOr(err, fallback), Err: err}
}
