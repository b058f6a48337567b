package application

import (
	"errors"
	"fmt"

	"jiraflow/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("remote connection not configured")
	ErrSyncBusy      = errors.New("a sync pass is already running")
	ErrRemoteOrigin  = errors.New("operation not allowed for remote-mirrored records")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConnectivityError means the remote tracker could not be reached at all.
// It aborts the current sync pass or transition attempt; no partial local
// state is left behind.
type ConnectivityError struct {
	Host string
	Err  error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach %s: %v", e.Host, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// TransitionRejectedError is a normal negative result: the workflow gate or
// the remote transition match said no. Local state is untouched (or rolled
// back) when this is returned.
type TransitionRejectedError struct {
	Key    string
	From   domain.Stage
	To     domain.Stage
	Reason string
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("cannot move %s from %s to %s: %s", e.Key, e.From, e.To, e.Reason)
}

// ResolutionRequiredError surfaces only when the automatic retry with a
// resolution field attached also failed.
type ResolutionRequiredError struct {
	Key    string
	Detail string
}

func (e *ResolutionRequiredError) Error() string {
	return fmt.Sprintf("transition of %s requires a resolution: %s", e.Key, e.Detail)
}
