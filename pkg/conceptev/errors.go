package conceptev

import (
	"errors"
	"fmt"
)

// ErrSessionClosed is returned by requests issued on a closed Session.
var ErrSessionClosed = errors.New("session is closed")

// RemoteRequestError is returned when the API answers a read, create, update
// or upload with a status outside {200, 201}.
type RemoteRequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *RemoteRequestError) Error() string {
	return fmt.Sprintf("response failed: %s %s returned status %d: %s",
		e.Method, e.Path, e.StatusCode, string(e.Body))
}

// DeleteFailedError is returned when a delete is not answered with 204.
type DeleteFailedError struct {
	Route      Route
	ID         string
	StatusCode int
}

func (e *DeleteFailedError) Error() string {
	return fmt.Sprintf("failed to delete from %s with id:%s (status %d)",
		e.Route, e.ID, e.StatusCode)
}

// PollingExhaustedError is returned when result polling used every attempt
// without a 200 response.
type PollingExhaustedError struct {
	Attempts   int
	LastStatus int
	LastBody   []byte
}

func (e *PollingExhaustedError) Error() string {
	return fmt.Sprintf("too many requests: no result after %d attempts, last response status %d: %s",
		e.Attempts, e.LastStatus, string(e.LastBody))
}

// WorkflowStepError is returned when one step of a multi-call workflow
// fails. Steps that already succeeded are not rolled back.
type WorkflowStepError struct {
	Workflow string
	Step     string
	Err      error
}

func (e *WorkflowStepError) Error() string {
	return fmt.Sprintf("%s: step %q failed: %v", e.Workflow, e.Step, e.Err)
}

func (e *WorkflowStepError) Unwrap() error {
	return e.Err
}

// IsRemoteRequestError reports whether err wraps a RemoteRequestError.
func IsRemoteRequestError(err error) bool {
	var target *RemoteRequestError
	return errors.As(err, &target)
}

// IsPollingExhausted reports whether err wraps a PollingExhaustedError.
func IsPollingExhausted(err error) bool {
	var target *PollingExhaustedError
	return errors.As(err, &target)
}

// FailedStep returns the name of the failed workflow step, if err wraps a
// WorkflowStepError.
func FailedStep(err error) (string, bool) {
	var target *WorkflowStepError
	if errors.As(err, &target) {
		return target.Step, true
	}
	return "", false
}
