// Package services provides the business operations behind the API surface:
// workflow management, run orchestration and template import.
package services

import (
	"errors"
	"fmt"

	"github.com/voltway/weaver/pkg/persistence"
)

// Business logic errors that map onto client-visible 4xx responses.
var (
	// ErrInvalidRequest indicates a malformed or incomplete request payload (400).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrWorkflowNotFound is returned when a workflow is not found (404).
	ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

	// ErrRunNotFound is returned when a run record is not found (404).
	ErrRunNotFound = persistence.ErrRunNotFound

	// ErrRunNotActive is returned when cancelling a run that is no longer
	// in flight (409).
	ErrRunNotActive = errors.New("run is not active")

	// ErrUnsupportedTemplateVersion indicates an import template with an
	// unknown version marker (400).
	ErrUnsupportedTemplateVersion = errors.New("unsupported template version")
)

// ServiceError wraps service-level errors with the operation that failed.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should surface as HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrUnsupportedTemplateVersion)
}

// IsNotFoundError checks if an error should surface as HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound) ||
		errors.Is(err, ErrRunNotFound)
}
