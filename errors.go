package sentinel

import (
	"errors"
	"fmt"
)

// PendingApprovalError indicates that a secret access request has been
// submitted but not yet decided. It is transient - the caller may poll the
// request again later.
type PendingApprovalError struct {
	// RequestID is the identifier of the undecided access request, when
	// known.
	RequestID string
}

// NewPendingApprovalError returns a new error indicating that the access
// request with the given ID is still awaiting a decision.
func NewPendingApprovalError(requestID string) *PendingApprovalError {
	return &PendingApprovalError{RequestID: requestID}
}

// Error returns the pending approval error message.
func (e *PendingApprovalError) Error() string {
	return "Secret request pending approval"
}

// IsPendingApproval returns whether the error or any error it wraps indicates
// an undecided secret access request.
func IsPendingApproval(err error) bool {
	var pendingErr *PendingApprovalError
	return errors.As(err, &pendingErr)
}

// RequestNotFoundError indicates that the service has no record of a secret
// access request with the given ID.
type RequestNotFoundError struct {
	// RequestID is the identifier that could not be found.
	RequestID string
}

// NewRequestNotFoundError returns a new error indicating that the access
// request with the given ID could not be found.
func NewRequestNotFoundError(requestID string) *RequestNotFoundError {
	return &RequestNotFoundError{RequestID: requestID}
}

// Error returns the request not found error message.
func (e *RequestNotFoundError) Error() string {
	return fmt.Sprintf("secret request '%s' not found", e.RequestID)
}

// IsRequestNotFoundError returns whether the error or any error it wraps
// indicates an unknown secret access request.
func IsRequestNotFoundError(err error) bool {
	var notFoundErr *RequestNotFoundError
	return errors.As(err, &notFoundErr)
}

// AccessDeniedError indicates that a secret access request was rejected by
// the service.
type AccessDeniedError struct {
	// Reason is the service's explanation for the rejection.
	Reason string
}

// NewAccessDeniedError returns a new error indicating that the access request
// was rejected for the given reason.
func NewAccessDeniedError(reason string) *AccessDeniedError {
	return &AccessDeniedError{Reason: reason}
}

// Error returns the access denied error message, including the service's
// reason when there is one.
func (e *AccessDeniedError) Error() string {
	if e.Reason == "" {
		return "Access denied"
	}
	return fmt.Sprintf("Access denied: %s", e.Reason)
}

// IsAccessDenied returns whether the error or any error it wraps indicates a
// rejected secret access request.
func IsAccessDenied(err error) bool {
	var deniedErr *AccessDeniedError
	return errors.As(err, &deniedErr)
}
