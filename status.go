package sentinel

import "github.com/pkg/errors"

// Constants represent the statuses the Sentinel service reports for a secret
// access request on the wire.
const (
	// RequestStatusApproved indicates that the service approved the request
	// and issued the secret.
	RequestStatusApproved = "APPROVED"
	// RequestStatusPending indicates that the request is waiting on an
	// approver's decision.
	RequestStatusPending = "PENDING"
	// RequestStatusDenied indicates that the service rejected the request.
	RequestStatusDenied = "DENIED"
	// RequestStatusExpired indicates that the request or its grant expired
	// before it could be used.
	RequestStatusExpired = "EXPIRED"
)

// ApprovalStatus represents the client-side state of a secret access request.
type ApprovalStatus string

const (
	// StatusApproved indicates that the access request was approved and the
	// secret was issued.
	StatusApproved ApprovalStatus = "approved"
	// StatusPending indicates that the access request is awaiting a decision.
	StatusPending ApprovalStatus = "pending"
	// StatusDenied indicates that the access request was rejected.
	StatusDenied ApprovalStatus = "denied"
	// StatusUnknown indicates that the service reported a status this client
	// does not recognize. Callers should treat it the same as a denial.
	StatusUnknown ApprovalStatus = "unknown"
)

// Validate checks that the status is one of the recognized approval statuses.
func (s ApprovalStatus) Validate() error {
	switch s {
	case StatusApproved, StatusPending, StatusDenied, StatusUnknown:
		return nil
	default:
		return errors.Errorf("unrecognized approval status '%s'", s)
	}
}

// RedactValue returns a display-safe rendition of a secret value containing
// at most its first four characters followed by a masking marker. Values too
// short to partially reveal are masked entirely.
func RedactValue(val string) string {
	runes := []rune(val)
	if len(runes) <= 4 {
		return "***"
	}
	return string(runes[:4]) + "***"
}
