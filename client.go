package sentinel

import (
	"context"
	"time"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// Client provides a common interface to interact with a Sentinel secret
// access service and its mock implementation for testing. Implementations
// must handle retrying and backoff for transient transport failures.
type Client interface {
	// RequestSecret submits a new secret access request and returns the
	// service's decision on it.
	RequestSecret(ctx context.Context, in *RequestSecretInput) (*SecretRequestOutput, error)
	// GetSecretRequest returns the current state of an existing secret access
	// request.
	GetSecretRequest(ctx context.Context, in *GetSecretRequestInput) (*SecretRequestOutput, error)
	// Close closes the client and cleans up its resources. Implementations
	// should ensure that this is idempotent.
	Close(ctx context.Context) error
}

// RequestSecretInput is the input to submit a new secret access request.
type RequestSecretInput struct {
	// ResourceID is the name of the secret resource being requested.
	ResourceID *string `json:"resource_id"`
	// Intent describes why the secret is being requested.
	Intent *RequestIntent `json:"intent"`
}

// SetResourceID sets the name of the secret resource being requested.
func (in *RequestSecretInput) SetResourceID(id string) *RequestSecretInput {
	in.ResourceID = &id
	return in
}

// SetIntent sets the intent describing why the secret is being requested.
func (in *RequestSecretInput) SetIntent(intent RequestIntent) *RequestSecretInput {
	in.Intent = &intent
	return in
}

// Validate checks that the request names a resource and carries a valid
// intent.
func (in *RequestSecretInput) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(in.ResourceID == nil || *in.ResourceID == "", "must provide a resource ID")
	if in.Intent != nil {
		catcher.Add(in.Intent.Validate())
	} else {
		catcher.New("must provide a request intent")
	}
	return catcher.Resolve()
}

// RequestIntent is the metadata describing why a secret is being requested.
// The service records it with the access request and surfaces it to
// approvers.
type RequestIntent struct {
	// TaskID identifies the unit of work that needs the secret.
	TaskID *string `json:"task_id"`
	// Summary is a short, human-readable description of the requester's
	// activity.
	Summary *string `json:"summary"`
	// Description is free text elaborating on why the secret is needed.
	Description *string `json:"description,omitempty"`
}

// SetTaskID sets the identifier of the unit of work that needs the secret.
func (i *RequestIntent) SetTaskID(id string) *RequestIntent {
	i.TaskID = &id
	return i
}

// SetSummary sets the short description of the requester's activity.
func (i *RequestIntent) SetSummary(summary string) *RequestIntent {
	i.Summary = &summary
	return i
}

// SetDescription sets the free-text justification for the request.
func (i *RequestIntent) SetDescription(desc string) *RequestIntent {
	i.Description = &desc
	return i
}

// Validate checks that the intent identifies the requesting task and
// summarizes its activity.
func (i *RequestIntent) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(i.TaskID == nil || *i.TaskID == "", "must provide a task ID")
	catcher.NewWhen(i.Summary == nil || *i.Summary == "", "must provide a summary")
	return catcher.Resolve()
}

// GetSecretRequestInput is the input to look up an existing secret access
// request.
type GetSecretRequestInput struct {
	// RequestID is the unique identifier of the access request.
	RequestID *string `json:"request_id"`
}

// SetRequestID sets the unique identifier of the access request.
func (in *GetSecretRequestInput) SetRequestID(id string) *GetSecretRequestInput {
	in.RequestID = &id
	return in
}

// Validate checks that the lookup names a request.
func (in *GetSecretRequestInput) Validate() error {
	if in.RequestID == nil || *in.RequestID == "" {
		return errors.New("must provide a request ID")
	}
	return nil
}

// SecretRequestOutput is the service's representation of a secret access
// request after evaluation.
type SecretRequestOutput struct {
	// RequestID is the unique identifier assigned to the access request.
	RequestID *string `json:"request_id"`
	// Status is the raw service-side status of the request (e.g. APPROVED,
	// PENDING, DENIED).
	Status *string `json:"status"`
	// Secret holds the secret payload. Only present when the request is
	// approved.
	Secret *SecretPayload `json:"secret,omitempty"`
	// Reason is the service's explanation for a request that was not
	// approved.
	Reason *string `json:"reason,omitempty"`
	// ExpiresAt is when the grant (or the pending request itself) expires, if
	// the service communicates one.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SecretPayload holds an issued secret. The service returns either an inline
// value or an external reference to where the value is stored, never both.
type SecretPayload struct {
	// Name is the friendly name of the secret resource.
	Name *string `json:"name,omitempty"`
	// Value is the secret material itself.
	Value *string `json:"value,omitempty"`
	// Ref is an external reference (e.g. awssm://<ARN>) to the secret
	// material when the service does not return it inline.
	Ref *string `json:"ref,omitempty"`
}
