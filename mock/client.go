package mock

import (
	"context"
	"time"

	"github.com/evergreen-ci/utility"
	"github.com/google/uuid"
	"github.com/sentinel-project/sentinel-go"
)

// StoredRequest is a representation of a secret access request kept on the
// global request board.
type StoredRequest struct {
	// ID is the unique identifier assigned to the access request.
	ID string
	// ResourceID is the name of the secret resource that was requested.
	ResourceID string
	// TaskID, Summary, and Description echo the intent the request was filed
	// with.
	TaskID      string
	Summary     string
	Description string
	// Status is the service-side status of the request.
	Status string
	// Value is the issued secret material, present once approved.
	Value string
	// Ref is an external reference to the secret material, if the board was
	// seeded with one instead of an inline value.
	Ref string
	// Reason is the explanation for a denial.
	Reason string
	// Created is when the request was filed.
	Created time.Time
}

// RequestBoard provides a simplified in-memory implementation of a Sentinel
// service's request evaluation. Resources are seeded with a decision
// (approve, leave pending, or deny) and every filed request is recorded so
// tests can inspect or resolve it later.
type RequestBoard struct {
	// Requests holds every filed access request by request ID.
	Requests map[string]StoredRequest

	approvals map[string]string
	refs      map[string]string
	pending   map[string]bool
	denials   map[string]string
}

// GlobalRequestBoard is the global request board that the mock Client issues
// its calls against by default.
var GlobalRequestBoard *RequestBoard

func init() {
	ResetGlobalRequestBoard()
}

// ResetGlobalRequestBoard resets the global request board to an initialized
// but clean state.
func ResetGlobalRequestBoard() {
	GlobalRequestBoard = &RequestBoard{
		Requests:  map[string]StoredRequest{},
		approvals: map[string]string{},
		refs:      map[string]string{},
		pending:   map[string]bool{},
		denials:   map[string]string{},
	}
}

// Approve seeds the board so that requests for the resource are approved with
// the given secret value.
func (b *RequestBoard) Approve(resourceID, value string) {
	b.approvals[resourceID] = value
	delete(b.pending, resourceID)
	delete(b.denials, resourceID)
	delete(b.refs, resourceID)
}

// ApproveWithRef seeds the board so that requests for the resource are
// approved with an external reference instead of an inline value.
func (b *RequestBoard) ApproveWithRef(resourceID, ref string) {
	b.refs[resourceID] = ref
	delete(b.approvals, resourceID)
	delete(b.pending, resourceID)
	delete(b.denials, resourceID)
}

// MarkPending seeds the board so that requests for the resource are left
// awaiting a decision.
func (b *RequestBoard) MarkPending(resourceID string) {
	b.pending[resourceID] = true
	delete(b.approvals, resourceID)
	delete(b.denials, resourceID)
	delete(b.refs, resourceID)
}

// Deny seeds the board so that requests for the resource are rejected with
// the given reason.
func (b *RequestBoard) Deny(resourceID, reason string) {
	b.denials[resourceID] = reason
	delete(b.approvals, resourceID)
	delete(b.pending, resourceID)
	delete(b.refs, resourceID)
}

// ResolveRequest flips an already-filed request to the given status, issuing
// the value (for an approval) or recording the reason (for a denial). It
// returns whether the request exists on the board.
func (b *RequestBoard) ResolveRequest(requestID, status, valueOrReason string) bool {
	req, ok := b.Requests[requestID]
	if !ok {
		return false
	}

	req.Status = status
	switch status {
	case sentinel.RequestStatusApproved:
		req.Value = valueOrReason
	case sentinel.RequestStatusDenied, sentinel.RequestStatusExpired:
		req.Reason = valueOrReason
	}
	b.Requests[requestID] = req

	return true
}

func (b *RequestBoard) evaluate(in *sentinel.RequestSecretInput) StoredRequest {
	req := StoredRequest{
		ID:         uuid.New().String(),
		ResourceID: utility.FromStringPtr(in.ResourceID),
		Created:    time.Now(),
	}
	if in.Intent != nil {
		req.TaskID = utility.FromStringPtr(in.Intent.TaskID)
		req.Summary = utility.FromStringPtr(in.Intent.Summary)
		req.Description = utility.FromStringPtr(in.Intent.Description)
	}

	if val, ok := b.approvals[req.ResourceID]; ok {
		req.Status = sentinel.RequestStatusApproved
		req.Value = val
	} else if ref, ok := b.refs[req.ResourceID]; ok {
		req.Status = sentinel.RequestStatusApproved
		req.Ref = ref
	} else if b.pending[req.ResourceID] {
		req.Status = sentinel.RequestStatusPending
	} else if reason, ok := b.denials[req.ResourceID]; ok {
		req.Status = sentinel.RequestStatusDenied
		req.Reason = reason
	} else {
		req.Status = sentinel.RequestStatusDenied
		req.Reason = "resource is not registered with the service"
	}

	b.Requests[req.ID] = req

	return req
}

func exportStoredRequest(req StoredRequest) *sentinel.SecretRequestOutput {
	out := &sentinel.SecretRequestOutput{
		RequestID: utility.ToStringPtr(req.ID),
		Status:    utility.ToStringPtr(req.Status),
	}
	if req.Status == sentinel.RequestStatusApproved {
		out.Secret = &sentinel.SecretPayload{
			Name: utility.ToStringPtr(req.ResourceID),
		}
		if req.Ref != "" {
			out.Secret.Ref = utility.ToStringPtr(req.Ref)
		} else {
			out.Secret.Value = utility.ToStringPtr(req.Value)
		}
	}
	if req.Reason != "" {
		out.Reason = utility.ToStringPtr(req.Reason)
	}
	return out
}

// Client provides a mock implementation of a sentinel.Client. This makes it
// possible to introspect on inputs to the client and control the client's
// output. It provides some default implementations where possible. By
// default, it will issue the API calls to the fake GlobalRequestBoard.
type Client struct {
	RequestSecretInput  *sentinel.RequestSecretInput
	RequestSecretOutput *sentinel.SecretRequestOutput
	RequestSecretError  error

	GetSecretRequestInput  *sentinel.GetSecretRequestInput
	GetSecretRequestOutput *sentinel.SecretRequestOutput
	GetSecretRequestError  error

	CloseError error
}

// RequestSecret saves the input and files a new mock access request. The mock
// output can be customized. By default, it will evaluate the request against
// the decisions seeded on the global request board.
func (c *Client) RequestSecret(ctx context.Context, in *sentinel.RequestSecretInput) (*sentinel.SecretRequestOutput, error) {
	c.RequestSecretInput = in

	if c.RequestSecretOutput != nil || c.RequestSecretError != nil {
		return c.RequestSecretOutput, c.RequestSecretError
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return exportStoredRequest(GlobalRequestBoard.evaluate(in)), nil
}

// GetSecretRequest saves the input and returns the current state of an
// existing mock access request. The mock output can be customized. By
// default, it will return the request as recorded on the global request
// board.
func (c *Client) GetSecretRequest(ctx context.Context, in *sentinel.GetSecretRequestInput) (*sentinel.SecretRequestOutput, error) {
	c.GetSecretRequestInput = in

	if c.GetSecretRequestOutput != nil || c.GetSecretRequestError != nil {
		return c.GetSecretRequestOutput, c.GetSecretRequestError
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	id := utility.FromStringPtr(in.RequestID)
	req, ok := GlobalRequestBoard.Requests[id]
	if !ok {
		return nil, sentinel.NewRequestNotFoundError(id)
	}

	return exportStoredRequest(req), nil
}

// Close closes the mock client. The mock output can be customized. By
// default, it is a no-op that returns no error.
func (c *Client) Close(ctx context.Context) error {
	if c.CloseError != nil {
		return c.CloseError
	}
	return nil
}
