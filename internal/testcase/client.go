package testcase

import (
	"context"
	"testing"

	"github.com/evergreen-ci/utility"
	"github.com/sentinel-project/sentinel-go"
	"github.com/sentinel-project/sentinel-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Board seeds the fake service decisions that back a client under test.
// mock.RequestBoard implements it.
type Board interface {
	// Approve makes requests for the resource succeed with the given value.
	Approve(resourceID, value string)
	// ApproveWithRef makes requests for the resource succeed with an external
	// reference.
	ApproveWithRef(resourceID, ref string)
	// MarkPending leaves requests for the resource awaiting a decision.
	MarkPending(resourceID string)
	// Deny rejects requests for the resource with the given reason.
	Deny(resourceID, reason string)
	// ResolveRequest flips an already-filed request to the given status.
	ResolveRequest(requestID, status, valueOrReason string) bool
}

// ClientTestCase represents a test case for a sentinel.Client.
type ClientTestCase func(ctx context.Context, t *testing.T, c sentinel.Client, b Board)

// ClientTests returns common test cases that a sentinel.Client should
// support.
func ClientTests() map[string]ClientTestCase {
	return map[string]ClientTestCase{
		"RequestSecretSucceedsWithApprovedResource": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			resource := testutil.NewResourceName(t)
			b.Approve(resource, "abcd1234")

			out, err := c.RequestSecret(ctx, newRequestSecretInput(resource))
			require.NoError(t, err)
			require.NotZero(t, out)
			assert.NotZero(t, utility.FromStringPtr(out.RequestID))
			assert.Equal(t, sentinel.RequestStatusApproved, utility.FromStringPtr(out.Status))
			require.NotZero(t, out.Secret)
			assert.Equal(t, "abcd1234", utility.FromStringPtr(out.Secret.Value))
			assert.Equal(t, resource, utility.FromStringPtr(out.Secret.Name))
		},
		"RequestSecretReturnsPendingDecision": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			resource := testutil.NewResourceName(t)
			b.MarkPending(resource)

			out, err := c.RequestSecret(ctx, newRequestSecretInput(resource))
			require.NoError(t, err)
			require.NotZero(t, out)
			assert.Equal(t, sentinel.RequestStatusPending, utility.FromStringPtr(out.Status))
			assert.Zero(t, out.Secret)
		},
		"RequestSecretReturnsDeniedDecisionWithReason": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			resource := testutil.NewResourceName(t)
			b.Deny(resource, "policy violation")

			out, err := c.RequestSecret(ctx, newRequestSecretInput(resource))
			require.NoError(t, err)
			require.NotZero(t, out)
			assert.Equal(t, sentinel.RequestStatusDenied, utility.FromStringPtr(out.Status))
			assert.Equal(t, "policy violation", utility.FromStringPtr(out.Reason))
			assert.Zero(t, out.Secret)
		},
		"RequestSecretDeniesUnregisteredResource": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			out, err := c.RequestSecret(ctx, newRequestSecretInput(testutil.NewResourceName(t)))
			require.NoError(t, err)
			require.NotZero(t, out)
			assert.Equal(t, sentinel.RequestStatusDenied, utility.FromStringPtr(out.Status))
			assert.NotZero(t, utility.FromStringPtr(out.Reason))
		},
		"RequestSecretFailsWithInvalidInput": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			out, err := c.RequestSecret(ctx, &sentinel.RequestSecretInput{})
			assert.Error(t, err)
			assert.Zero(t, out)
		},
		"RequestSecretFailsWithoutIntent": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			in := sentinel.RequestSecretInput{}
			in.SetResourceID(testutil.NewResourceName(t))
			out, err := c.RequestSecret(ctx, &in)
			assert.Error(t, err)
			assert.Zero(t, out)
		},
		"GetSecretRequestSucceedsWithExistingRequest": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			resource := testutil.NewResourceName(t)
			b.Approve(resource, "abcd1234")

			createOut, err := c.RequestSecret(ctx, newRequestSecretInput(resource))
			require.NoError(t, err)
			require.NotZero(t, createOut)
			require.NotZero(t, createOut.RequestID)

			in := sentinel.GetSecretRequestInput{}
			in.SetRequestID(utility.FromStringPtr(createOut.RequestID))
			out, err := c.GetSecretRequest(ctx, &in)
			require.NoError(t, err)
			require.NotZero(t, out)
			assert.Equal(t, utility.FromStringPtr(createOut.RequestID), utility.FromStringPtr(out.RequestID))
			assert.Equal(t, sentinel.RequestStatusApproved, utility.FromStringPtr(out.Status))
		},
		"GetSecretRequestSeesResolvedDecision": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			resource := testutil.NewResourceName(t)
			b.MarkPending(resource)

			createOut, err := c.RequestSecret(ctx, newRequestSecretInput(resource))
			require.NoError(t, err)
			require.NotZero(t, createOut)
			assert.Equal(t, sentinel.RequestStatusPending, utility.FromStringPtr(createOut.Status))

			requestID := utility.FromStringPtr(createOut.RequestID)
			require.True(t, b.ResolveRequest(requestID, sentinel.RequestStatusApproved, "hunter2"))

			in := sentinel.GetSecretRequestInput{}
			in.SetRequestID(requestID)
			out, err := c.GetSecretRequest(ctx, &in)
			require.NoError(t, err)
			require.NotZero(t, out)
			assert.Equal(t, sentinel.RequestStatusApproved, utility.FromStringPtr(out.Status))
			require.NotZero(t, out.Secret)
			assert.Equal(t, "hunter2", utility.FromStringPtr(out.Secret.Value))
		},
		"GetSecretRequestFailsWithInvalidInput": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			out, err := c.GetSecretRequest(ctx, &sentinel.GetSecretRequestInput{})
			assert.Error(t, err)
			assert.Zero(t, out)
		},
		"GetSecretRequestFailsWithNonexistentRequest": func(ctx context.Context, t *testing.T, c sentinel.Client, b Board) {
			in := sentinel.GetSecretRequestInput{}
			in.SetRequestID(utility.RandomString())
			out, err := c.GetSecretRequest(ctx, &in)
			assert.Error(t, err)
			assert.True(t, sentinel.IsRequestNotFoundError(err))
			assert.Zero(t, out)
		},
	}
}

func newRequestSecretInput(resource string) *sentinel.RequestSecretInput {
	intent := sentinel.RequestIntent{}
	intent.SetTaskID(testutil.NewTaskID())
	intent.SetSummary("client test case execution")
	intent.SetDescription("client test case needs " + resource)

	in := sentinel.RequestSecretInput{}
	in.SetResourceID(resource)
	in.SetIntent(intent)

	return &in
}
