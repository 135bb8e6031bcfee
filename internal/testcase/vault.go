package testcase

import (
	"context"
	"testing"

	"github.com/sentinel-project/sentinel-go"
	"github.com/sentinel-project/sentinel-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// VaultTestCase represents a test case for a sentinel.Vault. The vault under
// test must be configured with a small polling budget so that cases which
// exhaust it finish quickly.
type VaultTestCase func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board)

// VaultTests returns common test cases that a sentinel.Vault should support.
func VaultTests() map[string]VaultTestCase {
	return map[string]VaultTestCase{
		"RequestSecretReturnsValueForApprovedRequest": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			resource := testutil.NewResourceName(t)
			b.Approve(resource, "abcd1234")

			val, err := v.RequestSecret(ctx, newSecretRequestOptions(resource))
			require.NoError(t, err)
			assert.Equal(t, "abcd1234", val)
		},
		"RequestSecretFailsWithPendingApproval": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			resource := testutil.NewResourceName(t)
			b.MarkPending(resource)

			val, err := v.RequestSecret(ctx, newSecretRequestOptions(resource))
			require.Error(t, err)
			assert.True(t, sentinel.IsPendingApproval(err))
			assert.EqualError(t, err, "Secret request pending approval")
			assert.Zero(t, val)
		},
		"RequestSecretFailsWithAccessDenied": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			resource := testutil.NewResourceName(t)
			b.Deny(resource, "policy violation")

			val, err := v.RequestSecret(ctx, newSecretRequestOptions(resource))
			require.Error(t, err)
			assert.True(t, sentinel.IsAccessDenied(err))
			assert.EqualError(t, err, "Access denied: policy violation")
			assert.Zero(t, val)
		},
		"RequestSecretFailsWithoutResourceID": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			opts := newSecretRequestOptions(testutil.NewResourceName(t))
			opts.ResourceID = nil
			val, err := v.RequestSecret(ctx, opts)
			assert.Error(t, err)
			assert.Zero(t, val)
		},
		"RequestSecretFailsWithoutIntent": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			opts := sentinel.SecretRequestOptions{}
			opts.SetResourceID(testutil.NewResourceName(t))
			val, err := v.RequestSecret(ctx, &opts)
			assert.Error(t, err)
			assert.Zero(t, val)
		},
		"WaitForApprovalReturnsValueOnceApproved": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			resource := testutil.NewResourceName(t)
			b.MarkPending(resource)

			_, err := v.RequestSecret(ctx, newSecretRequestOptions(resource))
			require.Error(t, err)
			var pendingErr *sentinel.PendingApprovalError
			require.ErrorAs(t, err, &pendingErr)
			require.NotZero(t, pendingErr.RequestID)

			require.True(t, b.ResolveRequest(pendingErr.RequestID, sentinel.RequestStatusApproved, "hunter2"))

			val, err := v.WaitForApproval(ctx, pendingErr.RequestID)
			require.NoError(t, err)
			assert.Equal(t, "hunter2", val)
		},
		"WaitForApprovalSurfacesDenial": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			resource := testutil.NewResourceName(t)
			b.MarkPending(resource)

			_, err := v.RequestSecret(ctx, newSecretRequestOptions(resource))
			require.Error(t, err)
			var pendingErr *sentinel.PendingApprovalError
			require.ErrorAs(t, err, &pendingErr)

			require.True(t, b.ResolveRequest(pendingErr.RequestID, sentinel.RequestStatusDenied, "policy violation"))

			val, err := v.WaitForApproval(ctx, pendingErr.RequestID)
			require.Error(t, err)
			assert.True(t, sentinel.IsAccessDenied(err))
			assert.Zero(t, val)
		},
		"WaitForApprovalFailsWhileStillPending": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			resource := testutil.NewResourceName(t)
			b.MarkPending(resource)

			_, err := v.RequestSecret(ctx, newSecretRequestOptions(resource))
			require.Error(t, err)
			var pendingErr *sentinel.PendingApprovalError
			require.ErrorAs(t, err, &pendingErr)

			val, err := v.WaitForApproval(ctx, pendingErr.RequestID)
			require.Error(t, err)
			assert.True(t, sentinel.IsPendingApproval(err))
			assert.Zero(t, val)
		},
		"WaitForApprovalFailsWithNonexistentRequest": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			val, err := v.WaitForApproval(ctx, "nonexistent")
			assert.Error(t, err)
			assert.Zero(t, val)
		},
		"WaitForApprovalFailsWithoutRequestID": func(ctx context.Context, t *testing.T, v sentinel.Vault, b Board) {
			val, err := v.WaitForApproval(ctx, "")
			assert.Error(t, err)
			assert.Zero(t, val)
		},
	}
}

func newSecretRequestOptions(resource string) *sentinel.SecretRequestOptions {
	intent := sentinel.RequestIntent{}
	intent.SetTaskID(testutil.NewTaskID())
	intent.SetSummary("vault test case execution")
	intent.SetDescription("vault test case needs " + resource)

	opts := sentinel.SecretRequestOptions{}
	opts.SetResourceID(resource)
	opts.SetIntent(intent)

	return &opts
}
