package sentinel

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestPendingApprovalError(t *testing.T) {
	assert.Implements(t, (*error)(nil), new(PendingApprovalError))
	t.Run("HasExactMessage", func(t *testing.T) {
		err := NewPendingApprovalError("id")
		assert.EqualError(t, err, "Secret request pending approval")
	})
	t.Run("IsPendingApproval", func(t *testing.T) {
		err := NewPendingApprovalError("id")
		assert.Error(t, err)
		assert.True(t, IsPendingApproval(err))
	})
	t.Run("OtherErrorsAreNotPendingApproval", func(t *testing.T) {
		err := errors.New("some error")
		assert.False(t, IsPendingApproval(err))
	})
	t.Run("WrappedPendingApprovalError", func(t *testing.T) {
		err := errors.Wrap(NewPendingApprovalError("id"), "wrapping message")
		assert.True(t, IsPendingApproval(err))
	})
	t.Run("CarriesRequestID", func(t *testing.T) {
		err := errors.Wrap(NewPendingApprovalError("id"), "wrapping message")
		var pendingErr *PendingApprovalError
		assert.ErrorAs(t, err, &pendingErr)
		assert.Equal(t, "id", pendingErr.RequestID)
	})
}

func TestAccessDeniedError(t *testing.T) {
	assert.Implements(t, (*error)(nil), new(AccessDeniedError))
	t.Run("IncludesReasonInMessage", func(t *testing.T) {
		err := NewAccessDeniedError("policy violation")
		assert.EqualError(t, err, "Access denied: policy violation")
	})
	t.Run("OmitsMissingReasonFromMessage", func(t *testing.T) {
		err := NewAccessDeniedError("")
		assert.EqualError(t, err, "Access denied")
	})
	t.Run("IsAccessDenied", func(t *testing.T) {
		err := NewAccessDeniedError("policy violation")
		assert.Error(t, err)
		assert.True(t, IsAccessDenied(err))
	})
	t.Run("OtherErrorsAreNotAccessDenied", func(t *testing.T) {
		err := errors.New("some error")
		assert.False(t, IsAccessDenied(err))
	})
	t.Run("WrappedAccessDeniedError", func(t *testing.T) {
		err := errors.Wrap(NewAccessDeniedError("policy violation"), "wrapping message")
		assert.True(t, IsAccessDenied(err))
	})
}

func TestRequestNotFoundError(t *testing.T) {
	assert.Implements(t, (*error)(nil), new(RequestNotFoundError))
	t.Run("IsRequestNotFoundError", func(t *testing.T) {
		err := NewRequestNotFoundError("id")
		assert.Error(t, err)
		assert.True(t, IsRequestNotFoundError(err))
	})
	t.Run("OtherErrorsAreNotRequestNotFound", func(t *testing.T) {
		err := errors.New("some error")
		assert.False(t, IsRequestNotFoundError(err))
	})
	t.Run("WrappedRequestNotFoundError", func(t *testing.T) {
		err := errors.Wrap(NewRequestNotFoundError("id"), "wrapping message")
		assert.True(t, IsRequestNotFoundError(err))
	})
}
