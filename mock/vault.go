package mock

import (
	"context"

	"github.com/sentinel-project/sentinel-go"
)

// Vault provides a mock implementation of a sentinel.Vault backed by another
// vault implementation. This makes it possible to introspect on inputs to the
// vault and control the vault's output.
type Vault struct {
	sentinel.Vault

	RequestSecretInput  []*sentinel.SecretRequestOptions
	RequestSecretOutput *string
	RequestSecretError  error

	WaitForApprovalInput  *string
	WaitForApprovalOutput *string
	WaitForApprovalError  error
}

// NewVault creates a mock vault backed by the given vault.
func NewVault(v sentinel.Vault) *Vault {
	return &Vault{
		Vault: v,
	}
}

// RequestSecret saves the input options and requests access to a secret. The
// mock output can be customized. By default, it will return the result of
// requesting the secret from the backing vault.
func (v *Vault) RequestSecret(ctx context.Context, opts ...*sentinel.SecretRequestOptions) (string, error) {
	v.RequestSecretInput = opts

	if v.RequestSecretOutput != nil || v.RequestSecretError != nil {
		if v.RequestSecretOutput != nil {
			return *v.RequestSecretOutput, v.RequestSecretError
		}
		return "", v.RequestSecretError
	}

	return v.Vault.RequestSecret(ctx, opts...)
}

// WaitForApproval saves the input request ID and polls the request. The mock
// output can be customized. By default, it will return the result of polling
// through the backing vault.
func (v *Vault) WaitForApproval(ctx context.Context, requestID string) (string, error) {
	v.WaitForApprovalInput = &requestID

	if v.WaitForApprovalOutput != nil || v.WaitForApprovalError != nil {
		if v.WaitForApprovalOutput != nil {
			return *v.WaitForApprovalOutput, v.WaitForApprovalError
		}
		return "", v.WaitForApprovalError
	}

	return v.Vault.WaitForApproval(ctx, requestID)
}
