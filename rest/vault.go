package rest

import (
	"context"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/sentinel-project/sentinel-go"
)

// BasicVault provides a sentinel.Vault implementation backed by a
// sentinel.Client.
type BasicVault struct {
	client   sentinel.Client
	cache    sentinel.SecretCache
	resolver sentinel.RefResolver
	pollOpts utility.RetryOptions
}

// BasicVaultOptions are options to create a vault backed by a
// sentinel.Client.
type BasicVaultOptions struct {
	// Client is the client used to communicate with the Sentinel service.
	Client sentinel.Client
	// Cache, if set, records every secret the vault successfully retrieves.
	Cache sentinel.SecretCache
	// RefResolver, if set, resolves external secret references returned in
	// place of inline values.
	RefResolver sentinel.RefResolver
	// PollingOpts controls how WaitForApproval polls a pending request.
	PollingOpts *utility.RetryOptions
}

// NewBasicVaultOptions returns new unconfigured options to create a basic
// vault.
func NewBasicVaultOptions() *BasicVaultOptions {
	return &BasicVaultOptions{}
}

// SetClient sets the client used to communicate with the Sentinel service.
func (o *BasicVaultOptions) SetClient(c sentinel.Client) *BasicVaultOptions {
	o.Client = c
	return o
}

// SetCache sets the cache that records secrets the vault retrieves.
func (o *BasicVaultOptions) SetCache(sc sentinel.SecretCache) *BasicVaultOptions {
	o.Cache = sc
	return o
}

// SetRefResolver sets the resolver for external secret references.
func (o *BasicVaultOptions) SetRefResolver(r sentinel.RefResolver) *BasicVaultOptions {
	o.RefResolver = r
	return o
}

// SetPollingOptions sets the retry options that control how WaitForApproval
// polls a pending request.
func (o *BasicVaultOptions) SetPollingOptions(opts utility.RetryOptions) *BasicVaultOptions {
	o.PollingOpts = &opts
	return o
}

// Validate checks that the required options are given and sets defaults for
// unspecified options.
func (o *BasicVaultOptions) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(o.Client == nil, "must provide a client")

	if catcher.HasErrors() {
		return catcher.Resolve()
	}

	if o.PollingOpts == nil {
		o.PollingOpts = &utility.RetryOptions{}
	}
	o.PollingOpts.Validate()

	return nil
}

// NewBasicVault creates a new vault backed by a sentinel.Client.
func NewBasicVault(opts BasicVaultOptions) (*BasicVault, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	return &BasicVault{
		client:   opts.Client,
		cache:    opts.Cache,
		resolver: opts.RefResolver,
		pollOpts: *opts.PollingOpts,
	}, nil
}

// RequestSecret requests access to a secret and returns its value if the
// service approves the request. A pending request surfaces as a
// sentinel.PendingApprovalError and a rejected one as a
// sentinel.AccessDeniedError; there is no implicit retry on either.
func (v *BasicVault) RequestSecret(ctx context.Context, opts ...*sentinel.SecretRequestOptions) (string, error) {
	merged := sentinel.MergeSecretRequestOptions(opts...)
	if err := merged.Validate(); err != nil {
		return "", errors.Wrap(err, "invalid options")
	}

	in := sentinel.RequestSecretInput{
		ResourceID: merged.ResourceID,
		Intent:     merged.Intent,
	}
	out, err := v.client.RequestSecret(ctx, &in)
	if err != nil {
		return "", errors.Wrap(err, "requesting secret")
	}

	return v.resolveDecision(ctx, out, utility.FromStringPtr(merged.Intent.TaskID))
}

// WaitForApproval polls an existing access request until the service resolves
// it and returns the secret value if it was approved. If the request is still
// pending when the polling budget runs out, the pending approval error is
// returned.
func (v *BasicVault) WaitForApproval(ctx context.Context, requestID string) (string, error) {
	if requestID == "" {
		return "", errors.New("must provide a request ID")
	}

	in := sentinel.GetSecretRequestInput{}
	in.SetRequestID(requestID)

	var out *sentinel.SecretRequestOutput
	if err := utility.Retry(ctx,
		func() (bool, error) {
			var err error
			out, err = v.client.GetSecretRequest(ctx, &in)
			if err != nil {
				return false, errors.Wrap(err, "getting secret request")
			}
			if TranslateRequestStatus(out.Status) == sentinel.StatusPending {
				return true, sentinel.NewPendingApprovalError(requestID)
			}
			return false, nil
		}, v.pollOpts); err != nil {
		return "", err
	}

	return v.resolveDecision(ctx, out, "")
}

// resolveDecision turns the service's representation of an access request
// into the requested secret value or the corresponding failure.
func (v *BasicVault) resolveDecision(ctx context.Context, out *sentinel.SecretRequestOutput, taskID string) (string, error) {
	switch TranslateRequestStatus(out.Status) {
	case sentinel.StatusApproved:
		val, err := v.secretValue(ctx, out)
		if err != nil {
			return "", err
		}

		if v.cache != nil {
			item := sentinel.SecretCacheItem{
				RequestID:  utility.FromStringPtr(out.RequestID),
				ResourceID: resourceName(out),
				TaskID:     taskID,
			}
			if err := v.cache.Put(ctx, item); err != nil {
				return "", errors.Wrap(err, "adding issued secret to cache")
			}
		}

		return val, nil
	case sentinel.StatusPending:
		return "", sentinel.NewPendingApprovalError(utility.FromStringPtr(out.RequestID))
	default:
		return "", sentinel.NewAccessDeniedError(utility.FromStringPtr(out.Reason))
	}
}

// secretValue extracts the issued secret's material, resolving an external
// reference if the service did not return the value inline.
func (v *BasicVault) secretValue(ctx context.Context, out *sentinel.SecretRequestOutput) (string, error) {
	if out.Secret == nil {
		return "", errors.New("approved request is missing its secret")
	}

	if out.Secret.Value != nil {
		return *out.Secret.Value, nil
	}

	ref := utility.FromStringPtr(out.Secret.Ref)
	if ref == "" {
		return "", errors.New("approved request has neither an inline value nor an external reference")
	}
	if v.resolver == nil {
		return "", errors.Errorf("no resolver configured for external secret reference '%s'", ref)
	}

	val, err := v.resolver.ResolveRef(ctx, ref)
	if err != nil {
		return "", errors.Wrapf(err, "resolving external secret reference '%s'", ref)
	}

	return val, nil
}

func resourceName(out *sentinel.SecretRequestOutput) string {
	if out.Secret == nil {
		return ""
	}
	return utility.FromStringPtr(out.Secret.Name)
}
