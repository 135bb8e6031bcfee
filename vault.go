package sentinel

import (
	"context"

	"github.com/mongodb/grip"
)

// Vault allows you to request secrets from a secret access service without
// managing the request lifecycle yourself.
type Vault interface {
	// RequestSecret requests access to a secret and returns its value if the
	// request is approved. Options are applied in the order they're specified
	// and conflicting options are overwritten. A request that comes back
	// pending or denied is an error; there is no implicit retry.
	RequestSecret(ctx context.Context, opts ...*SecretRequestOptions) (val string, err error)
	// WaitForApproval polls an existing access request until the service
	// resolves it and returns the secret value if it was approved. Polling
	// stops when the request leaves the pending state, the context is done,
	// or the vault's retry budget is exhausted.
	WaitForApproval(ctx context.Context, requestID string) (val string, err error)
}

// SecretRequestOptions provide options to request access to a secret.
type SecretRequestOptions struct {
	// ResourceID is the name of the secret resource being requested.
	ResourceID *string
	// Intent describes why the secret is being requested.
	Intent *RequestIntent
}

// SetResourceID sets the name of the secret resource being requested.
func (o *SecretRequestOptions) SetResourceID(id string) *SecretRequestOptions {
	o.ResourceID = &id
	return o
}

// SetIntent sets the intent describing why the secret is being requested.
func (o *SecretRequestOptions) SetIntent(intent RequestIntent) *SecretRequestOptions {
	o.Intent = &intent
	return o
}

// Validate checks that the options name a resource and carry a valid intent.
func (o *SecretRequestOptions) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(o.ResourceID == nil || *o.ResourceID == "", "must provide a resource ID")
	if o.Intent != nil {
		catcher.Add(o.Intent.Validate())
	} else {
		catcher.New("must provide a request intent")
	}
	return catcher.Resolve()
}

// MergeSecretRequestOptions merges all the given options to request a secret.
// Options are applied in the order they're specified and conflicting options
// are overwritten.
func MergeSecretRequestOptions(opts ...*SecretRequestOptions) SecretRequestOptions {
	merged := SecretRequestOptions{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if opt.ResourceID != nil {
			merged.ResourceID = opt.ResourceID
		}

		if opt.Intent != nil {
			merged.Intent = opt.Intent
		}
	}

	return merged
}

// RefResolver resolves an external secret reference returned by the service
// in place of an inline value.
type RefResolver interface {
	// ResolveRef returns the secret material that the given reference points
	// to.
	ResolveRef(ctx context.Context, ref string) (val string, err error)
}
