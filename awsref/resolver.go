// Package awsref resolves external secret references returned by a Sentinel
// service in place of inline secret values. A reference of the form
// awssm://<secret ID> names a secret stored in AWS Secrets Manager; the
// resolver fetches its decrypted value.
package awsref

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/sentinel-project/sentinel-go/apiutil"
)

// RefScheme is the URI scheme for secret references that this package
// resolves.
const RefScheme = "awssm"

// SecretsManagerAPI is the subset of the AWS Secrets Manager API that the
// resolver uses. It matches the corresponding methods of
// secretsmanager.Client.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Resolver provides a sentinel.RefResolver implementation backed by AWS
// Secrets Manager. It supports retrying requests using exponential backoff
// and jitter.
type Resolver struct {
	opts *ClientOptions
	sm   SecretsManagerAPI
}

// NewResolver creates a new AWS Secrets Manager reference resolver from the
// given options.
func NewResolver(opts ClientOptions) (*Resolver, error) {
	r := &Resolver{
		opts: &opts,
	}
	if err := r.opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	return r, nil
}

// NewResolverWithAPI creates a new reference resolver that issues its calls
// to the given API implementation instead of a real Secrets Manager client.
func NewResolverWithAPI(api SecretsManagerAPI, retryOpts utility.RetryOptions) *Resolver {
	retryOpts.Validate()
	return &Resolver{
		opts: &ClientOptions{RetryOpts: &retryOpts},
		sm:   api,
	}
}

// ParseRef splits a secret reference into its scheme and secret ID. The
// secret ID is the ARN or friendly name of the Secrets Manager secret.
func ParseRef(ref string) (secretID string, err error) {
	prefix := RefScheme + "://"
	if !strings.HasPrefix(ref, prefix) {
		return "", errors.Errorf("reference '%s' does not use the '%s' scheme", ref, RefScheme)
	}

	secretID = strings.TrimPrefix(ref, prefix)
	if secretID == "" {
		return "", errors.Errorf("reference '%s' is missing its secret ID", ref)
	}

	return secretID, nil
}

// ResolveRef fetches the decrypted value of the Secrets Manager secret that
// the given reference points to.
func (r *Resolver) ResolveRef(ctx context.Context, ref string) (string, error) {
	secretID, err := ParseRef(ref)
	if err != nil {
		return "", err
	}

	if err := r.setup(ctx); err != nil {
		return "", errors.Wrap(err, "setting up client")
	}

	in := secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	}

	var out *secretsmanager.GetSecretValueOutput
	msg := apiutil.MakeAPILogMessage("GetSecretValue", secretID)
	if err := utility.Retry(ctx,
		func() (bool, error) {
			out, err = r.sm.GetSecretValue(ctx, &in)
			if err != nil {
				grip.Debug(message.WrapError(err, msg))
				var apiErr smithy.APIError
				if stderrors.As(err, &apiErr) {
					switch apiErr.ErrorCode() {
					case "ResourceNotFoundException", "InvalidParameterException", "InvalidRequestException", "AccessDeniedException":
						return false, err
					}
				}
				return true, err
			}
			return false, nil
		}, *r.opts.RetryOpts); err != nil {
		return "", err
	}

	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if out.SecretBinary != nil {
		return string(out.SecretBinary), nil
	}

	return "", errors.Errorf("secret '%s' has no value", secretID)
}

// Close closes the resolver and cleans up its resources.
func (r *Resolver) Close(ctx context.Context) error {
	r.opts.Close()
	return nil
}

func (r *Resolver) setup(ctx context.Context) error {
	if r.sm != nil {
		return nil
	}

	conf, err := r.opts.GetConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "getting config")
	}

	r.sm = secretsmanager.NewFromConfig(*conf)

	return nil
}
