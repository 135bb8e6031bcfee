package awsref

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-project/sentinel-go"
)

type fakeSecretsManager struct {
	input    *secretsmanager.GetSecretValueInput
	output   *secretsmanager.GetSecretValueOutput
	err      error
	numCalls int
}

func (f *fakeSecretsManager) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.input = in
	f.numCalls++
	return f.output, f.err
}

func testRetryOptions() utility.RetryOptions {
	return utility.RetryOptions{
		MaxAttempts: 3,
		MinDelay:    time.Millisecond,
		MaxDelay:    10 * time.Millisecond,
	}
}

func TestResolverImplementsRefResolver(t *testing.T) {
	assert.Implements(t, (*sentinel.RefResolver)(nil), &Resolver{})
}

func TestParseRef(t *testing.T) {
	t.Run("ExtractsSecretID", func(t *testing.T) {
		secretID, err := ParseRef("awssm://arn:aws:secretsmanager:us-east-1:012345678901:secret:example_api_key")
		require.NoError(t, err)
		assert.Equal(t, "arn:aws:secretsmanager:us-east-1:012345678901:secret:example_api_key", secretID)
	})
	t.Run("AcceptsFriendlyNames", func(t *testing.T) {
		secretID, err := ParseRef("awssm://example_api_key")
		require.NoError(t, err)
		assert.Equal(t, "example_api_key", secretID)
	})
	t.Run("FailsWithoutScheme", func(t *testing.T) {
		_, err := ParseRef("example_api_key")
		assert.Error(t, err)
	})
	t.Run("FailsWithDifferentScheme", func(t *testing.T) {
		_, err := ParseRef("vault://example_api_key")
		assert.Error(t, err)
	})
	t.Run("FailsWithoutSecretID", func(t *testing.T) {
		_, err := ParseRef("awssm://")
		assert.Error(t, err)
	})
	t.Run("FailsWithEmptyRef", func(t *testing.T) {
		_, err := ParseRef("")
		assert.Error(t, err)
	})
}

func TestResolveRef(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("ReturnsSecretString", func(t *testing.T) {
		sm := &fakeSecretsManager{
			output: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("abcd1234")},
		}
		r := NewResolverWithAPI(sm, testRetryOptions())

		val, err := r.ResolveRef(ctx, "awssm://example_api_key")
		require.NoError(t, err)
		assert.Equal(t, "abcd1234", val)
		require.NotNil(t, sm.input)
		assert.Equal(t, "example_api_key", utility.FromStringPtr(sm.input.SecretId))
		assert.Equal(t, 1, sm.numCalls)
	})
	t.Run("ReturnsSecretBinaryWhenStringIsMissing", func(t *testing.T) {
		sm := &fakeSecretsManager{
			output: &secretsmanager.GetSecretValueOutput{SecretBinary: []byte("abcd1234")},
		}
		r := NewResolverWithAPI(sm, testRetryOptions())

		val, err := r.ResolveRef(ctx, "awssm://example_api_key")
		require.NoError(t, err)
		assert.Equal(t, "abcd1234", val)
	})
	t.Run("FailsWhenSecretHasNoValue", func(t *testing.T) {
		sm := &fakeSecretsManager{
			output: &secretsmanager.GetSecretValueOutput{},
		}
		r := NewResolverWithAPI(sm, testRetryOptions())

		_, err := r.ResolveRef(ctx, "awssm://example_api_key")
		assert.Error(t, err)
	})
	t.Run("FailsWithInvalidRef", func(t *testing.T) {
		sm := &fakeSecretsManager{}
		r := NewResolverWithAPI(sm, testRetryOptions())

		_, err := r.ResolveRef(ctx, "example_api_key")
		assert.Error(t, err)
		assert.Zero(t, sm.numCalls)
	})
	t.Run("DoesNotRetryNonexistentSecret", func(t *testing.T) {
		sm := &fakeSecretsManager{
			err: &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "Secrets Manager can't find the specified secret."},
		}
		r := NewResolverWithAPI(sm, testRetryOptions())

		_, err := r.ResolveRef(ctx, "awssm://nonexistent")
		assert.Error(t, err)
		assert.Equal(t, 1, sm.numCalls)
	})
	t.Run("DoesNotRetryAccessDenied", func(t *testing.T) {
		sm := &fakeSecretsManager{
			err: &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"},
		}
		r := NewResolverWithAPI(sm, testRetryOptions())

		_, err := r.ResolveRef(ctx, "awssm://example_api_key")
		assert.Error(t, err)
		assert.Equal(t, 1, sm.numCalls)
	})
	t.Run("RetriesTransientErrors", func(t *testing.T) {
		sm := &fakeSecretsManager{
			err: errors.New("connection reset"),
		}
		r := NewResolverWithAPI(sm, testRetryOptions())

		_, err := r.ResolveRef(ctx, "awssm://example_api_key")
		assert.Error(t, err)
		assert.Equal(t, 3, sm.numCalls)
	})
}
