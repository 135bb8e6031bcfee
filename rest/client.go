package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/sentinel-project/sentinel-go"
	"github.com/sentinel-project/sentinel-go/apiutil"
	"github.com/sentinel-project/sentinel-go/tracing"
)

// requestsURL returns the URL of the secret access request collection, or of
// a single request when elems name one.
func (c *BasicClient) requestsURL(elems ...string) string {
	return c.opts.URL(append([]string{"api", "v1", "requests"}, elems...)...)
}

// BasicClient provides a sentinel.Client implementation that wraps the
// Sentinel REST API. It supports retrying requests using exponential backoff
// and jitter.
type BasicClient struct {
	opts *apiutil.ClientOptions
}

// NewBasicClient creates a new client for the Sentinel REST API from the
// given options.
func NewBasicClient(opts apiutil.ClientOptions) (*BasicClient, error) {
	c := &BasicClient{
		opts: &opts,
	}
	if err := c.opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	return c, nil
}

// RequestSecret submits a new secret access request and returns the service's
// decision on it.
func (c *BasicClient) RequestSecret(ctx context.Context, in *sentinel.RequestSecretInput) (out *sentinel.SecretRequestOutput, err error) {
	if err := in.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid input")
	}

	ctx, span := tracing.StartSpan(ctx, "RequestSecret", map[string]string{
		"resource_id": utility.FromStringPtr(in.ResourceID),
	})
	defer func() { tracing.EndSpan(span, err) }()

	out = &sentinel.SecretRequestOutput{}
	if err := c.do(ctx, "RequestSecret", http.MethodPost, c.requestsURL(), "", in, out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetSecretRequest returns the current state of an existing secret access
// request.
func (c *BasicClient) GetSecretRequest(ctx context.Context, in *sentinel.GetSecretRequestInput) (out *sentinel.SecretRequestOutput, err error) {
	if err := in.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid input")
	}

	ctx, span := tracing.StartSpan(ctx, "GetSecretRequest", map[string]string{
		"request_id": utility.FromStringPtr(in.RequestID),
	})
	defer func() { tracing.EndSpan(span, err) }()

	out = &sentinel.SecretRequestOutput{}
	requestID := utility.FromStringPtr(in.RequestID)
	if err := c.do(ctx, "GetSecretRequest", http.MethodGet, c.requestsURL(requestID), requestID, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// Close closes the client and cleans up its resources.
func (c *BasicClient) Close(ctx context.Context) error {
	c.opts.Close()
	return nil
}

// do makes a single logical API call, retrying transient transport failures
// and service-side outages, and decodes the response into out.
func (c *BasicClient) do(ctx context.Context, op, method, url, requestID string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshalling input")
		}
	}

	msg := apiutil.MakeAPILogMessage(op, in)
	return utility.Retry(ctx,
		func() (bool, error) {
			req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
			if err != nil {
				return false, errors.Wrap(err, "creating request")
			}
			if in != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			c.opts.SetAuthHeaders(req.Header)

			resp, err := c.opts.HTTPClient.Do(req)
			if err != nil {
				grip.Debug(message.WrapError(err, msg))
				return true, errors.Wrap(err, "making request")
			}
			defer resp.Body.Close()

			if resp.StatusCode >= http.StatusBadRequest {
				restErr := c.makeErrorResponse(resp, requestID)
				grip.Debug(message.WrapError(restErr, msg))
				return isRetryableStatus(resp.StatusCode), restErr
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return false, errors.Wrap(err, "reading response")
			}

			return false, nil
		}, *c.opts.RetryOpts)
}

// errorResponse is the service's representation of a failed API call.
type errorResponse struct {
	Error string `json:"error"`
}

func (c *BasicClient) makeErrorResponse(resp *http.Response, requestID string) error {
	var errResp errorResponse
	body, err := io.ReadAll(resp.Body)
	if err == nil {
		_ = json.Unmarshal(body, &errResp)
	}

	if resp.StatusCode == http.StatusNotFound && requestID != "" {
		return sentinel.NewRequestNotFoundError(requestID)
	}
	if errResp.Error != "" {
		return errors.Errorf("%s: %s", resp.Status, errResp.Error)
	}
	return errors.New(resp.Status)
}

// isRetryableStatus returns whether an API call that failed with the given
// HTTP status code can be retried. Client-side errors are terminal, with the
// exception of throttling.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= http.StatusInternalServerError
}
