package apiutil

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// ClientOptions represent Sentinel API client options such as authentication
// and making requests.
type ClientOptions struct {
	// BaseURL is the base URL of the Sentinel service (e.g.
	// http://localhost:3000).
	BaseURL *string
	// APIToken is the bearer token used to authenticate API requests.
	APIToken *string
	// AgentID identifies the agent on whose behalf access requests are made.
	AgentID *string
	// RetryOpts sets the retry policy for API requests.
	RetryOpts *utility.RetryOptions
	// HTTPClient is the HTTP client to use to make requests.
	HTTPClient *http.Client

	ownsHTTPClient bool
}

// NewClientOptions returns new unconfigured client options.
func NewClientOptions() *ClientOptions {
	return &ClientOptions{}
}

// SetBaseURL sets the base URL of the Sentinel service.
func (o *ClientOptions) SetBaseURL(baseURL string) *ClientOptions {
	o.BaseURL = &baseURL
	return o
}

// SetAPIToken sets the bearer token used to authenticate API requests.
func (o *ClientOptions) SetAPIToken(token string) *ClientOptions {
	o.APIToken = &token
	return o
}

// SetAgentID sets the agent identifier sent with every API request.
func (o *ClientOptions) SetAgentID(id string) *ClientOptions {
	o.AgentID = &id
	return o
}

// SetRetryOptions sets the client's retry options.
func (o *ClientOptions) SetRetryOptions(opts utility.RetryOptions) *ClientOptions {
	o.RetryOpts = &opts
	return o
}

// SetHTTPClient sets the HTTP client to use.
func (o *ClientOptions) SetHTTPClient(hc *http.Client) *ClientOptions {
	o.HTTPClient = hc
	return o
}

// Validate checks that all required fields are given and sets defaults for
// unspecified options.
func (o *ClientOptions) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(utility.FromStringPtr(o.BaseURL) == "", "must provide the service base URL")
	catcher.NewWhen(utility.FromStringPtr(o.APIToken) == "", "must provide an API token")
	catcher.NewWhen(utility.FromStringPtr(o.AgentID) == "", "must provide an agent ID")

	if o.BaseURL != nil {
		if _, err := url.Parse(*o.BaseURL); err != nil {
			catcher.Add(errors.Wrap(err, "parsing base URL"))
		}
	}

	if catcher.HasErrors() {
		return catcher.Resolve()
	}

	if o.HTTPClient == nil {
		o.HTTPClient = utility.GetHTTPClient()
		o.ownsHTTPClient = true
	}

	if o.RetryOpts == nil {
		o.RetryOpts = &utility.RetryOptions{}
	}
	o.RetryOpts.Validate()

	return nil
}

// URL joins the given path elements onto the service base URL. Each element
// is escaped, so an element containing a path metacharacter cannot change the
// route.
func (o *ClientOptions) URL(elems ...string) string {
	parts := []string{strings.TrimSuffix(utility.FromStringPtr(o.BaseURL), "/")}
	for _, elem := range elems {
		parts = append(parts, url.PathEscape(elem))
	}
	return strings.Join(parts, "/")
}

// SetAuthHeaders sets the authentication headers that every Sentinel API
// request must carry.
func (o *ClientOptions) SetAuthHeaders(h http.Header) {
	h.Set("Authorization", "Bearer "+utility.FromStringPtr(o.APIToken))
	h.Set(AgentIDHeader, utility.FromStringPtr(o.AgentID))
}

// Close cleans up the HTTP client if it is owned by these options.
func (o *ClientOptions) Close() {
	if o.ownsHTTPClient {
		utility.PutHTTPClient(o.HTTPClient)
	}
}

// AgentIDHeader is the request header identifying the calling agent.
const AgentIDHeader = "X-Sentinel-Agent-Id"
