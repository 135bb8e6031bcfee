package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sentinel-project/sentinel-go"
	"github.com/sentinel-project/sentinel-go/apiutil"
)

// NewSentinelServer starts a fake Sentinel HTTP service for the duration of
// the test. The server enforces the given credentials and delegates request
// evaluation to the given client, so a test can drive the HTTP surface with
// the same decisions it seeds for a mock client.
func NewSentinelServer(t *testing.T, c sentinel.Client, apiToken, agentID string) *httptest.Server {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+apiToken || r.Header.Get(apiutil.AgentIDHeader) != agentID {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/requests":
			var in sentinel.RequestSecretInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			out, err := c.RequestSecret(r.Context(), &in)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeJSON(w, http.StatusCreated, out)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/v1/requests/"):
			id := strings.TrimPrefix(r.URL.Path, "/api/v1/requests/")
			in := sentinel.GetSecretRequestInput{}
			in.SetRequestID(id)
			out, err := c.GetSecretRequest(r.Context(), &in)
			if err != nil {
				if sentinel.IsRequestNotFoundError(err) {
					writeError(w, http.StatusNotFound, err.Error())
				} else {
					writeError(w, http.StatusBadRequest, err.Error())
				}
				return
			}
			writeJSON(w, http.StatusOK, out)
		default:
			writeError(w, http.StatusNotFound, "no such route")
		}
	}))
	t.Cleanup(s.Close)

	return s
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
