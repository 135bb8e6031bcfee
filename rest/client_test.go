package rest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/evergreen-ci/utility"
	"github.com/sentinel-project/sentinel-go"
	"github.com/sentinel-project/sentinel-go/apiutil"
	"github.com/sentinel-project/sentinel-go/internal/testcase"
	"github.com/sentinel-project/sentinel-go/internal/testutil"
	"github.com/sentinel-project/sentinel-go/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIToken = "sentinel_dev_key"
	testAgentID  = "test-agent"
)

func testRetryOptions() utility.RetryOptions {
	return utility.RetryOptions{
		MaxAttempts: 3,
		MinDelay:    time.Millisecond,
		MaxDelay:    10 * time.Millisecond,
	}
}

func TestBasicClient(t *testing.T) {
	assert.Implements(t, (*sentinel.Client)(nil), &BasicClient{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for tName, tCase := range testcase.ClientTests() {
		t.Run(tName, func(t *testing.T) {
			tctx, tcancel := context.WithTimeout(ctx, 30*time.Second)
			defer tcancel()

			mock.ResetGlobalRequestBoard()
			srv := testutil.NewSentinelServer(t, &mock.Client{}, testAPIToken, testAgentID)

			hc := utility.GetHTTPClient()
			defer utility.PutHTTPClient(hc)

			c, err := NewBasicClient(*apiutil.NewClientOptions().
				SetBaseURL(srv.URL).
				SetAPIToken(testAPIToken).
				SetAgentID(testAgentID).
				SetRetryOptions(testRetryOptions()).
				SetHTTPClient(hc))
			require.NoError(t, err)
			defer c.Close(tctx)

			tCase(tctx, t, c, mock.GlobalRequestBoard)
		})
	}

	t.Run("NewBasicClientFailsWithInvalidOptions", func(t *testing.T) {
		c, err := NewBasicClient(*apiutil.NewClientOptions())
		assert.Error(t, err)
		assert.Zero(t, c)
	})

	t.Run("FailsWithBadCredentials", func(t *testing.T) {
		mock.ResetGlobalRequestBoard()
		mock.GlobalRequestBoard.Approve("resource", "value")
		srv := testutil.NewSentinelServer(t, &mock.Client{}, testAPIToken, testAgentID)

		hc := utility.GetHTTPClient()
		defer utility.PutHTTPClient(hc)

		c, err := NewBasicClient(*apiutil.NewClientOptions().
			SetBaseURL(srv.URL).
			SetAPIToken("wrong_key").
			SetAgentID(testAgentID).
			SetRetryOptions(testRetryOptions()).
			SetHTTPClient(hc))
		require.NoError(t, err)
		defer c.Close(ctx)

		in := sentinel.RequestSecretInput{}
		in.SetResourceID("resource")
		intent := sentinel.RequestIntent{}
		intent.SetTaskID("task").SetSummary("summary")
		in.SetIntent(intent)

		out, err := c.RequestSecret(ctx, &in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), http.StatusText(http.StatusUnauthorized))
		assert.Zero(t, out)
	})
}
