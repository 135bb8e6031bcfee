package mock

import (
	"context"
	"testing"
	"time"

	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"github.com/sentinel-project/sentinel-go"
	"github.com/sentinel-project/sentinel-go/internal/testcase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for tName, tCase := range testcase.ClientTests() {
		t.Run(tName, func(t *testing.T) {
			tctx, tcancel := context.WithTimeout(ctx, 30*time.Second)
			defer tcancel()

			ResetGlobalRequestBoard()

			c := &Client{}
			defer c.Close(tctx)

			tCase(tctx, t, c, GlobalRequestBoard)
		})
	}

	t.Run("RequestSecretSavesInput", func(t *testing.T) {
		ResetGlobalRequestBoard()

		c := &Client{}
		in := sentinel.RequestSecretInput{}
		in.SetResourceID("example_api_key")
		intent := sentinel.RequestIntent{}
		intent.SetTaskID("task").SetSummary("summary")
		in.SetIntent(intent)

		_, err := c.RequestSecret(ctx, &in)
		require.NoError(t, err)
		require.NotZero(t, c.RequestSecretInput)
		assert.Equal(t, "example_api_key", utility.FromStringPtr(c.RequestSecretInput.ResourceID))
	})

	t.Run("RequestSecretUsesCustomOutput", func(t *testing.T) {
		ResetGlobalRequestBoard()

		c := &Client{
			RequestSecretOutput: &sentinel.SecretRequestOutput{
				RequestID: utility.ToStringPtr("id"),
				Status:    utility.ToStringPtr(sentinel.RequestStatusPending),
			},
		}

		out, err := c.RequestSecret(ctx, &sentinel.RequestSecretInput{})
		require.NoError(t, err)
		require.NotZero(t, out)
		assert.Equal(t, sentinel.RequestStatusPending, utility.FromStringPtr(out.Status))
	})

	t.Run("RequestSecretUsesCustomError", func(t *testing.T) {
		ResetGlobalRequestBoard()

		c := &Client{RequestSecretError: errors.New("fail")}

		out, err := c.RequestSecret(ctx, &sentinel.RequestSecretInput{})
		assert.Error(t, err)
		assert.Zero(t, out)
	})

	t.Run("RequestBoardRecordsIntent", func(t *testing.T) {
		ResetGlobalRequestBoard()
		GlobalRequestBoard.Approve("example_api_key", "abcd1234")

		c := &Client{}
		in := sentinel.RequestSecretInput{}
		in.SetResourceID("example_api_key")
		intent := sentinel.RequestIntent{}
		intent.SetTaskID("crewai-task").SetSummary("agent execution").SetDescription("agent needs example_api_key")
		in.SetIntent(intent)

		out, err := c.RequestSecret(ctx, &in)
		require.NoError(t, err)
		require.NotZero(t, out)

		req, ok := GlobalRequestBoard.Requests[utility.FromStringPtr(out.RequestID)]
		require.True(t, ok)
		assert.Equal(t, "crewai-task", req.TaskID)
		assert.Equal(t, "agent execution", req.Summary)
		assert.Equal(t, "agent needs example_api_key", req.Description)
	})
}
