package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/evergreen-ci/utility"
)

const projectName = "sentinel"

// NewResourceName creates a new test resource name with a common prefix, the
// test's name, and a random string.
func NewResourceName(t *testing.T) string {
	name := strings.ReplaceAll(t.Name(), "/", "-")
	return fmt.Sprintf("%s-%s-%s", projectName, name, utility.RandomString())
}

// NewTaskID creates a new random task identifier for test intents.
func NewTaskID() string {
	return fmt.Sprintf("%s-task-%s", projectName, utility.RandomString())
}
