package agent

import (
	"context"

	"github.com/evergreen-ci/utility"
	"github.com/google/uuid"
	"github.com/mongodb/grip"
)

// TaskFunc is the executable body of a task. It returns the task's output or
// the error that stopped it.
type TaskFunc func(ctx context.Context) (string, error)

// Task binds an executable function to a description of the work and the
// agent performing it.
type Task struct {
	// ID uniquely identifies the task. If unset, an ID is generated during
	// validation.
	ID *string
	// Description is what the task does.
	Description *string
	// ExpectedOutput describes what a successful run should produce.
	ExpectedOutput *string
	// Agent is the agent the task runs on behalf of.
	Agent *Agent
	// Function is the body of the task.
	Function TaskFunc
}

// NewTask returns a new unconfigured task.
func NewTask() *Task {
	return &Task{}
}

// SetID sets the task's unique identifier.
func (t *Task) SetID(id string) *Task {
	t.ID = &id
	return t
}

// SetDescription sets what the task does.
func (t *Task) SetDescription(description string) *Task {
	t.Description = &description
	return t
}

// SetExpectedOutput sets the description of what a successful run should
// produce.
func (t *Task) SetExpectedOutput(expected string) *Task {
	t.ExpectedOutput = &expected
	return t
}

// SetAgent sets the agent the task runs on behalf of.
func (t *Task) SetAgent(a Agent) *Task {
	t.Agent = &a
	return t
}

// SetFunction sets the body of the task.
func (t *Task) SetFunction(f TaskFunc) *Task {
	t.Function = f
	return t
}

// Validate checks that the task is runnable and assigns an ID if one was not
// given.
func (t *Task) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(utility.FromStringPtr(t.Description) == "", "must provide a description")
	catcher.NewWhen(t.Function == nil, "must provide a function")
	if t.Agent != nil {
		catcher.Add(t.Agent.Validate())
	} else {
		catcher.New("must provide an agent")
	}

	if catcher.HasErrors() {
		return catcher.Resolve()
	}

	if t.ID == nil {
		t.ID = utility.ToStringPtr(uuid.New().String())
	}

	return nil
}
