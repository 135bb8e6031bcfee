package agent

import (
	"context"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/sentinel-project/sentinel-go/tracing"
)

// CrewOptions are options to create a crew of agents and the tasks they run.
type CrewOptions struct {
	// Agents are the agents in the crew.
	Agents []Agent
	// Tasks are the tasks to run, in order.
	Tasks []Task
	// Verbose enables logging of each task's progress.
	Verbose *bool
}

// NewCrewOptions returns new unconfigured options to create a crew.
func NewCrewOptions() *CrewOptions {
	return &CrewOptions{}
}

// SetAgents sets the agents in the crew.
func (o *CrewOptions) SetAgents(agents []Agent) *CrewOptions {
	o.Agents = agents
	return o
}

// AddAgents adds agents to the crew.
func (o *CrewOptions) AddAgents(agents ...Agent) *CrewOptions {
	o.Agents = append(o.Agents, agents...)
	return o
}

// SetTasks sets the tasks to run, in order.
func (o *CrewOptions) SetTasks(tasks []Task) *CrewOptions {
	o.Tasks = tasks
	return o
}

// AddTasks adds tasks to run after the ones already given.
func (o *CrewOptions) AddTasks(tasks ...Task) *CrewOptions {
	o.Tasks = append(o.Tasks, tasks...)
	return o
}

// SetVerbose sets whether each task's progress is logged.
func (o *CrewOptions) SetVerbose(verbose bool) *CrewOptions {
	o.Verbose = &verbose
	return o
}

// Validate checks that the crew has at least one task and that every agent
// and task is valid.
func (o *CrewOptions) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(len(o.Tasks) == 0, "must provide at least one task")
	for i := range o.Agents {
		catcher.Add(errors.Wrapf(o.Agents[i].Validate(), "agent at index %d", i))
	}
	for i := range o.Tasks {
		catcher.Add(errors.Wrapf(o.Tasks[i].Validate(), "task at index %d", i))
	}
	return catcher.Resolve()
}

// Crew runs a set of tasks sequentially on behalf of its agents.
type Crew struct {
	opts CrewOptions
}

// NewCrew creates a new crew from the given options.
func NewCrew(opts CrewOptions) (*Crew, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	return &Crew{opts: opts}, nil
}

// TaskResult is the outcome of one completed task.
type TaskResult struct {
	// TaskID identifies the task that produced the output.
	TaskID string
	// Description is the task's description.
	Description string
	// Output is what the task's function returned.
	Output string
}

// Kickoff runs the crew's tasks in order and returns their outputs. It stops
// at the first task that fails, returning the results of the tasks that
// completed along with the error.
func (c *Crew) Kickoff(ctx context.Context) ([]TaskResult, error) {
	var results []TaskResult

	for i := range c.opts.Tasks {
		res, err := c.runTask(ctx, &c.opts.Tasks[i])
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

func (c *Crew) runTask(ctx context.Context, t *Task) (res TaskResult, err error) {
	if err := ctx.Err(); err != nil {
		return TaskResult{}, errors.Wrap(err, "checking context")
	}

	taskID := utility.FromStringPtr(t.ID)
	description := utility.FromStringPtr(t.Description)

	ctx, span := tracing.StartSpan(ctx, "crew.task", map[string]string{
		"task_id":    taskID,
		"agent_role": utility.FromStringPtr(t.Agent.Role),
	})
	defer func() { tracing.EndSpan(span, err) }()

	verbose := utility.FromBoolPtr(c.opts.Verbose) || utility.FromBoolPtr(t.Agent.Verbose)
	if verbose {
		grip.Info(message.Fields{
			"message":     "running task",
			"task_id":     taskID,
			"description": description,
			"agent_role":  utility.FromStringPtr(t.Agent.Role),
		})
	}

	output, err := t.Function(ctx)
	if err != nil {
		return TaskResult{}, errors.Wrapf(err, "running task '%s'", description)
	}

	if verbose {
		grip.Info(message.Fields{
			"message": "task completed",
			"task_id": taskID,
			"output":  output,
		})
	}

	return TaskResult{
		TaskID:      taskID,
		Description: description,
		Output:      output,
	}, nil
}
