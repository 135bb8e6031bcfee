// Package agent provides a minimal agent and task runner. An Agent describes
// who is acting, a Task binds a Go function to a description of the work, and
// a Crew runs its tasks sequentially. This is just enough framework glue to
// drive approval-gated secret access from an agent-style program; it is not a
// general-purpose orchestrator.
package agent

import (
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
)

// Agent describes the actor that tasks run on behalf of.
type Agent struct {
	// Role is the short name for the agent's function.
	Role *string
	// Goal is what the agent is trying to accomplish.
	Goal *string
	// Backstory is free-text context for the agent.
	Backstory *string
	// AllowDelegation indicates whether the agent may hand work off to other
	// agents. The runner does not delegate, so this is descriptive only.
	AllowDelegation *bool
	// Verbose enables logging of the agent's activity.
	Verbose *bool
}

// NewAgent returns a new unconfigured agent.
func NewAgent() *Agent {
	return &Agent{}
}

// SetRole sets the short name for the agent's function.
func (a *Agent) SetRole(role string) *Agent {
	a.Role = &role
	return a
}

// SetGoal sets what the agent is trying to accomplish.
func (a *Agent) SetGoal(goal string) *Agent {
	a.Goal = &goal
	return a
}

// SetBackstory sets free-text context for the agent.
func (a *Agent) SetBackstory(backstory string) *Agent {
	a.Backstory = &backstory
	return a
}

// SetAllowDelegation sets whether the agent may hand work off to other agents.
func (a *Agent) SetAllowDelegation(allow bool) *Agent {
	a.AllowDelegation = &allow
	return a
}

// SetVerbose sets whether the agent's activity is logged.
func (a *Agent) SetVerbose(verbose bool) *Agent {
	a.Verbose = &verbose
	return a
}

// Validate checks that the agent has a role and a goal.
func (a *Agent) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(utility.FromStringPtr(a.Role) == "", "must provide a role")
	catcher.NewWhen(utility.FromStringPtr(a.Goal) == "", "must provide a goal")
	return catcher.Resolve()
}
