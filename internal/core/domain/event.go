package domain

import "path"

// EventKind identifies what caused a run to be requested.
type EventKind string

const (
	// EventPush is a branch push.
	EventPush EventKind = "push"
	// EventPullRequest is a pull request update.
	EventPullRequest EventKind = "pull_request"
	// EventDispatch is a manual run request.
	EventDispatch EventKind = "workflow_dispatch"
	// EventSchedule is a cron-triggered run.
	EventSchedule EventKind = "schedule"
)

// KnownEventKind reports whether k names a supported trigger.
func KnownEventKind(k EventKind) bool {
	switch k {
	case EventPush, EventPullRequest, EventDispatch, EventSchedule:
		return true
	}
	return false
}

// Event is a simulated trigger occurrence presented to a workflow.
type Event struct {
	Kind EventKind
	// Ref is the branch the event concerns. Empty matches any filter.
	Ref string
}

// BranchFilter restricts push and pull_request triggers to branches
// matching any of the listed glob patterns. An empty list matches all.
type BranchFilter struct {
	Branches []string
}

// Matches reports whether the given branch passes the filter.
func (f *BranchFilter) Matches(branch string) bool {
	if f == nil {
		return false
	}
	if len(f.Branches) == 0 || branch == "" {
		return true
	}
	for _, pattern := range f.Branches {
		if ok, _ := path.Match(pattern, branch); ok {
			return true
		}
	}
	return false
}

// Triggers is the `on` block of a workflow. A nil filter means the
// corresponding trigger is not declared.
type Triggers struct {
	Push             *BranchFilter
	PullRequest      *BranchFilter
	WorkflowDispatch bool
	// Schedules holds cron expressions in the usual five-field form.
	Schedules []string
}

// Matches reports whether the event satisfies any declared trigger.
func (t Triggers) Matches(ev Event) bool {
	switch ev.Kind {
	case EventPush:
		return t.Push.Matches(ev.Ref)
	case EventPullRequest:
		return t.PullRequest.Matches(ev.Ref)
	case EventDispatch:
		return t.WorkflowDispatch
	case EventSchedule:
		return len(t.Schedules) > 0
	}
	return false
}

// Empty reports whether no trigger is declared at all.
func (t Triggers) Empty() bool {
	return t.Push == nil && t.PullRequest == nil && !t.WorkflowDispatch && len(t.Schedules) == 0
}
