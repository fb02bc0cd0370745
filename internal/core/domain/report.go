package domain

import "time"

// Status is the lifecycle state of a job or step.
type Status string

const (
	// StatusPending indicates the unit has not started yet.
	StatusPending Status = "Pending"
	// StatusRunning indicates the unit is currently executing.
	StatusRunning Status = "Running"
	// StatusSucceeded indicates the unit finished successfully.
	StatusSucceeded Status = "Succeeded"
	// StatusFailed indicates the unit failed.
	StatusFailed Status = "Failed"
	// StatusSkipped indicates the unit never ran because an earlier
	// failure aborted the pipeline, or its trigger did not match.
	StatusSkipped Status = "Skipped"
	// StatusCached indicates a cache step that hit.
	StatusCached Status = "Cached"
)

// StepResult records the outcome of one step.
type StepResult struct {
	Name     string
	Status   Status
	Err      error
	Duration time.Duration
}

// JobResult records the outcome of one job.
type JobResult struct {
	Job      InternedString
	Status   Status
	Steps    []StepResult
	Duration time.Duration
}

// Report is the outcome of a whole workflow run.
type Report struct {
	Workflow string
	Event    Event
	Started  time.Time
	Jobs     []JobResult
}

// Failed reports whether any job failed.
func (r *Report) Failed() bool {
	for _, j := range r.Jobs {
		if j.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Counts returns how many jobs ended in each status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int, len(r.Jobs))
	for _, j := range r.Jobs {
		counts[j.Status]++
	}
	return counts
}
