package domain

import "errors"

var (
	// ErrJobAlreadyExists is returned when adding a job whose name is taken.
	ErrJobAlreadyExists = errors.New("job already exists")

	// ErrUnknownJob is returned when a needs entry or job filter references
	// a job that is not defined in the workflow.
	ErrUnknownJob = errors.New("unknown job")

	// ErrCycleDetected is returned when the needs edges form a cycle.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrTriggerMismatch is returned when an event matches none of the
	// workflow's declared triggers.
	ErrTriggerMismatch = errors.New("event does not match workflow triggers")

	// ErrPermissionDenied is returned when a builtin step requires a scope
	// the workflow does not grant.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidPermission is returned for an unknown access level.
	ErrInvalidPermission = errors.New("invalid permission access level")

	// ErrRunFailed is the terminal error of a run with at least one failed
	// job. The per-job causes are attached to the run report.
	ErrRunFailed = errors.New("workflow run failed")
)
