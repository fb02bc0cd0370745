package ports

import "go.trai.ch/gale/internal/core/domain"

// ScheduleWatcher defines the interface behind watch mode. It turns a
// workflow's cron schedules into fired events.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type ScheduleWatcher interface {
	// Start registers the schedules and begins invoking fire on every
	// activation. The callback runs on the scheduler goroutine.
	Start(schedules []string, fire func(domain.Event)) error

	// Stop halts the scheduler. Entries already firing are not
	// interrupted.
	Stop()
}
