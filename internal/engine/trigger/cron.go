// Package trigger turns schedule declarations into fired events.
package trigger

import (
	"strings"

	"github.com/robfig/cron"
	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ScheduleWatcher = (*Watcher)(nil)

// Watcher fires schedule events for a workflow's cron expressions.
type Watcher struct {
	cron   *cron.Cron
	logger ports.Logger
}

// NewWatcher creates a new Watcher.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{logger: logger}
}

// Start registers one cron entry per schedule and begins firing. The fire
// callback runs on the scheduler goroutine, so it should hand off quickly.
func (w *Watcher) Start(schedules []string, fire func(domain.Event)) error {
	c := cron.New()
	for _, spec := range schedules {
		err := c.AddFunc(normalizeSpec(spec), func() {
			fire(domain.Event{Kind: domain.EventSchedule})
		})
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid cron schedule"), "schedule", spec)
		}
	}
	c.Start()
	w.cron = c
	w.logger.Info("schedule watcher started")
	return nil
}

// Stop halts the scheduler. Entries already firing are not interrupted.
func (w *Watcher) Stop() {
	if w.cron != nil {
		w.cron.Stop()
		w.logger.Info("schedule watcher stopped")
	}
}

// normalizeSpec widens the usual five-field cron form to the six-field
// form (leading seconds) the scheduler parses. Descriptors such as
// @hourly pass through unchanged.
func normalizeSpec(spec string) string {
	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(spec, "@") {
		return spec
	}
	if len(strings.Fields(spec)) == 5 {
		return "0 " + spec
	}
	return spec
}
