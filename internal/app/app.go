// Package app implements the application layer for gale.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports"
	"go.trai.ch/gale/internal/engine/runner"
	"go.trai.ch/zerr"
)

// RunOptions carries per-invocation settings from the CLI.
type RunOptions struct {
	// Jobs restricts the run to the named jobs and their needs.
	Jobs []string
	// Workspace is the directory the workflow operates in.
	Workspace string
	// Parallelism caps concurrent jobs per wave. Zero picks a default.
	Parallelism int
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       *runner.Runner
	watcher      ports.ScheduleWatcher
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	run *runner.Runner,
	watcher ports.ScheduleWatcher,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		runner:       run,
		watcher:      watcher,
		telemetry:    telemetry,
		logger:       logger,
	}
}

// Run loads the workflow at path and executes it for the given event.
// An event that matches no trigger skips the run without error. A run
// with failing jobs returns domain.ErrRunFailed after the summary is
// logged.
func (a *App) Run(ctx context.Context, path string, event domain.Event, opts RunOptions) error {
	defer func() {
		_ = a.telemetry.Close()
	}()

	wf, err := a.configLoader.Load(path)
	if err != nil {
		return zerr.Wrap(err, "failed to load workflow")
	}

	return a.execute(ctx, wf, event, opts)
}

// Watch loads the workflow and keeps firing it on its cron schedules until
// the context is cancelled.
func (a *App) Watch(ctx context.Context, path string, opts RunOptions) error {
	defer func() {
		_ = a.telemetry.Close()
	}()

	wf, err := a.configLoader.Load(path)
	if err != nil {
		return zerr.Wrap(err, "failed to load workflow")
	}
	if len(wf.On.Schedules) == 0 {
		return zerr.With(zerr.New("workflow declares no schedules"), "workflow", wf.Name)
	}

	// A buffer of one coalesces fires that arrive while a run is active.
	events := make(chan domain.Event, 1)
	err = a.watcher.Start(wf.On.Schedules, func(ev domain.Event) {
		select {
		case events <- ev:
		default:
			a.logger.Warn("previous scheduled run still active, skipping fire")
		}
	})
	if err != nil {
		return err
	}
	defer a.watcher.Stop()

	a.logger.Info(fmt.Sprintf("watching workflow %s (%d schedules)", wf.Name, len(wf.On.Schedules)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := a.execute(ctx, wf, ev, opts); err != nil && !errors.Is(err, domain.ErrRunFailed) {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (a *App) execute(ctx context.Context, wf *domain.Workflow, event domain.Event, opts RunOptions) error {
	report, err := a.runner.Run(ctx, wf, event, runner.Options{
		Workspace:   opts.Workspace,
		Jobs:        opts.Jobs,
		Parallelism: opts.Parallelism,
	})
	if errors.Is(err, domain.ErrTriggerMismatch) {
		a.logger.Info(fmt.Sprintf("workflow %s skipped: no trigger matches %s", wf.Name, event.Kind))
		return nil
	}
	if err != nil {
		return zerr.Wrap(err, "workflow execution failed")
	}

	a.logSummary(report)
	if report.Failed() {
		return zerr.With(domain.ErrRunFailed, "workflow", report.Workflow)
	}
	return nil
}

func (a *App) logSummary(report *domain.Report) {
	counts := report.Counts()
	a.logger.Info(fmt.Sprintf(
		"workflow %s: %d succeeded, %d failed, %d skipped",
		report.Workflow,
		counts[domain.StatusSucceeded],
		counts[domain.StatusFailed],
		counts[domain.StatusSkipped],
	))
	for _, job := range report.Jobs {
		if job.Status != domain.StatusFailed {
			continue
		}
		for _, step := range job.Steps {
			if step.Err != nil {
				a.logger.Error(zerr.With(zerr.With(zerr.Wrap(step.Err, "job failed"), "job", job.Job.String()), "step", step.Name))
			}
		}
	}
}
