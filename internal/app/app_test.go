package app_test

import (
	"context"
	"errors"
	"testing"

	"go.trai.ch/gale/internal/adapters/telemetry"
	"go.trai.ch/gale/internal/app"
	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports/mocks"
	"go.trai.ch/gale/internal/engine/runner"
	"go.trai.ch/gale/internal/engine/trigger"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	app      *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	executor := mocks.NewMockExecutor(ctrl)
	store := mocks.NewMockCacheStore(ctrl)
	hasher := mocks.NewMockHasher(ctrl)
	fetcher := mocks.NewMockSourceFetcher(ctrl)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	tel := telemetry.NewNoOp()
	run := runner.NewRunner(executor, store, hasher, fetcher, tel, logger)
	watcher := trigger.NewWatcher(logger)

	return &fixture{
		loader:   loader,
		executor: executor,
		app:      app.New(loader, run, watcher, tel, logger),
	}
}

func workflow() *domain.Workflow {
	test := domain.NewInternedString("test")
	return &domain.Workflow{
		Name:        "ci",
		On:          domain.Triggers{Push: &domain.BranchFilter{}},
		Permissions: domain.DefaultPermissions(),
		Jobs: map[domain.InternedString]domain.Job{
			test: {Name: test, Steps: []domain.Step{{Name: "test", Run: []string{"cargo", "test"}}}},
		},
	}
}

func TestApp_Run(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load("gale.yaml").Return(workflow(), nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err := f.app.Run(context.Background(), "gale.yaml", domain.Event{Kind: domain.EventPush}, app.RunOptions{})
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestApp_Run_LoaderError(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load("gale.yaml").Return(nil, errors.New("config load error"))

	err := f.app.Run(context.Background(), "gale.yaml", domain.Event{Kind: domain.EventPush}, app.RunOptions{})
	if err == nil {
		t.Error("Expected error, got nil")
	}
}

func TestApp_Run_TriggerMismatchSkips(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load("gale.yaml").Return(workflow(), nil)

	// A dispatch event against a push-only workflow runs nothing and is
	// not an error.
	err := f.app.Run(context.Background(), "gale.yaml", domain.Event{Kind: domain.EventDispatch}, app.RunOptions{})
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestApp_Run_JobFailure(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load("gale.yaml").Return(workflow(), nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("tests failed"))

	err := f.app.Run(context.Background(), "gale.yaml", domain.Event{Kind: domain.EventPush}, app.RunOptions{})
	if !errors.Is(err, domain.ErrRunFailed) {
		t.Errorf("Expected ErrRunFailed, got: %v", err)
	}
}

func TestApp_Watch_NoSchedules(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load("gale.yaml").Return(workflow(), nil)

	err := f.app.Watch(context.Background(), "gale.yaml", app.RunOptions{})
	if err == nil {
		t.Error("Expected error for a workflow without schedules, got nil")
	}
}

func scheduledWorkflow() *domain.Workflow {
	test := domain.NewInternedString("test")
	return &domain.Workflow{
		Name:        "nightly",
		On:          domain.Triggers{Schedules: []string{"0 2 * * *"}},
		Permissions: domain.DefaultPermissions(),
		Jobs: map[domain.InternedString]domain.Job{
			test: {Name: test, Steps: []domain.Step{{Name: "test", Run: []string{"cargo", "test"}}}},
		},
	}
}

func TestApp_Watch_FiresAndCoalesces(t *testing.T) {
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	executor := mocks.NewMockExecutor(ctrl)
	store := mocks.NewMockCacheStore(ctrl)
	hasher := mocks.NewMockHasher(ctrl)
	fetcher := mocks.NewMockSourceFetcher(ctrl)
	watcher := mocks.NewMockScheduleWatcher(ctrl)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	warned := make(chan struct{}, 1)
	logger.EXPECT().Warn("previous scheduled run still active, skipping fire").Do(func(string) {
		warned <- struct{}{}
	}).Times(1)

	tel := telemetry.NewNoOp()
	run := runner.NewRunner(executor, store, hasher, fetcher, tel, logger)
	a := app.New(loader, run, watcher, tel, logger)

	loader.EXPECT().Load("gale.yaml").Return(scheduledWorkflow(), nil)

	fired := make(chan func(domain.Event), 1)
	watcher.EXPECT().Start([]string{"0 2 * * *"}, gomock.Any()).DoAndReturn(
		func(_ []string, fire func(domain.Event)) error {
			fired <- fire
			return nil
		})
	watcher.EXPECT().Stop()

	entered := make(chan struct{})
	release := make(chan struct{})
	first := executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *domain.Step, []string) error {
			close(entered)
			<-release
			return nil
		})
	done := make(chan struct{})
	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *domain.Step, []string) error {
			close(done)
			return nil
		}).After(first)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errs := make(chan error, 1)
	go func() { errs <- a.Watch(ctx, "gale.yaml", app.RunOptions{}) }()

	fire := <-fired
	fire(domain.Event{Kind: domain.EventSchedule})
	<-entered

	// While the first run is active the next fire is queued and the one
	// after is dropped with a warning.
	fire(domain.Event{Kind: domain.EventSchedule})
	fire(domain.Event{Kind: domain.EventSchedule})
	<-warned
	close(release)

	<-done
	cancel()
	if err := <-errs; err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}
