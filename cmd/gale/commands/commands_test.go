package commands_test

import (
	"context"
	"errors"
	"testing"

	"go.trai.ch/gale/cmd/gale/commands"
	"go.trai.ch/gale/internal/adapters/telemetry"
	"go.trai.ch/gale/internal/app"
	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports/mocks"
	"go.trai.ch/gale/internal/engine/runner"
	"go.trai.ch/gale/internal/engine/trigger"
	"go.uber.org/mock/gomock"
)

type cliFixture struct {
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	store    *mocks.MockCacheStore
	cli      *commands.CLI
}

func newCLI(t *testing.T) *cliFixture {
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
	a := app.New(loader, run, trigger.NewWatcher(logger), tel, logger)

	cli := commands.New(&app.Components{
		App:          a,
		Logger:       logger,
		ConfigLoader: loader,
		Store:        store,
	})

	return &cliFixture{loader: loader, executor: executor, store: store, cli: cli}
}

func dispatchWorkflow() *domain.Workflow {
	test := domain.NewInternedString("test")
	return &domain.Workflow{
		Name:        "ci",
		On:          domain.Triggers{WorkflowDispatch: true},
		Permissions: domain.DefaultPermissions(),
		Jobs: map[domain.InternedString]domain.Job{
			test: {Name: test, Steps: []domain.Step{{Name: "test", Run: []string{"cargo", "test"}}}},
		},
	}
}

func TestRun_Success(t *testing.T) {
	f := newCLI(t)

	f.loader.EXPECT().Load("gale.yaml").Return(dispatchWorkflow(), nil).Times(1)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	f.cli.SetArgs([]string{"run"})
	if err := f.cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestRun_ConfigFlag(t *testing.T) {
	f := newCLI(t)

	f.loader.EXPECT().Load("ci/pipeline.yaml").Return(dispatchWorkflow(), nil).Times(1)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	f.cli.SetArgs([]string{"run", "-c", "ci/pipeline.yaml"})
	if err := f.cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestRun_UnknownEvent(t *testing.T) {
	f := newCLI(t)

	f.cli.SetArgs([]string{"run", "--event", "release"})
	if err := f.cli.Execute(context.Background()); err == nil {
		t.Error("Expected error for unknown event kind, got nil")
	}
}

func TestRun_JobFailure(t *testing.T) {
	f := newCLI(t)

	f.loader.EXPECT().Load("gale.yaml").Return(dispatchWorkflow(), nil).Times(1)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("tests failed")).Times(1)

	f.cli.SetArgs([]string{"run"})
	err := f.cli.Execute(context.Background())
	if !errors.Is(err, domain.ErrRunFailed) {
		t.Errorf("Expected ErrRunFailed, got: %v", err)
	}
}

func TestCache_Clear(t *testing.T) {
	f := newCLI(t)

	f.store.EXPECT().Clear().Return(nil).Times(1)

	f.cli.SetArgs([]string{"cache", "clear"})
	if err := f.cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestCache_List(t *testing.T) {
	f := newCLI(t)

	f.store.EXPECT().Entries().Return([]domain.CacheEntry{{Key: "cargo-linux-abc"}}).Times(1)

	f.cli.SetArgs([]string{"cache", "list"})
	if err := f.cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestVersion(t *testing.T) {
	f := newCLI(t)

	f.cli.SetArgs([]string{"version"})
	if err := f.cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}
