// Package config provides the workflow configuration loader for gale.
package config

import (
	"os"

	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the workflow file looked up when no path is given.
const DefaultFilename = "gale.yaml"

const defaultTimeoutMinutes = 60

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads a workflow file from the given path and returns the domain model.
func (l *Loader) Load(path string) (*domain.Workflow, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read workflow file")
	}

	var dto WorkflowDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to parse workflow file")
	}

	return l.toDomain(&dto)
}

func (l *Loader) toDomain(dto *WorkflowDTO) (*domain.Workflow, error) {
	wf := &domain.Workflow{
		Name: dto.Name,
		On:   toTriggers(dto.On),
		Env:  dto.Env,
		Jobs: make(map[domain.InternedString]domain.Job, len(dto.Jobs)),
	}

	if wf.On.Empty() {
		return nil, zerr.New("workflow declares no triggers")
	}

	perms, err := toPermissions(dto.Permissions)
	if err != nil {
		return nil, err
	}
	wf.Permissions = perms

	if len(dto.Jobs) == 0 {
		return nil, zerr.New("workflow declares no jobs")
	}

	for name, jobDTO := range dto.Jobs {
		job, err := toJob(name, &jobDTO)
		if err != nil {
			return nil, err
		}
		wf.Jobs[job.Name] = *job
	}

	// Surface bad needs references and cycles at load time rather than at
	// the first run attempt.
	graph, err := wf.Graph()
	if err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	if wf.Name == "" {
		l.logger.Warn("workflow has no name, reports will use the file contents only")
	}

	return wf, nil
}

func toTriggers(on OnDTO) domain.Triggers {
	t := domain.Triggers{
		WorkflowDispatch: on.WorkflowDispatch,
	}
	if on.Push != nil {
		t.Push = &domain.BranchFilter{Branches: on.Push.Branches}
	}
	if on.PullRequest != nil {
		t.PullRequest = &domain.BranchFilter{Branches: on.PullRequest.Branches}
	}
	for _, s := range on.Schedule {
		if s.Cron != "" {
			t.Schedules = append(t.Schedules, s.Cron)
		}
	}
	return t
}

func toPermissions(raw map[string]string) (domain.Permissions, error) {
	if raw == nil {
		return domain.DefaultPermissions(), nil
	}
	perms := make(domain.Permissions, len(raw))
	for scope, access := range raw {
		perms[scope] = domain.Access(access)
	}
	if err := perms.Validate(); err != nil {
		return nil, err
	}
	return perms, nil
}

func toJob(name string, dto *JobDTO) (*domain.Job, error) {
	if len(dto.Steps) == 0 {
		return nil, zerr.With(zerr.New("job has no steps"), "job", name)
	}

	timeout := dto.TimeoutMinutes
	if timeout < 0 {
		return nil, zerr.With(zerr.New("negative timeout-minutes"), "job", name)
	}
	if timeout == 0 {
		timeout = defaultTimeoutMinutes
	}

	job := &domain.Job{
		Name:           domain.NewInternedString(name),
		RunsOn:         dto.RunsOn,
		TimeoutMinutes: timeout,
		Env:            dto.Env,
		Needs:          internStrings(dto.Needs),
	}

	for i, stepDTO := range dto.Steps {
		step, err := toStep(name, i, &stepDTO)
		if err != nil {
			return nil, err
		}
		job.Steps = append(job.Steps, *step)
	}

	return job, nil
}

func toStep(jobName string, index int, dto *StepDTO) (*domain.Step, error) {
	hasRun := len(dto.Run) > 0
	hasUses := dto.Uses != ""
	if hasRun == hasUses {
		return nil, zerr.With(zerr.With(
			zerr.New("step must set exactly one of run or uses"),
			"job", jobName), "step", index)
	}

	if hasUses {
		switch dto.Uses {
		case domain.UsesCheckout:
		case domain.UsesCache:
			// Reject malformed cache parameters at load time.
			if _, err := domain.CacheSpecFromWith(dto.With); err != nil {
				return nil, zerr.With(err, "job", jobName)
			}
		default:
			return nil, zerr.With(zerr.New("unknown builtin step"), "uses", dto.Uses)
		}
	}

	return &domain.Step{
		Name:       dto.Name,
		Uses:       dto.Uses,
		With:       dto.With,
		Run:        dto.Run,
		Env:        dto.Env,
		WorkingDir: dto.WorkingDir,
	}, nil
}

func internStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}
	res := make([]domain.InternedString, len(strs))
	for i, s := range strs {
		res[i] = domain.NewInternedString(s)
	}
	return res
}
