// Package runner executes a workflow's jobs in dependency order.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options configures a single workflow run.
type Options struct {
	// Workspace is the directory the workflow operates in. Defaults to ".".
	Workspace string
	// Jobs restricts the run to the named jobs and their transitive needs.
	// Empty runs everything.
	Jobs []string
	// Parallelism caps how many jobs of one wave run concurrently.
	// Zero means GOMAXPROCS.
	Parallelism int
}

// Runner executes workflows against the local machine.
type Runner struct {
	executor  ports.Executor
	store     ports.CacheStore
	hasher    ports.Hasher
	fetcher   ports.SourceFetcher
	telemetry ports.Telemetry
	logger    ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(
	executor ports.Executor,
	store ports.CacheStore,
	hasher ports.Hasher,
	fetcher ports.SourceFetcher,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Runner {
	return &Runner{
		executor:  executor,
		store:     store,
		hasher:    hasher,
		fetcher:   fetcher,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Run executes the workflow for the given event.
//
// Jobs whose needs are satisfied run concurrently, wave by wave; a failing
// job fails fast and skips every job of later waves. Job failures are
// recorded in the report, not returned: the error return is reserved for
// the run not being executable at all (trigger mismatch, invalid graph,
// unknown job filter).
func (r *Runner) Run(ctx context.Context, wf *domain.Workflow, event domain.Event, opts Options) (*domain.Report, error) {
	if !wf.On.Matches(event) {
		return nil, zerr.With(zerr.With(domain.ErrTriggerMismatch, "workflow", wf.Name), "event", string(event.Kind))
	}

	graph, err := wf.Graph()
	if err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	include, err := selectJobs(graph, opts.Jobs)
	if err != nil {
		return nil, err
	}

	workspace := opts.Workspace
	if workspace == "" {
		workspace = "."
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	report := &domain.Report{
		Workflow: wf.Name,
		Event:    event,
		Started:  time.Now(),
	}

	var mu sync.Mutex
	results := make(map[domain.InternedString]domain.JobResult, graph.JobCount())

	failed := false
	for _, wave := range graph.Waves() {
		if failed {
			break
		}

		g, waveCtx := errgroup.WithContext(ctx)
		g.SetLimit(parallelism)

		for _, name := range wave {
			job, _ := graph.Job(name)
			if _, ok := include[name]; !ok {
				mu.Lock()
				results[name] = domain.JobResult{Job: name, Status: domain.StatusSkipped}
				mu.Unlock()
				continue
			}

			g.Go(func() error {
				res := r.runJob(waveCtx, wf, &job, workspace)
				mu.Lock()
				results[name] = res
				mu.Unlock()
				if res.Status == domain.StatusFailed {
					return zerr.With(domain.ErrRunFailed, "job", name.String())
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			failed = true
		}
	}

	for job := range graph.Walk() {
		res, ok := results[job.Name]
		if !ok {
			res = domain.JobResult{Job: job.Name, Status: domain.StatusSkipped}
		}
		report.Jobs = append(report.Jobs, res)
	}

	return report, ctx.Err()
}

// selectJobs resolves the job filter to the set of jobs to execute: the
// named jobs plus everything they transitively need. A nil filter selects
// all jobs.
func selectJobs(graph *domain.Graph, filter []string) (map[domain.InternedString]struct{}, error) {
	include := make(map[domain.InternedString]struct{}, graph.JobCount())
	if len(filter) == 0 {
		for job := range graph.Walk() {
			include[job.Name] = struct{}{}
		}
		return include, nil
	}

	var visit func(name domain.InternedString) error
	visit = func(name domain.InternedString) error {
		if _, ok := include[name]; ok {
			return nil
		}
		job, ok := graph.Job(name)
		if !ok {
			return zerr.With(domain.ErrUnknownJob, "job", name.String())
		}
		include[name] = struct{}{}
		for _, dep := range job.Needs {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range filter {
		if err := visit(domain.NewInternedString(name)); err != nil {
			return nil, err
		}
	}
	return include, nil
}

// pendingSave is a cache step that missed and should be captured after the
// job succeeds.
type pendingSave struct {
	key  string
	spec *domain.CacheSpec
}

func (r *Runner) runJob(ctx context.Context, wf *domain.Workflow, job *domain.Job, workspace string) domain.JobResult {
	started := time.Now()
	res := domain.JobResult{Job: job.Name, Status: domain.StatusRunning}

	if job.TimeoutMinutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(job.TimeoutMinutes)*time.Minute)
		defer cancel()
	}

	ctx, vertex := r.telemetry.Record(ctx, job.Name.String())

	env := runEnvironment(wf, job)

	var saves []pendingSave
	jobFailed := false
	for i := range job.Steps {
		step := job.Steps[i]
		if jobFailed {
			res.Steps = append(res.Steps, domain.StepResult{Name: step.Name, Status: domain.StatusSkipped})
			continue
		}

		stepRes := r.runStep(ctx, wf, &step, env, workspace, &saves)
		res.Steps = append(res.Steps, stepRes)
		if stepRes.Status == domain.StatusFailed {
			jobFailed = true
		}
	}

	if jobFailed {
		res.Status = domain.StatusFailed
	} else {
		res.Status = domain.StatusSucceeded
		r.savePending(job, saves, workspace)
	}

	res.Duration = time.Since(started)
	if res.Status == domain.StatusFailed {
		vertex.Complete(zerr.With(domain.ErrRunFailed, "job", job.Name.String()))
	} else {
		vertex.Complete(nil)
	}
	return res
}

func (r *Runner) runStep(
	ctx context.Context,
	wf *domain.Workflow,
	step *domain.Step,
	env []string,
	workspace string,
	saves *[]pendingSave,
) domain.StepResult {
	started := time.Now()
	name := stepDisplayName(step)

	ctx, vertex := r.telemetry.Record(ctx, name)

	status := domain.StatusSucceeded
	var err error
	switch {
	case step.Uses == domain.UsesCheckout:
		err = r.runCheckout(ctx, wf, step, workspace)
	case step.Uses == domain.UsesCache:
		var hit bool
		hit, err = r.runCache(step, workspace, saves)
		if hit {
			status = domain.StatusCached
			vertex.Cached()
		}
	default:
		st := *step
		if st.WorkingDir == "" {
			st.WorkingDir = workspace
		}
		err = r.executor.Execute(ctx, &st, env)
	}

	if err != nil {
		status = domain.StatusFailed
		r.logger.Error(zerr.With(zerr.Wrap(err, "step failed"), "step", name))
	}
	vertex.Complete(err)

	return domain.StepResult{
		Name:     name,
		Status:   status,
		Err:      err,
		Duration: time.Since(started),
	}
}

// runCheckout executes the checkout builtin. It requires read access to the
// contents scope; a workflow that revoked it cannot fetch sources.
func (r *Runner) runCheckout(ctx context.Context, wf *domain.Workflow, step *domain.Step, workspace string) error {
	if !wf.Permissions.Allows("contents", domain.AccessRead) {
		return zerr.With(domain.ErrPermissionDenied, "scope", "contents")
	}
	return r.fetcher.Checkout(ctx, domain.CheckoutSpecFromWith(step.With), workspace)
}

// runCache executes the cache builtin: restore on hit, otherwise remember
// the key so the paths are captured once the job succeeds.
func (r *Runner) runCache(step *domain.Step, workspace string, saves *[]pendingSave) (bool, error) {
	spec, err := domain.CacheSpecFromWith(step.With)
	if err != nil {
		return false, err
	}

	key, err := r.hasher.ComputeKey(spec, workspace)
	if err != nil {
		return false, err
	}

	hit, err := r.store.Restore(key, spec.Paths, workspace)
	if err != nil {
		return false, err
	}
	if hit {
		r.logger.Info(fmt.Sprintf("cache hit for key %s", key))
		return true, nil
	}

	r.logger.Info(fmt.Sprintf("cache miss for key %s", key))
	*saves = append(*saves, pendingSave{key: key, spec: spec})
	return false, nil
}

// savePending captures cache paths for every cache step that missed.
// A failed save degrades the next run to a miss, so it only warns.
func (r *Runner) savePending(job *domain.Job, saves []pendingSave, workspace string) {
	for _, s := range saves {
		if err := r.store.Save(s.key, s.spec.Paths, workspace); err != nil {
			r.logger.Warn(fmt.Sprintf("failed to save cache %s for job %s: %v", s.key, job.Name, err))
		}
	}
}

// runEnvironment merges workflow- and job-level variables and exports the
// workflow's permission grants as GALE_PERMISSION_<SCOPE> so steps can
// honor them.
func runEnvironment(wf *domain.Workflow, job *domain.Job) []string {
	merged := make(map[string]string, len(wf.Env)+len(job.Env)+len(wf.Permissions))
	for k, v := range wf.Env {
		merged[k] = v
	}
	for k, v := range job.Env {
		merged[k] = v
	}
	for scope, access := range wf.Permissions {
		key := "GALE_PERMISSION_" + strings.ToUpper(strings.ReplaceAll(scope, "-", "_"))
		merged[key] = string(access)
	}

	env := make([]string, 0, len(merged))
	for k, v := range merged {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

func stepDisplayName(step *domain.Step) string {
	if step.Name != "" {
		return step.Name
	}
	if step.Uses != "" {
		return step.Uses
	}
	if len(step.Run) > 0 {
		return strings.Join(step.Run, " ")
	}
	return "step"
}
