// Package domain contains the core domain models for workflows, jobs,
// steps, and their execution.
package domain

// Builtin step identifiers accepted in a step's `uses` field.
const (
	UsesCheckout = "checkout"
	UsesCache    = "cache"
)

// Workflow is a declarative pipeline definition: trigger conditions,
// declared permissions, shared environment, and a set of named jobs.
type Workflow struct {
	Name        string
	On          Triggers
	Permissions Permissions
	Env         map[string]string
	Jobs        map[InternedString]Job
}

// Job is an ordered list of steps executed on one worker under a single
// wall-clock ceiling. Jobs without Needs edges are independent.
type Job struct {
	Name           InternedString
	Needs          []InternedString
	RunsOn         string
	TimeoutMinutes int
	Env            map[string]string
	Steps          []Step
}

// Step is a single pipeline step. Exactly one of Uses or Run is set:
// Uses names a builtin (checkout, cache) parameterized by With, Run is the
// argv of an external command. The step never inspects what the command
// does; a non-zero exit fails the job.
type Step struct {
	Name       string
	Uses       string
	With       map[string]string
	Run        []string
	Env        map[string]string
	WorkingDir string
}

// IsBuiltin reports whether the step invokes a builtin rather than an
// external command.
func (s *Step) IsBuiltin() bool {
	return s.Uses != ""
}

// Graph builds the job dependency graph for this workflow. The graph still
// needs Validate before it can be walked.
func (w *Workflow) Graph() (*Graph, error) {
	g := NewGraph()
	for _, job := range w.Jobs {
		if err := g.AddJob(&job); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// CheckoutSpec describes a source checkout request.
type CheckoutSpec struct {
	// Repository is a clone URL or local path. Empty means "the repository
	// the runner is already inside".
	Repository string
	// Ref is a branch name or full commit hash. Empty keeps the default
	// branch (clone) or current HEAD (existing repository).
	Ref string
}

// CheckoutSpecFromWith builds a CheckoutSpec from a builtin step's With map.
func CheckoutSpecFromWith(with map[string]string) CheckoutSpec {
	return CheckoutSpec{
		Repository: with["repository"],
		Ref:        with["ref"],
	}
}
