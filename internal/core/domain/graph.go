package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the dependency graph of a workflow's jobs, built from their
// needs edges.
type Graph struct {
	jobs           map[InternedString]Job
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		jobs: make(map[InternedString]Job),
	}
}

// AddJob adds a job to the graph.
// It returns an error if a job with the same name already exists.
func (g *Graph) AddJob(j *Job) error {
	if _, exists := g.jobs[j.Name]; exists {
		return zerr.With(ErrJobAlreadyExists, "job", j.Name.String())
	}
	g.jobs[j.Name] = *j
	return nil
}

// JobCount returns the number of jobs in the graph.
func (g *Graph) JobCount() int {
	return len(g.jobs)
}

// Job returns the named job.
func (g *Graph) Job(name InternedString) (Job, bool) {
	j, ok := g.jobs[name]
	return j, ok
}

// Validate checks that every needs edge resolves and that the graph is
// acyclic, populating the execution order on success.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.jobs))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		job, exists := g.jobs[u]
		if !exists {
			return zerr.With(ErrUnknownJob, "job", u.String())
		}

		for _, dep := range job.Needs {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	// Seed the traversal from sorted names so the same workflow always
	// yields the same execution order.
	names := make([]InternedString, 0, len(g.jobs))
	for name := range g.jobs {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error carrying the cycle path.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

// Walk returns an iterator that yields jobs in a valid execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Job] {
	return func(yield func(Job) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.jobs[name]) {
				return
			}
		}
	}
}

// Waves groups jobs into execution waves: every job in wave n depends only
// on jobs in earlier waves, so jobs within a wave may run concurrently.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Waves() [][]InternedString {
	level := make(map[InternedString]int, len(g.jobs))
	maxLevel := 0
	for _, name := range g.executionOrder {
		l := 0
		for _, dep := range g.jobs[name].Needs {
			if level[dep]+1 > l {
				l = level[dep] + 1
			}
		}
		level[name] = l
		if l > maxLevel {
			maxLevel = l
		}
	}

	waves := make([][]InternedString, maxLevel+1)
	for _, name := range g.executionOrder {
		waves[level[name]] = append(waves[level[name]], name)
	}
	return waves
}
