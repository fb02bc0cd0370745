package domain_test

import (
	"errors"
	"slices"
	"testing"

	"go.trai.ch/gale/internal/core/domain"
)

func job(name string, needs ...string) *domain.Job {
	j := &domain.Job{Name: domain.NewInternedString(name)}
	for _, n := range needs {
		j.Needs = append(j.Needs, domain.NewInternedString(n))
	}
	return j
}

func TestGraph_AddJob_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	if err := g.AddJob(job("test")); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	err := g.AddJob(job("test"))
	if !errors.Is(err, domain.ErrJobAlreadyExists) {
		t.Errorf("expected ErrJobAlreadyExists, got %v", err)
	}
}

func TestGraph_Validate_MissingNeeds(t *testing.T) {
	g := domain.NewGraph()
	_ = g.AddJob(job("lint", "build"))

	err := g.Validate()
	if !errors.Is(err, domain.ErrUnknownJob) {
		t.Errorf("expected ErrUnknownJob, got %v", err)
	}
}

func TestGraph_Validate_Cycle(t *testing.T) {
	g := domain.NewGraph()
	_ = g.AddJob(job("a", "b"))
	_ = g.AddJob(job("b", "a"))

	err := g.Validate()
	if !errors.Is(err, domain.ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got %v", err)
	}
}

func TestGraph_Walk_Order(t *testing.T) {
	// deploy needs test and lint, both need build
	g := domain.NewGraph()
	_ = g.AddJob(job("deploy", "test", "lint"))
	_ = g.AddJob(job("test", "build"))
	_ = g.AddJob(job("lint", "build"))
	_ = g.AddJob(job("build"))

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	pos := make(map[string]int)
	i := 0
	for j := range g.Walk() {
		pos[j.Name.String()] = i
		i++
	}
	if i != 4 {
		t.Fatalf("expected 4 jobs, walked %d", i)
	}

	if pos["build"] > pos["test"] || pos["build"] > pos["lint"] {
		t.Errorf("build must come before test and lint: %v", pos)
	}
	if pos["deploy"] < pos["test"] || pos["deploy"] < pos["lint"] {
		t.Errorf("deploy must come last: %v", pos)
	}
}

func TestGraph_Walk_Deterministic(t *testing.T) {
	build := func() []string {
		g := domain.NewGraph()
		for _, name := range []string{"fmt", "clippy", "test", "doc", "audit", "bench", "msrv", "examples"} {
			_ = g.AddJob(job(name))
		}
		if err := g.Validate(); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		var order []string
		for j := range g.Walk() {
			order = append(order, j.Name.String())
		}
		return order
	}

	// Independent jobs have no needs edges to pin them down, so the order
	// must come from the names alone.
	first := build()
	for range 10 {
		if got := build(); !slices.Equal(got, first) {
			t.Fatalf("walk order varies between runs: %v vs %v", got, first)
		}
	}
	if !slices.IsSorted(first) {
		t.Errorf("expected jobs sorted by name, got %v", first)
	}
}

func TestGraph_Waves(t *testing.T) {
	g := domain.NewGraph()
	_ = g.AddJob(job("deploy", "test", "lint"))
	_ = g.AddJob(job("test", "build"))
	_ = g.AddJob(job("lint", "build"))
	_ = g.AddJob(job("build"))

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	waves := g.Waves()
	if len(waves) != 3 {
		t.Fatalf("expected 3 waves, got %d", len(waves))
	}
	if len(waves[0]) != 1 || waves[0][0].String() != "build" {
		t.Errorf("wave 0 should be [build], got %v", waves[0])
	}
	if len(waves[1]) != 2 {
		t.Errorf("wave 1 should hold test and lint, got %v", waves[1])
	}
	if len(waves[2]) != 1 || waves[2][0].String() != "deploy" {
		t.Errorf("wave 2 should be [deploy], got %v", waves[2])
	}
}
