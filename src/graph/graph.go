// Package graph contains an in-memory implementation of the target provider
// that test suite expansion resolves labels through. Everything in it is
// already loaded; there is no on-demand package loading here, so lookups never
// block beyond lock acquisition.
package graph

import (
	"context"

	"golang.org/x/exp/slices"

	"github.com/please-build/rulemeta/src/cli"
	"github.com/please-build/rulemeta/src/core"
)

// A Graph holds all currently known targets, keyed by label.
// All functions on it are threadsafe.
type Graph struct {
	targets *targetMap
}

// NewGraph constructs a new, empty graph.
func NewGraph() *Graph {
	return &Graph{targets: newTargetMap()}
}

// AddTarget adds a new target to the graph.
func (graph *Graph) AddTarget(target core.Target) core.Target {
	if !graph.targets.Set(target) {
		panic("Attempted to re-add existing target to graph: " + target.Label().String())
	}
	return target
}

// Target retrieves a target from the graph by label, or nil if it isn't there.
func (graph *Graph) Target(label core.BuildLabel) core.Target {
	t, present := graph.targets.Get(label)
	if !present {
		return nil
	}
	return t
}

// AllTargets returns all the targets in the graph, ordered by label.
func (graph *Graph) AllTargets() []core.Target {
	ret := graph.targets.Values()
	slices.SortFunc(ret, func(a, b core.Target) bool { return a.Label().Less(b.Label()) })
	return ret
}

// Len returns the number of targets in the graph.
func (graph *Graph) Len() int {
	return len(graph.targets.Values())
}

// GetTarget implements the core.TargetProvider interface. A missing label
// produces a NotFoundError carrying suggestions for similar labels that do
// exist; the handler is unused since nothing is loaded on demand here.
func (graph *Graph) GetTarget(ctx context.Context, events core.EventHandler, label core.BuildLabel) (core.Target, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t := graph.Target(label); t != nil {
		return t, nil
	}
	return nil, &core.NotFoundError{Label: label, Suggestion: cli.SuggestMessage(label.String(), graph.allLabelStrings())}
}

func (graph *Graph) allLabelStrings() []string {
	targets := graph.targets.Values()
	ret := make([]string, len(targets))
	for i, t := range targets {
		ret[i] = t.Label().String()
	}
	return ret
}
