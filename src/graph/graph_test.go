package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/please-build/rulemeta/src/core"
)

func label(pkg, name string) core.BuildLabel {
	return core.BuildLabel{PackageName: pkg, Name: name}
}

func addFile(g *Graph, pkg, name string) core.Target {
	return g.AddTarget(core.NewInputFile(label(pkg, name), core.Location{}))
}

func TestAddAndLookup(t *testing.T) {
	g := NewGraph()
	target := addFile(g, "src/core", "core.go")
	assert.Same(t, target, g.Target(label("src/core", "core.go")))
	assert.Nil(t, g.Target(label("src/core", "nope.go")))
	assert.Equal(t, 1, g.Len())
}

func TestReAddPanics(t *testing.T) {
	g := NewGraph()
	addFile(g, "src/core", "core.go")
	assert.Panics(t, func() {
		addFile(g, "src/core", "core.go")
	})
}

func TestAllTargetsAreSorted(t *testing.T) {
	g := NewGraph()
	addFile(g, "src/graph", "graph.go")
	addFile(g, "src/core", "core.go")
	addFile(g, "src/core", "attr.go")
	targets := g.AllTargets()
	require.Len(t, targets, 3)
	assert.Equal(t, label("src/core", "attr.go"), targets[0].Label())
	assert.Equal(t, label("src/core", "core.go"), targets[1].Label())
	assert.Equal(t, label("src/graph", "graph.go"), targets[2].Label())
}

func TestGetTarget(t *testing.T) {
	g := NewGraph()
	target := addFile(g, "src/core", "core.go")
	got, err := g.GetTarget(context.Background(), core.LogHandler{}, label("src/core", "core.go"))
	require.NoError(t, err)
	assert.Same(t, target, got)
}

func TestGetMissingTargetSuggestsAlternatives(t *testing.T) {
	g := NewGraph()
	addFile(g, "src/core", "core.go")
	_, err := g.GetTarget(context.Background(), core.LogHandler{}, label("src/core", "core.g"))
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
	assert.Contains(t, err.Error(), "//src/core:core.g not found")
	assert.Contains(t, err.Error(), "Maybe you meant //src/core:core.go ?")
}

func TestGetTargetHonoursCancellation(t *testing.T) {
	g := NewGraph()
	addFile(g, "src/core", "core.go")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.GetTarget(ctx, core.LogHandler{}, label("src/core", "core.go"))
	require.Error(t, err)
	assert.False(t, core.IsNotFound(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTargetMapShardsAgree(t *testing.T) {
	m := newTargetMap()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		assert.True(t, m.Set(core.NewInputFile(label("pkg", name), core.Location{})))
	}
	assert.False(t, m.Set(core.NewInputFile(label("pkg", "c"), core.Location{})))
	_, present := m.Get(label("pkg", "e"))
	assert.True(t, present)
	assert.Len(t, m.Values(), 5)
}
