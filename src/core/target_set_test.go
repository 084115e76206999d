package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func inputFile(pkg, name string) *InputFile {
	return NewInputFile(BuildLabel{PackageName: pkg, Name: name}, Location{})
}

func TestTargetSetAdd(t *testing.T) {
	ts := NewTargetSet()
	assert.True(t, ts.Add(inputFile("src/core", "a.go")))
	assert.False(t, ts.Add(inputFile("src/core", "a.go")))
	assert.True(t, ts.Add(inputFile("src/core", "b.go")))
	assert.Equal(t, 2, ts.Len())
	assert.True(t, ts.Contains(BuildLabel{PackageName: "src/core", Name: "a.go"}))
	assert.False(t, ts.Contains(BuildLabel{PackageName: "src/core", Name: "c.go"}))
}

func TestTargetSetAddSet(t *testing.T) {
	ts := NewTargetSet()
	ts.Add(inputFile("src/core", "a.go"))
	other := NewTargetSet()
	other.Add(inputFile("src/core", "a.go"))
	other.Add(inputFile("src/core", "b.go"))
	ts.AddSet(other)
	assert.Equal(t, 2, ts.Len())
}

func TestTargetSetRemove(t *testing.T) {
	ts := NewTargetSet()
	ts.Add(inputFile("src/core", "a.go"))
	ts.Remove(BuildLabel{PackageName: "src/core", Name: "a.go"})
	assert.Equal(t, 0, ts.Len())
	// Removing something absent is fine.
	ts.Remove(BuildLabel{PackageName: "src/core", Name: "a.go"})
}

func TestTargetSetFilter(t *testing.T) {
	ts := NewTargetSet()
	ts.Add(inputFile("src/core", "a.go"))
	ts.Add(inputFile("src/core", "b.go"))
	ts.Add(inputFile("src/graph", "c.go"))
	ts.Filter(func(target Target) bool {
		return target.Label().PackageName == "src/core"
	})
	assert.Equal(t, []BuildLabel{
		{PackageName: "src/core", Name: "a.go"},
		{PackageName: "src/core", Name: "b.go"},
	}, ts.Labels())
}

func TestTargetSetOrdering(t *testing.T) {
	ts := NewTargetSet()
	ts.Add(inputFile("src/graph", "a.go"))
	ts.Add(inputFile("src/core", "b.go"))
	ts.Add(inputFile("src/core", "a.go"))
	assert.Equal(t, []BuildLabel{
		{PackageName: "src/core", Name: "a.go"},
		{PackageName: "src/core", Name: "b.go"},
		{PackageName: "src/graph", Name: "a.go"},
	}, ts.Labels())
}
