package core

import (
	"sync"

	"golang.org/x/exp/slices"
)

// A TargetSet contains a set of targets deduplicated by label and supports
// efficiently checking for membership. The zero value is not safe for use.
type TargetSet struct {
	targets map[BuildLabel]Target
	mutex   sync.RWMutex
}

// NewTargetSet returns a new TargetSet.
func NewTargetSet() *TargetSet {
	return &TargetSet{targets: map[BuildLabel]Target{}}
}

// Add adds a target to this set. It returns true if it was newly added.
func (ts *TargetSet) Add(target Target) bool {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	if _, present := ts.targets[target.Label()]; present {
		return false
	}
	ts.targets[target.Label()] = target
	return true
}

// AddSet adds every member of another set to this one.
func (ts *TargetSet) AddSet(other *TargetSet) {
	for _, target := range other.Targets() {
		ts.Add(target)
	}
}

// Contains returns true if the set has a target with this label.
func (ts *TargetSet) Contains(label BuildLabel) bool {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	_, present := ts.targets[label]
	return present
}

// Remove removes the target with the given label, if present.
func (ts *TargetSet) Remove(label BuildLabel) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	delete(ts.targets, label)
}

// Filter removes, by mutation, every target the predicate rejects.
func (ts *TargetSet) Filter(keep func(Target) bool) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	for label, target := range ts.targets {
		if !keep(target) {
			delete(ts.targets, label)
		}
	}
}

// Len returns the number of targets in the set.
func (ts *TargetSet) Len() int {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	return len(ts.targets)
}

// Targets returns a copy of the set's contents, ordered by label.
func (ts *TargetSet) Targets() []Target {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	ret := make([]Target, 0, len(ts.targets))
	for _, target := range ts.targets {
		ret = append(ret, target)
	}
	slices.SortFunc(ret, func(a, b Target) bool { return a.Label().Less(b.Label()) })
	return ret
}

// Labels returns the labels of the set's contents, sorted.
func (ts *TargetSet) Labels() []BuildLabel {
	targets := ts.Targets()
	ret := make([]BuildLabel, len(targets))
	for i, target := range targets {
		ret[i] = target.Label()
	}
	return ret
}
