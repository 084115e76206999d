package graph

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/please-build/rulemeta/src/core"
)

// Number of shards in a targetMap; must be a power of 2.
const shardCount = 1 << 6

// A targetMap is a threadsafe map of label to target, sharded to reduce
// contention when many packages are registered concurrently.
type targetMap struct {
	shards [shardCount]targetShard
}

type targetShard struct {
	m     map[core.BuildLabel]core.Target
	mutex sync.RWMutex
}

func newTargetMap() *targetMap {
	m := &targetMap{}
	for i := range m.shards {
		m.shards[i].m = map[core.BuildLabel]core.Target{}
	}
	return m
}

func hashLabel(label core.BuildLabel) uint64 {
	return xxhash.Sum64String(label.PackageName) ^ xxhash.Sum64String(label.Name)
}

func (m *targetMap) shard(label core.BuildLabel) *targetShard {
	return &m.shards[hashLabel(label)&(shardCount-1)]
}

// Set inserts a target. It returns true if it was inserted, false if one with
// the same label already existed (in which case it is not replaced).
func (m *targetMap) Set(target core.Target) bool {
	s := m.shard(target.Label())
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, present := s.m[target.Label()]; present {
		return false
	}
	s.m[target.Label()] = target
	return true
}

// Get returns the target for a label, if present.
func (m *targetMap) Get(label core.BuildLabel) (core.Target, bool) {
	s := m.shard(label)
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	t, present := s.m[label]
	return t, present
}

// Values returns all the current targets in the map, in no particular order.
func (m *targetMap) Values() []core.Target {
	ret := []core.Target{}
	for i := range m.shards {
		s := &m.shards[i]
		s.mutex.RLock()
		for _, t := range s.m {
			ret = append(ret, t)
		}
		s.mutex.RUnlock()
	}
	return ret
}
