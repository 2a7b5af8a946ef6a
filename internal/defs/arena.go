package defs

import (
	"fmt"

	"fortio.org/safecast"
)

// Groups stores every clause group of a unit, hidden ones included.
type Groups struct {
	data []ClauseGroup
}

// NewGroups creates an arena with an optional capacity hint.
func NewGroups(capacity uint32) *Groups {
	if capacity == 0 {
		capacity = 32
	}
	return &Groups{
		data: make([]ClauseGroup, 1, capacity+1), // index 0 reserved for NoGroupID
	}
}

// New allocates an empty group for id.
func (g *Groups) New(id Identity) GroupID {
	value, err := safecast.Conv[uint32](len(g.data))
	if err != nil {
		panic(fmt.Errorf("clause group arena overflow: %w", err))
	}
	gid := GroupID(value)
	g.data = append(g.data, ClauseGroup{ID: gid, Identity: id})
	return gid
}

// Get returns the group pointer or nil if the ID is invalid.
func (g *Groups) Get(id GroupID) *ClauseGroup {
	if !id.IsValid() || int(id) >= len(g.data) {
		return nil
	}
	return &g.data[id]
}

// Len reports the number of groups excluding the sentinel.
func (g *Groups) Len() int { return len(g.data) - 1 }
