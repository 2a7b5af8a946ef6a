package defs

// GroupID identifies a clause group inside a unit's table arena.
type GroupID uint32

const (
	// NoGroupID marks the absence of a group reference.
	NoGroupID GroupID = 0
)

// IsValid reports whether the group ID refers to an allocated group.
func (id GroupID) IsValid() bool { return id != NoGroupID }
