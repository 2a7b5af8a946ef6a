package source

import (
	"slices"

	"golang.org/x/text/unicode/norm"
)

// StringID is a handle to an interned identifier.
type StringID uint32

// NoStringID is reserved for the empty string.
const NoStringID StringID = 0

// Interner deduplicates identifiers. Names are NFC-normalised first so that
// visually identical unit and function names written with different
// combining sequences map to the same definition.
//
// Interner is not safe for concurrent writes; lookups are safe once
// interning has stopped.
type Interner struct {
	byID  []string
	index map[string]StringID
}

// NewInterner returns an interner holding only NoStringID.
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID for s, allocating one on first sight.
func (i *Interner) Intern(s string) StringID {
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	if id, ok := i.index[s]; ok {
		return id
	}
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Find returns the ID of s without interning it. Safe for concurrent
// readers as long as nothing is being interned.
func (i *Interner) Find(s string) (StringID, bool) {
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	id, ok := i.index[s]
	return id, ok
}

// InternBytes is Intern for a byte slice taken from source content.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on an unknown id.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has reports whether id was issued by this interner.
func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len counts interned strings including NoStringID.
func (i *Interner) Len() int { return len(i.byID) }

// Snapshot copies every interned string, indexed by ID.
func (i *Interner) Snapshot() []string { return slices.Clone(i.byID) }
