package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"supra/internal/source"
)

// Cursor is a byte position inside a file.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32
}

// NewCursor creates a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// EOF reports whether the cursor reached the end.
func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the current byte or 0.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt returns the byte n positions ahead or 0.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// PeekRune decodes the rune at the cursor.
func (c *Cursor) PeekRune() (rune, uint32) {
	if c.EOF() {
		return 0, 0
	}
	r, size := utf8.DecodeRune(c.File.Content[c.Off:])
	return r, uint32(size) //nolint:gosec // size <= utf8.UTFMax
}

// Bump advances by one byte.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() == b && !c.EOF() {
		c.Off++
		return true
	}
	return false
}

// Mark is a saved offset.
type Mark uint32

// Mark saves the current offset.
func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span between m and the cursor.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}
