package source

type (
	// FileID identifies a unit source file within a FileSet.
	FileID uint32
	// FileFlags records how the content was obtained.
	FileFlags uint8
)

const (
	// FileVirtual marks content that did not come from disk (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File holds the content of one unit source together with its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based human readable position.
type LineCol struct {
	Line uint32
	Col  uint32
}
