package source

// FileFlags encodes metadata about a script.
type FileFlags uint8

const (
	// FileVirtual indicates the script came from memory (tool call, stdin, test).
	FileVirtual FileFlags = 1 << iota // не с диска
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single script.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a script.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
