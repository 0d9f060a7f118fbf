package source

type (
	// FileID uniquely identifies a template source within a FileSet.
	FileID uint32
	// FileFlags encodes how the content was acquired.
	FileFlags uint8
)

const (
	// FileVirtual marks content that did not come from disk (inline template, stdin, test).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a file whose byte-order mark was stripped on load.
	FileHadBOM
	// FileTranscoded marks a UTF-16 file that was converted to UTF-8 on load.
	FileTranscoded
)

// File is one immutable template source.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
