package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// FileSet owns every template source loaded during one CLI invocation and
// resolves spans back to paths and line/column positions.
type FileSet struct {
	files   []File
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase creates a FileSet whose relative paths are shown against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]File, 0, 1),
		baseDir: baseDir,
	}
}

// BaseDir returns the directory used for relative display paths.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Len returns the number of files held by the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add stores content under path and returns a fresh FileID.
// Content larger than 4 GiB cannot be addressed by a Span and is rejected.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) (FileID, error) {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return 0, fmt.Errorf("%s: content too large: %w", path, err)
	}
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		return 0, fmt.Errorf("file set overflow: %w", err)
	}
	id := FileID(n)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return id, nil
}

// AddVirtual adds an in-memory template (inline argument, stdin or test input).
func (fileSet *FileSet) AddVirtual(name string, content []byte) (FileID, error) {
	return fileSet.Add(name, content, FileVirtual)
}

// Load reads a template file from disk. The whole file is read and the handle is
// released before Load returns, on success and on error alike.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags, err := decodeBOM(content)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return fileSet.Add(path, content, flags)
}

// Get returns the file for id. It panics on ids that were not issued by this set.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// DisplayPath returns the path of id relative to the set's base directory when possible.
func (fileSet *FileSet) DisplayPath(id FileID) string {
	f := &fileSet.files[id]
	if f.Flags&FileVirtual != 0 || !filepath.IsAbs(filepath.FromSlash(f.Path)) {
		return f.Path
	}
	rel, err := filepath.Rel(fileSet.BaseDir(), filepath.FromSlash(f.Path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return f.Path
	}
	return filepath.ToSlash(rel)
}

// GetLine returns line lineNum (1-based) without its trailing newline.
// Missing lines yield an empty string.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lines, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	if lineNum > lines+1 {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	end := uint32(len(f.Content)) // #nosec G115 -- Add rejects content above 4 GiB
	if lineNum <= lines {
		end = f.LineIdx[lineNum-1]
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}
