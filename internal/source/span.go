package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one File.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// At returns the one-byte span of the i-th byte of s. i must be below the
// span length.
func (s Span) At(i uint32) Span {
	return Span{File: s.File, Start: s.Start + i, End: s.Start + i + 1}
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && other.Start >= s.Start && other.End <= s.End
}

// Slice returns the bytes of content covered by the span, clamped to content.
func (s Span) Slice(content []byte) []byte {
	n := uint32(len(content)) // #nosec G115 -- FileSet never holds content above 4 GiB
	start, end := min(s.Start, n), min(s.End, n)
	if start > end {
		return nil
	}
	return content[start:end]
}
