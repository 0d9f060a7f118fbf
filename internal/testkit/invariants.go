package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"packfmt/internal/pack"
	"packfmt/internal/source"
)

// CheckDirectiveSpans runs the span invariants on a decoded template:
// 1) every directive span is non-empty and points into sf
// 2) spans are contiguous: each starts where the previous one ended
// 3) the spans together cover the whole content, first byte to last
// 4) Text equals the bytes under the span
func CheckDirectiveSpans(f *pack.Format, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil format or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var next uint32
	for i, d := range f.Directives {
		sp := d.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("directive %d: empty span %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("directive %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.Start != next {
			return fmt.Errorf("directive %d: span %v starts at %d, previous ended at %d", i, sp, sp.Start, next)
		}
		if sp.End > lenContent {
			return fmt.Errorf("directive %d: span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if got := string(sp.Slice(sf.Content)); got != d.Text {
			return fmt.Errorf("directive %d: text %q does not match source %q", i, d.Text, got)
		}
		next = sp.End
	}
	if next != lenContent {
		return fmt.Errorf("directives cover %d of %d bytes", next, lenContent)
	}
	return nil
}

// CheckLengths verifies that Length is zero unless LengthType is Fixed, and
// that trivia carry no numeric attributes.
func CheckLengths(f *pack.Format) error {
	if f == nil {
		return fmt.Errorf("nil format")
	}
	for i, d := range f.Directives {
		if d.LengthType != pack.LengthFixed && d.Length != 0 {
			return fmt.Errorf("directive %d (%q): length %d with length type %s", i, d.Text, d.Length, d.LengthType)
		}
		if d.Type.IsTrivia() {
			if d.Signed != pack.SignedNA || d.Endian != pack.EndianNA || d.Size != pack.SizeNA || d.LengthType != pack.LengthNA {
				return fmt.Errorf("directive %d (%q): trivia with attributes %+v", i, d.Text, d)
			}
		}
	}
	return nil
}
