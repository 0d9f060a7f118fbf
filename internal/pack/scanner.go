package pack

import (
	"unicode/utf8"

	"packfmt/internal/source"
)

type spanKind uint8

const (
	spanSpace spanKind = iota
	spanComment
	spanDirective
)

// rawDirective is the delimited but not yet validated text of one directive.
// For spanDirective the three sub-spans partition span in order:
// letter, modifier run, count run (the last two may be empty).
type rawDirective struct {
	kind   spanKind
	span   source.Span
	letter rune
	mods   source.Span
	count  source.Span
}

// scanner splits a template into raw directive spans. It never rejects input:
// every byte ends up in exactly one span.
type scanner struct {
	cur cursor
}

func newScanner(file source.FileID, content []byte) *scanner {
	return &scanner{cur: newCursor(file, content)}
}

// next returns the next raw span, or false at end of input.
func (sc *scanner) next() (rawDirective, bool) {
	if sc.cur.eof() {
		return rawDirective{}, false
	}
	start := sc.cur.mark()
	b := sc.cur.peek()

	switch {
	case isSpace(b):
		sc.cur.bumpWhile(isSpace)
		return rawDirective{kind: spanSpace, span: sc.cur.spanFrom(start)}, true

	case b == '#':
		// комментарий до конца строки, сам '\n' не включаем
		sc.cur.bumpWhile(func(c byte) bool { return c != '\n' })
		return rawDirective{kind: spanComment, span: sc.cur.spanFrom(start)}, true
	}

	letter := rune(b)
	if b < utf8.RuneSelf {
		sc.cur.bump()
	} else {
		// non-ASCII letters are never valid, but keep the whole rune in the span
		// so diagnostics do not cut a character in half
		r, size := utf8.DecodeRune(sc.cur.content[sc.cur.off:])
		letter = r
		sc.cur.skip(uint32(size)) // #nosec G115 -- size <= utf8.UTFMax
	}

	modStart := sc.cur.mark()
	sc.cur.bumpWhile(isModifier)
	countStart := sc.cur.mark()
	sc.cur.bumpWhile(isCount)

	return rawDirective{
		kind:   spanDirective,
		span:   sc.cur.spanFrom(start),
		letter: letter,
		mods:   source.Span{File: sc.cur.file, Start: uint32(modStart), End: uint32(countStart)},
		count:  sc.cur.spanFrom(countStart),
	}, true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isModifier(b byte) bool {
	return b == '!' || b == '_' || b == '<' || b == '>'
}

func isCount(b byte) bool {
	return b == '*' || (b >= '0' && b <= '9')
}
