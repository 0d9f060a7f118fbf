package pack

import (
	"packfmt/internal/source"
)

// cursor is a read position over an immutable template. The caller guarantees
// that the content fits into uint32 offsets.
type cursor struct {
	file    source.FileID
	content []byte
	off     uint32
	limit   uint32
}

func newCursor(file source.FileID, content []byte) cursor {
	return cursor{
		file:    file,
		content: content,
		limit:   uint32(len(content)), // #nosec G115 -- checked by DecodeFile
	}
}

// eof проверяет, достигнут ли конец шаблона
func (c *cursor) eof() bool {
	return c.off >= c.limit
}

// peek читает текущий байт, если есть, иначе возвращает 0
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.content[c.off]
}

func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.content[c.off]
	c.off++
	return b
}

// skip advances n bytes without passing the limit.
func (c *cursor) skip(n uint32) {
	c.off = min(c.off+n, c.limit)
}

// bumpWhile consumes bytes while pred holds.
func (c *cursor) bumpWhile(pred func(byte) bool) {
	for !c.eof() && pred(c.content[c.off]) {
		c.off++
	}
}

type mark uint32

func (c *cursor) mark() mark {
	return mark(c.off)
}

// spanFrom получает Span для фрагмента, начиная с метки
func (c *cursor) spanFrom(m mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.off}
}
