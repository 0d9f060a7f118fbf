package pack

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"packfmt/internal/source"
)

// resolver turns raw spans into directives for one version/variant pair.
type resolver struct {
	table   *table
	variant Variant
	content []byte
}

func (r *resolver) text(sp source.Span) string {
	return string(sp.Slice(r.content))
}

func (r *resolver) resolve(raw rawDirective) (Directive, *Error) {
	switch raw.kind {
	case spanSpace:
		return r.trivia(raw, TypeSpace), nil
	case spanComment:
		return r.trivia(raw, TypeComment), nil
	}

	e, ok := r.table.lookup(raw.letter)
	if !ok {
		return Directive{}, r.fail(KindUnknownDirective, raw, raw.span,
			fmt.Sprintf("unknown pack directive %q in %q", raw.letter, r.text(raw.span)))
	}
	if !e.variants.has(r.variant) {
		return Directive{}, r.fail(KindUnsupportedDirective, raw, raw.span,
			fmt.Sprintf("%q is not supported by %s", raw.letter, r.variant))
	}

	d := Directive{
		Span:   raw.span,
		Text:   r.text(raw.span),
		Type:   e.typ,
		Signed: e.signed,
		Endian: e.endian,
		Size:   e.size,
	}

	if err := r.applyModifiers(&d, e, raw); err != nil {
		return Directive{}, err
	}
	if err := r.applyCount(&d, e, raw); err != nil {
		return Directive{}, err
	}
	return d, nil
}

func (r *resolver) trivia(raw rawDirective, typ Type) Directive {
	return Directive{
		Span: raw.span,
		Text: r.text(raw.span),
		Type: typ,
	}
}

// applyModifiers handles '!', '_', '<' and '>' in scan order; the first
// invalid one wins.
func (r *resolver) applyModifiers(d *Directive, e *entry, raw rawDirective) *Error {
	explicit := false
	for i, m := range raw.mods.Slice(r.content) {
		at := raw.mods.At(uint32(i)) // #nosec G115 -- i < len(mods)
		switch m {
		case '!', '_':
			if !e.bang {
				return r.fail(KindBangNotAllowed, raw, at,
					fmt.Sprintf("'%c' allowed only after types %s", m, r.table.lettersWith(func(e *entry) bool { return e.bang })))
			}
			d.Size = d.Size.native()
		case '<', '>':
			if explicit {
				return r.fail(KindDoubleEndian, raw, at,
					fmt.Sprintf("endianness already set by an earlier modifier in %q", r.text(raw.span)))
			}
			if !e.swap {
				return r.fail(KindDoubleEndian, raw, at,
					fmt.Sprintf("'%c' allowed only after types %s", m, r.table.lettersWith(func(e *entry) bool { return e.swap })))
			}
			explicit = true
			d.Endian = EndianLittle
			if m == '>' {
				d.Endian = EndianBig
			}
		}
	}
	return nil
}

func (r *resolver) applyCount(d *Directive, e *entry, raw rawDirective) *Error {
	count := raw.count.Slice(r.content)
	if len(count) == 0 {
		def := e.defaultLength(r.variant)
		d.LengthType, d.Length = def.typ, def.n
		return nil
	}
	if bytes.IndexByte(count, '*') >= 0 {
		d.LengthType, d.Length = LengthMax, 0
		return nil
	}
	n, err := strconv.ParseUint(string(count), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return r.fail(KindLengthTooBig, raw, raw.count,
				fmt.Sprintf("pack length too big: %s", count))
		}
		// сканер пропускает в count только цифры и '*'
		panic(fmt.Errorf("pack: malformed count %q: %w", count, err))
	}
	d.LengthType, d.Length = LengthFixed, n
	return nil
}

func (r *resolver) fail(kind ErrorKind, raw rawDirective, detail source.Span, msg string) *Error {
	return &Error{
		Kind:    kind,
		Span:    raw.span,
		Detail:  detail,
		Text:    r.text(raw.span),
		Message: msg,
	}
}
