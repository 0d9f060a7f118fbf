package pack

import (
	"fmt"

	"fortio.org/safecast"

	"packfmt/internal/diag"
	"packfmt/internal/source"
)

// Options configures DecodeFile.
type Options struct {
	Version  Version
	Variant  Variant
	Reporter diag.Reporter // optional, receives the fatal error as a diagnostic
}

// Decode decodes an in-memory template. Spans are relative to template.
func Decode(version Version, variant Variant, template []byte) (*Format, error) {
	return DecodeFile(&source.File{Content: template}, Options{Version: version, Variant: variant})
}

// DecodeFile decodes the content of file. On a template error it returns a
// nil Format and a *Error; usage errors are returned before any scanning.
func DecodeFile(file *source.File, opts Options) (*Format, error) {
	tab, err := lookupTable(opts.Version, opts.Variant)
	if err != nil {
		return nil, err
	}
	if file == nil {
		file = &source.File{}
	}
	if _, convErr := safecast.Conv[uint32](len(file.Content)); convErr != nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(file.Content))
	}

	d := newDecoder(tab, opts, file)
	for d.state == stateScanning {
		d.step()
	}
	if d.state == stateFailed {
		d.err.report(opts.Reporter)
		return nil, d.err
	}
	return &Format{
		Version:    opts.Version,
		Variant:    opts.Variant,
		Directives: d.out,
		Encoding:   d.encoding,
	}, nil
}

type decodeState uint8

const (
	stateScanning decodeState = iota
	stateSucceeded
	stateFailed
)

// decoder owns all state of one decode call.
type decoder struct {
	state    decodeState
	sc       *scanner
	res      resolver
	out      []Directive
	encoding Encoding
	err      *Error
}

func newDecoder(tab *table, opts Options, file *source.File) *decoder {
	return &decoder{
		state: stateScanning,
		sc:    newScanner(file.ID, file.Content),
		res: resolver{
			table:   tab,
			variant: opts.Variant,
			content: file.Content,
		},
		out:      make([]Directive, 0, min(len(file.Content), 64)),
		encoding: EncodingUnspecified,
	}
}

// step scans and resolves one span.
func (d *decoder) step() {
	raw, ok := d.sc.next()
	if !ok {
		d.state = stateSucceeded
		return
	}
	dir, err := d.res.resolve(raw)
	if err != nil {
		d.err = err
		d.state = stateFailed
		return
	}
	d.encoding = threadEncoding(d.encoding, dir.Type)
	d.out = append(d.out, dir)
}
