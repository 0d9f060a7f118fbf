package pack

import (
	"errors"
	"fmt"

	"packfmt/internal/diag"
	"packfmt/internal/source"
)

// Usage errors: the call itself is malformed, no scanning happened.
var (
	ErrInvalidVersion = errors.New("invalid version")
	ErrInvalidVariant = errors.New("invalid variant")
	ErrInputTooLarge  = errors.New("template too large")
)

// Decode errors, matched with errors.Is against a returned *Error.
var (
	ErrUnknownDirective     = errors.New("unknown pack directive")
	ErrUnsupportedDirective = errors.New("unsupported pack directive")
	ErrLengthTooBig         = errors.New("pack length too big")
	ErrBangNotAllowed       = errors.New("'!' not allowed")
	ErrDoubleEndian         = errors.New("double endian")
)

// ErrorKind classifies a fatal decode error.
type ErrorKind uint8

const (
	KindUnknownDirective ErrorKind = iota + 1
	KindUnsupportedDirective
	KindLengthTooBig
	KindBangNotAllowed
	KindDoubleEndian
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnknownDirective:
		return ErrUnknownDirective
	case KindUnsupportedDirective:
		return ErrUnsupportedDirective
	case KindLengthTooBig:
		return ErrLengthTooBig
	case KindBangNotAllowed:
		return ErrBangNotAllowed
	case KindDoubleEndian:
		return ErrDoubleEndian
	}
	return nil
}

func (k ErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Code maps the kind onto its diagnostic code.
func (k ErrorKind) Code() diag.Code {
	switch k {
	case KindUnknownDirective:
		return diag.PackUnknownDirective
	case KindUnsupportedDirective:
		return diag.PackUnsupportedDirective
	case KindLengthTooBig:
		return diag.PackLengthTooBig
	case KindBangNotAllowed:
		return diag.PackBangNotAllowed
	case KindDoubleEndian:
		return diag.PackDoubleEndian
	}
	return diag.UnknownCode
}

// Error is a fatal decode error. Span covers the whole directive that failed;
// Detail narrows it to the modifier or count responsible (equal to Span when
// the letter itself is at fault).
type Error struct {
	Kind    ErrorKind
	Span    source.Span
	Detail  source.Span
	Text    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d-%d: %s", e.Span.Start, e.Span.End, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// Diagnostic converts the error into the shared located-diagnostic shape.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Kind.Code(), e.Span, e.Message)
	if e.Detail != e.Span {
		d = d.WithNote(e.Detail, detailNote(e.Kind))
	}
	return d
}

func (e *Error) report(r diag.Reporter) {
	if r == nil {
		return
	}
	r.Report(e.Diagnostic())
}

func detailNote(k ErrorKind) string {
	switch k {
	case KindLengthTooBig:
		return "count does not fit into 64 bits"
	case KindBangNotAllowed:
		return "native-size modifier here"
	case KindDoubleEndian:
		return "endianness modifier here"
	}
	return "here"
}

// IsUsageError reports whether err comes from an invalid call rather than
// from the template contents.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrInvalidVersion) || errors.Is(err, ErrInvalidVariant) || errors.Is(err, ErrInputTooLarge)
}
