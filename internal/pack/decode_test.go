package pack_test

import (
	"errors"
	"reflect"
	"testing"

	"packfmt/internal/diag"
	"packfmt/internal/pack"
	"packfmt/internal/source"
	"packfmt/internal/testkit"
)

// shape is a Directive without its location.
type shape struct {
	Type       pack.Type
	Signed     pack.Signedness
	Endian     pack.Endian
	Size       pack.Size
	LengthType pack.LengthType
	Length     uint64
}

func shapeOf(d pack.Directive) shape {
	return shape{d.Type, d.Signed, d.Endian, d.Size, d.LengthType, d.Length}
}

func integer(s pack.Signedness, e pack.Endian, sz pack.Size, lt pack.LengthType, n uint64) shape {
	return shape{pack.TypeInteger, s, e, sz, lt, n}
}

func plain(t pack.Type, lt pack.LengthType, n uint64) shape {
	return shape{Type: t, LengthType: lt, Length: n}
}

var space = shape{Type: pack.TypeSpace}

func decode(t *testing.T, variant pack.Variant, input string) *pack.Format {
	t.Helper()
	sf := &source.File{Content: []byte(input)}
	f, err := pack.DecodeFile(sf, pack.Options{Version: pack.Version3_2_0, Variant: variant})
	if err != nil {
		t.Fatalf("decode %q: %v", input, err)
	}
	if err := testkit.CheckDirectiveSpans(f, sf); err != nil {
		t.Fatalf("decode %q: %v", input, err)
	}
	if err := testkit.CheckLengths(f); err != nil {
		t.Fatalf("decode %q: %v", input, err)
	}
	return f
}

func TestDecodeDirectives(t *testing.T) {
	const (
		U = pack.Unsigned
		S = pack.Signed
	)
	tests := []struct {
		name    string
		variant pack.Variant
		input   string
		want    []shape
	}{
		{"unsigned char wildcard", pack.VariantPack, "C*", []shape{
			integer(U, pack.EndianAgnostic, pack.Size8, pack.LengthMax, 0),
		}},
		{"signed char default count", pack.VariantPack, "c", []shape{
			integer(S, pack.EndianAgnostic, pack.Size8, pack.LengthFixed, 1),
		}},
		{"little short with count", pack.VariantPack, "S<2", []shape{
			integer(U, pack.EndianLittle, pack.Size16, pack.LengthFixed, 2),
		}},
		{"native short", pack.VariantPack, "s!", []shape{
			integer(S, pack.EndianNative, pack.SizeShort, pack.LengthFixed, 1),
		}},
		{"underscore is bang", pack.VariantUnpack, "l_>", []shape{
			integer(S, pack.EndianBig, pack.SizeLong, pack.LengthFixed, 1),
		}},
		{"endian before bang", pack.VariantUnpack, "Q>!3", []shape{
			integer(U, pack.EndianBig, pack.SizeLongLong, pack.LengthFixed, 3),
		}},
		{"bang keeps pointer and int", pack.VariantPack, "J!i_", []shape{
			integer(U, pack.EndianNative, pack.SizeP, pack.LengthFixed, 1),
			integer(S, pack.EndianNative, pack.SizeInt, pack.LengthFixed, 1),
		}},
		{"network and vax", pack.VariantPack, "nNvV", []shape{
			integer(U, pack.EndianBig, pack.Size16, pack.LengthFixed, 1),
			integer(U, pack.EndianBig, pack.Size32, pack.LengthFixed, 1),
			integer(U, pack.EndianLittle, pack.Size16, pack.LengthFixed, 1),
			integer(U, pack.EndianLittle, pack.Size32, pack.LengthFixed, 1),
		}},
		{"floats", pack.VariantPack, "dEg", []shape{
			{pack.TypeFloat, pack.SignedNA, pack.EndianNative, pack.Size64, pack.LengthFixed, 1},
			{pack.TypeFloat, pack.SignedNA, pack.EndianLittle, pack.Size64, pack.LengthFixed, 1},
			{pack.TypeFloat, pack.SignedNA, pack.EndianBig, pack.Size32, pack.LengthFixed, 1},
		}},
		{"strings with spaces", pack.VariantPack, "a10 Z*", []shape{
			plain(pack.TypeStringNullPadded, pack.LengthFixed, 10),
			space,
			plain(pack.TypeStringNullTerminated, pack.LengthMax, 0),
		}},
		{"base64 under unpack runs to end", pack.VariantUnpack, "m", []shape{
			plain(pack.TypeStringBase64, pack.LengthRelative, 0),
		}},
		{"base64 under pack", pack.VariantPack, "m", []shape{
			plain(pack.TypeStringBase64, pack.LengthFixed, 1),
		}},
		{"move under unpack", pack.VariantUnpack, "@", []shape{
			plain(pack.TypeMove, pack.LengthFixed, 0),
		}},
		{"move under pack", pack.VariantPack, "@", []shape{
			plain(pack.TypeMove, pack.LengthFixed, 1),
		}},
		{"wildcard wins over digits", pack.VariantPack, "C1*2", []shape{
			integer(U, pack.EndianAgnostic, pack.Size8, pack.LengthMax, 0),
		}},
		{"largest count", pack.VariantPack, "x18446744073709551615", []shape{
			plain(pack.TypeNull, pack.LengthFixed, 18446744073709551615),
		}},
		{"leading zeros", pack.VariantPack, "X007", []shape{
			plain(pack.TypeBack, pack.LengthFixed, 7),
		}},
		{"three blanks", pack.VariantPack, "   ", []shape{space}},
		{"comment then newline", pack.VariantUnpack, "#remark\n", []shape{
			{Type: pack.TypeComment},
			space,
		}},
		{"empty", pack.VariantPack, "", []shape{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := decode(t, tt.variant, tt.input)
			got := make([]shape, 0, len(f.Directives))
			for _, d := range f.Directives {
				got = append(got, shapeOf(d))
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got  %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeThreeBlanksIsOneSpan(t *testing.T) {
	f := decode(t, pack.VariantPack, "   ")
	if len(f.Directives) != 1 {
		t.Fatalf("got %d directives", len(f.Directives))
	}
	d := f.Directives[0]
	if d.Span.Start != 0 || d.Span.End != 3 || d.Text != "   " {
		t.Errorf("space directive = %+v", d)
	}
}

func TestDecodeCommentExcludesNewline(t *testing.T) {
	f := decode(t, pack.VariantPack, "#remark\n")
	c := f.Directives[0]
	if c.Type != pack.TypeComment || c.Text != "#remark" || c.Span.End != 7 {
		t.Errorf("comment = %+v", c)
	}
	for _, d := range f.Directives {
		if d.Type == pack.TypeComment && d.Span.Contains(source.Span{Start: 7, End: 8}) {
			t.Errorf("comment %+v swallowed the newline", d)
		}
	}
}

func TestDecodeEncoding(t *testing.T) {
	tests := []struct {
		input string
		want  pack.Encoding
	}{
		{"", pack.EncodingUnspecified},
		{"C*a3", pack.EncodingUnspecified},
		{"U*", pack.EncodingUTF8},
		{"w", pack.EncodingASCII8BIT},
		{"U w", pack.EncodingASCII8BIT},
		{"w U", pack.EncodingUTF8},
		{"U C n", pack.EncodingUTF8},
	}
	for _, tt := range tests {
		f := decode(t, pack.VariantPack, tt.input)
		if f.Encoding != tt.want {
			t.Errorf("%q: encoding = %s, want %s", tt.input, f.Encoding, tt.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		variant pack.Variant
		input   string
		kind    pack.ErrorKind
		target  error
		span    [2]uint32
		detail  [2]uint32
	}{
		{"unknown letter", pack.VariantPack, "y", pack.KindUnknownDirective, pack.ErrUnknownDirective, [2]uint32{0, 1}, [2]uint32{0, 1}},
		{"unknown under unpack too", pack.VariantUnpack, "y3", pack.KindUnknownDirective, pack.ErrUnknownDirective, [2]uint32{0, 2}, [2]uint32{0, 2}},
		{"unknown after valid", pack.VariantPack, "C y", pack.KindUnknownDirective, pack.ErrUnknownDirective, [2]uint32{2, 3}, [2]uint32{2, 3}},
		{"stray modifier", pack.VariantPack, "C2<", pack.KindUnknownDirective, pack.ErrUnknownDirective, [2]uint32{2, 3}, [2]uint32{2, 3}},
		{"non-ascii letter", pack.VariantPack, "é", pack.KindUnknownDirective, pack.ErrUnknownDirective, [2]uint32{0, 2}, [2]uint32{0, 2}},
		{"percent under pack", pack.VariantPack, "%", pack.KindUnsupportedDirective, pack.ErrUnsupportedDirective, [2]uint32{0, 1}, [2]uint32{0, 1}},
		{"percent under unpack", pack.VariantUnpack, "C%2", pack.KindUnsupportedDirective, pack.ErrUnsupportedDirective, [2]uint32{1, 3}, [2]uint32{1, 3}},
		{"count overflow", pack.VariantPack, "C18446744073709551616", pack.KindLengthTooBig, pack.ErrLengthTooBig, [2]uint32{0, 21}, [2]uint32{1, 21}},
		{"bang on char", pack.VariantPack, "C!", pack.KindBangNotAllowed, pack.ErrBangNotAllowed, [2]uint32{0, 2}, [2]uint32{1, 2}},
		{"underscore on network", pack.VariantUnpack, "n_", pack.KindBangNotAllowed, pack.ErrBangNotAllowed, [2]uint32{0, 2}, [2]uint32{1, 2}},
		{"both endians", pack.VariantPack, "S<>", pack.KindDoubleEndian, pack.ErrDoubleEndian, [2]uint32{0, 3}, [2]uint32{2, 3}},
		{"repeated endian", pack.VariantPack, "l>>", pack.KindDoubleEndian, pack.ErrDoubleEndian, [2]uint32{0, 3}, [2]uint32{2, 3}},
		{"endian on fixed big", pack.VariantPack, "n<", pack.KindDoubleEndian, pack.ErrDoubleEndian, [2]uint32{0, 2}, [2]uint32{1, 2}},
		{"endian on native float", pack.VariantPack, "d>", pack.KindDoubleEndian, pack.ErrDoubleEndian, [2]uint32{0, 2}, [2]uint32{1, 2}},
		{"endian on string", pack.VariantPack, "a<", pack.KindDoubleEndian, pack.ErrDoubleEndian, [2]uint32{0, 2}, [2]uint32{1, 2}},
		{"first bad modifier wins", pack.VariantPack, "C<!", pack.KindDoubleEndian, pack.ErrDoubleEndian, [2]uint32{0, 3}, [2]uint32{1, 2}},
		{"bang before overflow", pack.VariantPack, "C!99999999999999999999", pack.KindBangNotAllowed, pack.ErrBangNotAllowed, [2]uint32{0, 22}, [2]uint32{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := pack.Decode(pack.Version3_2_0, tt.variant, []byte(tt.input))
			if f != nil {
				t.Errorf("expected nil format, got %+v", f)
			}
			if !errors.Is(err, tt.target) {
				t.Fatalf("error = %v, want %v", err, tt.target)
			}
			if pack.IsUsageError(err) {
				t.Errorf("decode error classified as usage error")
			}
			var perr *pack.Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *pack.Error", err)
			}
			if perr.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", perr.Kind, tt.kind)
			}
			if got := [2]uint32{perr.Span.Start, perr.Span.End}; got != tt.span {
				t.Errorf("span = %v, want %v", got, tt.span)
			}
			if got := [2]uint32{perr.Detail.Start, perr.Detail.End}; got != tt.detail {
				t.Errorf("detail = %v, want %v", got, tt.detail)
			}
			if perr.Message == "" {
				t.Errorf("empty message")
			}
		})
	}
}

func TestDecodeErrorMessages(t *testing.T) {
	tests := []struct {
		variant pack.Variant
		input   string
		want    string
	}{
		{pack.VariantPack, "y3", `unknown pack directive 'y' in "y3"`},
		{pack.VariantUnpack, "%", `'%' is not supported by unpack`},
		{pack.VariantPack, "C!", `'!' allowed only after types IJLQSijlqs`},
		{pack.VariantPack, "n>", `'>' allowed only after types IJLQSijlqs`},
		{pack.VariantPack, "C99999999999999999999", `pack length too big: 99999999999999999999`},
	}
	for _, tt := range tests {
		_, err := pack.Decode(pack.Version3_2_0, tt.variant, []byte(tt.input))
		var perr *pack.Error
		if !errors.As(err, &perr) {
			t.Fatalf("%q: error = %v", tt.input, err)
		}
		if perr.Message != tt.want {
			t.Errorf("%q: message = %q, want %q", tt.input, perr.Message, tt.want)
		}
	}
}

func TestDecodeUsageErrors(t *testing.T) {
	if _, err := pack.Decode(pack.Version(0), pack.VariantPack, []byte("C")); !errors.Is(err, pack.ErrInvalidVersion) {
		t.Errorf("version 0: got %v", err)
	}
	if _, err := pack.Decode(pack.Version(42), pack.VariantPack, []byte("C")); !errors.Is(err, pack.ErrInvalidVersion) {
		t.Errorf("version 42: got %v", err)
	}
	_, err := pack.Decode(pack.Version3_2_0, pack.Variant(0), []byte("y"))
	if !errors.Is(err, pack.ErrInvalidVariant) {
		t.Fatalf("variant 0: got %v", err)
	}
	if !pack.IsUsageError(err) {
		t.Errorf("invalid variant not classified as usage error")
	}
	var perr *pack.Error
	if errors.As(err, &perr) {
		t.Errorf("usage error must not be a decode error")
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	input := []byte("S!<4 a*  # header\nU3 w m")
	first, err := pack.Decode(pack.Version3_2_0, pack.VariantUnpack, input)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second, err := pack.Decode(pack.Version3_2_0, pack.VariantUnpack, input)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("decodes differ:\n%+v\n%+v", first, second)
	}
}

func TestDecodeReportsDiagnostic(t *testing.T) {
	bag := diag.NewBag(8)
	fs := source.NewFileSet()
	id, err := fs.AddVirtual("inline.pack", []byte("C4 S!<>"))
	if err != nil {
		t.Fatalf("AddVirtual: %v", err)
	}
	file := fs.Get(id)

	_, err = pack.DecodeFile(file, pack.Options{
		Version:  pack.Version3_2_0,
		Variant:  pack.VariantPack,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if !errors.Is(err, pack.ErrDoubleEndian) {
		t.Fatalf("error = %v", err)
	}
	if bag.Len() != 1 {
		t.Fatalf("bag has %d diagnostics", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.PackDoubleEndian || d.Severity != diag.SevError {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Primary.File != id || d.Primary.Start != 3 || d.Primary.End != 7 {
		t.Errorf("primary = %v", d.Primary)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span.Start != 6 {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func TestDecodeSuccessReportsNothing(t *testing.T) {
	bag := diag.NewBag(8)
	_, err := pack.DecodeFile(&source.File{Content: []byte("C*")}, pack.Options{
		Version:  pack.Version3_2_0,
		Variant:  pack.VariantPack,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %+v", bag.Items())
	}
}
