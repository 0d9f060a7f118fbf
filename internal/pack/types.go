package pack

import (
	"fmt"
	"strings"

	"packfmt/internal/source"
)

// Version selects the directive grammar. The zero value is invalid.
type Version uint8

const (
	versionInvalid Version = iota
	// Version3_2_0 is the grammar of Ruby 3.2's Array#pack / String#unpack.
	Version3_2_0
)

func (v Version) String() string {
	switch v {
	case Version3_2_0:
		return "3.2.0"
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}

// Valid reports whether v names a supported grammar.
func (v Version) Valid() bool {
	return v == Version3_2_0
}

// ParseVersion accepts "3.2.0", "v3.2.0" and "v3_2_0".
func ParseVersion(s string) (Version, error) {
	norm := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "v"), "_", ".")
	if norm == "3.2.0" {
		return Version3_2_0, nil
	}
	return versionInvalid, fmt.Errorf("%w %q (expected: 3.2.0)", ErrInvalidVersion, s)
}

// Variant says whether a template is read for packing or unpacking.
// The zero value is invalid.
type Variant uint8

const (
	variantInvalid Variant = iota
	VariantPack
	VariantUnpack
)

func (v Variant) String() string {
	switch v {
	case VariantPack:
		return "pack"
	case VariantUnpack:
		return "unpack"
	}
	return fmt.Sprintf("Variant(%d)", uint8(v))
}

func (v Variant) Valid() bool {
	return v == VariantPack || v == VariantUnpack
}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pack":
		return VariantPack, nil
	case "unpack":
		return VariantUnpack, nil
	}
	return variantInvalid, fmt.Errorf("%w %q (expected: pack|unpack)", ErrInvalidVariant, s)
}

// Type is the kind of value a directive transfers.
type Type uint8

const (
	TypeSpace Type = iota
	TypeComment
	TypeInteger
	TypeUTF8
	TypeBER
	TypeFloat
	TypeStringSpacePadded
	TypeStringNullPadded
	TypeStringNullTerminated
	TypeStringMSB
	TypeStringLSB
	TypeStringHexHigh
	TypeStringHexLow
	TypeStringUU
	TypeStringMIME
	TypeStringBase64
	TypeStringFixed
	TypeStringPointer
	TypeMove
	TypeBack
	TypeNull
)

var typeNames = [...]string{
	TypeSpace:                "space",
	TypeComment:              "comment",
	TypeInteger:              "integer",
	TypeUTF8:                 "utf8",
	TypeBER:                  "ber",
	TypeFloat:                "float",
	TypeStringSpacePadded:    "string_space_padded",
	TypeStringNullPadded:     "string_null_padded",
	TypeStringNullTerminated: "string_null_terminated",
	TypeStringMSB:            "string_msb",
	TypeStringLSB:            "string_lsb",
	TypeStringHexHigh:        "string_hex_high",
	TypeStringHexLow:         "string_hex_low",
	TypeStringUU:             "string_uu",
	TypeStringMIME:           "string_mime",
	TypeStringBase64:         "string_base64",
	TypeStringFixed:          "string_fixed",
	TypeStringPointer:        "string_pointer",
	TypeMove:                 "move",
	TypeBack:                 "back",
	TypeNull:                 "null",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsTrivia reports whether t is a whitespace or comment pseudo-directive.
func (t Type) IsTrivia() bool {
	return t == TypeSpace || t == TypeComment
}

// Signedness of an integer directive.
type Signedness uint8

const (
	SignedNA Signedness = iota
	Unsigned
	Signed
)

func (s Signedness) String() string {
	switch s {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	}
	return "n/a"
}

// Endian is the byte order of a multi-byte numeric directive.
type Endian uint8

const (
	EndianNA Endian = iota
	EndianAgnostic
	EndianLittle
	EndianBig
	EndianNative
)

func (e Endian) String() string {
	switch e {
	case EndianAgnostic:
		return "agnostic"
	case EndianLittle:
		return "little"
	case EndianBig:
		return "big"
	case EndianNative:
		return "native"
	}
	return "n/a"
}

// Size is the machine size class of a numeric directive.
type Size uint8

const (
	SizeNA Size = iota
	SizeShort
	SizeInt
	SizeLong
	SizeLongLong
	Size8
	Size16
	Size32
	Size64
	SizeP
)

var sizeNames = [...]string{
	SizeNA:       "n/a",
	SizeShort:    "short",
	SizeInt:      "int",
	SizeLong:     "long",
	SizeLongLong: "long_long",
	Size8:        "8",
	Size16:       "16",
	Size32:       "32",
	Size64:       "64",
	SizeP:        "pointer",
}

func (s Size) String() string {
	if int(s) < len(sizeNames) {
		return sizeNames[s]
	}
	return "unknown"
}

// native maps a fixed width onto the platform type the '!' modifier selects.
func (s Size) native() Size {
	switch s {
	case Size16:
		return SizeShort
	case Size32:
		return SizeLong
	case Size64:
		return SizeLongLong
	}
	return s
}

// LengthType tells how Directive.Length is to be read.
type LengthType uint8

const (
	LengthNA LengthType = iota
	LengthFixed
	LengthMax
	LengthRelative
)

func (l LengthType) String() string {
	switch l {
	case LengthFixed:
		return "fixed"
	case LengthMax:
		return "max"
	case LengthRelative:
		return "relative"
	}
	return "n/a"
}

// Encoding is the text encoding inferred for the output of a template.
type Encoding uint8

const (
	EncodingUnspecified Encoding = iota
	EncodingASCII8BIT
	EncodingUSASCII
	EncodingUTF8
)

func (e Encoding) String() string {
	switch e {
	case EncodingASCII8BIT:
		return "ASCII-8BIT"
	case EncodingUSASCII:
		return "US-ASCII"
	case EncodingUTF8:
		return "UTF-8"
	}
	return "unspecified"
}

// Directive is one resolved unit of a template.
type Directive struct {
	Span       source.Span
	Text       string // raw bytes of Span
	Type       Type
	Signed     Signedness
	Endian     Endian
	Size       Size
	LengthType LengthType
	Length     uint64 // only meaningful when LengthType == LengthFixed
}

// Format is the result of decoding one template.
type Format struct {
	Version    Version
	Variant    Variant
	Directives []Directive
	Encoding   Encoding
}
