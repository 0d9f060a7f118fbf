package pack

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// NativeBytes returns the width in bytes of the size class on the running
// platform, or 0 for SizeNA.
func (s Size) NativeBytes() int {
	switch s {
	case Size8:
		return 1
	case Size16, SizeShort:
		return 2
	case Size32, SizeInt:
		return 4
	case Size64, SizeLongLong:
		return 8
	case SizeLong:
		// LLP64: long остаётся 32-битным на Windows
		if runtime.GOOS == "windows" {
			return 4
		}
		return strconv.IntSize / 8
	case SizeP:
		return strconv.IntSize / 8
	}
	return 0
}

var endianWords = map[Endian]string{
	EndianAgnostic: "agnostic",
	EndianLittle:   "little-endian (VAX)",
	EndianBig:      "big-endian (network)",
	EndianNative:   "native-endian",
}

var sizeWords = map[Size]string{
	SizeShort:    "short",
	SizeInt:      "int-width",
	SizeLong:     "long",
	SizeLongLong: "long long",
	Size8:        "8-bit",
	Size16:       "16-bit",
	Size32:       "32-bit",
	Size64:       "64-bit",
	SizeP:        "pointer-width",
}

var typeWords = map[Type]string{
	TypeSpace:                "whitespace",
	TypeComment:              "comment",
	TypeUTF8:                 "UTF-8 character",
	TypeBER:                  "BER-compressed integer",
	TypeStringSpacePadded:    "arbitrary binary string (space padded)",
	TypeStringNullPadded:     "arbitrary binary string (null padded)",
	TypeStringNullTerminated: "arbitrary binary string (null terminated)",
	TypeStringMSB:            "bit string (MSB first)",
	TypeStringLSB:            "bit string (LSB first)",
	TypeStringHexHigh:        "hex string (high nibble first)",
	TypeStringHexLow:         "hex string (low nibble first)",
	TypeStringUU:             "UU-encoded string",
	TypeStringMIME:           "quoted-printable MIME string",
	TypeStringBase64:         "base64-encoded string",
	TypeStringFixed:          "pointer to a fixed-length string",
	TypeStringPointer:        "pointer to a null-terminated string",
	TypeMove:                 "move to absolute position",
	TypeBack:                 "back up a byte",
	TypeNull:                 "null byte",
}

// Describe renders the directive as a short English phrase, for example
// "unsigned 16-bit native-endian integer, x4".
func (d Directive) Describe() string {
	var b strings.Builder
	switch d.Type {
	case TypeInteger:
		b.WriteString(d.Signed.String())
		b.WriteByte(' ')
		b.WriteString(sizeWords[d.Size])
		if d.Size != Size8 {
			b.WriteByte(' ')
			b.WriteString(endianWords[d.Endian])
		}
		b.WriteString(" integer")
	case TypeFloat:
		b.WriteString(sizeWords[d.Size])
		b.WriteByte(' ')
		b.WriteString(endianWords[d.Endian])
		b.WriteString(" float")
	default:
		b.WriteString(typeWords[d.Type])
	}

	switch d.LengthType {
	case LengthFixed:
		fmt.Fprintf(&b, ", x%d", d.Length)
	case LengthMax:
		b.WriteString(", as many as possible")
	case LengthRelative:
		b.WriteString(", to the end of the input")
	}
	return b.String()
}

// Describe lists every directive next to its source text, followed by the
// inferred encoding.
func (f *Format) Describe() string {
	if f == nil {
		return ""
	}
	sources := make([]string, len(f.Directives))
	width := 0
	for i, d := range f.Directives {
		src := d.Text
		if d.Type == TypeSpace {
			src = strconv.Quote(src)
		}
		sources[i] = src
		width = max(width, runewidth.StringWidth(src))
	}

	var b strings.Builder
	b.WriteString("Directives:\n")
	for i, d := range f.Directives {
		fmt.Fprintf(&b, "  %s  %s\n", runewidth.FillRight(sources[i], width), d.Describe())
	}
	b.WriteString("Encoding:\n  ")
	b.WriteString(f.Encoding.String())
	b.WriteByte('\n')
	return b.String()
}
