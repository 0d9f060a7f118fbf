package pack

import (
	"fmt"
)

// lengthDefault is the length a directive gets when it has no count.
type lengthDefault struct {
	typ LengthType
	n   uint64
}

var (
	fixedOne  = lengthDefault{typ: LengthFixed, n: 1}
	fixedZero = lengthDefault{typ: LengthFixed, n: 0}
	toEnd     = lengthDefault{typ: LengthRelative, n: 0}
)

// variantSet is a bit set of the variants a letter is valid for.
type variantSet uint8

const (
	forPack   variantSet = 1 << VariantPack
	forUnpack variantSet = 1 << VariantUnpack
	forBoth              = forPack | forUnpack
)

func (s variantSet) has(v Variant) bool {
	return s&(1<<v) != 0
}

// entry describes one directive letter.
type entry struct {
	known    bool
	typ      Type
	signed   Signedness
	endian   Endian
	size     Size
	bang     bool // accepts '!' and '_'
	swap     bool // accepts '<' and '>'
	variants variantSet
	pack     lengthDefault
	unpack   lengthDefault
}

func (e *entry) defaultLength(v Variant) lengthDefault {
	if v == VariantUnpack {
		return e.unpack
	}
	return e.pack
}

// table indexes entries by ASCII letter.
type table [128]entry

func integer(signed Signedness, endian Endian, size Size) entry {
	native := endian == EndianNative
	return entry{
		typ: TypeInteger, signed: signed, endian: endian, size: size,
		bang: native, swap: native, variants: forBoth,
	}
}

func float(endian Endian, size Size) entry {
	return entry{typ: TypeFloat, endian: endian, size: size, variants: forBoth}
}

func plain(typ Type) entry {
	return entry{typ: typ, variants: forBoth}
}

func buildTable(letters map[byte]entry) *table {
	var t table
	for letter, e := range letters {
		if letter >= 128 {
			panic(fmt.Sprintf("pack: non-ASCII directive letter %#x", letter))
		}
		e.known = true
		if e.pack == (lengthDefault{}) {
			e.pack = fixedOne
		}
		if e.unpack == (lengthDefault{}) {
			e.unpack = fixedOne
		}
		t[letter] = e
	}
	return &t
}

func withUnpackLength(e entry, l lengthDefault) entry {
	e.unpack = l
	return e
}

// unsupported marks a letter that is reserved by the grammar but valid for
// neither variant.
func unsupported() entry {
	return entry{}
}

var table320 = buildTable(map[byte]entry{
	'C': integer(Unsigned, EndianAgnostic, Size8),
	'c': integer(Signed, EndianAgnostic, Size8),
	'S': integer(Unsigned, EndianNative, Size16),
	's': integer(Signed, EndianNative, Size16),
	'L': integer(Unsigned, EndianNative, Size32),
	'l': integer(Signed, EndianNative, Size32),
	'Q': integer(Unsigned, EndianNative, Size64),
	'q': integer(Signed, EndianNative, Size64),
	'J': integer(Unsigned, EndianNative, SizeP),
	'j': integer(Signed, EndianNative, SizeP),
	'I': integer(Unsigned, EndianNative, SizeInt),
	'i': integer(Signed, EndianNative, SizeInt),
	'n': integer(Unsigned, EndianBig, Size16),
	'N': integer(Unsigned, EndianBig, Size32),
	'v': integer(Unsigned, EndianLittle, Size16),
	'V': integer(Unsigned, EndianLittle, Size32),

	'U': plain(TypeUTF8),
	'w': plain(TypeBER),

	'D': float(EndianNative, Size64),
	'd': float(EndianNative, Size64),
	'F': float(EndianNative, Size32),
	'f': float(EndianNative, Size32),
	'E': float(EndianLittle, Size64),
	'e': float(EndianLittle, Size32),
	'G': float(EndianBig, Size64),
	'g': float(EndianBig, Size32),

	'A': plain(TypeStringSpacePadded),
	'a': plain(TypeStringNullPadded),
	'Z': plain(TypeStringNullTerminated),
	'B': plain(TypeStringMSB),
	'b': plain(TypeStringLSB),
	'H': plain(TypeStringHexHigh),
	'h': plain(TypeStringHexLow),
	'u': withUnpackLength(plain(TypeStringUU), toEnd),
	'M': withUnpackLength(plain(TypeStringMIME), toEnd),
	'm': withUnpackLength(plain(TypeStringBase64), toEnd),
	'P': plain(TypeStringFixed),
	'p': plain(TypeStringPointer),

	'@': withUnpackLength(plain(TypeMove), fixedZero),
	'X': plain(TypeBack),
	'x': plain(TypeNull),

	'%': unsupported(),
})

var tables = map[Version]*table{
	Version3_2_0: table320,
}

// lookupTable validates the version/variant pair before any scanning happens.
func lookupTable(version Version, variant Variant) (*table, error) {
	if !version.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVersion, version)
	}
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVariant, variant)
	}
	t, ok := tables[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no directive table", ErrInvalidVersion, version)
	}
	return t, nil
}

func (t *table) lookup(letter rune) (*entry, bool) {
	if letter < 0 || letter >= rune(len(t)) || !t[letter].known {
		return nil, false
	}
	return &t[letter], true
}

// lettersWith lists, in byte order, the letters whose entry satisfies pred.
func (t *table) lettersWith(pred func(*entry) bool) string {
	var out []byte
	for i := range t {
		if t[i].known && pred(&t[i]) {
			out = append(out, byte(i)) // #nosec G115 -- i < 128
		}
	}
	return string(out)
}

// TableEntry is the public view of one directive letter.
type TableEntry struct {
	Letter        byte
	Type          Type
	Signed        Signedness
	Endian        Endian
	Size          Size
	AllowsBang    bool
	AllowsEndian  bool
	Supported     bool // valid for the requested variant
	DefaultLength LengthType
	DefaultCount  uint64
}

// Table lists every letter known to version, as seen by variant, in byte order.
func Table(version Version, variant Variant) ([]TableEntry, error) {
	t, err := lookupTable(version, variant)
	if err != nil {
		return nil, err
	}
	out := make([]TableEntry, 0, 64)
	for i := range t {
		e := &t[i]
		if !e.known {
			continue
		}
		def := e.defaultLength(variant)
		out = append(out, TableEntry{
			Letter:        byte(i), // #nosec G115 -- i < 128
			Type:          e.typ,
			Signed:        e.signed,
			Endian:        e.endian,
			Size:          e.size,
			AllowsBang:    e.bang,
			AllowsEndian:  e.swap,
			Supported:     e.variants.has(variant),
			DefaultLength: def.typ,
			DefaultCount:  def.n,
		})
	}
	return out, nil
}
