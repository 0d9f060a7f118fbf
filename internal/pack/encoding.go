package pack

// threadEncoding folds one directive into the running encoding.
// 'U' forces UTF-8, 'w' forces ASCII-8BIT, the last forcing directive wins.
func threadEncoding(cur Encoding, t Type) Encoding {
	switch t {
	case TypeUTF8:
		return EncodingUTF8
	case TypeBER:
		return EncodingASCII8BIT
	}
	return cur
}
