package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Ошибки разбора шаблона pack/unpack
	PackInfo                 Code = 1000
	PackUnknownDirective     Code = 1001
	PackUnsupportedDirective Code = 1002
	PackLengthTooBig         Code = 1003
	PackBangNotAllowed       Code = 1004
	PackDoubleEndian         Code = 1005

	// Неверные аргументы вызова (версия, вариант)
	UsageInfo           Code = 2000
	UsageInvalidVersion Code = 2001
	UsageInvalidVariant Code = 2002
	UsageInputTooLarge  Code = 2003

	IOLoadFileError Code = 4001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	PackInfo:                 "Template information",
	PackUnknownDirective:     "Unknown pack directive",
	PackUnsupportedDirective: "Unsupported pack directive",
	PackLengthTooBig:         "Pack length too big",
	PackBangNotAllowed:       "'!' not allowed here",
	PackDoubleEndian:         "Conflicting endianness modifiers",
	UsageInfo:                "Usage information",
	UsageInvalidVersion:      "Invalid template version",
	UsageInvalidVariant:      "Invalid template variant",
	UsageInputTooLarge:       "Template too large",
	IOLoadFileError:          "I/O load file error",
	ObsInfo:                  "Observability information",
	ObsTimings:               "Pipeline timings",
}

// ID returns the stable identifier, e.g. PCK1001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PCK%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("USE%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
