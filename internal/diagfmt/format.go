package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"packfmt/internal/pack"
	"packfmt/internal/source"
)

// DirectiveOutput is the serialized form of one directive.
type DirectiveOutput struct {
	Text       string  `json:"text" msgpack:"text"`
	Start      uint32  `json:"start" msgpack:"start"`
	End        uint32  `json:"end" msgpack:"end"`
	Type       string  `json:"type" msgpack:"type"`
	Signedness string  `json:"signedness" msgpack:"signedness"`
	Endian     string  `json:"endian" msgpack:"endian"`
	Size       string  `json:"size" msgpack:"size"`
	LengthType string  `json:"length_type" msgpack:"length_type"`
	Length     *uint64 `json:"length,omitempty" msgpack:"length,omitempty"`
}

// FormatOutput is the serialized form of a decoded template.
type FormatOutput struct {
	File       string            `json:"file,omitempty" msgpack:"file,omitempty"`
	Version    string            `json:"version" msgpack:"version"`
	Variant    string            `json:"variant" msgpack:"variant"`
	Encoding   string            `json:"encoding" msgpack:"encoding"`
	Directives []DirectiveOutput `json:"directives" msgpack:"directives"`
}

// BuildFormatOutput converts f into its serialized shape. Trivia are kept so
// that spans still partition the template.
func BuildFormatOutput(f *pack.Format, file *source.File) FormatOutput {
	out := FormatOutput{
		Version:    f.Version.String(),
		Variant:    f.Variant.String(),
		Encoding:   f.Encoding.String(),
		Directives: make([]DirectiveOutput, 0, len(f.Directives)),
	}
	if file != nil {
		out.File = file.Path
	}
	for _, d := range f.Directives {
		do := DirectiveOutput{
			Text:       d.Text,
			Start:      d.Span.Start,
			End:        d.Span.End,
			Type:       d.Type.String(),
			Signedness: d.Signed.String(),
			Endian:     d.Endian.String(),
			Size:       d.Size.String(),
			LengthType: d.LengthType.String(),
		}
		if d.LengthType == pack.LengthFixed {
			n := d.Length
			do.Length = &n
		}
		out.Directives = append(out.Directives, do)
	}
	return out
}

// FormatPretty prints one directive per line with its location.
func FormatPretty(w io.Writer, f *pack.Format, fs *source.FileSet) error {
	for i, d := range f.Directives {
		if d.Type.IsTrivia() {
			continue
		}
		startPos, _ := fs.Resolve(d.Span)
		fmt.Fprintf(w, "%3d: %-24s %-12q at %d:%d", i+1, d.Type.String(), d.Text, startPos.Line, startPos.Col)
		if d.Signed != pack.SignedNA {
			fmt.Fprintf(w, " %s", d.Signed)
		}
		if d.Size != pack.SizeNA {
			fmt.Fprintf(w, " size=%s", d.Size)
		}
		if d.Endian != pack.EndianNA {
			fmt.Fprintf(w, " endian=%s", d.Endian)
		}
		switch d.LengthType {
		case pack.LengthFixed:
			fmt.Fprintf(w, " length=%d", d.Length)
		case pack.LengthNA:
		default:
			fmt.Fprintf(w, " length=%s", d.LengthType)
		}
		fmt.Fprintln(w)
	}
	_, err := fmt.Fprintf(w, "encoding: %s\n", f.Encoding)
	return err
}

// FormatJSON prints the decoded template as indented JSON.
func FormatJSON(w io.Writer, f *pack.Format, file *source.File) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildFormatOutput(f, file))
}

// FormatMsgpack writes the decoded template as a single msgpack document.
func FormatMsgpack(w io.Writer, f *pack.Format, file *source.File) error {
	return msgpack.NewEncoder(w).Encode(BuildFormatOutput(f, file))
}

// FormatDescribe prints the English listing produced by pack.Format.Describe.
func FormatDescribe(w io.Writer, f *pack.Format) error {
	_, err := io.WriteString(w, f.Describe())
	return err
}
