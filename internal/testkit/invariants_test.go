package testkit

import (
	"testing"

	"packfmt/internal/pack"
	"packfmt/internal/source"
)

func TestCheckDirectiveSpans(t *testing.T) {
	sf := &source.File{Content: []byte("C2 n")}
	f, err := pack.Decode(pack.Version3_2_0, pack.VariantPack, sf.Content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := CheckDirectiveSpans(f, sf); err != nil {
		t.Fatalf("valid format rejected: %v", err)
	}
	if err := CheckLengths(f); err != nil {
		t.Fatalf("valid lengths rejected: %v", err)
	}

	gap := *f
	gap.Directives = append([]pack.Directive(nil), f.Directives[1:]...)
	if err := CheckDirectiveSpans(&gap, sf); err == nil {
		t.Fatalf("expected error for missing leading span")
	}

	short := *f
	short.Directives = f.Directives[:2]
	if err := CheckDirectiveSpans(&short, sf); err == nil {
		t.Fatalf("expected error for uncovered tail")
	}
}

func TestCheckLengthsRejectsStrayLength(t *testing.T) {
	f := &pack.Format{Directives: []pack.Directive{{
		Type: pack.TypeInteger, LengthType: pack.LengthMax, Length: 3,
	}}}
	if err := CheckLengths(f); err == nil {
		t.Fatalf("expected error for length outside Fixed")
	}
}
