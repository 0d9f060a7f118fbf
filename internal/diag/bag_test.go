package diag

import (
	"testing"

	"packfmt/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := range 4 {
		sp := source.Span{Start: uint32(i), End: uint32(i + 1)} // #nosec G115 -- small loop index
		bag.Add(NewError(PackUnknownDirective, sp, "unknown"))
	}
	if bag.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", bag.Len())
	}
	if bag.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", bag.Dropped())
	}
	if !bag.HasErrors() {
		t.Error("HasErrors() = false")
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(PackDoubleEndian, source.Span{File: 1, Start: 0, End: 2}, "b"))
	bag.Add(New(SevInfo, ObsTimings, source.Span{File: 0, Start: 4, End: 4}, "t"))
	bag.Add(NewError(PackLengthTooBig, source.Span{File: 0, Start: 4, End: 4}, "a"))
	bag.Add(NewError(PackBangNotAllowed, source.Span{File: 0, Start: 1, End: 3}, "c"))
	bag.Sort()

	want := []Code{PackBangNotAllowed, PackLengthTooBig, ObsTimings, PackDoubleEndian}
	for i, d := range bag.Items() {
		if d.Code != want[i] {
			t.Errorf("item %d: code %s, want %s", i, d.Code.ID(), want[i].ID())
		}
	}
}

func TestBagMergeKeepsLimit(t *testing.T) {
	a := NewBag(2)
	a.Add(NewError(PackUnknownDirective, source.Span{}, "x"))
	b := NewBag(1)
	b.Add(NewError(PackUnknownDirective, source.Span{File: 1}, "y"))
	b.Add(NewError(PackUnknownDirective, source.Span{File: 2}, "z"))

	a.Merge(b)
	if a.Len() != 2 || a.Cap() != 2 {
		t.Fatalf("after merge Len=%d Cap=%d, want 2/2", a.Len(), a.Cap())
	}
	if a.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1 carried over from the source bag", a.Dropped())
	}
	a.Merge(nil)
	if a.Len() != 2 {
		t.Fatalf("merging nil changed the bag")
	}
	if !a.HasErrors() {
		t.Errorf("merged errors lost")
	}
}

func TestWithNoteDoesNotAlias(t *testing.T) {
	base := Errorf(PackDoubleEndian, source.Span{Start: 0, End: 3}, "endianness set twice in %q", "s<>")
	base = base.WithNote(source.Span{Start: 1, End: 2}, "first")
	a := base.WithNote(source.Span{Start: 2, End: 3}, "second")
	b := base.WithNote(source.Span{Start: 2, End: 3}, "other")

	if len(base.Notes) != 1 {
		t.Fatalf("base notes = %d, want 1", len(base.Notes))
	}
	if a.Notes[1].Msg != "second" || b.Notes[1].Msg != "other" {
		t.Errorf("notes share storage: %+v / %+v", a.Notes, b.Notes)
	}
	if base.Message != `endianness set twice in "s<>"` {
		t.Errorf("Message = %q", base.Message)
	}
}

func TestReporters(t *testing.T) {
	bag := NewBag(4)
	reporters := []Reporter{
		BagReporter{Bag: bag},
		BagReporter{}, // без bag ничего не делает
	}
	d := NewError(PackLengthTooBig, source.Span{Start: 1, End: 30}, "too big")
	for _, r := range reporters {
		r.Report(d)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != PackLengthTooBig {
		t.Fatalf("bag = %+v", bag.Items())
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		PackUnknownDirective: "PCK1001",
		UsageInvalidVariant:  "USE2002",
		IOLoadFileError:      "IO4001",
		ObsTimings:           "OBS6001",
		Code(9999):           "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if got := Code(1999).Title(); got != "Unknown error" {
		t.Errorf("unregistered code title = %q", got)
	}
}

func TestParseSeverity(t *testing.T) {
	for _, in := range []string{"error", "ERROR", " Error "} {
		if sev, err := ParseSeverity(in); err != nil || sev != SevError {
			t.Errorf("ParseSeverity(%q) = %v, %v", in, sev, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("expected error for unknown severity")
	}
}
