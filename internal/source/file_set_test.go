package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetAddKeepsEveryVersion(t *testing.T) {
	fs := NewFileSet()

	id1, err := fs.Add("layout.pack", []byte("C*"), 0)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id2, err := fs.Add("layout.pack", []byte("S<2"), 0)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id1 != 0 || id2 != 1 {
		t.Fatalf("ids = %d, %d; want 0, 1", id1, id2)
	}

	// один путь, два содержимого: check перечитывает файл, старый FileID валиден
	if fs.Get(id1).Hash == fs.Get(id2).Hash {
		t.Errorf("different content must hash differently")
	}
	if string(fs.Get(id1).Content) != "C*" {
		t.Errorf("old version lost: %q", fs.Get(id1).Content)
	}
	if fs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", fs.Len())
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.AddVirtual("inline", []byte("C2\n# note\nS<"))
	if err != nil {
		t.Fatalf("AddVirtual: %v", err)
	}

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // сам '\n' относится к первой строке
		{3, LineCol{Line: 2, Col: 1}},
		{10, LineCol{Line: 3, Col: 1}},
		{12, LineCol{Line: 3, Col: 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id, _ := fs.AddVirtual("inline", []byte("n2\nv*\n\nQ"))
	f := fs.Get(id)

	want := map[uint32]string{0: "", 1: "n2", 2: "v*", 3: "", 4: "Q", 5: ""}
	for line, text := range want {
		if got := f.GetLine(line); got != text {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, text)
		}
	}
}

func TestLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.pack")
	if err := os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, "U*"...), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "U*" {
		t.Errorf("content = %q, want %q", f.Content, "U*")
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("FileHadBOM flag not set")
	}
	if f.Flags&FileTranscoded != 0 {
		t.Error("UTF-8 input must not be marked as transcoded")
	}
}

func TestLoadTranscodesUTF16(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "utf16.pack")
	// "a3" в UTF-16LE с BOM
	raw := []byte{0xFF, 0xFE, 'a', 0x00, '3', 0x00}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a3" {
		t.Errorf("content = %q, want %q", f.Content, "a3")
	}
	if f.Flags&FileTranscoded == 0 {
		t.Error("FileTranscoded flag not set")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "absent.pack")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if fs.Len() != 0 {
		t.Errorf("failed load must not add a file, Len() = %d", fs.Len())
	}
}

func TestDisplayPath(t *testing.T) {
	base := t.TempDir()
	fs := NewFileSetWithBase(base)

	inside, _ := fs.Add(filepath.Join(base, "nested", "a.pack"), nil, 0)
	if got := fs.DisplayPath(inside); got != "nested/a.pack" {
		t.Errorf("DisplayPath(inside) = %q", got)
	}

	virtual, _ := fs.AddVirtual("<inline>", nil)
	if got := fs.DisplayPath(virtual); got != "<inline>" {
		t.Errorf("DisplayPath(virtual) = %q", got)
	}
}
