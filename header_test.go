package guide

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/appsworld/norton-guide/internal/testguide"
	"github.com/google/go-cmp/cmp"
)

// buildEmptyHeader writes the fixed header block (unknown x2, menu
// count, title, 5 credit lines) with no menus and no entries — the S1
// scenario from spec.md §8.
func buildEmptyHeader(magic, title string, menuCount uint16) *testguide.Builder {
	b := testguide.NewBuilder(magic)
	b.Word(0).Word(0).Word(menuCount)
	b.FixedString(title, titleFieldLen)
	for i := 0; i < creditLineCount; i++ {
		b.FixedString("", creditLineLen)
	}
	return b
}

// TestEmptyGuide is scenario S1: title "DEMO", 0 menus, 0 entries.
func TestEmptyGuide(t *testing.T) {
	b := buildEmptyHeader("NG", "DEMO", 0)
	path := writeTempGuide(t, b)

	g, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer g.Close()

	if !g.IsGuide() {
		t.Fatalf("IsGuide() = false, want true")
	}
	if g.MadeWith() != "Norton Guide" {
		t.Fatalf("MadeWith() = %q, want %q", g.MadeWith(), "Norton Guide")
	}
	if g.Title != "DEMO" {
		t.Fatalf("Title = %q, want %q", g.Title, "DEMO")
	}
	if g.MenuCount() != 0 {
		t.Fatalf("MenuCount() = %d, want 0", g.MenuCount())
	}
	if !g.EOF() {
		t.Fatalf("EOF() = false immediately after open, want true")
	}
}

// TestNotAGuide covers the boundary case: a magic that is neither NG
// nor EH leaves IsGuide false and all reads empty, never erroring.
func TestNotAGuide(t *testing.T) {
	b := testguide.NewBuilder("XX")
	b.Word(0).Word(0).Word(0)
	path := writeTempGuide(t, b)

	g, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer g.Close()

	if g.IsGuide() {
		t.Fatalf("IsGuide() = true, want false for magic %q", "XX")
	}
	if g.MadeWith() != "" {
		t.Fatalf("MadeWith() = %q, want empty", g.MadeWith())
	}
	if g.Title != "" {
		t.Fatalf("Title = %q, want empty", g.Title)
	}
	if !g.EOF() {
		t.Fatalf("EOF() = false for a non-guide file, want true")
	}
}

// TestOneMenu is scenario S2: one menu "File" with prompts "Open","Quit".
func TestOneMenu(t *testing.T) {
	b := buildEmptyHeader("NG", "DEMO2", 1)

	b.Word(1) // menu type
	b.Word(0) // byte size (unused by this decoder)
	b.Word(2) // prompt count
	b.Padding(menuHeaderLen - menuHeaderFixedFields)
	b.FixedString("File", titleFieldLen)
	b.Long(0x100) // Open's offset
	b.Long(0x200) // Quit's offset
	b.Long(-1)    // terminator
	b.NulString("Open")
	b.NulString("Quit")

	path := writeTempGuide(t, b)
	g, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer g.Close()

	if g.MenuCount() != 1 {
		t.Fatalf("MenuCount() = %d, want 1", g.MenuCount())
	}
	want := Menu{
		Title: "File",
		Prompts: []Prompt{
			{Text: "Open", Offset: 0x100},
			{Text: "Quit", Offset: 0x200},
		},
	}
	if diff := cmp.Diff(want, g.Menus[0]); diff != "" {
		t.Fatalf("menu mismatch (-want +got):\n%s", diff)
	}
}

func TestFileOpenMissingFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.ng"))
	if err == nil {
		t.Fatalf("Open(missing file): expected error, got nil")
	}
	if _, ok := err.(*os.PathError); !ok {
		t.Fatalf("Open(missing file) error = %T, want *os.PathError", err)
	}
}
