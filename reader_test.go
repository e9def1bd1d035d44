package guide

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/appsworld/norton-guide/internal/testguide"
	"github.com/google/go-cmp/cmp"
)

func writeTempGuide(t *testing.T, b *testguide.Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ng")
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write test guide: %v", err)
	}
	return path
}

func TestReaderPrimitives(t *testing.T) {
	b := testguide.NewBuilder("NG")
	b.Word(0xBEEF).Dword(0xCAFEF00D).Long(-1).ObfByte(0x42)
	path := writeTempGuide(t, b)

	r, err := openReader(path)
	if err != nil {
		t.Fatalf("openReader: %v", err)
	}
	defer r.Close()

	r.Seek(2)
	w, err := r.ReadWord()
	if err != nil || w != 0xBEEF {
		t.Fatalf("ReadWord = %#x, %v, want 0xBEEF", w, err)
	}
	d, err := r.ReadDword()
	if err != nil || d != 0xCAFEF00D {
		t.Fatalf("ReadDword = %#x, %v, want 0xCAFEF00D", d, err)
	}
	l, err := r.ReadLong()
	if err != nil || l != -1 {
		t.Fatalf("ReadLong = %d, %v, want -1", l, err)
	}
	c, err := r.ReadByte()
	if err != nil || c != 0x42 {
		t.Fatalf("ReadByte = %#x, %v, want 0x42", c, err)
	}
}

func TestReaderPastEndOfFileFails(t *testing.T) {
	b := testguide.NewBuilder("NG")
	b.Word(1)
	path := writeTempGuide(t, b)

	r, err := openReader(path)
	if err != nil {
		t.Fatalf("openReader: %v", err)
	}
	defer r.Close()

	r.Seek(100)
	if _, err := r.ReadByte(); err == nil {
		t.Fatalf("ReadByte past EOF: expected error, got nil")
	}
}

func TestRawMagicBypassesDeobfuscation(t *testing.T) {
	b := testguide.NewBuilder("NG")
	path := writeTempGuide(t, b)

	r, err := openReader(path)
	if err != nil {
		t.Fatalf("openReader: %v", err)
	}
	defer r.Close()

	magic, err := r.rawMagic()
	if err != nil {
		t.Fatalf("rawMagic: %v", err)
	}
	if string(magic[:]) != "NG" {
		t.Fatalf("rawMagic = %q, want %q", magic, "NG")
	}
}

// TestRLEExpandRoundTrip is property 7 from spec.md §8: any byte
// sequence not containing 0xFF passes through rleExpand unchanged.
func TestRLEExpandRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("hello world"),
		{0x00, 0x01, 0x02, 0xFE, 0x10},
		make([]byte, 200), // long run of zero bytes, no 0xFF
	}
	for i, c := range cases {
		got := rleExpand(c)
		if diff := cmp.Diff(c, got); diff != "" && len(c) > 0 {
			t.Errorf("case %d: rleExpand(%v) mismatch (-want +got):\n%s", i, c, diff)
		}
		if len(c) == 0 && len(got) != 0 {
			t.Errorf("case %d: rleExpand(empty) = %v, want empty", i, got)
		}
	}
}

func TestRLEExpandRuns(t *testing.T) {
	// "AB" + run of 3 'x' + "C"
	in := []byte{'A', 'B', 0xFF, 3, 'x', 'C'}
	want := []byte("ABxxxC")
	got := rleExpand(in)
	if string(got) != string(want) {
		t.Fatalf("rleExpand(%v) = %q, want %q", in, got, want)
	}
}

func TestRLEExpandLoneTrailing0xFF(t *testing.T) {
	in := []byte{'h', 'i', 0xFF}
	got := rleExpand(in)
	if string(got) != "hi" {
		t.Fatalf("rleExpand(lone trailing 0xFF) = %q, want %q", got, "hi")
	}
}

func TestDecodeCodePageASCII(t *testing.T) {
	if got := decodeCodePage([]byte("Hello")); got != "Hello" {
		t.Fatalf("decodeCodePage(ASCII) = %q, want %q", got, "Hello")
	}
}

func TestDecodeCodePageHighBytes(t *testing.T) {
	// 0xB0 is a CP437 medium-shade block glyph, not its own code point.
	got := decodeCodePage([]byte{0xB0})
	if got == string(rune(0xB0)) {
		t.Fatalf("decodeCodePage(0xB0) decoded as Latin-1, want CP437 mapping")
	}
	if len([]rune(got)) != 1 {
		t.Fatalf("decodeCodePage(0xB0) = %q, want exactly one rune", got)
	}
}
