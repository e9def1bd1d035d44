// Package testguide builds small, byte-exact Norton Guide files for
// tests, applying the same XOR-0x1A deobfuscation transform spec.md
// §4.1 describes, in reverse, plus the raw (non-obfuscated) two-byte
// magic probe.
package testguide

import (
	"encoding/binary"
)

const obfuscationKey = 0x1A

// Builder accumulates obfuscated guide bytes.
type Builder struct {
	buf []byte
}

// NewBuilder starts a new guide image with the given raw (non-XORed)
// magic bytes, e.g. "NG" or "EH".
func NewBuilder(magic string) *Builder {
	b := &Builder{}
	b.buf = append(b.buf, magic[0], magic[1])
	return b
}

func (b *Builder) obf(data []byte) {
	for _, c := range data {
		b.buf = append(b.buf, c^obfuscationKey)
	}
}

// Word appends a little-endian uint16.
func (b *Builder) Word(v uint16) *Builder {
	var raw [2]byte
	binary.LittleEndian.PutUint16(raw[:], v)
	b.obf(raw[:])
	return b
}

// Short appends a little-endian signed 16-bit integer.
func (b *Builder) Short(v int16) *Builder {
	return b.Word(uint16(v))
}

// Dword appends a little-endian uint32.
func (b *Builder) Dword(v uint32) *Builder {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], v)
	b.obf(raw[:])
	return b
}

// Long appends a little-endian signed 32-bit integer.
func (b *Builder) Long(v int32) *Builder {
	return b.Dword(uint32(v))
}

// FixedString appends exactly n bytes: the given text (must be pure
// ASCII < 0x80 and contain no 0xFF for tests to stay RLE-identity) then
// zero padding out to n bytes.
func (b *Builder) FixedString(text string, n int) *Builder {
	raw := make([]byte, n)
	copy(raw, text)
	b.obf(raw)
	return b
}

// NulString appends text followed by a single terminating NUL byte, the
// shape Reader.ReadStringUntilNUL expects (no fixed width, no length
// prefix).
func (b *Builder) NulString(text string) *Builder {
	raw := append([]byte(text), 0x00)
	b.obf(raw)
	return b
}

// LengthPrefixedString appends a word byte-length followed by that many
// raw bytes (the length-prefixed RLE shape used by Short-entry lines
// and see-also text).
func (b *Builder) LengthPrefixedString(text string) *Builder {
	b.Word(uint16(len(text)))
	b.obf([]byte(text))
	return b
}

// Padding appends n logical zero bytes, XOR-obfuscated — reserved/unused
// fixed-header space a real guide would have filled with whatever bytes
// its writer left behind, which Reader only ever skips over.
func (b *Builder) Padding(n int) *Builder {
	raw := make([]byte, n)
	b.obf(raw)
	return b
}

// Raw appends already-obfuscated bytes verbatim (e.g. to hand-construct
// a deliberately malformed record).
func (b *Builder) Raw(data []byte) *Builder {
	b.buf = append(b.buf, data...)
	return b
}

// ObfByte appends a single logical byte, XOR-obfuscated.
func (b *Builder) ObfByte(c byte) *Builder {
	b.buf = append(b.buf, c^obfuscationKey)
	return b
}

// Bytes returns the accumulated image.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes accumulated so far.
func (b *Builder) Len() int {
	return len(b.buf)
}
