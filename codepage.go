package guide

import (
	"golang.org/x/text/encoding/charmap"
)

// decodeCodePage converts DOS/CP437-encoded bytes to a Go string. Bytes
// below 0x80 map to the identical code point; 0x80..0xFF go through the
// CP437 table via golang.org/x/text/encoding/charmap, the ecosystem's
// canonical CP437 codec (see DESIGN.md — no example repo in the
// retrieval pack decodes CP437, so this dependency is named, not
// pack-grounded).
func decodeCodePage(b []byte) string {
	out := make([]rune, 0, len(b))
	for _, c := range b {
		if c < 0x80 {
			out = append(out, rune(c))
			continue
		}
		r := charmap.CodePage437.DecodeByte(c)
		out = append(out, r)
	}
	return string(out)
}

// rleExpand expands the guide's run-length encoding: a 0xFF byte not at
// the very end of the input introduces a run — the following byte gives
// a repeat count, and the byte after that is the character repeated
// that many times. A lone trailing 0xFF is tolerated and expands to
// nothing, per spec.md §4.1 ("this case is explicitly encountered in
// real guides"). Byte sequences with no 0xFF round-trip unchanged.
func rleExpand(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b != 0xFF {
			out = append(out, b)
			continue
		}
		if i+1 >= len(data) {
			// Lone 0xFF at end of input: emit nothing.
			break
		}
		if i+2 >= len(data) {
			// Count byte present but no repeat byte follows: tolerate,
			// nothing further can be decoded from this window.
			break
		}
		count := data[i+1]
		ch := data[i+2]
		for n := byte(0); n < count; n++ {
			out = append(out, ch)
		}
		i += 2
	}
	return out
}
