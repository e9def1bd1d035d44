package guide

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// obfuscationKey is the fixed XOR constant every byte of a guide file is
// combined with, except the two raw magic bytes probed by Open.
const obfuscationKey = 0x1A

// maxUnboundedString bounds the streaming NUL-terminated RLE read so a
// corrupt guide with no terminator anywhere can't make a load spin
// forever; see DESIGN.md "Ambiguity resolutions".
const maxUnboundedString = 1 << 16

// Reader is a random-access, little-endian byte cursor over a guide
// file. It owns the file handle, the current read position, and the
// per-file deobfuscation transform (modeled on the teacher's
// CustomSectionReader, generalized from a plain ReaderAt window to one
// that XORs every byte it returns).
type Reader struct {
	f      *os.File
	off    int64
	closed bool
}

func openReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{f: f}, nil
}

// Close releases the underlying file handle. Further reads return
// ErrNotOpen.
func (r *Reader) Close() error {
	r.closed = true
	return r.f.Close()
}

// Position returns the current byte offset.
func (r *Reader) Position() int64 {
	return r.off
}

// Seek positions the cursor at an absolute byte offset. The offset may
// be at or past end of file; subsequent reads then fail with ErrEOF.
func (r *Reader) Seek(offset int64) {
	r.off = offset
}

// Skip advances the cursor by n bytes, relative to the current position.
func (r *Reader) Skip(n int64) {
	r.off += n
}

// size returns the size of the underlying file.
func (r *Reader) size() (int64, error) {
	fi, err := r.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// rawMagic reads the first two bytes of the file without the
// deobfuscation transform; this is the one read in the whole format
// that bypasses XOR, per spec.md §4.1/§6.1.
func (r *Reader) rawMagic() ([2]byte, error) {
	var buf [2]byte
	if _, err := r.f.ReadAt(buf[:], 0); err != nil {
		return buf, err
	}
	return buf, nil
}

// readRaw reads n bytes at the current position, advances the cursor,
// and XOR-deobfuscates every byte in place.
func (r *Reader) readRaw(n int) ([]byte, error) {
	if r.closed {
		return nil, ErrNotOpen
	}
	buf := make([]byte, n)
	read, err := r.f.ReadAt(buf, r.off)
	r.off += int64(read)
	if err != nil {
		if err == io.EOF && read == n {
			err = nil
		} else {
			return buf[:read], fmt.Errorf("%w: %v", ErrEOF, err)
		}
	}
	for i := range buf {
		buf[i] ^= obfuscationKey
	}
	return buf, nil
}

// ReadByte reads a single deobfuscated byte.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.readRaw(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadWord reads a little-endian uint16.
func (r *Reader) ReadWord() (uint16, error) {
	b, err := r.readRaw(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadShort reads a little-endian signed 16-bit integer, used for the
// entry parent triple where -1 means "absent".
func (r *Reader) ReadShort() (int16, error) {
	w, err := r.ReadWord()
	if err != nil {
		return 0, err
	}
	return int16(w), nil
}

// ReadDword reads a little-endian uint32.
func (r *Reader) ReadDword() (uint32, error) {
	b, err := r.readRaw(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadLong reads a little-endian signed 32-bit integer, used for offset
// fields where -1 means "absent".
func (r *Reader) ReadLong() (int32, error) {
	d, err := r.ReadDword()
	if err != nil {
		return 0, err
	}
	return int32(d), nil
}

// ReadBytes reads exactly n deobfuscated bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.readRaw(n)
}

// ReadString reads n raw bytes, truncates at the first NUL or 0xFF
// byte, and decodes the remainder with the DOS code page. Used for the
// fixed-width, non-RLE header fields (title, credits).
func (r *Reader) ReadString(n int) (string, error) {
	raw, err := r.readRaw(n)
	if err != nil {
		return "", err
	}
	return decodeCodePage(truncateAtTerminator(raw)), nil
}

// ReadStringExpanded reads exactly n raw bytes, RLE-expands the whole
// window, truncates the expanded result at the first NUL, and decodes
// with the DOS code page. Used for fixed-width RLE fields (the menu
// title). See DESIGN.md "Ambiguity resolutions".
func (r *Reader) ReadStringExpanded(n int) (string, error) {
	raw, err := r.readRaw(n)
	if err != nil {
		return "", err
	}
	expanded := rleExpand(raw)
	if i := indexByte(expanded, 0x00); i >= 0 {
		expanded = expanded[:i]
	}
	return decodeCodePage(expanded), nil
}

// ReadStringUntilNUL streams raw bytes one at a time, expanding 0xFF
// runs inline, until a deobfuscated 0x00 terminates the string (or the
// unbounded-string safety cap is hit, or the file ends) — used for
// prompt texts and long-entry line text, which carry no length prefix.
// See DESIGN.md "Ambiguity resolutions".
func (r *Reader) ReadStringUntilNUL() (string, error) {
	out := make([]byte, 0, 64)
	for len(out) < maxUnboundedString {
		b, err := r.ReadByte()
		if err != nil {
			Logger.Debug().Err(err).Msg("guide: unbounded string ended without a NUL terminator")
			break
		}
		if b == 0x00 {
			return decodeCodePage(out), nil
		}
		if b == 0xFF {
			count, err := r.ReadByte()
			if err != nil {
				// Lone trailing 0xFF: tolerate, emit nothing further.
				Logger.Debug().Msg("guide: lone 0xFF at end of unbounded string, tolerated")
				break
			}
			ch, err := r.ReadByte()
			if err != nil {
				Logger.Debug().Msg("guide: truncated RLE run at end of unbounded string, tolerated")
				break
			}
			for i := byte(0); i < count; i++ {
				out = append(out, ch)
			}
			continue
		}
		out = append(out, b)
	}
	return decodeCodePage(out), nil
}

// PeekWordAt reads a little-endian uint16 at an absolute offset without
// disturbing the cursor — used by the navigator's EOF/Load split, which
// must inspect the entry type tag without committing to reading it.
func (r *Reader) PeekWordAt(offset int64) (uint16, error) {
	if r.closed {
		return 0, ErrNotOpen
	}
	buf := make([]byte, 2)
	n, err := r.f.ReadAt(buf, offset)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEOF, err)
	}
	_ = n
	buf[0] ^= obfuscationKey
	buf[1] ^= obfuscationKey
	return binary.LittleEndian.Uint16(buf), nil
}

func truncateAtTerminator(b []byte) []byte {
	for i, c := range b {
		if c == 0x00 || c == 0xFF {
			return b[:i]
		}
	}
	return b
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
