package guide

import "errors"

// EntryKind tags which concrete shape a loaded Entry has.
type EntryKind int

const (
	// KindShort marks a flat list of lines, each with its own jump offset.
	KindShort EntryKind = iota
	// KindLong marks a scrollable body with optional see-alsos.
	KindLong
)

func (k EntryKind) String() string {
	if k == KindLong {
		return "Long"
	}
	return "Short"
}

const (
	entryTypeShort    = 0
	entryTypeLong     = 1
	entryTypeEndGuide = 0xFFFF

	maxSeeAlsos = 20

	// maxEntryLines bounds a declared line count to something a genuine
	// guide could contain. A larger value means the record is corrupt,
	// not merely unusual, so it raises a FormatError rather than being
	// tolerated like the anomalies spec.md §4/§7 enumerate.
	maxEntryLines = 20000
)

// EntryParent records where a loaded entry was reached from: a menu
// prompt, a short-entry line, or neither. Each index is -1 when absent.
type EntryParent struct {
	MenuIndex   int
	PromptIndex int
	LineIndex   int
}

// HasMenu reports whether this entry was reached via a menu.
func (p EntryParent) HasMenu() bool { return p.MenuIndex >= 0 }

// HasPrompt reports whether this entry was reached via a menu prompt.
func (p EntryParent) HasPrompt() bool { return p.PromptIndex >= 0 }

// HasLine reports whether this entry was reached via a short-entry line.
func (p EntryParent) HasLine() bool { return p.LineIndex >= 0 }

// EntryCommon holds the fields every loaded entry carries, regardless
// of whether it is Short or Long.
type EntryCommon struct {
	Offset   int64
	Kind     EntryKind
	Parent   EntryParent
	Lines    []string
	Previous int64 // -1 when absent
	Next     int64 // -1 when absent
}

// Entry is the tagged-variant interface Load returns: either a
// *ShortEntry or a *LongEntry. Callers type-switch on the concrete type
// to reach kind-specific fields (JumpOffsets vs. SeeAlsos), mirroring
// spec.md §9's "Polymorphic entry return" design note.
type Entry interface {
	Common() *EntryCommon
}

// ShortEntry is a flat menu of cross-references: every line carries its
// own jump offset.
type ShortEntry struct {
	EntryCommon
	JumpOffsets []int64
}

// Common implements Entry.
func (e *ShortEntry) Common() *EntryCommon { return &e.EntryCommon }

// SeeAlso is one labelled cross-reference in a LongEntry's see-also
// table.
type SeeAlso struct {
	Text   string
	Offset int64
}

// LongEntry is a scrollable body of text with an optional see-also
// table.
type LongEntry struct {
	EntryCommon
	SeeAlsos []SeeAlso
}

// Common implements Entry.
func (e *LongEntry) Common() *EntryCommon { return &e.EntryCommon }

// GotoFirst positions the navigator at the guide's first entry.
func (g *Guide) GotoFirst() {
	g.pos = g.firstEntryOffset
}

// Goto positions the navigator at an arbitrary byte offset.
func (g *Guide) Goto(offset int64) {
	g.pos = offset
}

// Position returns the navigator's current location pointer.
func (g *Guide) Position() int64 {
	return g.pos
}

// EOF reports whether the navigator is at or past the end of the guide,
// or the entry type tag at the current position is the end-of-guide
// sentinel (spec.md §4.3).
func (g *Guide) EOF() bool {
	if !g.ok {
		return true
	}
	if g.pos >= g.FileSize {
		return true
	}
	tag, err := g.r.PeekWordAt(g.pos)
	if err != nil {
		return true
	}
	return tag == entryTypeEndGuide
}

// Load decodes the entry at the navigator's current position and
// returns it as a *ShortEntry or *LongEntry. Load is non-mutating: the
// location pointer is unchanged afterwards (spec.md §4.3's load/skip
// invariant); only Skip advances it. Returns ErrEOF at end-of-guide, or
// an *UnknownEntryTypeError for any other unrecognized type tag.
func (g *Guide) Load() (Entry, error) {
	e, _, err := g.decodeEntryAt(g.pos)
	return e, err
}

// Skip loads just enough of the current entry to learn its length and
// advances the location pointer past it. Fails with ErrEOF at
// end-of-guide.
func (g *Guide) Skip() error {
	_, end, err := g.decodeEntryAt(g.pos)
	if err != nil {
		return err
	}
	g.pos = end
	return nil
}

// eofOrErr maps a failed read during entry decoding to ErrEOF, except for
// ErrNotOpen, which must surface as itself: a closed Guide is a caller
// bug, not an end-of-guide condition.
func eofOrErr(err error) error {
	if errors.Is(err, ErrNotOpen) {
		return err
	}
	return ErrEOF
}

// decodeEntryAt decodes the entry record starting at offset, returning
// the decoded Entry and the byte offset immediately following it.
// Grounded on the teacher's NewFile load-command walk: read a small
// fixed header, then a variable-length body whose shape depends on a
// type tag read from that header.
func (g *Guide) decodeEntryAt(offset int64) (Entry, int64, error) {
	r := g.r
	r.Seek(offset)

	typeTag, err := r.ReadWord()
	if err != nil {
		return nil, 0, eofOrErr(err)
	}
	if typeTag == entryTypeEndGuide {
		return nil, 0, ErrEOF
	}
	if typeTag != entryTypeShort && typeTag != entryTypeLong {
		return nil, 0, &UnknownEntryTypeError{Offset: offset, Type: typeTag}
	}

	lineCount, err := r.ReadWord()
	if err != nil {
		return nil, 0, eofOrErr(err)
	}
	if lineCount > maxEntryLines {
		return nil, 0, &FormatError{Offset: offset, Msg: "entry line count exceeds sane bound", Val: lineCount}
	}
	bodySize, err := r.ReadWord()
	if err != nil {
		return nil, 0, eofOrErr(err)
	}
	parentMenu, err := r.ReadShort()
	if err != nil {
		return nil, 0, eofOrErr(err)
	}
	parentPrompt, err := r.ReadShort()
	if err != nil {
		return nil, 0, eofOrErr(err)
	}
	parentLine, err := r.ReadShort()
	if err != nil {
		return nil, 0, eofOrErr(err)
	}
	prev, err := r.ReadLong()
	if err != nil {
		return nil, 0, eofOrErr(err)
	}
	next, err := r.ReadLong()
	if err != nil {
		return nil, 0, eofOrErr(err)
	}

	common := EntryCommon{
		Offset: offset,
		Parent: EntryParent{
			MenuIndex:   int(parentMenu),
			PromptIndex: int(parentPrompt),
			LineIndex:   int(parentLine),
		},
		Previous: int64(prev),
		Next:     int64(next),
	}

	bodyStart := r.Position()

	switch typeTag {
	case entryTypeShort:
		common.Kind = KindShort
		lines := make([]string, lineCount)
		jumps := make([]int64, lineCount)
		for i := 0; i < int(lineCount); i++ {
			jumpOff, err := r.ReadLong()
			if err != nil {
				return nil, 0, eofOrErr(err)
			}
			text, err := readLengthPrefixedExpanded(r)
			if err != nil {
				return nil, 0, eofOrErr(err)
			}
			jumps[i] = int64(jumpOff)
			lines[i] = text
		}
		common.Lines = lines
		return &ShortEntry{EntryCommon: common, JumpOffsets: jumps}, r.Position(), nil

	default: // entryTypeLong
		common.Kind = KindLong
		lines := make([]string, lineCount)
		for i := 0; i < int(lineCount); i++ {
			text, err := r.ReadStringUntilNUL()
			if err != nil {
				return nil, 0, eofOrErr(err)
			}
			lines[i] = text
		}
		common.Lines = lines

		var seeAlsos []SeeAlso
		consumed := r.Position() - bodyStart
		if int64(bodySize) > consumed {
			count, err := r.ReadWord()
			if err != nil {
				return nil, 0, eofOrErr(err)
			}
			if count > maxSeeAlsos {
				count = maxSeeAlsos
			}
			offsets := make([]int64, count)
			for i := 0; i < int(count); i++ {
				off, err := r.ReadLong()
				if err != nil {
					return nil, 0, eofOrErr(err)
				}
				offsets[i] = int64(off)
			}
			seeAlsos = make([]SeeAlso, count)
			for i := 0; i < int(count); i++ {
				text, err := readLengthPrefixedExpanded(r)
				if err != nil {
					return nil, 0, eofOrErr(err)
				}
				seeAlsos[i] = SeeAlso{Text: text, Offset: offsets[i]}
			}
		}
		return &LongEntry{EntryCommon: common, SeeAlsos: seeAlsos}, r.Position(), nil
	}
}

// readLengthPrefixedExpanded reads a word byte-length (0xFFFF treated
// as zero per spec.md §8's boundary case) followed by that many raw
// bytes, RLE-expanded — the shape spec.md §4.3 calls out explicitly for
// Short-entry line text and see-also text.
func readLengthPrefixedExpanded(r *Reader) (string, error) {
	n, err := r.ReadWord()
	if err != nil {
		return "", err
	}
	if n == 0xFFFF {
		n = 0
	}
	return r.ReadStringExpanded(int(n))
}

// Iterator restartably walks the guide's entry stream: load, yield,
// skip, terminating cleanly at end-of-guide (spec.md §4.4).
type Iterator struct {
	g    *Guide
	err  error
	done bool
}

// Entries returns a fresh Iterator positioned at the first entry.
func (g *Guide) Entries() *Iterator {
	g.GotoFirst()
	return &Iterator{g: g}
}

// Next loads and returns the entry at the current position, then
// advances past it. It returns (nil, false) once the guide is
// exhausted or a decode error occurred; check Err to distinguish clean
// end-of-guide from a genuine failure.
func (it *Iterator) Next() (Entry, bool) {
	if it.done {
		return nil, false
	}
	if it.g.EOF() {
		it.done = true
		return nil, false
	}
	e, err := it.g.Load()
	if err != nil {
		if !errors.Is(err, ErrEOF) {
			it.err = err
		}
		it.done = true
		return nil, false
	}
	if err := it.g.Skip(); err != nil {
		if !errors.Is(err, ErrEOF) {
			it.err = err
		}
		it.done = true
	}
	return e, true
}

// Err returns the error that stopped iteration, or nil if iteration
// ran to a clean end-of-guide (or hasn't stopped yet).
func (it *Iterator) Err() error {
	return it.err
}
