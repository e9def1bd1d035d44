// Package guide decodes Norton Guide (.ng) and Expert Help (.eh)
// database files: a legacy MS-DOS hypertext help format from the
// Clipper era. It exposes the guide's title, credits and menu table,
// and a stateful navigator over the entry stream.
package guide

import "fmt"

const (
	magicNortonGuide = "NG"
	magicExpertHelp  = "EH"

	titleFieldLen   = 40
	creditLineLen   = 66
	creditLineCount = 5
	maxMenus        = 40

	// menuHeaderLen is the fixed on-disk size of a menu record's header
	// per spec.md §6.1: word type, word size, word prompt-count, then
	// reserved padding out to 20 bytes, before the RLE title begins.
	menuHeaderLen = 20
	// menuHeaderFixedFields is the byte width of the three words read
	// explicitly (type, size, prompt-count); the rest of menuHeaderLen is
	// reserved padding to skip.
	menuHeaderFixedFields = 6
)

// Prompt is a (text, offset) pair inside a Menu; Offset is -1 when the
// prompt has no associated entry (the on-disk sentinel, kept as is).
type Prompt struct {
	Text   string
	Offset int64 // -1 when absent; prefer HasOffset
}

// HasOffset reports whether this prompt points at an entry.
func (p Prompt) HasOffset() bool { return p.Offset >= 0 }

// Menu is one of the guide's top-level navigational lists.
type Menu struct {
	Title   string
	Prompts []Prompt
}

// Guide is the root handle over an open Norton Guide / Expert Help
// file. Guide is not safe for concurrent use by multiple goroutines
// (spec.md §5); open one Guide per goroutine that needs one.
type Guide struct {
	Path     string
	FileSize int64

	magic   [2]byte
	ok      bool // true once magic has been validated
	Title   string
	Credits [creditLineCount]string
	Menus   []Menu

	firstEntryOffset int64
	firstMenuOffset  int64

	r   *Reader
	pos int64 // the navigator's current location pointer
}

// Open opens the named guide file, decodes its header and menu table,
// and positions the navigator at the first entry. Fails with an IoError
// (returned unwrapped from os.Open / os.Stat) on a missing or unreadable
// file; a file whose magic does not match NG or EH is still returned
// successfully, with IsGuide() false and all content empty, per
// spec.md §4.2 and §7 (NotAGuide is not an error).
func Open(path string) (*Guide, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	size, err := r.size()
	if err != nil {
		r.Close()
		return nil, err
	}

	g := &Guide{Path: path, FileSize: size, r: r}

	magic, err := r.rawMagic()
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("guide: failed to read magic: %w", err)
	}
	g.magic = magic
	g.ok = string(magic[:]) == magicNortonGuide || string(magic[:]) == magicExpertHelp

	if !g.ok {
		Logger.Debug().Str("path", path).Bytes("magic", magic[:]).Msg("guide: file is not a Norton Guide or Expert Help file")
		return g, nil
	}

	r.Seek(2)
	if err := g.loadHeader(); err != nil {
		r.Close()
		return nil, err
	}
	g.GotoFirst()
	return g, nil
}

// WithGuide opens path, invokes fn with the resulting Guide, and
// guarantees Close is called on every exit path — the scoped-acquisition
// idiom spec.md §5 and §6.2 require, modeled on the teacher's
// Open-then-defer-Close pairing in its own callers.
func WithGuide(path string, fn func(*Guide) error) error {
	g, err := Open(path)
	if err != nil {
		return err
	}
	defer g.Close()
	return fn(g)
}

// Close releases the underlying file handle.
func (g *Guide) Close() error {
	return g.r.Close()
}

// IsGuide reports whether the magic bytes matched a known guide type.
func (g *Guide) IsGuide() bool { return g.ok }

// MadeWith derives a human label from the magic: "Norton Guide" for NG,
// "Expert Help" for EH, "" when IsGuide is false.
func (g *Guide) MadeWith() string {
	switch string(g.magic[:]) {
	case magicNortonGuide:
		return "Norton Guide"
	case magicExpertHelp:
		return "Expert Help"
	default:
		return ""
	}
}

// MenuCount returns the number of menus the header declared.
func (g *Guide) MenuCount() int { return len(g.Menus) }

// loadHeader consumes the fixed header fields, the credits block, and
// the menu chain. The reader's cursor must already be positioned just
// past the 2-byte magic. Grounded on the teacher's NewFile: decode a
// fixed header, then walk a variable-length chain of records.
func (g *Guide) loadHeader() error {
	r := g.r

	if _, err := r.ReadWord(); err != nil { // unknown word #1
		return fmt.Errorf("guide: failed to read header: %w", err)
	}
	if _, err := r.ReadWord(); err != nil { // unknown word #2
		return fmt.Errorf("guide: failed to read header: %w", err)
	}
	menuCount, err := r.ReadWord()
	if err != nil {
		return fmt.Errorf("guide: failed to read menu count: %w", err)
	}
	if int(menuCount) > maxMenus {
		Logger.Debug().Uint16("menu_count", menuCount).Msg("guide: menu count exceeds the documented maximum, proceeding anyway")
	}

	title, err := r.ReadString(titleFieldLen)
	if err != nil {
		return fmt.Errorf("guide: failed to read title: %w", err)
	}
	g.Title = title

	for i := 0; i < creditLineCount; i++ {
		line, err := r.ReadString(creditLineLen)
		if err != nil {
			return fmt.Errorf("guide: failed to read credits line %d: %w", i, err)
		}
		g.Credits[i] = line
	}

	g.firstMenuOffset = r.Position()

	menus := make([]Menu, 0, menuCount)
	for i := 0; i < int(menuCount); i++ {
		m, err := g.loadMenu()
		if err != nil {
			return fmt.Errorf("guide: failed to read menu %d: %w", i, err)
		}
		menus = append(menus, m)
	}
	g.Menus = menus
	g.firstEntryOffset = r.Position()
	return nil
}

// loadMenu reads one menu record per spec.md §6.1: a 20-byte fixed
// header (type/size/count words, then reserved padding out to 20 bytes),
// an RLE-expanded title, (count+1) offset longs (the terminator is
// discarded), then count RLE prompt texts.
func (g *Guide) loadMenu() (Menu, error) {
	r := g.r

	menuType, err := r.ReadWord()
	if err != nil {
		return Menu{}, fmt.Errorf("failed to read menu type: %w", err)
	}
	if menuType != 1 {
		Logger.Debug().Uint16("type", menuType).Msg("guide: menu type is not 1, proceeding anyway")
	}
	if _, err := r.ReadWord(); err != nil { // byte size
		return Menu{}, fmt.Errorf("failed to read menu byte size: %w", err)
	}
	promptCount, err := r.ReadWord()
	if err != nil {
		return Menu{}, fmt.Errorf("failed to read prompt count: %w", err)
	}
	r.Skip(menuHeaderLen - menuHeaderFixedFields) // reserved padding

	title, err := r.ReadStringExpanded(titleFieldLen)
	if err != nil {
		return Menu{}, fmt.Errorf("failed to read menu title: %w", err)
	}

	offsets := make([]int64, promptCount)
	for i := 0; i < int(promptCount); i++ {
		off, err := r.ReadLong()
		if err != nil {
			return Menu{}, fmt.Errorf("failed to read prompt offset %d: %w", i, err)
		}
		offsets[i] = int64(off)
	}
	if _, err := r.ReadLong(); err != nil { // terminator offset, discarded
		return Menu{}, fmt.Errorf("failed to read menu terminator offset: %w", err)
	}

	prompts := make([]Prompt, promptCount)
	for i := 0; i < int(promptCount); i++ {
		text, err := r.ReadStringUntilNUL()
		if err != nil {
			return Menu{}, fmt.Errorf("failed to read prompt text %d: %w", i, err)
		}
		prompts[i] = Prompt{Text: text, Offset: offsets[i]}
	}

	return Menu{Title: title, Prompts: prompts}, nil
}
