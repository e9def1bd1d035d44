// Package markup parses the Norton Guide entry-line control-sequence
// language: a `^`-escape dialect for colour, attribute, bold, underline,
// italic, reverse toggles and raw byte insertion. Parse never fails —
// malformed escapes degrade to literal text per the tolerances in
// spec.md §4.5 — and the package ships one concrete consumer, Flatten,
// with Base left as the extension point for format-specific renderers
// (HTML, terminal) that stay out of this module's scope.
package markup

// Kind tags which of the markup token shapes a Token carries. Norton
// Guide's escape language is small enough that a single struct with a
// Kind discriminant (the way go/scanner or go/token represent lexical
// tokens) reads more plainly here than an interface hierarchy with one
// type per variant.
type Kind int

const (
	// Text is a run of literal, non-escape characters.
	Text Kind = iota
	// ColourChange sets foreground/background (0..15 each).
	ColourChange
	// NormalAttribute resets to normal attributes (from ^N).
	NormalAttribute
	// AttributeChange carries the raw two-hex-digit attribute code from
	// ^A, per spec.md §9's Open Question: emitted alone, with no derived
	// ColourChange.
	AttributeChange
	// BoldOn / BoldOff bracket a bold toggle.
	BoldOn
	BoldOff
	// UnderlineOn / UnderlineOff bracket an underline toggle.
	UnderlineOn
	UnderlineOff
	// ItalicOn / ItalicOff bracket an italic toggle.
	ItalicOn
	ItalicOff
	// ReverseOn / ReverseOff bracket a reverse-video toggle.
	ReverseOn
	ReverseOff
	// RawChar is a literal byte value inserted via ^x, yielded regardless
	// of printability.
	RawChar
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "Text"
	case ColourChange:
		return "ColourChange"
	case NormalAttribute:
		return "NormalAttribute"
	case AttributeChange:
		return "AttributeChange"
	case BoldOn:
		return "BoldOn"
	case BoldOff:
		return "BoldOff"
	case UnderlineOn:
		return "UnderlineOn"
	case UnderlineOff:
		return "UnderlineOff"
	case ItalicOn:
		return "ItalicOn"
	case ItalicOff:
		return "ItalicOff"
	case ReverseOn:
		return "ReverseOn"
	case ReverseOff:
		return "ReverseOff"
	case RawChar:
		return "RawChar"
	default:
		return "Unknown"
	}
}

// Token is one unit of the parsed markup stream. Only the fields
// relevant to Kind are meaningful; the zero value of the rest is
// ignored.
type Token struct {
	Kind Kind

	Text string // Kind == Text

	Foreground uint8 // Kind == ColourChange
	Background uint8 // Kind == ColourChange

	Attribute uint8 // Kind == AttributeChange

	Raw byte // Kind == RawChar
}
