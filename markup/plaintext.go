package markup

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Visitor receives a callback per token kind as Walk replays a parsed
// stream. Base supplies a no-op implementation of every method so a
// renderer need only override what it cares about — the Go shape of
// spec.md §9's "MarkupBase" abstract base class.
type Visitor interface {
	Text(s string)
	ColourChange(foreground, background uint8)
	NormalAttribute()
	AttributeChange(code uint8)
	BoldOn()
	BoldOff()
	UnderlineOn()
	UnderlineOff()
	ItalicOn()
	ItalicOff()
	ReverseOn()
	ReverseOff()
	RawChar(b byte)
}

// Base is a no-op Visitor meant to be embedded by format-specific
// renderers (HTML, terminal-rich-text, ...), which are collaborators
// outside this module's scope per spec.md §1.
type Base struct{}

func (Base) Text(string)                               {}
func (Base) ColourChange(foreground, background uint8) {}
func (Base) NormalAttribute()                          {}
func (Base) AttributeChange(code uint8)                {}
func (Base) BoldOn()                                   {}
func (Base) BoldOff()                                  {}
func (Base) UnderlineOn()                               {}
func (Base) UnderlineOff()                              {}
func (Base) ItalicOn()                                  {}
func (Base) ItalicOff()                                 {}
func (Base) ReverseOn()                                 {}
func (Base) ReverseOff()                                {}
func (Base) RawChar(byte)                               {}

// Walk replays tokens against v in order, dispatching each to the
// matching Visitor method.
func Walk(tokens []Token, v Visitor) {
	for _, t := range tokens {
		switch t.Kind {
		case Text:
			v.Text(t.Text)
		case ColourChange:
			v.ColourChange(t.Foreground, t.Background)
		case NormalAttribute:
			v.NormalAttribute()
		case AttributeChange:
			v.AttributeChange(t.Attribute)
		case BoldOn:
			v.BoldOn()
		case BoldOff:
			v.BoldOff()
		case UnderlineOn:
			v.UnderlineOn()
		case UnderlineOff:
			v.UnderlineOff()
		case ItalicOn:
			v.ItalicOn()
		case ItalicOff:
			v.ItalicOff()
		case ReverseOn:
			v.ReverseOn()
		case ReverseOff:
			v.ReverseOff()
		case RawChar:
			v.RawChar(t.Raw)
		}
	}
}

// PlainText is the concrete flattener spec.md §4.5 and §6.2 require:
// ColourChange, attribute and toggle tokens are discarded, Text and
// RawChar tokens are concatenated. RawChar bytes pass through the same
// DOS code-page mapping as ordinary text.
type PlainText struct {
	Base
	buf strings.Builder
}

func (p *PlainText) Text(s string) { p.buf.WriteString(s) }

func (p *PlainText) RawChar(b byte) {
	if b < 0x80 {
		p.buf.WriteByte(b)
		return
	}
	p.buf.WriteRune(charmap.CodePage437.DecodeByte(b))
}

// String returns the flattened text accumulated so far.
func (p *PlainText) String() string { return p.buf.String() }

// Flatten parses and flattens a line in one step.
func Flatten(line string) string {
	p := &PlainText{}
	Walk(Parse(line), p)
	return p.String()
}
