package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
)

// codePagePC437 is selected on Init so the pound sign prints.
const codePagePC437 = 0

// pc437 maps the non-ASCII runes a receipt needs to their PC437 bytes.
var pc437 = map[rune]byte{
	'£': 0x9C,
	'é': 0x82,
	'ü': 0x81,
}

// Document builds an ESC/POS byte stream for thermal printers.
type Document struct {
	buf   bytes.Buffer
	width int // print width in characters (32 for 58mm, 48 for 80mm)
}

// NewDocument creates a new ESC/POS document with the given character width.
// Common widths: 32 for 58mm paper, 48 for 80mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 48
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width returns the line width in characters.
func (d *Document) Width() int {
	return d.width
}

// Init sends ESC @ (initialize printer) and selects the PC437 code page.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	d.buf.Write([]byte{ESC, 't', codePagePC437})
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble or FontWide.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.write(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width separator line.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Sub Total                 £9.00"
func (d *Document) KeyValue(key, value string) *Document {
	spaces := d.width - runeLen(key) - runeLen(value)
	if spaces < 1 {
		spaces = 1
	}
	d.write(key)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.write(value)
	d.buf.WriteByte(LF)
	return d
}

// Row prints one table row. The first column is left-aligned and truncated
// to fit; the remaining columns are right-aligned in the given widths.
func (d *Document) Row(first string, rest []string, widths []int) *Document {
	used := 0
	for _, w := range widths {
		used += w
	}
	nameWidth := d.width - used
	if nameWidth < 1 {
		nameWidth = 1
	}

	d.write(padRight(truncate(first, nameWidth), nameWidth))
	for i, col := range rest {
		w := 0
		if i < len(widths) {
			w = widths[i]
		}
		d.write(padLeft(truncate(col, w), w))
	}
	d.buf.WriteByte(LF)
	return d
}

// Cut feeds past the tear bar and sends the full cut command.
func (d *Document) Cut() *Document {
	d.FeedLines(3)
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// write encodes s for the printer's code page. Unknown runes print as '?'.
func (d *Document) write(s string) {
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			d.buf.WriteByte(byte(r))
		case pc437[r] != 0:
			d.buf.WriteByte(pc437[r])
		default:
			d.buf.WriteByte('?')
		}
	}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func padRight(s string, n int) string {
	if gap := n - runeLen(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, n int) string {
	if gap := n - runeLen(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}
