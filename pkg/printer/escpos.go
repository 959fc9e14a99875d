package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment values for SetAlign
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character sizes for SetFontSize
const (
	FontNormal = 0x00
	FontDouble = 0x11 // double width and height
	FontWide   = 0x10
	FontTall   = 0x01
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream for thermal printers
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document of charWidth columns. Anything below Width58mm is raised to it.
func NewDocument(charWidth int) *Document {
	if charWidth < Width58mm {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width returns the print width in characters
func (d *Document) Width() int {
	return d.width
}

// Init sends ESC @
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// LineFeed advances the paper by one line
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines advances the paper by n lines
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign applies one of the Align values to the lines that follow
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold turns emphasis on or off
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize applies one of the Font sizes to the text that follows
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s truncated to the paper width, then a line feed
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(clip(s, d.width))
	d.buf.WriteByte(LF)
	return d
}

// TextF is Text with fmt.Sprintf formatting
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator fills one line with char, e.g. a row of dashes between sections
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key on the left and value on the right of one line
func (d *Document) KeyValue(key, value string) *Document {
	d.buf.WriteString(justify(key, value, d.width))
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints the item name on its own line when it does not fit beside the quantity and
// total, e.g.
//
//	Cow Milk 1L
//	  2.500 x 52.00          130.00
func (d *Document) ItemLine(name, qty, rate, total string) *Document {
	d.Text(name)
	d.buf.WriteString(justify("  "+qty+" x "+rate, total, d.width))
	d.buf.WriteByte(LF)
	return d
}

// Cut sends a full paper cut
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends a cut that leaves a small tab holding the receipt
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated stream
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func justify(left, right string, width int) string {
	spaces := width - len(left) - len(right)
	if spaces < 1 {
		left = clip(left, width-len(right)-1)
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

func clip(s string, width int) string {
	if width < 0 {
		width = 0
	}
	if len(s) > width {
		return s[:width]
	}
	return s
}
