package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// segment is a pre-styled piece of text with its display width.
type segment struct {
	s     string
	width int
}

func newSegment(text string, style func(...string) string) segment {
	return segment{s: style(text), width: runewidth.StringWidth(text)}
}

// wrapSegments joins segments with sep, starting a new line whenever the
// next segment would overflow width. A segment wider than width gets its
// own line.
func wrapSegments(segments []segment, sep string, width int) string {
	if len(segments) == 0 {
		return ""
	}
	sepWidth := runewidth.StringWidth(sep)
	var out strings.Builder
	lineWidth := 0
	for i, seg := range segments {
		if i > 0 {
			if width > 0 && lineWidth+sepWidth+seg.width > width {
				out.WriteByte('\n')
				lineWidth = 0
			} else {
				out.WriteString(sep)
				lineWidth += sepWidth
			}
		}
		out.WriteString(seg.s)
		lineWidth += seg.width
	}
	return out.String()
}

// centerPad returns the spaces that centre unstyled text within width
// display columns.
func centerPad(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return ""
	}
	return strings.Repeat(" ", (width-w)/2)
}
