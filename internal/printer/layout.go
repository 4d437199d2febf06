// =============================================================================
// SmartBill - Print Page Layout
// =============================================================================
//
// This module places receipt lines on a single page. The first baseline is
// TopOffset and each further line is LinePitch lower; lines past PageHeight
// are dropped and counted.
//
// =============================================================================

package printer

import "strings"

// Layout places text lines on a page. All values are in points.
type Layout struct {
	PageHeight float64
	TopOffset  float64
	LinePitch  float64
}

// DefaultLayout is US Letter with one-inch margins, first baseline at 50pt
// and a 15pt pitch.
var DefaultLayout = Layout{PageHeight: 648, TopOffset: 50, LinePitch: 15}

// Line is a text line and its baseline.
type Line struct {
	Text string
	Y    float64
}

// Page is the result of laying out receipt text.
type Page struct {
	Lines []Line

	// Dropped counts the lines that did not fit.
	Dropped int
}

// Truncated reports whether a further page would have been needed.
func (p Page) Truncated() bool {
	return p.Dropped > 0
}

// Text returns the laid-out lines joined by newlines, with a trailing one.
func (p Page) Text() string {
	var b strings.Builder
	for _, l := range p.Lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Paginate lays text out from TopOffset in LinePitch steps and stops at the
// first line whose baseline is below PageHeight. Only one page is produced;
// lines past its end are counted in Dropped and not printed.
func Paginate(text string, layout Layout) Page {
	lines := splitLines(text)

	var page Page
	y := layout.TopOffset
	for i, line := range lines {
		if y > layout.PageHeight {
			page.Dropped = len(lines) - i
			break
		}
		page.Lines = append(page.Lines, Line{Text: line, Y: y})
		y += layout.LinePitch
	}

	return page
}

// splitLines splits on newlines without producing an empty last line for a
// trailing newline.
func splitLines(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
