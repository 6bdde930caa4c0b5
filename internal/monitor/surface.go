package monitor

import (
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type segment struct {
	col   int
	text  string
	style Style
}

// Frame is an in-memory Surface. String renders it with a Palette for
// bubbletea; Text returns a row's plain characters.
type Frame struct {
	width, height int
	rows          [][]segment
	palette       Palette
}

// NewFrame creates an empty width x height frame styled with DefaultPalette.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{
		width:   width,
		height:  height,
		rows:    make([][]segment, height),
		palette: DefaultPalette(),
	}
}

// Size implements Surface.
func (f *Frame) Size() (int, int) { return f.width, f.height }

// Draw implements Surface. Text running past the right edge is clipped.
func (f *Frame) Draw(row, col int, text string, style Style) error {
	if row < 0 || row >= f.height || col < 0 || col >= f.width {
		return ErrOutOfBounds
	}
	text = ansi.Truncate(text, f.width-col, "")
	f.rows[row] = append(f.rows[row], segment{col: col, text: text, style: style})
	return nil
}

// Text returns the plain content of row, without trailing spaces.
func (f *Frame) Text(row int) string {
	if row < 0 || row >= f.height {
		return ""
	}
	var b strings.Builder
	for _, s := range f.sorted(row) {
		if w := ansi.StringWidth(b.String()); w < s.col {
			b.WriteString(strings.Repeat(" ", s.col-w))
		}
		b.WriteString(s.text)
	}
	return strings.TrimRight(b.String(), " ")
}

// Lines returns the plain content of every row.
func (f *Frame) Lines() []string {
	out := make([]string, f.height)
	for i := range out {
		out[i] = f.Text(i)
	}
	return out
}

// String renders the frame with colors, one line per row.
func (f *Frame) String() string {
	lines := make([]string, f.height)
	for row := range lines {
		var b strings.Builder
		width := 0
		for _, s := range f.sorted(row) {
			if width < s.col {
				b.WriteString(strings.Repeat(" ", s.col-width))
				width = s.col
			}
			b.WriteString(f.palette.Lookup(s.style).Render(s.text))
			width += ansi.StringWidth(s.text)
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (f *Frame) sorted(row int) []segment {
	segs := append([]segment(nil), f.rows[row]...)
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].col < segs[j].col })
	return segs
}
