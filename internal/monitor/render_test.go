package monitor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/mavinspect/internal/store"
	"github.com/rileyhilliard/mavinspect/internal/tree"
)

var renderTime = time.Date(2026, 1, 2, 12, 34, 56, 0, time.UTC)

type draw struct {
	row, col int
	text     string
	style    Style
}

// recorder is a Surface that keeps every draw call.
type recorder struct {
	width, height int
	draws         []draw
	fail          error
}

func (r *recorder) Size() (int, int) { return r.width, r.height }

func (r *recorder) Draw(row, col int, text string, style Style) error {
	if r.fail != nil {
		return r.fail
	}
	if row < 0 || row >= r.height || col < 0 || col >= r.width {
		return ErrOutOfBounds
	}
	r.draws = append(r.draws, draw{row, col, text, style})
	return nil
}

func (r *recorder) at(row int) []draw {
	var out []draw
	for _, d := range r.draws {
		if d.row == row {
			out = append(out, d)
		}
	}
	return out
}

func statusEntries(n int) []store.StatusEntry {
	out := make([]store.StatusEntry, n)
	for i := range out {
		out[i] = store.StatusEntry{
			Timestamp: renderTime.Add(time.Duration(i) * time.Second),
			Endpoint:  "1:1",
			Text:      fmt.Sprintf("msg %d", i),
			Severity:  store.SeverityInfo,
		}
	}
	return out
}

func flatLeaves(n int) []tree.ViewItem {
	t := &tree.Tree{}
	for i := 0; i < n; i++ {
		t.Roots = append(t.Roots, tree.Leaf(fmt.Sprintf("n%02d", i), "v"))
	}
	return tree.Flatten(t)
}

func render(t *testing.T, width, height int, in RenderInput) *Frame {
	t.Helper()
	f := NewFrame(width, height)
	require.NoError(t, Renderer{}.Render(f, in))
	return f
}

func TestRender_Layout(t *testing.T) {
	f := render(t, 120, 20, RenderInput{
		Items:       tree.Flatten(sampleTree()),
		ShowStatus:  true,
		Status:      statusEntries(7)[2:],
		StatusCount: 7,
		Endpoints:   1,
		UpdatedAt:   renderTime,
	})
	lines := f.Lines()

	assert.Equal(t, "MAVLink Inspector", lines[0])
	assert.Equal(t, "Last update: 12:34:56 | 'q' quit | ↑↓ navigate | ←→ collapse/expand | Space toggle | s status | e/c all", lines[1])
	assert.Equal(t, strings.Repeat("─", 119), lines[2])

	assert.Equal(t, "▼ 1:1", lines[3])
	assert.Equal(t, "    System ID: 1", lines[4])
	assert.Equal(t, "    Component ID: 1 MAV_COMP_ID_AUTOPILOT1", lines[5])
	assert.Equal(t, "  ▼ Messages", lines[6])
	assert.Equal(t, "    ▶ ATTITUDE [2 msgs]", lines[7])
	assert.Equal(t, "    ▶ HEARTBEAT [1 msgs]", lines[8])
	assert.Empty(t, lines[9])

	// Panel starts at height - 8 - 1.
	assert.Equal(t, strings.Repeat("─", 119), lines[11])
	assert.Equal(t, "STATUS MESSAGES (press 's' to toggle)", lines[12])
	assert.Equal(t, "[12:34:58] [1:1] msg 2", lines[13])
	assert.Equal(t, "[12:35:02] [1:1] msg 6", lines[17])
	assert.Empty(t, lines[18])

	assert.Equal(t, "Selected: 1/6 | Endpoints: 1 | Status msgs: 7", lines[19])
}

func TestRender_OnlyNewestFiveStatus(t *testing.T) {
	f := render(t, 80, 20, RenderInput{
		Items:      flatLeaves(1),
		ShowStatus: true,
		Status:     statusEntries(9),
		UpdatedAt:  renderTime,
	})
	assert.Equal(t, "[12:35:00] [1:1] msg 4", f.Text(13))
	assert.Equal(t, "[12:35:04] [1:1] msg 8", f.Text(17))
}

func TestRender_StatusHidden(t *testing.T) {
	f := render(t, 80, 20, RenderInput{
		Items:     flatLeaves(30),
		Status:    statusEntries(3),
		UpdatedAt: renderTime,
	})
	for _, line := range f.Lines() {
		assert.NotContains(t, line, "STATUS MESSAGES")
	}
	// Tree runs to the row above the footer.
	assert.Equal(t, "  n15: v", f.Text(18))
}

func TestRender_Styles(t *testing.T) {
	r := &recorder{width: 80, height: 20}
	status := statusEntries(3)
	status[0].Severity = store.SeverityCritical
	status[1].Severity = store.SeverityWarning
	status[2].Severity = store.SeverityDebug

	require.NoError(t, Renderer{}.Render(r, RenderInput{
		Items:      tree.Flatten(sampleTree()),
		Selected:   1,
		ShowStatus: true,
		Status:     status,
		UpdatedAt:  renderTime,
	}))

	assert.Equal(t, Style{Role: RoleTitle}, r.at(0)[0].style)
	assert.Equal(t, Style{Role: RoleBranch}, r.at(3)[0].style)
	assert.Equal(t, Style{Role: RoleLeaf, Selected: true}, r.at(4)[0].style)
	assert.Equal(t, Style{Role: RoleLeaf}, r.at(5)[0].style)
	assert.Equal(t, RoleStatusError, r.at(13)[0].style.Role)
	assert.Equal(t, RoleStatusWarning, r.at(14)[0].style.Role)
	assert.Equal(t, RoleStatusMuted, r.at(15)[0].style.Role)
	assert.Equal(t, Style{Role: RoleFooter}, r.at(19)[0].style)
}

func TestRender_Scroll(t *testing.T) {
	items := flatLeaves(30)

	tests := []struct {
		selected int
		firstRow string
	}{
		{selected: 0, firstRow: "  n00: v"},
		{selected: 11, firstRow: "  n00: v"},
		{selected: 20, firstRow: "  n09: v"},
		{selected: 29, firstRow: "  n18: v"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.selected), func(t *testing.T) {
			r := &recorder{width: 80, height: 20}
			require.NoError(t, Renderer{}.Render(r, RenderInput{Items: items, Selected: tt.selected}))

			f := render(t, 80, 20, RenderInput{Items: items, Selected: tt.selected})
			assert.Equal(t, tt.firstRow, f.Text(3))

			// The selected row is always on screen.
			var found bool
			for _, d := range r.draws {
				if d.style.Selected {
					found = true
					assert.Equal(t, fmt.Sprintf("  n%02d: v", tt.selected), d.text)
				}
			}
			assert.True(t, found)
		})
	}
}

func TestRender_ScrollShortTreeArea(t *testing.T) {
	items := flatLeaves(10)

	// 16 rows with the status panel leaves four tree rows (3..6).
	tests := []struct {
		selected int
		firstRow string
	}{
		{selected: 0, firstRow: "  n00: v"},
		{selected: 3, firstRow: "  n02: v"},
		{selected: 9, firstRow: "  n08: v"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.selected), func(t *testing.T) {
			in := RenderInput{Items: items, Selected: tt.selected, ShowStatus: true}
			r := &recorder{width: 80, height: 16}
			require.NoError(t, Renderer{}.Render(r, in))

			var selected []string
			for _, d := range r.draws {
				if d.style.Selected {
					selected = append(selected, d.text)
				}
			}
			assert.Equal(t, []string{fmt.Sprintf("  n%02d: v", tt.selected)}, selected)

			f := render(t, 80, 16, in)
			assert.Equal(t, tt.firstRow, f.Text(3))
		})
	}
}

func TestRender_EmptyState(t *testing.T) {
	f := render(t, 60, 20, RenderInput{UpdatedAt: renderTime})

	assert.Empty(t, f.Text(3))
	assert.Equal(t, "  Waiting for endpoints... (No data yet)", f.Text(4))
	assert.Equal(t, "Selected: 0/0 | Endpoints: 0 | Status msgs: 0", f.Text(19))
}

func TestRender_Truncation(t *testing.T) {
	long := &tree.Tree{Roots: []*tree.Node{tree.Leaf("field", strings.Repeat("x", 200))}}
	f := render(t, 20, 12, RenderInput{Items: tree.Flatten(long), UpdatedAt: renderTime})

	for row, line := range f.Lines() {
		assert.LessOrEqual(t, ansi.StringWidth(line), 19, "row %d", row)
	}
	assert.Equal(t, "MAVLink Inspector", f.Text(0))
	assert.Equal(t, "Last update: 12:34:", f.Text(1))
	assert.Equal(t, "  field: xxxxxxxxxx", f.Text(3))
}

func TestRender_Idempotent(t *testing.T) {
	in := RenderInput{
		Items:       tree.Flatten(sampleTree()),
		Selected:    3,
		ShowStatus:  true,
		Status:      statusEntries(4),
		StatusCount: 4,
		Endpoints:   1,
		UpdatedAt:   renderTime,
	}
	a := render(t, 100, 30, in)
	b := render(t, 100, 30, in)

	assert.Equal(t, a.Lines(), b.Lines())
	assert.Equal(t, a.String(), b.String())
}

func TestRender_SmallSurface(t *testing.T) {
	in := RenderInput{
		Items:      flatLeaves(10),
		ShowStatus: true,
		Status:     statusEntries(5),
		UpdatedAt:  renderTime,
	}

	for _, size := range [][2]int{{40, 6}, {40, 2}, {2, 1}, {1, 10}, {0, 0}} {
		t.Run(fmt.Sprintf("%dx%d", size[0], size[1]), func(t *testing.T) {
			f := NewFrame(size[0], size[1])
			require.NoError(t, Renderer{}.Render(f, in))
		})
	}

	f := render(t, 40, 6, in)
	assert.Equal(t, "MAVLink Inspector", f.Text(0), "panel never overwrites the header")
	assert.Equal(t, "Selected: 1/10 | Endpoints: 0 | Status", f.Text(5))
}

func TestRender_SurfaceError(t *testing.T) {
	boom := errors.New("terminal gone")
	r := &recorder{width: 80, height: 20, fail: boom}

	err := Renderer{}.Render(r, RenderInput{UpdatedAt: renderTime})
	assert.ErrorIs(t, err, boom)
}

func TestFrame_Draw(t *testing.T) {
	f := NewFrame(10, 2)

	assert.ErrorIs(t, f.Draw(2, 0, "x", Style{}), ErrOutOfBounds)
	assert.ErrorIs(t, f.Draw(0, 10, "x", Style{}), ErrOutOfBounds)
	assert.ErrorIs(t, f.Draw(-1, 0, "x", Style{}), ErrOutOfBounds)

	require.NoError(t, f.Draw(0, 4, "world", Style{}))
	require.NoError(t, f.Draw(0, 0, "hi", Style{}))
	require.NoError(t, f.Draw(1, 6, "clipped", Style{}))

	assert.Equal(t, "hi  world", f.Text(0))
	assert.Equal(t, "      clip", f.Text(1))
	assert.Empty(t, f.Text(5))
}

func TestRowText(t *testing.T) {
	items := tree.Flatten(sampleTree())
	assert.Equal(t, "▼ 1:1", RowText(items[0]))
	assert.Equal(t, "    System ID: 1", RowText(items[1]))
	assert.Equal(t, "    ▶ HEARTBEAT [1 msgs]", RowText(items[5]))
}

func TestStatusLine(t *testing.T) {
	e := store.StatusEntry{Timestamp: renderTime, Endpoint: "1:200", Text: "PreArm: Check fence"}
	assert.Equal(t, "[12:34:56] [1:200] PreArm: Check fence", StatusLine(e))
}
