package monitor

import (
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/mavinspect/internal/store"
	"github.com/rileyhilliard/mavinspect/internal/tree"
)

// DefaultInterval is how often the view re-projects the store.
const DefaultInterval = 500 * time.Millisecond

// Source produces the snapshots the view projects. *store.Store satisfies it.
type Source interface {
	Snapshot(now time.Time) *store.Snapshot
}

// Options configures a Model.
type Options struct {
	Interval   time.Duration
	ShowStatus bool
	Clock      clock.Clock
}

// Model is the Bubble Tea model for the inspector. Projection, key handling
// and rendering all run on the bubbletea goroutine, which owns the tree.
type Model struct {
	source    Source
	projector *tree.Projector
	ctrl      *Controller
	renderer  Renderer
	clock     clock.Clock
	interval  time.Duration

	items       []tree.ViewItem
	status      []store.StatusEntry
	statusCount int
	endpoints   int
	updatedAt   time.Time

	width    int
	height   int
	quitting bool
}

// tickMsg signals a periodic re-projection.
type tickMsg time.Time

// NewModel creates the inspector model and takes the first projection.
func NewModel(src Source, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	m := Model{
		source:    src,
		projector: tree.NewProjector(),
		ctrl:      NewController(opts.ShowStatus),
		clock:     opts.Clock,
		interval:  opts.Interval,
	}
	m.refresh()
	return m
}

// Init starts the projection timer.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ctrl.Handle(msg, m.items, m.projector.Current()) {
			m.quitting = true
			return m, tea.Quit
		}
		m.reflatten()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.refresh()
		return m, m.tickCmd()
	}

	return m, nil
}

// View renders the inspector.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.ctrl.ShowHelp {
		return m.renderHelpOverlay()
	}
	f := NewFrame(m.width, m.height)
	// Frame only reports ErrOutOfBounds, which the renderer already skips.
	_ = m.renderer.Render(f, m.renderInput())
	return f.String()
}

// Items returns the rows of the current projection.
func (m Model) Items() []tree.ViewItem { return m.items }

// Selected returns the selected row index.
func (m Model) Selected() int { return m.ctrl.Selected }

// ShowStatus reports whether the status panel is visible.
func (m Model) ShowStatus() bool { return m.ctrl.ShowStatus }

// ShowHelp reports whether the help overlay is visible.
func (m Model) ShowHelp() bool { return m.ctrl.ShowHelp }

// UpdatedAt returns the time of the last projection.
func (m Model) UpdatedAt() time.Time { return m.updatedAt }

func (m Model) renderInput() RenderInput {
	return RenderInput{
		Items:       m.items,
		Selected:    m.ctrl.Selected,
		ShowStatus:  m.ctrl.ShowStatus,
		Status:      m.status,
		StatusCount: m.statusCount,
		Endpoints:   m.endpoints,
		UpdatedAt:   m.updatedAt,
	}
}

// refresh snapshots the source and builds the next tree generation.
func (m *Model) refresh() {
	now := m.clock.Now()
	snap := m.source.Snapshot(now)
	m.projector.Build(snap)

	m.updatedAt = now
	m.endpoints = len(snap.Endpoints)
	m.statusCount = len(snap.Status)
	m.status = snap.Status
	if len(m.status) > StatusVisible {
		m.status = m.status[len(m.status)-StatusVisible:]
	}
	m.reflatten()
}

func (m *Model) reflatten() {
	m.items = tree.Flatten(m.projector.Current())
	m.ctrl.Clamp(len(m.items))
}

// tickCmd returns a command that sends a tick after the projection interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
