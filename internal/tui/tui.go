// Package tui provides a Bubble Tea terminal user interface for searching
// the radiotracks cache.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/handiism/radiotracks/internal/catalog"
	"github.com/handiism/radiotracks/internal/config"
	ioutils "github.com/handiism/radiotracks/internal/io"
	"github.com/handiism/radiotracks/internal/model"
	"github.com/handiism/radiotracks/internal/search"
	"github.com/sirupsen/logrus"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	coverBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4"))
)

const (
	maxLogs    = 10
	maxArtists = 5

	emptyQueryWarning = "Please enter a search term."
)

// State represents the current UI state.
type State int

const (
	StateSyncing State = iota
	StateReady
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   catalog.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	table     table.Model
	spinner   spinner.Model
	logs      []LogEntry
	err       error

	catalog *catalog.Catalog
	dataset *catalog.Dataset
	events  <-chan catalog.ProgressEvent

	query   string
	results []model.TitleSummary
	artists []string
	warning string

	covers      CoverFetcher
	images      *ioutils.ImageService
	coverArt    map[string]string
	coverFailed map[string]bool
	coverBusy   map[string]bool

	verbose bool

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// NewModel creates a new TUI model.
//
// events may be nil when the catalog reports no progress.
func NewModel(cat *catalog.Catalog, covers CoverFetcher, events <-chan catalog.ProgressEvent) Model {
	ti := textinput.New()
	ti.Placeholder = "Artist name"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Cover", Width: 5},
			{Title: "Title", Width: 40},
			{Title: "Last on air", Width: 16},
			{Title: "Count", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#6C757D")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#1D1D1D")).
		Background(lipgloss.Color("#4ECDC4"))
	tbl.SetStyles(styles)

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:       StateSyncing,
		textInput:   ti,
		table:       tbl,
		spinner:     sp,
		logs:        make([]LogEntry, 0),
		catalog:     cat,
		events:      events,
		covers:      covers,
		images:      ioutils.NewImageService(),
		coverArt:    make(map[string]string),
		coverFailed: make(map[string]bool),
		coverBusy:   make(map[string]bool),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.loadDataset(false), m.waitForProgress())
}

// Message types
type (
	// ProgressMsg is sent for each catalog progress event.
	ProgressMsg struct {
		Event catalog.ProgressEvent
	}

	// SyncDoneMsg is sent when a catalog sync finishes.
	SyncDoneMsg struct {
		Dataset *catalog.Dataset
		Err     error
	}

	// CacheChangedMsg is sent when another process rewrote the cache file.
	CacheChangedMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(clamp(msg.Height-20, 5, 30))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit

		case "enter":
			cmds = append(cmds, m.runSearch())

		case "ctrl+r":
			if m.state != StateSyncing {
				m.state = StateSyncing
				m.err = nil
				return m, tea.Batch(m.loadDataset(true), m.spinner.Tick)
			}

		case "up", "down", "pgup", "pgdown":
			prev := m.table.Cursor()
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
			if m.table.Cursor() != prev {
				cmds = append(cmds, m.selectCover())
			}
			return m, tea.Batch(cmds...)
		}

	case spinner.TickMsg:
		if m.state == StateSyncing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case ProgressMsg:
		cmds = append(cmds, m.waitForProgress())
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == catalog.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case SyncDoneMsg:
		if msg.Err != nil {
			if m.ctx.Err() != nil {
				msg.Err = fmt.Errorf("cancelled by user")
			}
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.state = StateReady
		m.dataset = msg.Dataset
		if m.query != "" {
			// Refresh the visible results against the new data.
			cmds = append(cmds, m.applyQuery(m.query))
		}

	case CacheChangedMsg:
		if m.state == StateReady {
			m.state = StateSyncing
			cmds = append(cmds, m.loadDataset(false), m.spinner.Tick)
		}

	case CoverMsg:
		delete(m.coverBusy, msg.URL)
		if msg.Err != nil {
			m.coverFailed[msg.URL] = true
			m.logs = append(m.logs, LogEntry{Message: fmt.Sprintf("Cover unavailable: %v", msg.Err), Level: catalog.LevelWarning})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		} else {
			m.coverArt[msg.URL] = msg.Art
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// runSearch aggregates the dataset for the current input.
func (m *Model) runSearch() tea.Cmd {
	if m.dataset == nil {
		m.warning = "The track cache is still loading."
		return nil
	}
	return m.applyQuery(m.textInput.Value())
}

func (m *Model) applyQuery(query string) tea.Cmd {
	summaries, err := search.Aggregate(m.dataset.Tracks, query)
	if errors.Is(err, search.ErrEmptyQuery) {
		m.query = ""
		m.results = nil
		m.artists = nil
		m.warning = emptyQueryWarning
		m.table.SetRows(nil)
		return nil
	}

	m.query = strings.TrimSpace(query)
	m.results = summaries
	m.artists = search.Artists(m.dataset.Tracks, m.query, maxArtists)
	m.warning = ""
	if len(summaries) == 0 {
		m.warning = fmt.Sprintf("No tracks found for %q.", m.query)
	}

	rows := make([]table.Row, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, summaryRow(s))
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
	return m.selectCover()
}

func summaryRow(s model.TitleSummary) table.Row {
	cover := ""
	if s.HasImage() {
		cover = "  ●"
	}
	return table.Row{cover, s.Title, humanize.Time(s.LastSeen), strconv.Itoa(s.Count)}
}

// selectCover starts loading the cover of the selected row if needed.
func (m *Model) selectCover() tea.Cmd {
	s, ok := m.selected()
	if !ok || !s.HasImage() || m.covers == nil {
		return nil
	}
	url := s.ImageURL
	if _, ok := m.coverArt[url]; ok || m.coverFailed[url] || m.coverBusy[url] {
		return nil
	}
	m.coverBusy[url] = true
	return loadCover(m.ctx, m.covers, m.images, url)
}

func (m Model) selected() (model.TitleSummary, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.results) {
		return model.TitleSummary{}, false
	}
	return m.results[i], true
}

// loadDataset syncs the catalog in the background. force skips the memo.
func (m Model) loadDataset(force bool) tea.Cmd {
	return func() tea.Msg {
		var (
			ds  *catalog.Dataset
			err error
		)
		if force {
			ds, err = m.catalog.Sync(m.ctx)
		} else {
			ds, err = m.catalog.Dataset(m.ctx)
		}
		return SyncDoneMsg{Dataset: ds, Err: err}
	}
}

func (m Model) waitForProgress() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Vertical Radio Music Tracks"))
	b.WriteString("\n")

	switch m.state {
	case StateSyncing:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Syncing track cache..."))
		b.WriteString("\n\n")
	case StateError:
		b.WriteString(m.viewError())
		b.WriteString("\n")
	default:
		b.WriteString(dimStyle.Render(m.datasetSummary()))
		b.WriteString("\n\n")
	}

	b.WriteString(subtitleStyle.Render("Search for an artist:"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if m.warning != "" {
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n\n")
	}

	if len(m.results) > 0 {
		if len(m.artists) > 0 {
			b.WriteString(dimStyle.Render("Artists: " + strings.Join(m.artists, ", ")))
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.table.View(), "  ", m.viewCover()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) datasetSummary() string {
	if m.dataset == nil {
		return ""
	}
	if !m.dataset.HasWatermark {
		return "The track cache is empty"
	}
	return fmt.Sprintf("%d plays cached, latest %s",
		len(m.dataset.Tracks), humanize.Time(m.dataset.Watermark))
}

func (m Model) viewCover() string {
	s, ok := m.selected()
	if !ok {
		return ""
	}
	switch {
	case !s.HasImage():
		return dimStyle.Render("No cover")
	case m.coverFailed[s.ImageURL]:
		return dimStyle.Render("Cover unavailable")
	}
	art, ok := m.coverArt[s.ImageURL]
	if !ok {
		return dimStyle.Render("Loading cover...")
	}
	return coverBoxStyle.Render(art)
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case catalog.LevelError:
			style = errorStyle
			prefix = "✗"
		case catalog.LevelWarning:
			style = warningStyle
			prefix = "!"
		case catalog.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case catalog.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateSyncing:
		return "enter: search • esc: quit"
	case StateError:
		return "ctrl+r: retry • esc: quit"
	}
	return "enter: search • ↑/↓: select • ctrl+r: refresh • esc: quit"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger logrus.FieldLogger) error {
	events := make(chan catalog.ProgressEvent, 64)
	cat, fetcher := catalog.NewFromSettings(settings, logger,
		catalog.WithProgress(func(event catalog.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		}),
	)

	m := NewModel(cat, fetcher, events)
	m.verbose = settings.Logging.Level == "debug" || settings.Logging.Level == "trace"

	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := cat.Watch(ctx, func() { p.Send(CacheChangedMsg{}) }); err != nil {
		logger.WithError(err).Warn("Cache watcher unavailable")
	}

	_, err := p.Run()
	return err
}
