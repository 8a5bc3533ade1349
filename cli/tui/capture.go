package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/irminsul-dev/irminsul/metrics"
	"github.com/irminsul-dev/irminsul/session"
	"github.com/irminsul-dev/irminsul/types"
)

// refreshInterval is how often the view re-reads session state.
const refreshInterval = 500 * time.Millisecond

// ExportFunc writes an export and returns the storage path.
type ExportFunc func() (string, error)

// CaptureModel is the Bubble Tea model for the live capture view.
type CaptureModel struct {
	session   *session.Session
	collector *metrics.Collector
	exportFn  ExportFunc

	spin      spinner.Model
	width     int
	height    int
	quitting  bool
	exporting bool

	lastExportPath string
	lastExportErr  error
}

// NewCaptureModel creates the live capture model. exportFn may be nil to
// disable the export key.
func NewCaptureModel(sess *session.Session, collector *metrics.Collector, exportFn ExportFunc) CaptureModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = WarningStyle
	return CaptureModel{
		session:   sess,
		collector: collector,
		exportFn:  exportFn,
		spin:      sp,
	}
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
	err  error
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m CaptureModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, tick())
}

// Update implements tea.Model.
func (m CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Export):
			if m.exportFn == nil || m.exporting {
				return m, nil
			}
			m.exporting = true
			fn := m.exportFn
			return m, func() tea.Msg {
				path, err := fn()
				return exportDoneMsg{path: path, err: err}
			}
		}

	case tickMsg:
		return m, tick()

	case exportDoneMsg:
		m.exporting = false
		m.lastExportPath = msg.path
		m.lastExportErr = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m CaptureModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Irminsul — Live Inventory Capture"))
	b.WriteString("\n")

	meta := m.session.Meta()
	b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("Session:"), ValueStyle.Render(meta.SessionID)))
	uid := "waiting for handshake"
	if meta.UID != 0 {
		uid = fmt.Sprintf("%d", meta.UID)
	}
	b.WriteString(fmt.Sprintf("%s %s\n\n", LabelStyle.Render("UID:"), ValueStyle.Render(uid)))

	for _, cat := range types.Categories() {
		b.WriteString(m.renderCategory(cat))
		b.WriteString("\n")
	}

	snap := m.collector.Snapshot()
	b.WriteString(fmt.Sprintf("\n%s %s received, %s dropped\n",
		LabelStyle.Render("Messages:"),
		CountStyle.Render(fmt.Sprintf("%d", snap.MessagesReceived)),
		MutedStyle.Render(fmt.Sprintf("%d", snap.MessagesDropped))))

	if m.session.Complete() {
		b.WriteString(SuccessStyle.Render("All required categories complete — inventory is exportable"))
		b.WriteString("\n")
	}

	switch {
	case m.exporting:
		b.WriteString(WarningStyle.Render(m.spin.View() + " exporting..."))
		b.WriteString("\n")
	case m.lastExportErr != nil:
		b.WriteString(ErrorStyle.Render("export failed: " + m.lastExportErr.Error()))
		b.WriteString("\n")
	case m.lastExportPath != "":
		b.WriteString(SuccessStyle.Render("export written: " + m.lastExportPath))
		b.WriteString("\n")
	}

	help := "Press q to quit"
	if m.exportFn != nil {
		help = "Press e to export, q to quit"
	}
	b.WriteString(HelpStyle.Render(help))

	return BoxStyle.Render(b.String())
}

// renderCategory renders one category progress line.
func (m CaptureModel) renderCategory(cat types.Category) string {
	status := m.session.Status(cat)
	received, expected, known := m.session.Progress(cat)
	count := m.session.Count(cat)

	icon := MutedStyle.Render("·")
	switch status {
	case types.EnumComplete:
		icon = SuccessStyle.Render("✓")
	case types.EnumInProgress:
		icon = m.spin.View()
	}

	progress := fmt.Sprintf("%d pages", received)
	if known {
		progress = fmt.Sprintf("%d/%d pages", received, expected)
	}

	return fmt.Sprintf("%s %s %s %s",
		icon,
		StatusStyle(status).Width(10).Render(string(cat)),
		CountStyle.Render(fmt.Sprintf("%5d", count)),
		MutedStyle.Render(progress))
}

// keyMap defines key bindings.
type keyMap struct {
	Quit   key.Binding
	Export key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
}

// RunCaptureTUI runs the live capture view until the user quits.
func RunCaptureTUI(sess *session.Session, collector *metrics.Collector, exportFn ExportFunc) error {
	model := NewCaptureModel(sess, collector, exportFn)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
