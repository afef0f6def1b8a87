package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/matchdeck/internal/cache"
	"github.com/amishk599/matchdeck/internal/controller"
	"github.com/amishk599/matchdeck/internal/model"
	"github.com/amishk599/matchdeck/internal/paging"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	rowTitleStyle = lipgloss.NewStyle().
			Bold(true)

	rowSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedRowTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedRowSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	inertRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	pageCurrentStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24")).
				Padding(0, 1)

	pageNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(1, 2)

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	explanationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

type viewState int

const (
	viewBoard viewState = iota
	viewDetail
)

// stateMsg is sent after a controller operation completes.
type stateMsg struct {
	snap controller.Snapshot
}

// explanationMsg is sent when an async "why this match" fetch completes.
type explanationMsg struct {
	jobID int64
	text  string
	err   error
}

// jobSavedMsg is sent when a save-for-later write completes.
type jobSavedMsg struct {
	jobID int64
	err   error
}

type spinnerTickMsg struct{}

type browseModel struct {
	ctrl  *controller.Controller
	expl  model.ExplanationFetcher
	saved model.SavedStore

	snap   controller.Snapshot
	cursor int
	frame  int
	width  int
	height int

	view           viewState
	detailRec      model.Recommendation
	detailText     string
	detailLoading  bool
	detailError    string
	detailViewport viewport.Model

	statusLine string
}

// NewBrowse creates the browse model over an already-initialized controller.
func NewBrowse(ctrl *controller.Controller, expl model.ExplanationFetcher, saved model.SavedStore) tea.Model {
	return browseModel{
		ctrl:  ctrl,
		expl:  expl,
		saved: saved,
		snap:  ctrl.Snapshot(),
	}
}

// Run starts the interactive browse UI and blocks until the user quits.
func Run(ctrl *controller.Controller, expl model.ExplanationFetcher, saved model.SavedStore) error {
	p := tea.NewProgram(NewBrowse(ctrl, expl, saved), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.ensureTotalCmd(), m.tick())
}

func (m browseModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// ensureTotalCmd runs the lazy total-count probe so the pager can render.
func (m browseModel) ensureTotalCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		ctrl.EnsureTotal(ctx)
		return stateMsg{snap: ctrl.Snapshot()}
	}
}

func (m browseModel) changePageCmd(n int) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		ctrl.ChangePage(ctx, n)
		return stateMsg{snap: ctrl.Snapshot()}
	}
}

func (m browseModel) refreshCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		ctrl.Refresh(ctx)
		return stateMsg{snap: ctrl.Snapshot()}
	}
}

func (m browseModel) explainCmd(jobID int64) tea.Cmd {
	expl := m.expl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		text, err := expl.FetchExplanation(ctx, jobID)
		return explanationMsg{jobID: jobID, text: text, err: err}
	}
}

func (m browseModel) saveCmd(rec model.Recommendation) tea.Cmd {
	saved := m.saved
	return func() tea.Msg {
		var id int64
		if rec.ID != nil {
			id = *rec.ID
		}
		return jobSavedMsg{jobID: id, err: saved.Save(rec)}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case stateMsg:
		m.snap = msg.snap
		if m.cursor >= len(m.board()) {
			m.cursor = 0
		}
		return m, nil

	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		if m.detailLoading && m.view == viewDetail {
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, m.tick()

	case explanationMsg:
		m.detailLoading = false
		if msg.err != nil {
			m.detailError = fmt.Sprintf("failed to load explanation: %v", msg.err)
		} else {
			m.detailError = ""
			m.detailText = msg.text
		}
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil

	case jobSavedMsg:
		if msg.err != nil {
			m.statusLine = fmt.Sprintf("save failed: %v", msg.err)
		} else {
			m.statusLine = fmt.Sprintf("saved job %d for later", msg.jobID)
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateBoardView(msg)
	}

	return m, nil
}

func (m browseModel) updateBoardView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.board())-1 {
			m.cursor++
		}
		return m, nil
	case "left", "h":
		if m.snap.CurrentPage > 1 {
			return m, m.changePageCmd(m.snap.CurrentPage - 1)
		}
		return m, nil
	case "right", "l":
		if m.snap.CurrentPage < m.snap.TotalPages {
			return m, m.changePageCmd(m.snap.CurrentPage + 1)
		}
		return m, nil
	case "r":
		m.statusLine = ""
		return m, m.refreshCmd()
	case "s":
		rec := m.selected()
		if rec.ID == nil {
			return m, nil
		}
		return m, m.saveCmd(rec)
	case "enter":
		return m.openDetailView()
	}
	return m, nil
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace", "b":
		m.view = viewBoard
		return m, nil
	case "s":
		if m.detailRec.ID != nil {
			return m, m.saveCmd(m.detailRec)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	rec := m.selected()
	// Inert padding rows are not navigation targets.
	if rec.ID == nil {
		return m, nil
	}

	m.view = viewDetail
	m.detailRec = rec
	m.detailText = ""
	m.detailError = ""
	m.detailLoading = true
	m.detailViewport = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
	m.detailViewport.SetContent(m.renderDetail())
	return m, m.explainCmd(*rec.ID)
}

// board returns the rows to render: the first page is always padded to a
// fixed five-row layout, later pages render what they have.
func (m browseModel) board() []model.Recommendation {
	if m.snap.IsFirstPage {
		return cache.PadToBoard(m.snap.Recommendations)
	}
	return m.snap.Recommendations
}

func (m browseModel) selected() model.Recommendation {
	rows := m.board()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return model.Recommendation{}
	}
	return rows[m.cursor]
}

func (m browseModel) View() string {
	if m.view == viewDetail {
		return m.detailViewport.View()
	}

	var b strings.Builder
	title := "Best matches"
	if !m.snap.IsFirstPage {
		title = fmt.Sprintf("Recommendations — page %d", m.snap.CurrentPage)
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	switch m.snap.Phase {
	case controller.PhaseLoading:
		b.WriteString(fmt.Sprintf("\n  %s loading recommendations...\n", spinnerFrames[m.frame]))
	case controller.PhaseError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("could not load recommendations: %v", m.snap.Err)))
		b.WriteString("\n")
	case controller.PhaseUninitialized:
		b.WriteString("\n  sign in to see your matches\n")
	default:
		for i, rec := range m.board() {
			b.WriteString(m.renderRow(i, rec))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderPager())
	b.WriteString("\n")

	status := m.statusLine
	if status == "" {
		status = "↑/↓ select · ←/→ page · enter explain · s save · r refresh · q quit"
	}
	b.WriteString(statusBarStyle.Render(status))
	return b.String()
}

func (m browseModel) renderRow(i int, rec model.Recommendation) string {
	titleStyle, subStyle := rowTitleStyle, rowSubtitleStyle
	if i == m.cursor {
		titleStyle, subStyle = selectedRowTitleStyle, selectedRowSubtitleStyle
	}

	if rec.Inert() {
		return inertRowStyle.Render("  —") + "\n\n"
	}

	title := "(untitled role)"
	if rec.Title != nil {
		title = *rec.Title
	}
	if rec.Similarity != nil {
		title = fmt.Sprintf("%s  ·  %.0f%% match", title, *rec.Similarity*100)
	}

	var subParts []string
	if rec.Company != nil {
		subParts = append(subParts, *rec.Company)
	}
	if rec.TechStack != nil {
		subParts = append(subParts, *rec.TechStack)
	}
	sub := strings.Join(subParts, "  ·  ")

	out := "  " + titleStyle.Render(title) + "\n"
	if sub != "" {
		out += "  " + subStyle.Render(sub) + "\n"
	} else {
		out += "\n"
	}
	return out
}

func (m browseModel) renderPager() string {
	if !m.snap.CountKnown && m.snap.TotalPages <= 1 {
		return pageNumberStyle.Render(fmt.Sprintf("page %d", m.snap.CurrentPage))
	}

	window := paging.VisiblePageWindow(m.snap.CurrentPage, m.snap.TotalPages, paging.WindowSize)
	parts := make([]string, 0, len(window)+1)
	for _, p := range window {
		if p == m.snap.CurrentPage {
			parts = append(parts, pageCurrentStyle.Render(fmt.Sprintf("%d", p)))
		} else {
			parts = append(parts, pageNumberStyle.Render(fmt.Sprintf("%d", p)))
		}
	}
	parts = append(parts, pageNumberStyle.Render(fmt.Sprintf("(%d jobs)", m.snap.TotalJobs)))
	return "  " + strings.Join(parts, "")
}

func (m browseModel) renderDetail() string {
	var b strings.Builder
	b.WriteString("\n")

	writeField := func(label string, value *string) {
		if value == nil {
			return
		}
		b.WriteString("  " + detailLabelStyle.Render(label) + *value + "\n")
	}
	writeField("Title", m.detailRec.Title)
	writeField("Company", m.detailRec.Company)
	writeField("Tech stack", m.detailRec.TechStack)
	if m.detailRec.Similarity != nil {
		sim := fmt.Sprintf("%.0f%%", *m.detailRec.Similarity*100)
		b.WriteString("  " + detailLabelStyle.Render("Match") + sim + "\n")
	}

	b.WriteString("\n  " + detailLabelStyle.Render("Why this match") + "\n\n")
	switch {
	case m.detailLoading:
		b.WriteString(fmt.Sprintf("  %s fetching explanation...\n", spinnerFrames[m.frame]))
	case m.detailError != "":
		b.WriteString(errorStyle.Render(m.detailError) + "\n")
	default:
		b.WriteString("  " + explanationStyle.Render(m.detailText) + "\n")
	}

	b.WriteString("\n  " + statusBarStyle.Render("esc back · s save · q quit"))
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
