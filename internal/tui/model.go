package tui

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/oraspectre/internal/models"
)

// mode represents the current UI interaction mode.
type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilterRisk
)

const defaultTableHeight = 15

// Model is the top-level Bubble Tea model for the run browser.
type Model struct {
	// Data (immutable after init)
	run        *models.AuditRun
	errHistory []int
	allResults []models.CheckResult

	// UI state
	table           table.Model
	searchInput     textinput.Model
	filteredResults []models.CheckResult
	filters         filterState
	sortBy          sortField
	mode            mode
	riskChoices     []string
	riskCursor      int
	width           int
	height          int
	statusMsg       string
	// clipboard is captured here for testing instead of writing to stdout
	clipboard string
}

// New creates a new TUI model from a stored audit run. errHistory holds
// error-marked counts of recent runs, oldest first, for the header
// sparkline.
func New(run *models.AuditRun, errHistory []int) Model {
	results := make([]models.CheckResult, len(run.Results))
	copy(results, run.Results)

	sortResults(results, sortByRisk)
	rows := buildRows(results)
	t := newTable(rows, defaultTableHeight)

	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = 64

	return Model{
		run:             run,
		errHistory:      errHistory,
		allResults:      results,
		filteredResults: results,
		table:           t,
		searchInput:     ti,
		sortBy:          sortByRisk,
		mode:            modeNormal,
		riskChoices:     uniqueRisks(results),
		width:           80,
		height:          24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		tableH := msg.Height - headerHeight - detailHeight - 3
		if tableH < 3 {
			tableH = 3
		}
		m.table.SetHeight(tableH)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	default:
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeFilterRisk:
		return m.handleFilterRiskKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.FilterRisk):
		m.mode = modeFilterRisk
		m.riskCursor = 0
		return m, nil
	case key.Matches(msg, keys.Sort):
		m.sortBy = (m.sortBy + 1) % sortField(sortFieldCount)
		m.rebuildTable()
		m.statusMsg = fmt.Sprintf("Sort: %s", sortFieldName(m.sortBy))
		return m, nil
	case key.Matches(msg, keys.Copy):
		m.copySelectedCheck()
		return m, nil
	case key.Matches(msg, keys.ClearFilter):
		m.filters = filterState{}
		m.statusMsg = ""
		m.rebuildTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filters.SearchText = m.searchInput.Value()
		m.mode = modeNormal
		m.searchInput.Blur()
		m.rebuildTable()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleFilterRiskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.riskCursor > 0 {
			m.riskCursor--
		}
	case "down", "j":
		if m.riskCursor < len(m.riskChoices) {
			m.riskCursor++
		}
	case "enter":
		if m.riskCursor == 0 {
			m.filters.Risk = ""
		} else if m.riskCursor <= len(m.riskChoices) {
			m.filters.Risk = m.riskChoices[m.riskCursor-1]
		}
		m.mode = modeNormal
		m.rebuildTable()
		if m.filters.Risk != "" {
			m.statusMsg = fmt.Sprintf("Filter: %s", m.filters.Risk)
		} else {
			m.statusMsg = ""
		}
	case "esc":
		m.mode = modeNormal
	}
	return m, nil
}

func (m *Model) rebuildTable() {
	filtered := applyFilters(m.allResults, m.filters)
	sortResults(filtered, m.sortBy)
	m.filteredResults = filtered
	m.table.SetRows(buildRows(filtered))
}

func (m *Model) selectedCheck() *models.CheckResult {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.filteredResults) {
		return nil
	}
	return &m.filteredResults[cursor]
}

// copySelectedCheck writes the selected check to clipboard via OSC 52.
// The copied text matches one section of the plain-text results file.
func (m *Model) copySelectedCheck() {
	res := m.selectedCheck()
	if res == nil {
		m.statusMsg = "Nothing to copy"
		return
	}
	text := fmt.Sprintf("[%s] %s\n%s", res.Definition.ID, res.Definition.Description, res.RawOutput)
	m.clipboard = text
	m.statusMsg = "Copied!"
	// OSC 52 clipboard escape: works in most modern terminals
	fmt.Printf("\033]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(renderHeader(m.run, m.errHistory, m.width))
	b.WriteString("\n")

	// Search bar overlay
	if m.mode == modeSearch {
		b.WriteString(styleSearchPrompt.Render("/ "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	// Risk filter overlay
	if m.mode == modeFilterRisk {
		b.WriteString(m.renderRiskFilter())
		b.WriteString("\n")
	}

	// Table
	b.WriteString(m.table.View())
	b.WriteString("\n")

	// Detail panel
	b.WriteString(renderDetail(m.selectedCheck(), m.width))
	b.WriteString("\n")

	// Footer
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *Model) renderRiskFilter() string {
	var b strings.Builder
	b.WriteString("Filter by risk:\n")

	options := append([]string{"All"}, m.riskChoices...)
	for i, opt := range options {
		cursor := "  "
		if i == m.riskCursor {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, opt))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	left := "q:quit  /:search  r:risk  s:sort  c:copy  esc:clear"
	right := fmt.Sprintf("%d/%d checks", len(m.filteredResults), len(m.allResults))

	if m.statusMsg != "" {
		right = m.statusMsg + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styleFooter.Render(left + strings.Repeat(" ", gap) + right)
}

// Run starts the Bubble Tea program. Called from the show command.
func Run(run *models.AuditRun, errHistory []int) error {
	m := New(run, errHistory)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
