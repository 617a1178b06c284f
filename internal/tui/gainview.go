package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tokf/tokf/internal/gain"
)

// groupMode selects how gainModel aggregates entries for display, cycled
// with the "tab" key.
type groupMode int

const (
	groupTotal groupMode = iota
	groupByFilter
	groupByDay
)

func (g groupMode) label() string {
	switch g {
	case groupByFilter:
		return "by filter"
	case groupByDay:
		return "by day"
	default:
		return "total"
	}
}

var (
	gainTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	gainRowStyle   = lipgloss.NewStyle().Padding(0, 1)
	gainValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	gainHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(1, 1, 0)
)

// gainModel is the bubbletea model backing `tokf gain`'s interactive view:
// a live, re-groupable table of byte-savings entries (§6 "tokf gain
// [--daily|--by-filter|--json]" reimagined as a TUI rather than a single
// static render, mirroring the teacher's model/update/view list-plus-detail
// shape in cmd/tcpo).
type gainModel struct {
	entries []gain.Entry
	mode    groupMode
	cursor  int
	width   int
}

// NewGainModel seeds the viewer with a snapshot of entries already read
// from the gain store; the viewer itself never touches internal/gain's
// bbolt handle, keeping file I/O out of the Update loop.
func NewGainModel(entries []gain.Entry) gainModel {
	return gainModel{entries: entries}
}

func (m gainModel) Init() tea.Cmd {
	return nil
}

func (m gainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.mode = (m.mode + 1) % 3
			m.cursor = 0
			return m, nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			rows := m.rows()
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
			return m, nil
		}
	}
	return m, nil
}

type gainRow struct {
	label string
	bytes int64
}

// rows aggregates m.entries per m.mode, sorted by descending bytes saved
// (largest win first — the row a human scanning the screen most wants).
func (m gainModel) rows() []gainRow {
	if m.mode == groupTotal {
		var total int64
		for _, e := range m.entries {
			total += e.BytesSaved
		}
		return []gainRow{{label: "total", bytes: total}}
	}

	keyOf := func(e gain.Entry) string { return e.FilterName }
	if m.mode == groupByDay {
		keyOf = func(e gain.Entry) string { return e.Day }
	}

	totals := make(map[string]int64)
	for _, e := range m.entries {
		totals[keyOf(e)] += e.BytesSaved
	}
	rows := make([]gainRow, 0, len(totals))
	for k, v := range totals {
		rows = append(rows, gainRow{label: k, bytes: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].bytes > rows[j].bytes })
	return rows
}

func (m gainModel) View() string {
	var b strings.Builder
	b.WriteString(gainTitleStyle.Render(fmt.Sprintf("tokf gain — %s", m.mode.label())))
	b.WriteString("\n\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(gainRowStyle.Render("no gain data recorded yet"))
	}
	for i, r := range rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-20s %s", cursor, r.label, gainValueStyle.Render(gain.FormatBytes(r.bytes)))
		b.WriteString(gainRowStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(gainHelpStyle.Render("tab: change grouping · ↑/↓: select · q: quit"))
	return b.String()
}

// RunGainView drives the interactive gain viewer to completion (until the
// user quits).
func RunGainView(entries []gain.Entry) error {
	_, err := tea.NewProgram(NewGainModel(entries)).Run()
	return err
}
