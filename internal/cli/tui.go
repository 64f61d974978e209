package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/grantline/grantline/pkg/collab"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PIListModel - Interactive PI selection
// =============================================================================

// piEntry is one roster row shown by the picker.
type piEntry struct {
	Name       string
	Proposals  int
	Weight     int
	TopPartner string
}

// PIListModel is the bubbletea model for interactive PI selection. The
// chosen name becomes the projection's pin; quitting without choosing
// leaves Selected empty.
type PIListModel struct {
	PIs      []piEntry
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// rosterEntries lists every PI with proposal, collaboration, and top
// partner figures, sorted by name.
func rosterEntries(ix *collab.Index) []piEntry {
	names := ix.Names()
	entries := make([]piEntry, 0, len(names))
	for _, name := range names {
		e := piEntry{
			Name:      name,
			Proposals: ix.Proposals(name),
			Weight:    ix.Weight(name),
		}
		if partners := ix.Partners(name); len(partners) > 0 {
			e.TopPartner = fmt.Sprintf("%s (%d)", partners[0].Name, partners[0].Count)
		}
		entries = append(entries, e)
	}
	return entries
}

// NewPIListModel creates a picker over the index's roster, sorted by
// name.
func NewPIListModel(ix *collab.Index) PIListModel {
	return PIListModel{
		PIs:    rosterEntries(ix),
		Height: 15,
	}
}

func (m PIListModel) Init() tea.Cmd {
	return nil
}

func (m PIListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.PIs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.PIs) > 0 {
				m.Selected = m.PIs[m.Cursor].Name
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PIListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pin a PI"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ pin  q skip"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.PIs) {
		end = len(m.PIs)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.PIs[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		top := e.TopPartner
		if top == "" {
			top = "—"
		}

		rows = append(rows, []string{
			cursor,
			e.Name,
			fmt.Sprintf("%d", e.Proposals),
			fmt.Sprintf("%d", e.Weight),
			top,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "PI", "Proposals", "Collabs", "Top Partner").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.PIs) {
				return lipgloss.NewStyle()
			}
			isCurrent := actualIdx == m.Cursor
			hasCollabs := m.PIs[actualIdx].Weight > 0

			base := lipgloss.NewStyle()
			if isCurrent {
				if hasCollabs {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			if !hasCollabs {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.PIs))))

	return b.String()
}

// pickPI runs the interactive picker and returns the chosen pin, or the
// empty string when the user skips.
func pickPI(ix *collab.Index) (string, error) {
	final, err := tea.NewProgram(NewPIListModel(ix)).Run()
	if err != nil {
		return "", fmt.Errorf("run PI picker: %w", err)
	}
	m, ok := final.(PIListModel)
	if !ok {
		return "", fmt.Errorf("unexpected picker model %T", final)
	}
	return m.Selected, nil
}
