package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pcleckler/UmlConversion/pkg/pipeline"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
)

// =============================================================================
// GroupListModel - Interactive document selection
// =============================================================================

// GroupListModel is the bubbletea model for picking one rendered document.
type GroupListModel struct {
	Documents []pipeline.Document
	Cursor    int
	Selected  *pipeline.Document
	Height    int
	Offset    int
}

// NewGroupListModel creates a new document list model.
func NewGroupListModel(docs []pipeline.Document) GroupListModel {
	return GroupListModel{
		Documents: docs,
		Height:    15,
	}
}

func (m GroupListModel) Init() tea.Cmd {
	return nil
}

func (m GroupListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Documents)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Documents) == 0 {
				return m, tea.Quit
			}
			doc := m.Documents[m.Cursor]
			m.Selected = &doc
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m GroupListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Document"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ print  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Documents))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, documentRow(cursor, m.Documents[i]))
	}

	t := documentTable(rows).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorOK).Bold(true)
			}
			if col == 0 || col >= 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Documents))))

	return b.String()
}

// =============================================================================
// Table helpers
// =============================================================================

// documentTable returns the bordered table shared by the picker and the
// plain groups listing.
func documentTable(rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("", "Document", "Types", "Group ID", "File").
		Rows(rows...)
}

func documentRow(cursor string, d pipeline.Document) []string {
	id := "—"
	if d.Group != nil {
		id = d.Group.ID.String()[:8]
	}
	return []string{cursor, d.Label, fmt.Sprint(d.Types), id, d.FileName}
}
