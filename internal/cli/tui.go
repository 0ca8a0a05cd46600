package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/asnlabels/pkg/sheet"
	"github.com/matzehuels/asnlabels/pkg/units"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// sheetHeaders are the column titles of the sheet table.
var sheetHeaders = []string{"Type", "Name", "Grid", "Per page", "Label", "Page"}

// sheetRow returns the table cells describing t.
func sheetRow(t sheet.Type) []string {
	return []string{
		fmt.Sprint(t.ID),
		t.Name,
		fmt.Sprintf("%dx%d", t.Columns, t.Rows),
		fmt.Sprint(t.PerPage()),
		units.FormatLength(t.LabelWidth) + " x " + units.FormatLength(t.LabelHeight),
		pageName(t.Page),
	}
}

func pageName(p sheet.PageSize) string {
	switch p {
	case sheet.A4:
		return "A4"
	case sheet.Letter:
		return "Letter"
	}
	return units.FormatLength(p.Width) + " x " + units.FormatLength(p.Height)
}

// sheetTable renders types as a bordered table.
func sheetTable(types []sheet.Type) string {
	rows := make([][]string, len(types))
	for i, t := range types {
		rows[i] = sheetRow(t)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(sheetHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// =============================================================================
// SheetListModel - Interactive label sheet selection
// =============================================================================

// SheetListModel is the bubbletea model for interactive sheet selection.
type SheetListModel struct {
	Types    []sheet.Type
	Cursor   int
	Selected *sheet.Type
	Height   int
	Offset   int
}

// NewSheetListModel creates a new sheet list model.
func NewSheetListModel(types []sheet.Type) SheetListModel {
	return SheetListModel{
		Types:  types,
		Height: 15,
	}
}

func (m SheetListModel) Init() tea.Cmd {
	return nil
}

func (m SheetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Types)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Types) == 0 {
				return m, tea.Quit
			}
			t := m.Types[m.Cursor]
			m.Selected = &t
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

func (m SheetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Label Sheet"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Types))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, sheetRow(m.Types[i])...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, sheetHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Types))))

	return b.String()
}
