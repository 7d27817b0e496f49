package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/notes"
)

// =============================================================================
// MapListModel - Interactive mind map selection
// =============================================================================

// MapListModel is the bubbletea model for picking a mind map.
type MapListModel struct {
	Maps     []notes.Summary
	Cursor   int
	Selected *notes.Summary
	Height   int
	Offset   int
}

// NewMapListModel creates a new map list model.
func NewMapListModel(maps []notes.Summary) MapListModel {
	return MapListModel{Maps: maps, Height: 15}
}

func (m MapListModel) Init() tea.Cmd {
	return nil
}

func (m MapListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Maps)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Maps) == 0 {
				return m, tea.Quit
			}
			sel := m.Maps[m.Cursor]
			m.Selected = &sel
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
	}
	return m, nil
}

func (m MapListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Mind Map"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Maps))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		mm := m.Maps[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, mm.ID, mm.Name, strconv.Itoa(mm.Nodes)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return StyleDim
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Maps))))

	return b.String()
}

// pickMap lets the user choose one of their maps. It returns "" when the
// picker is dismissed.
func (c *CLI) pickMap(ctx context.Context, s *session) (string, error) {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return "", errors.InvalidInput("no map ID given; pass one or run in a terminal to pick interactively")
	}
	maps, err := s.service.ListMaps(ctx, s.user)
	if err != nil {
		return "", err
	}
	if len(maps) == 0 {
		c.out().info("No mind maps yet")
		return "", nil
	}

	final, err := tea.NewProgram(NewMapListModel(maps), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	if sel := final.(MapListModel).Selected; sel != nil {
		return sel.ID, nil
	}
	return "", nil
}
