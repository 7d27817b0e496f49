package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/mindmap/pkg/notes"
)

func testSummaries(n int) []notes.Summary {
	maps := make([]notes.Summary, n)
	for i := range maps {
		maps[i] = notes.Summary{ID: "MM-" + strings.Repeat("A", i+1), Name: "map", Nodes: i}
	}
	return maps
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapListModelNavigation(t *testing.T) {
	var model tea.Model = NewMapListModel(testSummaries(3))

	for _, k := range []string{"down", "j", "j", "up"} {
		model, _ = model.Update(key(k))
	}
	m := model.(MapListModel)
	if m.Cursor != 1 {
		t.Fatalf("Cursor = %d, want 1", m.Cursor)
	}

	model, cmd := m.Update(key("enter"))
	m = model.(MapListModel)
	if m.Selected == nil || m.Selected.ID != "MM-AA" {
		t.Errorf("Selected = %+v, want MM-AA", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit")
	}
}

func TestMapListModelQuitWithoutSelection(t *testing.T) {
	model, cmd := NewMapListModel(testSummaries(2)).Update(key("q"))
	if model.(MapListModel).Selected != nil {
		t.Error("q should not select")
	}
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestMapListModelScrolls(t *testing.T) {
	var model tea.Model = NewMapListModel(testSummaries(10))
	model, _ = model.Update(tea.WindowSizeMsg{Height: 11})
	for range 5 {
		model, _ = model.Update(key("down"))
	}
	m := model.(MapListModel)
	if m.Height != 3 || m.Offset != 3 {
		t.Errorf("Height/Offset = %d/%d, want 3/3", m.Height, m.Offset)
	}
	if !strings.Contains(m.View(), "[6/10]") {
		t.Errorf("view missing position:\n%s", m.View())
	}
}
