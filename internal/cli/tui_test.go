package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pcleckler/UmlConversion/pkg/pipeline"
	"github.com/pcleckler/UmlConversion/pkg/render/plantuml"
)

func testDocuments(labels ...string) []pipeline.Document {
	docs := make([]pipeline.Document, len(labels))
	for i, l := range labels {
		docs[i] = pipeline.Document{
			Planned:  plantuml.Planned{Document: plantuml.Document{Module: "shop", Label: l}},
			FileName: "shop." + strings.ReplaceAll(l, " ", "") + ".uml",
			Text:     "@startUml\n@endUml\n",
			Types:    i + 1,
		}
	}
	return docs
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m GroupListModel, keys ...string) (GroupListModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(GroupListModel)
	}
	return m, cmd
}

func TestGroupListModelNavigation(t *testing.T) {
	m := NewGroupListModel(testDocuments("All Exported Types", "Reference Group 1", "No References"))

	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"down", []string{"down"}, 1},
		{"vim keys", []string{"j", "j", "k"}, 1},
		{"clamped at end", []string{"down", "down", "down", "down"}, 2},
		{"clamped at start", []string{"up", "k"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := update(t, m, tt.keys...)
			if got.Cursor != tt.want {
				t.Errorf("Cursor = %d, want %d", got.Cursor, tt.want)
			}
		})
	}
}

func TestGroupListModelSelect(t *testing.T) {
	m := NewGroupListModel(testDocuments("All Exported Types", "Reference Group 1"))

	got, cmd := update(t, m, "down", "enter")
	if cmd == nil {
		t.Fatal("enter should quit")
	}
	if got.Selected == nil || got.Selected.Label != "Reference Group 1" {
		t.Errorf("Selected = %+v, want Reference Group 1", got.Selected)
	}
}

func TestGroupListModelQuit(t *testing.T) {
	m := NewGroupListModel(testDocuments("All Exported Types"))

	got, cmd := update(t, m, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if got.Selected != nil {
		t.Error("quitting should not select a document")
	}
}

func TestGroupListModelScrolls(t *testing.T) {
	m := NewGroupListModel(testDocuments("A", "B", "C", "D", "E", "F", "G", "H"))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	m = next.(GroupListModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want minimum of 5", m.Height)
	}

	m, _ = update(t, m, "down", "down", "down", "down", "down", "down")
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
}

func TestGroupListModelView(t *testing.T) {
	m := NewGroupListModel(testDocuments("All Exported Types", "No References"))
	view := m.View()

	for _, want := range []string{"Select Document", "All Exported Types", "shop.NoReferences.uml", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
