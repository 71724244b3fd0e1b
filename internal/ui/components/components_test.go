package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenuSkipsDisabled(t *testing.T) {
	var fired string
	item := func(label string, disabled bool) MenuItem {
		return MenuItem{Label: label, Disabled: disabled, Action: func() tea.Cmd {
			fired = label
			return nil
		}}
	}
	m := NewMenu([]MenuItem{item("off", true), item("a", false), item("off2", true), item("b", false)})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down at bottom moved to %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("after up = %d, want 1", m.Selected)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if fired != "a" {
		t.Errorf("fired = %q, want a", fired)
	}
}

func TestOptionListMarksChoice(t *testing.T) {
	o := OptionList{Options: []string{"w", "x", "y", "z"}, Cursor: 2, Chosen: 1, Answer: 3, Width: 60}
	view := o.View()
	if !strings.Contains(view, "● 2)") {
		t.Errorf("chosen marker missing:\n%s", view)
	}
	if !strings.Contains(view, "▸") {
		t.Errorf("cursor missing:\n%s", view)
	}

	o.Reveal = true
	if strings.Contains(o.View(), "▸") {
		t.Error("cursor should be hidden when revealing")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 25, 0},
		{5, 25, 0.2},
		{30, 25, 1},
		{-1, 25, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar("Answered", tt.done, tt.total, 40)
		if got := p.Fraction(); got != tt.want {
			t.Errorf("Fraction(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
		if !strings.Contains(p.View(), "Answered") {
			t.Errorf("%d/%d: label missing", tt.done, tt.total)
		}
	}
	if !strings.Contains(NewProgressBar("", 5, 25, 40).View(), "5/25") {
		t.Error("count missing")
	}
}
