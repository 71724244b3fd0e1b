package message

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMessageScreen(t *testing.T) {
	m := New("Results", "The results log is unavailable.")
	if m.Title() != "Results" {
		t.Errorf("Title = %q", m.Title())
	}
	if !strings.Contains(m.View(80, 20), "results log is unavailable") {
		t.Error("expected body in view")
	}
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command")
	}
}
