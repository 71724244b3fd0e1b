// Package message shows a single notice, typically an error that kept the
// requested screen from opening.
package message

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// MessageScreen is a static notice dismissed with Esc.
type MessageScreen struct {
	title string
	body  string
}

var _ screen.Screen = (*MessageScreen)(nil)

// New creates a MessageScreen.
func New(title, body string) *MessageScreen {
	return &MessageScreen{title: title, body: body}
}

func (m *MessageScreen) Init() tea.Cmd {
	return nil
}

func (m *MessageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return m, nil
}

func (m *MessageScreen) View(width, height int) string {
	body := theme.Card.Width(min(width-4, 70)).Render(
		theme.Body.Render(m.body) + "\n\n" + theme.Hint.Render("Press Esc to go back"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (m *MessageScreen) Title() string {
	return m.title
}
