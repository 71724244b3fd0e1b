package assessment

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

// tickMsg is one countdown second for the screen with the matching tag.
type tickMsg struct {
	tag int
}

// Ticker schedules countdown ticks. Tests substitute a manual ticker.
type Ticker interface {
	Next(tag int) tea.Cmd
}

// SecondTicker ticks once per wall-clock second.
type SecondTicker struct{}

func (SecondTicker) Next(tag int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{tag: tag} })
}

// TickFor builds the message a Ticker must deliver for tag.
func TickFor(tag int) tea.Msg { return tickMsg{tag: tag} }

var lastTag atomic.Int64

func nextTag() int { return int(lastTag.Add(1)) }
