// Package home is the entry menu: one item per configured test type plus
// the results log.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	assessmentscreen "github.com/abhisek/skillcheck/internal/screens/assessment"
	"github.com/abhisek/skillcheck/internal/screens/history"
	"github.com/abhisek/skillcheck/internal/screens/intro"
	"github.com/abhisek/skillcheck/internal/screens/message"
	"github.com/abhisek/skillcheck/internal/store"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

const tagline = "Timed multiple-choice skill assessments"

// Deps wires the home screen to configuration and storage.
type Deps struct {
	Config   *config.Config
	Attempts store.AttemptRepo // nil when the results log could not be opened
	Ticker   assessmentscreen.Ticker
	Log      zerolog.Logger
}

type statsLoadedMsg struct {
	stats []store.TestTypeStats
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu     components.Menu
	itemIDs  []string // test type id per menu item, empty for the rest
	attempts store.AttemptRepo
	stats    map[string]store.TestTypeStats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	testTypes := deps.Config.Resolved()
	titles := make(map[string]string, len(testTypes))

	items := make([]components.MenuItem, 0, len(testTypes)+2)
	ids := make([]string, 0, len(testTypes)+2)
	for _, tt := range testTypes {
		titles[tt.ID] = tt.Title
		ids = append(ids, tt.ID)
		items = append(items, components.MenuItem{
			Label:  tt.Title,
			Detail: fmt.Sprintf("%s · %d warnings", layout.FormatClock(int(tt.TimeLimit.Std().Seconds())), tt.WarningCutoff),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: startScreen(tt, deps)}
				}
			},
		})
	}

	items = append(items,
		components.MenuItem{Label: "Results", Action: func() tea.Cmd {
			if deps.Attempts == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: message.New("Results", "The results log is unavailable. Check the log file for details.")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(deps.Attempts, titles)}
			}
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	ids = append(ids, "", "")

	return &HomeScreen{
		menu:     components.NewMenu(items),
		itemIDs:  ids,
		attempts: deps.Attempts,
		stats:    make(map[string]store.TestTypeStats),
	}
}

// startScreen loads the bank for tt and returns its intro, or a message
// screen explaining why it could not be loaded.
func startScreen(tt config.TestType, deps Deps) screen.Screen {
	s, err := intro.Prepare(tt, intro.Deps{
		Attempts: deps.Attempts,
		Ticker:   deps.Ticker,
		Log:      deps.Log,
	})
	if err != nil {
		deps.Log.Error().Err(err).Str("test_type", tt.ID).Msg("load test type")
		return message.New(tt.Title, "This test could not be loaded: "+err.Error())
	}
	return s
}

func (h *HomeScreen) Init() tea.Cmd {
	repo := h.attempts
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		stats, err := repo.Stats(context.Background())
		if err != nil {
			return nil
		}
		return statsLoadedMsg{stats: stats}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		for _, st := range m.stats {
			h.stats[st.TestType] = st
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(max(width-6, 20), 64)

	sections := []string{
		theme.Title.Width(cw).Render("skillcheck"),
		theme.Subtitle.Width(cw).Render(tagline),
		theme.Card.Width(cw).Render(strings.TrimRight(h.menu.View(), "\n")),
	}
	if line := h.statsLine(); line != "" {
		sections = append(sections, theme.Hint.Width(cw).Align(lipgloss.Center).Render(line))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// statsLine summarizes the log for the highlighted test type, or the
// whole log on the other items.
func (h *HomeScreen) statsLine() string {
	if h.menu.Selected < len(h.itemIDs) {
		if st, ok := h.stats[h.itemIDs[h.menu.Selected]]; ok {
			return fmt.Sprintf("%d previous attempts · best %d%%", st.Attempts, st.Best)
		}
	}
	var total int
	for _, st := range h.stats {
		total += st.Attempts
	}
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%d attempts recorded", total)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
