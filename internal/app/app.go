// Package app is the root bubbletea model: a header and footer frame around
// the router's active screen.
package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	assessmentscreen "github.com/abhisek/skillcheck/internal/screens/assessment"
	"github.com/abhisek/skillcheck/internal/screens/home"
	"github.com/abhisek/skillcheck/internal/screens/intro"
	"github.com/abhisek/skillcheck/internal/store"
	"github.com/abhisek/skillcheck/internal/ui/layout"
)

// Options configure the program.
type Options struct {
	Config   *config.Config
	Attempts store.AttemptRepo // nil disables the results log
	Log      zerolog.Logger

	// TestType opens the intro of this test type on top of home.
	TestType string

	// Ticker overrides the countdown clock; nil ticks every second.
	Ticker assessmentscreen.Ticker
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int

	// initCmds holds the Init commands of every screen stacked at startup.
	initCmds []tea.Cmd
}

// newAppModel creates an AppModel with the home screen, plus the intro of
// opts.TestType when set.
func newAppModel(opts Options) (AppModel, error) {
	if opts.Config == nil {
		return AppModel{}, errors.New("app: missing configuration")
	}
	h := home.New(home.Deps{
		Config:   opts.Config,
		Attempts: opts.Attempts,
		Ticker:   opts.Ticker,
		Log:      opts.Log,
	})
	m := AppModel{
		router:   router.New(h),
		initCmds: []tea.Cmd{h.Init()},
	}
	if opts.TestType != "" {
		tt, err := opts.Config.TestType(opts.TestType)
		if err != nil {
			return AppModel{}, err
		}
		s, err := intro.Prepare(tt, intro.Deps{
			Attempts: opts.Attempts,
			Ticker:   opts.Ticker,
			Log:      opts.Log,
		})
		if err != nil {
			return AppModel{}, err
		}
		m.initCmds = append(m.initCmds, m.router.Push(s))
	}
	return m, nil
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.initCmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.CloseAll()
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.ReportFocus = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits. Every screen
// still on the stack is closed on the way out.
func Run(ctx context.Context, opts Options) error {
	m, err := newAppModel(opts)
	if err != nil {
		return err
	}
	defer m.router.CloseAll()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		opts.Log.Error().Err(err).Msg("program exited")
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
