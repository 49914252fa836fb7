package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdash/internal/editor"
	"github.com/abhisek/prepdash/internal/progress"
	"github.com/abhisek/prepdash/internal/router"
	"github.com/abhisek/prepdash/internal/screen"
	"github.com/abhisek/prepdash/internal/screens/addproblem"
	"github.com/abhisek/prepdash/internal/screens/dashboard"
	"github.com/abhisek/prepdash/internal/screens/history"
	"github.com/abhisek/prepdash/internal/screens/solve"
	"github.com/abhisek/prepdash/internal/spacedrep"
	"github.com/abhisek/prepdash/internal/store"
	"github.com/abhisek/prepdash/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Progress  *progress.Store
	Journal   store.EventRepo // optional
	Launcher  editor.Launcher
	Logger    *slog.Logger
	Extension string

	// WorkspaceBase is the parent directory for practice sessions
	// (os.TempDir when empty).
	WorkspaceBase string

	// StartInSolve opens solve mode on top of the dashboard.
	StartInSolve bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	progress *progress.Store
	width    int
	height   int
	startCmd tea.Cmd
}

// newAppModel creates a new AppModel with the dashboard screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	newSolve := func() screen.Screen {
		return solve.New(solve.Options{
			Generator:     spacedrep.NewSelector(opts.Progress),
			Launcher:      opts.Launcher,
			Journal:       opts.Journal,
			Logger:        opts.Logger,
			WorkspaceBase: opts.WorkspaceBase,
			Extension:     opts.Extension,
		})
	}
	routes := dashboard.Routes{
		Add:   func() screen.Screen { return addproblem.New(opts.Progress) },
		Solve: newSolve,
	}
	if opts.Journal != nil {
		routes.History = func() screen.Screen { return history.New(opts.Journal) }
	}

	m := AppModel{
		router:   router.New(dashboard.New(opts.Progress, routes)),
		progress: opts.Progress,
	}
	if opts.StartInSolve {
		m.startCmd = m.router.Push(newSolve())
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.startCmd
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
			return m, tea.Quit
		case "esc":
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
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders header, active screen, and footer at the current size.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	stats := m.progress.Stats()
	header := layout.RenderHeader(title, layout.HeaderStats{
		Solved: stats.Solved,
		Target: stats.Target,
		Streak: stats.Streak,
	}, m.width)

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

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Shutdown releases every screen's resources. Practice workspaces are
// deleted here when the program exits without leaving solve mode.
func (m AppModel) Shutdown() {
	m.router.CloseAll()
}

// Run starts the Bubble Tea program and tears down open screens when it
// exits, whatever the exit path.
func Run(opts Options) error {
	m := newAppModel(opts)
	defer m.Shutdown()

	p := tea.NewProgram(m)
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
