package solve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdash/internal/editor"
	"github.com/abhisek/prepdash/internal/progress"
	"github.com/abhisek/prepdash/internal/router"
	"github.com/abhisek/prepdash/internal/screen"
	"github.com/abhisek/prepdash/internal/screens/review"
	"github.com/abhisek/prepdash/internal/session"
	"github.com/abhisek/prepdash/internal/store"
	"github.com/abhisek/prepdash/internal/ui/layout"
	"github.com/abhisek/prepdash/internal/ui/theme"
)

const (
	promptText = "Press g to draw a problem you have solved before."
	emptyText  = "No solved problems yet. Add some from the dashboard first."
)

// Generator draws a previously solved problem.
type Generator interface {
	Generate() (progress.SolvedProblem, bool)
}

// Options configures a SolveScreen.
type Options struct {
	Generator Generator
	Launcher  editor.Launcher
	Journal   store.EventRepo // optional
	Logger    *slog.Logger    // optional

	// WorkspaceBase is the parent of the session directory (os.TempDir
	// when empty). Extension is the solution file extension.
	WorkspaceBase string
	Extension     string
}

type editorDoneMsg struct {
	target session.Target
	err    error
}

// SolveScreen is the practice mode: it re-surfaces solved problems and
// collects fresh attempts in a disposable workspace.
type SolveScreen struct {
	opts   Options
	logger *slog.Logger
	ws     *session.Workspace
	notice string
	errMsg string
	closed bool
}

var _ screen.Screen = (*SolveScreen)(nil)
var _ screen.KeyHintProvider = (*SolveScreen)(nil)
var _ screen.Closer = (*SolveScreen)(nil)

// New starts a practice session. A workspace that cannot be created is
// reported on screen and every action becomes a no-op.
func New(opts Options) *SolveScreen {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &SolveScreen{opts: opts, logger: logger}

	ws, err := session.Start(opts.WorkspaceBase, opts.Extension)
	if err != nil {
		logger.Error("start practice session", slog.String("error", err.Error()))
		s.errMsg = err.Error()
		return s
	}
	s.ws = ws
	s.logger = logger.With(slog.String("session_id", ws.ID()))
	ws.SetDisplay(promptText)
	s.logger.Info("practice session started", slog.String("dir", ws.Dir()))
	s.record(store.PracticeEventData{Action: store.ActionStart})
	return s
}

func (s *SolveScreen) Init() tea.Cmd {
	return nil
}

func (s *SolveScreen) Title() string {
	return "Solve"
}

func (s *SolveScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "g/n", Description: "Draw"},
		{Key: "e", Description: "Edit solution"},
		{Key: "v", Description: "Review"},
		{Key: "Esc", Description: "Back"},
	}
}

// Workspace returns the session workspace, or nil if it failed to start.
func (s *SolveScreen) Workspace() *session.Workspace {
	return s.ws
}

func (s *SolveScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case editorDoneMsg:
		s.finishEdit(msg)
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		if s.ws == nil || s.closed {
			return s, nil
		}
		switch msg.String() {
		case "g", "n":
			s.draw()
		case "e":
			return s, s.edit()
		case "v":
			return s, s.openReview()
		}
	}
	return s, nil
}

func (s *SolveScreen) draw() {
	s.notice = ""
	p, ok := s.opts.Generator.Generate()
	if !ok {
		s.ws.SetDisplay(emptyText)
		return
	}
	s.ws.SetCurrent(p)
	s.ws.SetDisplay(describe(p))
	s.record(store.PracticeEventData{
		Action:  store.ActionDraw,
		Problem: p.Name,
		Topic:   p.Topic,
		Phase:   p.Phase,
		PhaseID: p.PhaseID,
	})
}

func describe(p progress.SolvedProblem) string {
	return fmt.Sprintf("%s\n\nPhase %d: %s\nTopic: %s", p.Name, p.PhaseID, p.Phase, p.Topic)
}

func (s *SolveScreen) edit() tea.Cmd {
	if s.opts.Launcher == nil {
		return nil
	}
	s.notice = ""
	t := s.ws.Target()
	return s.opts.Launcher.Exec(t.Path, func(err error) tea.Msg {
		return editorDoneMsg{target: t, err: err}
	})
}

func (s *SolveScreen) finishEdit(msg editorDoneMsg) {
	if s.ws == nil || s.closed {
		return
	}
	if msg.err != nil {
		s.logger.Warn("editor failed", slog.String("path", msg.target.Path), slog.String("error", msg.err.Error()))
		s.notice = fmt.Sprintf("Error opening editor: %v", msg.err)
		return
	}
	if !s.ws.Commit(msg.target) {
		if msg.target.Existing {
			s.notice = "Solution updated: " + msg.target.Filename
		}
		return
	}
	s.notice = "Solution saved: " + msg.target.Filename
	cur, _ := s.ws.Current()
	s.record(store.PracticeEventData{
		Action:   store.ActionSave,
		Problem:  cur.Name,
		Topic:    cur.Topic,
		Phase:    cur.Phase,
		PhaseID:  cur.PhaseID,
		Filename: msg.target.Filename,
	})
}

func (s *SolveScreen) openReview() tea.Cmd {
	entries := s.ws.Entries()
	if len(entries) == 0 {
		s.notice = "No solutions saved yet. Press e to write one."
		return nil
	}
	next := review.New(entries, s.opts.Launcher, s.logger)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

// Close ends the session and deletes its directory. Safe to call more
// than once.
func (s *SolveScreen) Close() {
	if s.closed || s.ws == nil {
		s.closed = true
		return
	}
	s.closed = true
	saved := len(s.ws.Entries())
	if err := s.ws.End(); err != nil {
		s.logger.Warn("remove session directory", slog.String("error", err.Error()))
	}
	s.record(store.PracticeEventData{Action: store.ActionEnd})
	s.logger.Info("practice session ended", slog.Int("saved", saved))
}

// record appends to the journal. Failures are logged and otherwise ignored.
func (s *SolveScreen) record(data store.PracticeEventData) {
	if s.opts.Journal == nil || s.ws == nil {
		return
	}
	data.SessionID = s.ws.ID()
	if err := s.opts.Journal.AppendPracticeEvent(context.Background(), data); err != nil {
		s.logger.Warn("journal append failed", slog.String("action", data.Action), slog.String("error", err.Error()))
	}
}

func (s *SolveScreen) View(width, height int) string {
	if s.ws == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nError: " + s.errMsg)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.ws.Display()))
	b.WriteString("\n\n")
	b.WriteString(theme.Dim.Render(fmt.Sprintf("%d solution(s) saved this session", len(s.ws.Entries()))))
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Notice.Render(s.notice))
	}

	card := theme.Card.Width(min(width-4, 70)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
