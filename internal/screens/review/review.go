package review

import (
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdash/internal/editor"
	"github.com/abhisek/prepdash/internal/screen"
	"github.com/abhisek/prepdash/internal/session"
	"github.com/abhisek/prepdash/internal/ui/components"
	"github.com/abhisek/prepdash/internal/ui/layout"
	"github.com/abhisek/prepdash/internal/ui/theme"
)

const listWidth = 28

type editedMsg struct {
	path string
	err  error
}

// ReviewScreen steps through the solutions saved in a practice session.
type ReviewScreen struct {
	review   *session.Review
	launcher editor.Launcher
	logger   *slog.Logger
	content  string
	failed   bool

	render        func(filename, source string, width int) string
	rendered      string
	renderedWidth int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a review over a snapshot of entries.
func New(entries []session.Entry, launcher editor.Launcher, logger *slog.Logger) *ReviewScreen {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &ReviewScreen{
		review:   session.NewReview(entries),
		launcher: launcher,
		logger:   logger,
		render:   renderSource,
	}
	s.show()
	return s
}

func (s *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (s *ReviewScreen) Title() string {
	return "Review Solutions"
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "e", Description: "Edit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case editedMsg:
		if msg.err != nil {
			s.logger.Warn("editor failed", slog.String("path", msg.path), slog.String("error", msg.err.Error()))
			s.content = fmt.Sprintf("Error opening editor: %v", msg.err)
			s.failed = true
			s.renderedWidth = 0
			return s, nil
		}
		s.show()
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.review.Previous()
			s.show()
		case "down", "j":
			s.review.Next()
			s.show()
		case "e":
			return s, s.edit()
		}
	}
	return s, nil
}

func (s *ReviewScreen) show() {
	text, err := s.review.Show()
	if err != nil {
		s.logger.Warn("read solution failed", slog.String("error", err.Error()))
	}
	s.content = text
	s.failed = err != nil
	s.rendered = ""
	s.renderedWidth = 0
}

// highlighted returns the rendered current entry, re-rendering only after
// show or a width change.
func (s *ReviewScreen) highlighted(filename string, width int) string {
	if s.renderedWidth != width {
		s.rendered = s.render(filename, s.content, width)
		s.renderedWidth = width
	}
	return s.rendered
}

func (s *ReviewScreen) edit() tea.Cmd {
	cur, ok := s.review.Current()
	if !ok || s.launcher == nil {
		return nil
	}
	return s.launcher.Exec(cur.Path, func(err error) tea.Msg {
		return editedMsg{path: cur.Path, err: err}
	})
}

func (s *ReviewScreen) View(width, height int) string {
	if s.review.Empty() {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\nNo solutions saved in this session.")
	}

	names := make([]string, 0, s.review.Len())
	for _, e := range s.review.Entries() {
		names = append(names, e.Filename)
	}
	list := components.NewList(names, s.review.Selected())
	list.Height = height - 2

	left := theme.Card.
		Width(listWidth).
		Height(height - 2).
		Render(list.View())

	contentWidth := max(width-listWidth-6, 20)
	body := s.content
	if cur, ok := s.review.Current(); ok && !s.failed {
		body = s.highlighted(cur.Filename, contentWidth-4)
	}
	body = clip(body, height-4)
	right := theme.Card.
		Width(contentWidth).
		Height(height - 2).
		Render(body)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// clip keeps the first n lines of s.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
