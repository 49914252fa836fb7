package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdash/internal/router"
	"github.com/abhisek/prepdash/internal/screen"
	"github.com/abhisek/prepdash/internal/store"
	"github.com/abhisek/prepdash/internal/ui/layout"
	"github.com/abhisek/prepdash/internal/ui/theme"
)

// SessionLimit caps how many sessions are listed.
const SessionLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummaryRecord
	Err      error
}

type eventsLoadedMsg struct {
	SessionID string
	Events    []store.PracticeEventRecord
	Err       error
}

// HistoryScreen displays past practice sessions and what was drawn in each.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionSummaryRecord
	events    map[string][]store.PracticeEventRecord // sessionID → events
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		events:    make(map[string][]store.PracticeEventRecord),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.eventRepo == nil {
		return func() tea.Msg { return historyLoadedMsg{} }
	}
	return func() tea.Msg {
		sessions, err := s.eventRepo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: SessionLimit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case eventsLoadedMsg:
		if msg.Err == nil {
			s.events[msg.SessionID] = msg.Events
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.sessions) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			if s.expanded[s.selected] {
				return s, s.loadEvents(s.sessions[s.selected].SessionID)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadEvents(sessionID string) tea.Cmd {
	if _, ok := s.events[sessionID]; ok || s.eventRepo == nil {
		return nil
	}
	return func() tea.Msg {
		events, err := s.eventRepo.QueryPracticeEvents(context.Background(), sessionID)
		return eventsLoadedMsg{SessionID: sessionID, Events: events, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No practice sessions yet. Press s on the dashboard to start one.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		status := ""
		if !sess.Ended {
			status = "  (unfinished)"
		}
		line := prefix + FormatSummary(sess) + status

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		events, ok := s.events[sess.SessionID]
		switch {
		case !ok:
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render("    Loading...")))
			b.WriteString("\n")
		case countDraws(events) == 0:
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render("    No problems drawn this session")))
			b.WriteString("\n")
		default:
			for _, e := range events {
				if e.Action != store.ActionDraw && e.Action != store.ActionSave {
					continue
				}
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(actionColor(e.Action)).Render(FormatEvent(e))))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// FormatSummary renders one session as a single line.
func FormatSummary(sess store.SessionSummaryRecord) string {
	d := sess.Duration()
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%s  %d:%02d  %s  %s",
		sess.StartedAt.Local().Format("Jan 02, 2006 15:04"),
		mins, secs,
		plural(sess.Draws, "problem"),
		plural(sess.Saves, "solution"))
}

// FormatEvent renders a draw or save event.
func FormatEvent(e store.PracticeEventRecord) string {
	ts := e.Timestamp.Local().Format("15:04")
	if e.Action == store.ActionSave {
		return fmt.Sprintf("    %s  saved %s", ts, e.Filename)
	}
	return fmt.Sprintf("    %s  drew %s (%s, phase %d)", ts, e.Problem, e.Topic, e.PhaseID)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func countDraws(events []store.PracticeEventRecord) int {
	n := 0
	for _, e := range events {
		if e.Action == store.ActionDraw {
			n++
		}
	}
	return n
}

func actionColor(action string) color.Color {
	switch action {
	case store.ActionSave:
		return theme.Success
	case store.ActionDraw:
		return theme.Secondary
	default:
		return theme.Text
	}
}
