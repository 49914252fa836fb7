package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdash/internal/progress"
	"github.com/abhisek/prepdash/internal/router"
	"github.com/abhisek/prepdash/internal/screen"
	"github.com/abhisek/prepdash/internal/ui/components"
	"github.com/abhisek/prepdash/internal/ui/layout"
	"github.com/abhisek/prepdash/internal/ui/theme"
)

// Store is the slice of progress.Store the dashboard reads and mutates.
type Store interface {
	Document() *progress.Document
	Load() error
	ToggleSystemsTopic(module, topic string) (bool, error)
}

// Routes builds the screens reachable from the dashboard. A nil entry
// disables its key.
type Routes struct {
	Add     func() screen.Screen
	Solve   func() screen.Screen
	History func() screen.Screen
}

type rowKind int

const (
	rowSection rowKind = iota
	rowPhase
	rowTopic
	rowProblem
	rowModule
	rowSystemsTopic
)

type row struct {
	kind     rowKind
	text     string
	phase    *progress.Phase
	topic    *progress.Topic
	module   *progress.Module
	sysTopic *progress.SystemsTopic
}

func (r row) selectable() bool {
	return r.kind != rowSection && r.kind != rowProblem
}

// key identifies the entity a row shows so the cursor survives rebuilds.
func (r row) key() string {
	switch r.kind {
	case rowPhase:
		return "p:" + strconv.Itoa(r.phase.ID)
	case rowTopic:
		return "t:" + topicKey(r.phase, r.topic)
	case rowModule:
		return "m:" + r.module.Name
	case rowSystemsTopic:
		return "s:" + r.module.Name + "/" + r.sysTopic.Name
	}
	return ""
}

func topicKey(p *progress.Phase, t *progress.Topic) string {
	return strconv.Itoa(p.ID) + "/" + t.Name
}

// DashboardScreen shows LeetCode phases and systems modules with their
// completion state.
type DashboardScreen struct {
	store  Store
	routes Routes
	doc    *progress.Document

	rows         []row
	cursor       int
	scrollOffset int

	expandedPhases  map[int]bool
	expandedTopics  map[string]bool
	expandedModules map[string]bool

	notice string
	errMsg string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Resumer = (*DashboardScreen)(nil)

// New creates a dashboard over store. The first phase and module start
// expanded.
func New(store Store, routes Routes) *DashboardScreen {
	s := &DashboardScreen{
		store:           store,
		routes:          routes,
		expandedPhases:  make(map[int]bool),
		expandedTopics:  make(map[string]bool),
		expandedModules: make(map[string]bool),
	}
	s.doc = store.Document()
	if s.doc != nil {
		if len(s.doc.LeetCode.Phases) > 0 {
			s.expandedPhases[s.doc.LeetCode.Phases[0].ID] = true
		}
		if len(s.doc.Systems.Modules) > 0 {
			s.expandedModules[s.doc.Systems.Modules[0].Name] = true
		}
	}
	s.rebuild()
	return s
}

func (s *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Expand/Toggle"},
		{Key: "a", Description: "Add"},
		{Key: "s", Description: "Solve"},
		{Key: "h", Description: "History"},
		{Key: "r", Description: "Refresh"},
		{Key: "q", Description: "Quit"},
	}
}

// Resume re-reads the in-memory document after a screen above this one
// changed it.
func (s *DashboardScreen) Resume() tea.Cmd {
	s.doc = s.store.Document()
	s.rebuild()
	return nil
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "enter", "space":
		s.activate()
	case "r":
		s.refresh()
	case "a":
		return s, push(s.routes.Add)
	case "s":
		return s, push(s.routes.Solve)
	case "h":
		return s, push(s.routes.History)
	case "q":
		return s, tea.Quit
	}
	return s, nil
}

func push(build func() screen.Screen) tea.Cmd {
	if build == nil {
		return nil
	}
	next := build()
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

// refresh re-reads the backing file. On failure the previous document
// stays on screen and the error is shown inline.
func (s *DashboardScreen) refresh() {
	s.notice, s.errMsg = "", ""
	if err := s.store.Load(); err != nil {
		s.errMsg = err.Error()
		return
	}
	s.doc = s.store.Document()
	s.rebuild()
	s.notice = "Progress reloaded"
}

func (s *DashboardScreen) activate() {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return
	}
	r := s.rows[s.cursor]
	s.notice, s.errMsg = "", ""

	switch r.kind {
	case rowPhase:
		s.expandedPhases[r.phase.ID] = !s.expandedPhases[r.phase.ID]
	case rowTopic:
		k := topicKey(r.phase, r.topic)
		s.expandedTopics[k] = !s.expandedTopics[k]
	case rowModule:
		s.expandedModules[r.module.Name] = !s.expandedModules[r.module.Name]
	case rowSystemsTopic:
		if _, err := s.store.ToggleSystemsTopic(r.module.Name, r.sysTopic.Name); err != nil {
			s.errMsg = err.Error()
		}
		s.doc = s.store.Document()
	default:
		return
	}
	s.rebuild()
}

// rebuild regenerates rows from the document and expansion state,
// keeping the cursor on the same entity when it still exists.
func (s *DashboardScreen) rebuild() {
	prevKey := ""
	if s.cursor >= 0 && s.cursor < len(s.rows) {
		prevKey = s.rows[s.cursor].key()
	}

	s.rows = s.rows[:0]
	if s.doc != nil {
		s.rows = append(s.rows, row{kind: rowSection, text: "LEETCODE"})
		for i := range s.doc.LeetCode.Phases {
			p := &s.doc.LeetCode.Phases[i]
			s.rows = append(s.rows, row{kind: rowPhase, phase: p})
			if !s.expandedPhases[p.ID] {
				continue
			}
			for j := range p.Topics {
				t := &p.Topics[j]
				s.rows = append(s.rows, row{kind: rowTopic, phase: p, topic: t})
				if !s.expandedTopics[topicKey(p, t)] {
					continue
				}
				for _, name := range t.Problems {
					s.rows = append(s.rows, row{kind: rowProblem, text: name})
				}
			}
		}

		s.rows = append(s.rows, row{kind: rowSection, text: "SYSTEMS"})
		for i := range s.doc.Systems.Modules {
			m := &s.doc.Systems.Modules[i]
			s.rows = append(s.rows, row{kind: rowModule, module: m})
			if !s.expandedModules[m.Name] {
				continue
			}
			for j := range m.Topics {
				s.rows = append(s.rows, row{kind: rowSystemsTopic, module: m, sysTopic: &m.Topics[j]})
			}
		}
	}

	s.cursor = -1
	for i, r := range s.rows {
		if prevKey != "" && r.key() == prevKey {
			s.cursor = i
			return
		}
	}
	for i, r := range s.rows {
		if r.selectable() {
			s.cursor = i
			return
		}
	}
}

// moveCursor moves the cursor by delta, skipping non-selectable rows.
func (s *DashboardScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].selectable() {
			s.cursor = next
			return
		}
		next += delta
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *DashboardScreen) adjustScroll(height int) {
	if height <= 0 || s.cursor < 0 {
		return
	}
	top := s.cursor
	if top > 0 && s.rows[top-1].kind == rowSection {
		top--
	}
	if top < s.scrollOffset {
		s.scrollOffset = top
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *DashboardScreen) View(width, height int) string {
	if s.doc == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\nNo progress loaded.")
	}

	barWidth := min(width-4, 72)
	var top []string
	top = append(top,
		"  "+theme.Dim.Render(fmt.Sprintf("Started %s  ·  %d days active  ·  %d day streak",
			s.doc.Meta.StartDate, s.doc.Meta.TotalDaysActive, s.doc.Meta.StreakDays)),
		"  "+components.NewProgressBar("Overall", s.doc.LeetCode.TotalSolved, s.doc.LeetCode.TotalTarget, barWidth).View(),
		"  "+s.statusLine(),
	)

	bodyHeight := height - len(top)
	s.adjustScroll(bodyHeight)

	lines := top
	for i := s.scrollOffset; i < len(s.rows) && i-s.scrollOffset < bodyHeight; i++ {
		lines = append(lines, s.renderRow(s.rows[i], i == s.cursor, barWidth))
	}
	return strings.Join(lines, "\n")
}

func (s *DashboardScreen) statusLine() string {
	switch {
	case s.errMsg != "":
		return theme.ErrorText.Render("Error: " + s.errMsg)
	case s.notice != "":
		return theme.Notice.Render(s.notice)
	}
	return ""
}

func (s *DashboardScreen) renderRow(r row, selected bool, barWidth int) string {
	cursor := "  "
	if selected {
		cursor = theme.Selected.Render("▸ ")
	}
	style := theme.Unselected
	if selected {
		style = theme.Selected
	}

	switch r.kind {
	case rowSection:
		return "  " + theme.Section.Render(r.text)
	case rowPhase:
		label := fmt.Sprintf("%s Phase %d: %s", arrow(s.expandedPhases[r.phase.ID]), r.phase.ID, r.phase.Name)
		bar := components.NewProgressBar("", r.phase.Solved, r.phase.Target, barWidth/2).View()
		return cursor + style.Render(padRight(label, barWidth/2)) + " " + bar
	case rowTopic:
		label := fmt.Sprintf("    %s %s", arrow(s.expandedTopics[topicKey(r.phase, r.topic)]), r.topic.Name)
		count := fmt.Sprintf("%d/%d", r.topic.Solved, r.topic.Target)
		if r.topic.Done() {
			count += " " + theme.Done.Render("✓")
		}
		return cursor + style.Render(padRight(label, barWidth/2)) + " " + theme.Dim.Render(count)
	case rowProblem:
		return "          " + theme.Dim.Render("• "+r.text)
	case rowModule:
		label := fmt.Sprintf("%s %s", arrow(s.expandedModules[r.module.Name]), r.module.Name)
		count := fmt.Sprintf("%d/%d", r.module.Completed(), len(r.module.Topics))
		return cursor + style.Render(padRight(label, barWidth/2)) + " " + theme.Dim.Render(count)
	case rowSystemsTopic:
		box := "[ ]"
		if r.sysTopic.Completed {
			box = theme.Done.Render("[x]")
		}
		line := cursor + "    " + box + " " + style.Render(r.sysTopic.Name)
		if len(r.sysTopic.Subtopics) > 0 {
			line += " " + theme.Dim.Render("("+strings.Join(r.sysTopic.Subtopics, ", ")+")")
		}
		return line
	}
	return ""
}

func arrow(expanded bool) string {
	if expanded {
		return "▾"
	}
	return "▸"
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
