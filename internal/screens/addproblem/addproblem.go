package addproblem

import (
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

// Adder records a solved problem.
type Adder interface {
	AddProblem(phaseID int, topic, problem string) (bool, error)
}

const (
	fieldPhase = iota
	fieldTopic
	fieldProblem
	fieldCount
)

// AddProblemScreen is the form for recording a newly solved problem.
// Invalid input closes the form without changes.
type AddProblemScreen struct {
	adder  Adder
	fields [fieldCount]components.TextInput
	focus  int
	errMsg string
}

var _ screen.Screen = (*AddProblemScreen)(nil)
var _ screen.KeyHintProvider = (*AddProblemScreen)(nil)

// New creates the form with the phase field focused.
func New(adder Adder) *AddProblemScreen {
	s := &AddProblemScreen{adder: adder}
	s.fields[fieldPhase] = components.NewTextInput("Phase (1-5)", "1", true, 1)
	s.fields[fieldTopic] = components.NewTextInput("Topic", "Sliding Window", false, 80)
	s.fields[fieldProblem] = components.NewTextInput("Problem", "Minimum Window Substring", false, 120)
	return s
}

func (s *AddProblemScreen) Init() tea.Cmd {
	return s.fields[s.focus].Focus()
}

func (s *AddProblemScreen) Title() string {
	return "Add Problem"
}

func (s *AddProblemScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Next/Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *AddProblemScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		case "enter":
			if s.focus < fieldCount-1 {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *AddProblemScreen) setFocus(i int) tea.Cmd {
	s.fields[s.focus].Blur()
	s.focus = i
	return s.fields[s.focus].Focus()
}

// submit validates and records the problem. Malformed input pops the form
// silently; a failed save stays on the form with the error shown.
func (s *AddProblemScreen) submit() tea.Cmd {
	in, err := progress.ParseAddInput(
		s.fields[fieldPhase].Value(),
		s.fields[fieldTopic].Value(),
		s.fields[fieldProblem].Value(),
	)
	if err != nil {
		return pop
	}
	if _, err := s.adder.AddProblem(in.PhaseID, in.Topic, in.Problem); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return pop
}

func pop() tea.Msg {
	return router.PopScreenMsg{}
}

func (s *AddProblemScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	for i := range s.fields {
		b.WriteString(s.fields[i].View())
		b.WriteString("\n\n")
	}
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render("Error: " + s.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(theme.Hint.Render("Problems already listed under the topic are not added twice."))

	formWidth := min(width-4, 60)
	card := theme.Card.Width(formWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}
