package addproblem

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepdash/internal/router"
	"github.com/abhisek/prepdash/internal/screen"
)

type addCall struct {
	phase   int
	topic   string
	problem string
}

type mockAdder struct {
	calls []addCall
	err   error
}

func (m *mockAdder) AddProblem(phase int, topic, problem string) (bool, error) {
	m.calls = append(m.calls, addCall{phase, topic, problem})
	return m.err == nil, m.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// typeText feeds s one rune at a time.
func typeText(scr screen.Screen, s string) screen.Screen {
	for _, r := range s {
		scr, _ = scr.Update(keyPress(r))
	}
	return scr
}

func fill(t *testing.T, adder *mockAdder, phase, topic, problem string) tea.Cmd {
	t.Helper()
	var scr screen.Screen = New(adder)
	scr.Init()
	scr = typeText(scr, phase)
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr = typeText(scr, topic)
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr = typeText(scr, problem)
	_, cmd := scr.Update(specialKey(tea.KeyEnter))
	return cmd
}

func isPop(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(router.PopScreenMsg)
	return ok
}

func TestAddProblem_Submits(t *testing.T) {
	adder := &mockAdder{}
	cmd := fill(t, adder, "2", "  BFS ", "Rotting Oranges")

	require.Len(t, adder.calls, 1)
	assert.Equal(t, addCall{2, "BFS", "Rotting Oranges"}, adder.calls[0])
	assert.True(t, isPop(cmd))
}

func TestAddProblem_InvalidInputAbortsSilently(t *testing.T) {
	tests := []struct {
		name                   string
		phase, topic, problem string
	}{
		{"phase out of range", "9", "BFS", "x"},
		{"phase zero", "0", "BFS", "x"},
		{"empty phase", "", "BFS", "x"},
		{"blank topic", "1", "   ", "x"},
		{"empty problem", "1", "BFS", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adder := &mockAdder{}
			cmd := fill(t, adder, tt.phase, tt.topic, tt.problem)
			assert.Empty(t, adder.calls)
			assert.True(t, isPop(cmd))
		})
	}
}

func TestAddProblem_PhaseFieldIsNumeric(t *testing.T) {
	s := New(&mockAdder{})
	s.Init()
	typeText(s, "a3")
	assert.Equal(t, "3", s.fields[fieldPhase].Value())
}

func TestAddProblem_SaveErrorStaysOnForm(t *testing.T) {
	adder := &mockAdder{err: errors.New("disk full")}
	var scr screen.Screen = New(adder)
	scr.Init()
	scr = typeText(scr, "1")
	scr, _ = scr.Update(specialKey(tea.KeyTab))
	scr = typeText(scr, "Arrays")
	scr, _ = scr.Update(specialKey(tea.KeyTab))
	scr = typeText(scr, "Two Sum")
	scr, cmd := scr.Update(specialKey(tea.KeyEnter))

	assert.False(t, isPop(cmd))
	assert.Contains(t, scr.View(80, 30), "disk full")
}

func TestAddProblem_FocusCycles(t *testing.T) {
	s := New(&mockAdder{})
	s.Init()
	assert.Equal(t, fieldPhase, s.focus)
	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyTab))
	assert.Equal(t, fieldPhase, s.focus)
	s.Update(specialKey(tea.KeyUp))
	assert.Equal(t, fieldProblem, s.focus)
}
