package progress

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase numbers accepted by the add-problem form.
const (
	MinPhase = 1
	MaxPhase = 5
)

// AddInput is a validated add-problem request.
type AddInput struct {
	PhaseID int
	Topic   string
	Problem string
}

// ParseAddInput validates raw add-problem fields: the phase must be an
// integer in [MinPhase, MaxPhase] and both names non-empty after trimming.
// All failures wrap ErrInvalidInput.
func ParseAddInput(phase, topic, problem string) (AddInput, error) {
	id, err := strconv.Atoi(strings.TrimSpace(phase))
	if err != nil {
		return AddInput{}, fmt.Errorf("%w: phase %q is not a number", ErrInvalidInput, phase)
	}
	if id < MinPhase || id > MaxPhase {
		return AddInput{}, fmt.Errorf("%w: phase must be between %d and %d", ErrInvalidInput, MinPhase, MaxPhase)
	}
	topic = strings.TrimSpace(topic)
	problem = strings.TrimSpace(problem)
	if topic == "" {
		return AddInput{}, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	if problem == "" {
		return AddInput{}, fmt.Errorf("%w: problem name is required", ErrInvalidInput)
	}
	return AddInput{PhaseID: id, Topic: topic, Problem: problem}, nil
}
