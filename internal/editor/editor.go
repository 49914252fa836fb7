package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	tea "charm.land/bubbletea/v2"
)

// DefaultCommand is used when no editor is configured.
const DefaultCommand = "vim"

// Editor edits a file in the foreground and returns when the user is done.
type Editor interface {
	Edit(path string) error
}

// Launcher hands the terminal to an editor from inside a Bubble Tea
// program. done is called with the launch error once the editor exits.
type Launcher interface {
	Exec(path string, done func(error) tea.Msg) tea.Cmd
}

// Func adapts a function to the Editor interface.
type Func func(path string) error

func (f Func) Edit(path string) error { return f(path) }

// Bridge launches a configured executable with the file path as its only
// argument. The editor's exit status is never interpreted.
type Bridge struct {
	command string
}

var (
	_ Editor   = (*Bridge)(nil)
	_ Launcher = (*Bridge)(nil)
)

// New creates a Bridge for the given executable name.
func New(command string) *Bridge {
	if command == "" {
		command = DefaultCommand
	}
	return &Bridge{command: command}
}

// Command returns the configured executable name.
func (b *Bridge) Command() string {
	return b.command
}

// Cmd builds the editor process for path.
func (b *Bridge) Cmd(path string) *exec.Cmd {
	return exec.Command(b.command, path)
}

// Exec hands the terminal to the editor for the lifetime of the process.
// Bubble Tea releases and restores the terminal around the child on every
// exit path; done receives the launch error, if any.
func (b *Bridge) Exec(path string, done func(error) tea.Msg) tea.Cmd {
	return tea.ExecProcess(b.Cmd(path), func(err error) tea.Msg {
		return done(IgnoreExitStatus(err))
	})
}

// Edit runs the editor attached to the current terminal and blocks until
// it exits. Used outside the TUI.
func (b *Bridge) Edit(path string) error {
	cmd := b.Cmd(path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := IgnoreExitStatus(cmd.Run()); err != nil {
		return fmt.Errorf("run editor %q: %w", b.command, err)
	}
	return nil
}

// IgnoreExitStatus drops non-zero exit errors. Failures to start the
// process are returned unchanged.
func IgnoreExitStatus(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
