package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/prepdash/internal/editor"
	"github.com/abhisek/prepdash/internal/progress"
)

// GenericName is the file stem used when no problem is selected.
const GenericName = "solution"

// DefaultExtension is the solution file extension when none is configured.
const DefaultExtension = ".py"

// ErrEnded is returned when a workspace is used after End.
var ErrEnded = errors.New("session workspace already ended")

// Entry is a solution file saved during the session.
type Entry struct {
	Filename string
	Path     string
}

// Target is the file an edit will open. Existing reports whether the
// filename was already recorded before the edit started.
type Target struct {
	Filename string
	Path     string
	Existing bool
}

// Workspace is the disposable directory of solution files for one
// practice session. Entries are unique by filename and kept in the order
// they were first saved non-empty.
type Workspace struct {
	id      string
	dir     string
	ext     string
	entries []Entry
	byName  map[string]int
	current *progress.SolvedProblem
	display string
	ended   bool
}

// Start creates a fresh private directory under base (os.TempDir when
// empty) and returns an empty workspace.
func Start(base, ext string) (*Workspace, error) {
	id := uuid.New().String()
	dir, err := os.MkdirTemp(base, "prepdash-"+id[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &Workspace{
		id:     id,
		dir:    dir,
		ext:    normalizeExt(ext),
		byName: make(map[string]int),
	}, nil
}

// ID returns the session identifier.
func (w *Workspace) ID() string { return w.id }

// Dir returns the session directory.
func (w *Workspace) Dir() string { return w.dir }

// SetCurrent selects the problem subsequent edits apply to.
func (w *Workspace) SetCurrent(p progress.SolvedProblem) {
	w.current = &p
}

// Current returns the selected problem, if any.
func (w *Workspace) Current() (progress.SolvedProblem, bool) {
	if w.current == nil {
		return progress.SolvedProblem{}, false
	}
	return *w.current, true
}

// Display returns the text shown for the current problem.
func (w *Workspace) Display() string { return w.display }

// SetDisplay replaces the text shown for the current problem.
func (w *Workspace) SetDisplay(text string) { w.display = text }

// Entries returns the saved entries in insertion order.
func (w *Workspace) Entries() []Entry {
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Target resolves the file for the current problem. A filename that is
// already recorded resolves to its recorded path so re-edits resume the
// same file.
func (w *Workspace) Target() Target {
	name := GenericName + w.ext
	if w.current != nil {
		name = FileName(w.current.Name, w.ext)
	}
	if e, ok := w.entry(name); ok {
		return Target{Filename: name, Path: e.Path, Existing: true}
	}
	return Target{Filename: name, Path: filepath.Join(w.dir, name)}
}

// Commit records t after the editor has exited. An entry is added only
// when the file exists and is non-empty and the filename was not recorded
// when t was resolved. Returns whether an entry was added.
func (w *Workspace) Commit(t Target) bool {
	if w.ended || t.Existing {
		return false
	}
	if _, ok := w.entry(t.Filename); ok {
		return false
	}
	info, err := os.Stat(t.Path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return false
	}
	w.byName[t.Filename] = len(w.entries)
	w.entries = append(w.entries, Entry{Filename: t.Filename, Path: t.Path})
	return true
}

// OpenForEdit runs ed on the current problem's file, blocking until it
// returns, then commits the file. Returns whether a new entry was recorded.
func (w *Workspace) OpenForEdit(ed editor.Editor) (bool, error) {
	if w.ended {
		return false, ErrEnded
	}
	t := w.Target()
	if err := ed.Edit(t.Path); err != nil {
		return false, err
	}
	return w.Commit(t), nil
}

// End deletes the session directory and everything in it. Safe to call
// more than once and after the directory was removed externally.
func (w *Workspace) End() error {
	w.ended = true
	w.entries = nil
	w.byName = make(map[string]int)
	w.current = nil
	w.display = ""
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove session directory: %w", err)
	}
	return nil
}

func (w *Workspace) entry(filename string) (Entry, bool) {
	i, ok := w.byName[filename]
	if !ok {
		return Entry{}, false
	}
	return w.entries[i], true
}

var nameReplacer = strings.NewReplacer(" ", "_", "/", "_", "(", "", ")", "")

// FileName turns a problem name into a solution filename. Spaces and
// slashes become underscores and parentheses are dropped.
func FileName(problem, ext string) string {
	stem := nameReplacer.Replace(problem)
	if stem == "" {
		stem = GenericName
	}
	return stem + normalizeExt(ext)
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
