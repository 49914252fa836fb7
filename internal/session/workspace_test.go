package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepdash/internal/editor"
	"github.com/abhisek/prepdash/internal/progress"
)

// recordingEditor writes content to every path it is asked to edit and
// remembers the paths.
type recordingEditor struct {
	content string
	paths   []string
}

func (e *recordingEditor) Edit(path string) error {
	e.paths = append(e.paths, path)
	if e.content == "" {
		return nil
	}
	return os.WriteFile(path, []byte(e.content), 0o644)
}

func startWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w, err := Start(t.TempDir(), ".py")
	require.NoError(t, err)
	t.Cleanup(func() { w.End() })
	return w
}

func problem(name string) progress.SolvedProblem {
	return progress.SolvedProblem{Name: name, Topic: "Arrays", Phase: "Basics", PhaseID: 1}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		in   string
		ext  string
		want string
	}{
		{"Two Sum", ".py", "Two_Sum.py"},
		{"Best Time (II)", ".py", "Best_Time_II.py"},
		{"Read N Characters Given Read4 / Call Multiple Times", "go", "Read_N_Characters_Given_Read4___Call_Multiple_Times.go"},
		{"()", ".py", "solution.py"},
		{"Valid Anagram", "", "Valid_Anagram.py"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.in, tt.ext))
		})
	}
}

func TestStartCreatesPrivateDirectory(t *testing.T) {
	base := t.TempDir()
	a, err := Start(base, ".py")
	require.NoError(t, err)
	b, err := Start(base, ".py")
	require.NoError(t, err)
	defer a.End()
	defer b.End()

	assert.NotEqual(t, a.Dir(), b.Dir())
	assert.NotEqual(t, a.ID(), b.ID())
	info, err := os.Stat(a.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	assert.Empty(t, a.Entries())
}

func TestOpenForEditWithoutProblemUsesGenericName(t *testing.T) {
	w := startWorkspace(t)
	ed := &recordingEditor{content: "print(1)\n"}

	added, err := w.OpenForEdit(ed)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []Entry{{Filename: "solution.py", Path: filepath.Join(w.Dir(), "solution.py")}}, w.Entries())
}

func TestOpenForEditSameProblemReusesPath(t *testing.T) {
	w := startWorkspace(t)
	w.SetCurrent(problem("Two Sum"))
	ed := &recordingEditor{content: "first"}

	added, err := w.OpenForEdit(ed)
	require.NoError(t, err)
	assert.True(t, added)

	ed.content = "second"
	added, err = w.OpenForEdit(ed)
	require.NoError(t, err)
	assert.False(t, added, "re-edit must not record a second entry")

	require.Len(t, ed.paths, 2)
	assert.Equal(t, ed.paths[0], ed.paths[1])
	require.Len(t, w.Entries(), 1)

	got, err := os.ReadFile(w.Entries()[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestOpenForEditDistinctProblemsKeepSaveOrder(t *testing.T) {
	w := startWorkspace(t)
	ed := &recordingEditor{content: "x"}

	w.SetCurrent(problem("Rotting Oranges"))
	_, err := w.OpenForEdit(ed)
	require.NoError(t, err)

	w.SetCurrent(problem("Clone Graph"))
	_, err = w.OpenForEdit(ed)
	require.NoError(t, err)

	entries := w.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Rotting_Oranges.py", entries[0].Filename)
	assert.Equal(t, "Clone_Graph.py", entries[1].Filename)
}

func TestOpenForEditEmptyOrMissingFileNotRecorded(t *testing.T) {
	w := startWorkspace(t)
	w.SetCurrent(problem("Two Sum"))

	// Editor exits without creating the file.
	added, err := w.OpenForEdit(&recordingEditor{})
	require.NoError(t, err)
	assert.False(t, added)

	// Editor leaves an empty file.
	empty := editor.Func(func(path string) error { return os.WriteFile(path, nil, 0o644) })
	added, err = w.OpenForEdit(empty)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, w.Entries())

	// A later non-empty save is the first successful one.
	added, err = w.OpenForEdit(&recordingEditor{content: "ok"})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, w.Entries(), 1)
}

func TestTargetCommitSplit(t *testing.T) {
	w := startWorkspace(t)
	w.SetCurrent(problem("3Sum"))

	target := w.Target()
	assert.False(t, target.Existing)
	assert.Equal(t, filepath.Join(w.Dir(), "3Sum.py"), target.Path)

	require.NoError(t, os.WriteFile(target.Path, []byte("pass"), 0o644))
	assert.True(t, w.Commit(target))
	assert.False(t, w.Commit(target), "commit is recorded once")

	again := w.Target()
	assert.True(t, again.Existing)
	assert.Equal(t, target.Path, again.Path)
	assert.False(t, w.Commit(again))
}

func TestEndRemovesDirectoryAndIsIdempotent(t *testing.T) {
	w, err := Start(t.TempDir(), ".py")
	require.NoError(t, err)
	w.SetCurrent(problem("Two Sum"))
	_, err = w.OpenForEdit(&recordingEditor{content: "x"})
	require.NoError(t, err)

	require.NoError(t, w.End())
	_, statErr := os.Stat(w.Dir())
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, w.Entries())

	assert.NoError(t, w.End())

	_, err = w.OpenForEdit(&recordingEditor{content: "x"})
	assert.ErrorIs(t, err, ErrEnded)
}

func TestEndAfterExternalRemoval(t *testing.T) {
	w, err := Start(t.TempDir(), ".py")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(w.Dir()))
	assert.NoError(t, w.End())
}

func TestCurrentAndDisplay(t *testing.T) {
	w := startWorkspace(t)
	_, ok := w.Current()
	assert.False(t, ok)

	w.SetCurrent(problem("Two Sum"))
	w.SetDisplay("Two Sum")
	p, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, "Two Sum", p.Name)
	assert.Equal(t, "Two Sum", w.Display())
}
