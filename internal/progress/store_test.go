package progress

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
  "meta": {
    "start_date": "2026-01-05",
    "last_updated": "2026-01-05",
    "total_days_active": 12,
    "streak_days": 4
  },
  "leetcode": {
    "total_solved": 3,
    "total_target": 20,
    "phases": [
      {
        "id": 1,
        "name": "Arrays",
        "solved": 2,
        "target": 8,
        "topics": [
          {"name": "Two Pointers", "solved": 0, "target": 3, "problems": []},
          {"name": "Sliding Window", "solved": 2, "target": 5, "problems": ["Best Time to Buy and Sell Stock", "Longest Substring (No Repeats)"]}
        ]
      },
      {
        "id": 2,
        "name": "Graphs",
        "solved": 1,
        "target": 12,
        "topics": [
          {"name": "BFS", "solved": 1, "target": 6, "problems": ["Rotting Oranges"]},
          {"name": "DFS", "solved": 0, "target": 6, "problems": []}
        ]
      }
    ]
  },
  "systems": {
    "modules": [
      {
        "name": "Operating Systems",
        "topics": [
          {"name": "Processes", "completed": false, "subtopics": ["fork", "exec"]},
          {"name": "Scheduling", "completed": true}
        ]
      }
    ]
  }
}`

var fixedNow = time.Date(2026, 10, 17, 21, 30, 0, 0, time.Local)

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func openFixture(t *testing.T) *Store {
	t.Helper()
	s, err := Open(writeFixture(t, fixtureJSON), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return s
}

func readBack(t *testing.T, path string) Document {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func assertConsistent(t *testing.T, doc *Document) {
	t.Helper()
	grand := 0
	for _, p := range doc.LeetCode.Phases {
		sum := 0
		for _, topic := range p.Topics {
			assert.Equal(t, len(topic.Problems), topic.Solved, "topic %q solved", topic.Name)
			sum += topic.Solved
		}
		assert.Equal(t, sum, p.Solved, "phase %d solved", p.ID)
		grand += p.Solved
	}
	assert.Equal(t, grand, doc.LeetCode.TotalSolved)
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	_, err := Open(path)
	require.Error(t, err)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, path, nf.Path)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "missing file must not be scaffolded")
}

func TestOpenCorruptFile(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{meta: nope"},
		{"empty", ""},
		{"missing leetcode", `{"meta": {}, "systems": {"modules": []}}`},
		{"phase id zero", `{"meta": {}, "leetcode": {"phases": [{"id": 0, "name": "x", "topics": []}]}, "systems": {"modules": []}}`},
		{"problems not strings", `{"meta": {}, "leetcode": {"phases": [{"id": 1, "name": "x", "topics": [{"name": "t", "problems": [1]}]}]}, "systems": {"modules": []}}`},
		{"completed not bool", `{"meta": {}, "leetcode": {"phases": []}, "systems": {"modules": [{"name": "m", "topics": [{"name": "t", "completed": "yes"}]}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(writeFixture(t, tt.body))
			var cd *CorruptDataError
			require.ErrorAs(t, err, &cd)
		})
	}
}

func TestLoadFailureKeepsPreviousDocument(t *testing.T) {
	s := openFixture(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("garbage"), 0o644))

	err := s.Load()
	var cd *CorruptDataError
	require.ErrorAs(t, err, &cd)
	require.NotNil(t, s.Document())
	assert.Equal(t, "Arrays", s.Document().LeetCode.Phases[0].Name)
}

func TestAddProblemExampleScenario(t *testing.T) {
	s := openFixture(t)
	before := s.Document().LeetCode.TotalSolved

	added, err := s.AddProblem(1, "Two Pointers", "Container With Most Water")
	require.NoError(t, err)
	assert.True(t, added)

	doc := s.Document()
	topic := doc.LeetCode.Phase(1).Topic("Two Pointers")
	require.NotNil(t, topic)
	assert.Equal(t, []string{"Container With Most Water"}, topic.Problems)
	assert.Equal(t, 1, topic.Solved)
	assert.Equal(t, 3, doc.LeetCode.Phase(1).Solved)
	assert.Equal(t, before+1, doc.LeetCode.TotalSolved)
	assertConsistent(t, doc)

	onDisk := readBack(t, s.Path())
	assert.Equal(t, doc.LeetCode, onDisk.LeetCode)
	assert.Equal(t, "2026-10-17", onDisk.Meta.LastUpdated)
}

func TestAddProblemIsIdempotent(t *testing.T) {
	s := openFixture(t)

	for i := 0; i < 3; i++ {
		_, err := s.AddProblem(2, "DFS", "Number of Islands")
		require.NoError(t, err)
	}

	doc := s.Document()
	topic := doc.LeetCode.Phase(2).Topic("DFS")
	assert.Equal(t, []string{"Number of Islands"}, topic.Problems)
	assert.Equal(t, 1, topic.Solved)
	assertConsistent(t, doc)

	added, err := s.AddProblem(2, "DFS", "Number of Islands")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestAddProblemLookupMissStillRecountsAndSaves(t *testing.T) {
	tests := []struct {
		name    string
		phaseID int
		topic   string
	}{
		{"unknown phase", 9, "Two Pointers"},
		{"unknown topic", 1, "two pointers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openFixture(t)
			before := s.Document()

			added, err := s.AddProblem(tt.phaseID, tt.topic, "Trapping Rain Water")
			require.NoError(t, err)
			assert.False(t, added)

			after := s.Document()
			assert.Equal(t, before.LeetCode, after.LeetCode)

			onDisk := readBack(t, s.Path())
			assert.Equal(t, "2026-10-17", onDisk.Meta.LastUpdated, "miss still persists")
			assert.Equal(t, before.LeetCode.TotalSolved, onDisk.LeetCode.TotalSolved)
		})
	}
}

func TestAddProblemRecountsStaleTotals(t *testing.T) {
	stale := strings.Replace(fixtureJSON, `"total_solved": 3`, `"total_solved": 99`, 1)
	s, err := Open(writeFixture(t, stale), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	_, err = s.AddProblem(42, "nowhere", "x")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Document().LeetCode.TotalSolved)
}

func TestToggleSystemsTopic(t *testing.T) {
	s := openFixture(t)

	got, err := s.ToggleSystemsTopic("Operating Systems", "Processes")
	require.NoError(t, err)
	assert.True(t, got)
	assert.True(t, readBack(t, s.Path()).Systems.Modules[0].Topics[0].Completed)

	got, err = s.ToggleSystemsTopic("Operating Systems", "Processes")
	require.NoError(t, err)
	assert.False(t, got)
	assert.False(t, s.Document().Systems.Modules[0].Topics[0].Completed)
}

func TestToggleSystemsTopicNoMatch(t *testing.T) {
	s := openFixture(t)
	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	before := s.Document()

	for _, args := range [][2]string{{"Networking", "Processes"}, {"Operating Systems", "Memory"}} {
		got, err := s.ToggleSystemsTopic(args[0], args[1])
		require.NoError(t, err)
		assert.False(t, got)
	}

	assert.Equal(t, before, s.Document())
	after, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime(), "no-op toggle must not write")
}

func TestSolvedProblems(t *testing.T) {
	s := openFixture(t)

	got := slices.Collect(s.SolvedProblems())
	want := []SolvedProblem{
		{Name: "Best Time to Buy and Sell Stock", Topic: "Sliding Window", Phase: "Arrays", PhaseID: 1},
		{Name: "Longest Substring (No Repeats)", Topic: "Sliding Window", Phase: "Arrays", PhaseID: 1},
		{Name: "Rotting Oranges", Topic: "BFS", Phase: "Graphs", PhaseID: 2},
	}
	assert.Equal(t, want, got)

	// Recomputed on each range, not cached.
	_, err := s.AddProblem(2, "DFS", "Clone Graph")
	require.NoError(t, err)
	got = slices.Collect(s.SolvedProblems())
	assert.Len(t, got, 4)
	assert.Equal(t, "Clone Graph", got[3].Name)
}

func TestSolvedProblemsLengthMatchesProblemLists(t *testing.T) {
	s := openFixture(t)
	total := 0
	for _, p := range s.Document().LeetCode.Phases {
		for _, topic := range p.Topics {
			total += len(topic.Problems)
		}
	}
	assert.Len(t, slices.Collect(s.SolvedProblems()), total)
}

func TestSolvedProblemsEmpty(t *testing.T) {
	empty := `{"meta": {}, "leetcode": {"phases": [{"id": 1, "name": "Arrays", "topics": [{"name": "t", "problems": []}]}]}, "systems": {"modules": []}}`
	s, err := Open(writeFixture(t, empty))
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(s.SolvedProblems()))
}

func TestSaveFormat(t *testing.T) {
	s := openFixture(t)
	_, err := s.AddProblem(1, "Two Pointers", "3Sum <hard> & friends")
	require.NoError(t, err)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "{\n  \"meta\": {\n    \"start_date\""), "two-space indent")
	assert.Contains(t, text, "3Sum <hard> & friends", "HTML characters are not escaped")
	assert.Contains(t, text, `"subtopics": [`)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestDocumentIsACopy(t *testing.T) {
	s := openFixture(t)
	doc := s.Document()
	doc.LeetCode.Phases[0].Topics[1].Problems[0] = "mutated"
	doc.Systems.Modules[0].Topics[0].Completed = true

	fresh := s.Document()
	assert.Equal(t, "Best Time to Buy and Sell Stock", fresh.LeetCode.Phases[0].Topics[1].Problems[0])
	assert.False(t, fresh.Systems.Modules[0].Topics[0].Completed)
}

func TestSaveBeforeLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "progress.json"))
	assert.Error(t, s.Save())
	assert.Nil(t, s.Document())

	got, err := s.ToggleSystemsTopic("a", "b")
	assert.NoError(t, err)
	assert.False(t, got)
}

func TestNotFoundUnwraps(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStats(t *testing.T) {
	assert.Equal(t, Stats{}, New("unused").Stats())

	s := openFixture(t)
	assert.Equal(t, Stats{StartDate: "2026-01-05", DaysActive: 12, Streak: 4, Solved: 3, Target: 20}, s.Stats())

	_, err := s.AddProblem(2, "DFS", "Number of Islands")
	require.NoError(t, err)
	assert.Equal(t, 4, s.Stats().Solved)
}

const extraKeysJSON = `{
  "version": 2,
  "meta": {"start_date": "2026-01-05", "last_updated": "2026-01-05", "total_days_active": 1, "streak_days": 1, "weekly_goal": {"problems": 10}},
  "leetcode": {
    "total_solved": 0,
    "total_target": 3,
    "source": "neetcode",
    "phases": [
      {"id": 1, "name": "Arrays", "solved": 0, "target": 3, "difficulty": "easy",
       "topics": [{"name": "Two Pointers", "solved": 0, "target": 3, "problems": [], "notes": "review <sorted> inputs"}]}
    ]
  },
  "systems": {
    "modules": [
      {"name": "Networking", "order": 1, "topics": [{"name": "TCP", "completed": false, "link": "rfc793"}]}
    ],
    "owner": "me"
  }
}`

func TestUnknownKeysSurviveSave(t *testing.T) {
	s, err := Open(writeFixture(t, extraKeysJSON), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	_, err = s.AddProblem(1, "Two Pointers", "3Sum")
	require.NoError(t, err)
	_, err = s.ToggleSystemsTopic("Networking", "TCP")
	require.NoError(t, err)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal(raw, &tree))

	assert.Equal(t, float64(2), tree["version"])
	meta := tree["meta"].(map[string]any)
	assert.Equal(t, map[string]any{"problems": float64(10)}, meta["weekly_goal"])
	assert.Equal(t, "2026-10-17", meta["last_updated"])

	leetcode := tree["leetcode"].(map[string]any)
	assert.Equal(t, "neetcode", leetcode["source"])
	assert.Equal(t, float64(1), leetcode["total_solved"])
	phase := leetcode["phases"].([]any)[0].(map[string]any)
	assert.Equal(t, "easy", phase["difficulty"])
	topic := phase["topics"].([]any)[0].(map[string]any)
	assert.Equal(t, "review <sorted> inputs", topic["notes"])
	assert.Equal(t, []any{"3Sum"}, topic["problems"])

	systems := tree["systems"].(map[string]any)
	assert.Equal(t, "me", systems["owner"])
	module := systems["modules"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), module["order"])
	sysTopic := module["topics"].([]any)[0].(map[string]any)
	assert.Equal(t, "rfc793", sysTopic["link"])
	assert.Equal(t, true, sysTopic["completed"])

	text := string(raw)
	assert.Less(t, strings.Index(text, `"streak_days"`), strings.Index(text, `"weekly_goal"`),
		"unmodelled keys follow the known ones")
	assert.Contains(t, text, "<sorted>", "HTML characters are not escaped")
}

func TestDocumentCopyKeepsExtra(t *testing.T) {
	s, err := Open(writeFixture(t, extraKeysJSON))
	require.NoError(t, err)

	doc := s.Document()
	require.Len(t, doc.Extra, 1)
	assert.Equal(t, "version", doc.Extra[0].Key)
	assert.Equal(t, "weekly_goal", doc.Meta.Extra[0].Key)
	assert.Nil(t, readBack(t, writeFixture(t, fixtureJSON)).Meta.Extra)
}

func TestSaveKeepsFileMode(t *testing.T) {
	s := openFixture(t)
	require.NoError(t, os.Chmod(s.Path(), 0o600))

	_, err := s.AddProblem(1, "Two Pointers", "3Sum")
	require.NoError(t, err)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveThroughSymlink(t *testing.T) {
	target := writeFixture(t, fixtureJSON)
	link := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.Symlink(target, link))

	s, err := Open(link, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	_, err = s.AddProblem(1, "Two Pointers", "3Sum")
	require.NoError(t, err)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, info.Mode()&os.ModeSymlink, "link must stay a symlink")

	doc := readBack(t, target)
	assert.Equal(t, []string{"3Sum"}, doc.LeetCode.Phases[0].Topics[0].Problems)

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file belongs next to the link target")
}
