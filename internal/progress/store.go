package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"time"
)

// DateLayout is the format of Meta.LastUpdated.
const DateLayout = "2006-01-02"

// SolvedProblem is one recorded problem with its owning topic and phase.
type SolvedProblem struct {
	Name    string
	Topic   string
	Phase   string
	PhaseID int
}

// Store owns the in-memory progress document and is the only writer of
// the backing file. Callers get copies via Document and mutate through
// AddProblem and ToggleSystemsTopic.
type Store struct {
	path string
	doc  *Document
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp Meta.LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store for path without reading it.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Store for path and loads it.
func Open(path string, opts ...Option) (*Store, error) {
	s := New(path, opts...)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the backing file. On failure the previously
// loaded document, if any, is kept.
func (s *Store) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &NotFoundError{Path: s.path, Err: err}
		}
		return fmt.Errorf("read progress file: %w", err)
	}

	if err := validate(raw); err != nil {
		return &CorruptDataError{Path: s.path, Err: err}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &CorruptDataError{Path: s.path, Err: err}
	}
	s.doc = &doc
	return nil
}

// Save stamps Meta.LastUpdated with the local date and rewrites the whole
// backing file through a temp file and rename. A symlinked path is
// resolved first and the existing file mode is kept.
func (s *Store) Save() error {
	if s.doc == nil {
		return errors.New("progress: save before load")
	}
	s.doc.Meta.LastUpdated = s.now().Format(DateLayout)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.doc); err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	target := s.path
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// Document returns a deep copy of the current document, or nil before Load.
func (s *Store) Document() *Document {
	if s.doc == nil {
		return nil
	}
	return s.doc.Clone()
}

// AddProblem records problemName under the topic named topicName in the
// phase with id phaseID, then recounts and saves.
//
// Lookup misses are not reported. The matched phase (if any) and the grand
// total are recounted and the document is saved regardless, so a typo in
// the phase or topic leaves the problem lists untouched. The returned bool
// reports whether a new name was inserted.
func (s *Store) AddProblem(phaseID int, topicName, problemName string) (bool, error) {
	if s.doc == nil {
		return false, errors.New("progress: add before load")
	}

	added := false
	if phase := s.doc.LeetCode.Phase(phaseID); phase != nil {
		if topic := phase.Topic(topicName); topic != nil {
			added = topic.Insert(problemName)
		}
		phase.Recount()
	}
	s.doc.LeetCode.Recount()

	if err := s.Save(); err != nil {
		return added, err
	}
	return added, nil
}

// ToggleSystemsTopic flips the completion flag of the named topic, saves,
// and returns the new value. Returns false without saving when no module
// or topic matches.
func (s *Store) ToggleSystemsTopic(moduleName, topicName string) (bool, error) {
	if s.doc == nil {
		return false, nil
	}
	module := s.doc.Systems.Module(moduleName)
	if module == nil {
		return false, nil
	}
	topic := module.Topic(topicName)
	if topic == nil {
		return false, nil
	}

	topic.Completed = !topic.Completed
	if err := s.Save(); err != nil {
		return topic.Completed, err
	}
	return topic.Completed, nil
}

// SolvedProblems yields every recorded problem in document order. The
// sequence reads the live document each time it is ranged over.
func (s *Store) SolvedProblems() iter.Seq[SolvedProblem] {
	return func(yield func(SolvedProblem) bool) {
		if s.doc == nil {
			return
		}
		for _, phase := range s.doc.LeetCode.Phases {
			for _, topic := range phase.Topics {
				for _, name := range topic.Problems {
					sp := SolvedProblem{
						Name:    name,
						Topic:   topic.Name,
						Phase:   phase.Name,
						PhaseID: phase.ID,
					}
					if !yield(sp) {
						return
					}
				}
			}
		}
	}
}

// Stats is the summary shown in the dashboard header.
type Stats struct {
	StartDate  string
	DaysActive int
	Streak     int
	Solved     int
	Target     int
}

// Stats returns the header counters without copying the document.
func (s *Store) Stats() Stats {
	if s.doc == nil {
		return Stats{}
	}
	return Stats{
		StartDate:  s.doc.Meta.StartDate,
		DaysActive: s.doc.Meta.TotalDaysActive,
		Streak:     s.doc.Meta.StreakDays,
		Solved:     s.doc.LeetCode.TotalSolved,
		Target:     s.doc.LeetCode.TotalTarget,
	}
}
