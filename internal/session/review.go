package session

import (
	"fmt"
	"os"

	"github.com/abhisek/prepdash/internal/editor"
)

// Review steps through a fixed copy of a workspace's entries.
type Review struct {
	entries  []Entry
	selected int
}

// NewReview copies entries; later workspace changes are not reflected.
func NewReview(entries []Entry) *Review {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Review{entries: cp}
}

// Len returns the number of entries.
func (r *Review) Len() int { return len(r.entries) }

// Empty reports whether there is nothing to review.
func (r *Review) Empty() bool { return len(r.entries) == 0 }

// Entries returns the reviewed entries in order.
func (r *Review) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Selected returns the selected index.
func (r *Review) Selected() int { return r.selected }

// Current returns the selected entry.
func (r *Review) Current() (Entry, bool) {
	if r.Empty() {
		return Entry{}, false
	}
	return r.entries[r.selected], true
}

// Previous moves the selection up, stopping at the first entry.
func (r *Review) Previous() {
	if r.selected > 0 {
		r.selected--
	}
}

// Next moves the selection down, stopping at the last entry.
func (r *Review) Next() {
	if r.selected < len(r.entries)-1 {
		r.selected++
	}
}

// Show reads the selected file. A read failure is returned as display
// text along with the error so review stays usable when a file vanished.
func (r *Review) Show() (string, error) {
	e, ok := r.Current()
	if !ok {
		return "", nil
	}
	data, err := os.ReadFile(e.Path)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err), err
	}
	return string(data), nil
}

// Edit reopens the selected file in ed and returns the refreshed content.
func (r *Review) Edit(ed editor.Editor) (string, error) {
	e, ok := r.Current()
	if !ok {
		return "", nil
	}
	if err := ed.Edit(e.Path); err != nil {
		return fmt.Sprintf("Error opening editor: %v", err), err
	}
	return r.Show()
}
