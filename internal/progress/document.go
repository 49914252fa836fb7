package progress

import "slices"

// Document is the root of progress.json. Every type in the tree keeps the
// object members it does not model in Extra and writes them back on save.
type Document struct {
	Meta     Meta     `json:"meta"`
	LeetCode LeetCode `json:"leetcode"`
	Systems  Systems  `json:"systems"`
	Extra    Extra    `json:"-"`
}

// Meta holds counters maintained outside the dashboard. Only LastUpdated
// is written by the Store; other keys ride along in Extra.
type Meta struct {
	StartDate       string `json:"start_date"`
	LastUpdated     string `json:"last_updated"`
	TotalDaysActive int    `json:"total_days_active"`
	StreakDays      int    `json:"streak_days"`
	Extra           Extra  `json:"-"`
}

// LeetCode groups the problem-solving phases.
type LeetCode struct {
	TotalSolved int     `json:"total_solved"`
	TotalTarget int     `json:"total_target"`
	Phases      []Phase `json:"phases"`
	Extra       Extra   `json:"-"`
}

// Phase is a top-level grouping of topics. Solved is the sum of its
// topics' Solved counts.
type Phase struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Solved int     `json:"solved"`
	Target int     `json:"target"`
	Topics []Topic `json:"topics"`
	Extra  Extra   `json:"-"`
}

// Topic holds the distinct names of solved problems. Solved == len(Problems).
type Topic struct {
	Name     string   `json:"name"`
	Solved   int      `json:"solved"`
	Target   int      `json:"target"`
	Problems []string `json:"problems"`
	Extra    Extra    `json:"-"`
}

// Systems groups the systems-study modules.
type Systems struct {
	Modules []Module `json:"modules"`
	Extra   Extra    `json:"-"`
}

// Module is a top-level grouping of systems topics.
type Module struct {
	Name   string         `json:"name"`
	Topics []SystemsTopic `json:"topics"`
	Extra  Extra          `json:"-"`
}

// SystemsTopic is a single completion flag. Subtopics are display-only.
type SystemsTopic struct {
	Name      string   `json:"name"`
	Completed bool     `json:"completed"`
	Subtopics []string `json:"subtopics,omitempty"`
	Extra     Extra    `json:"-"`
}

func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	extra, err := decodeObject(data, (*plain)(d))
	if err != nil {
		return err
	}
	d.Extra = extra
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return encodeObject(plain(d), d.Extra)
}

func (m *Meta) UnmarshalJSON(data []byte) error {
	type plain Meta
	extra, err := decodeObject(data, (*plain)(m))
	if err != nil {
		return err
	}
	m.Extra = extra
	return nil
}

func (m Meta) MarshalJSON() ([]byte, error) {
	type plain Meta
	return encodeObject(plain(m), m.Extra)
}

func (l *LeetCode) UnmarshalJSON(data []byte) error {
	type plain LeetCode
	extra, err := decodeObject(data, (*plain)(l))
	if err != nil {
		return err
	}
	l.Extra = extra
	return nil
}

func (l LeetCode) MarshalJSON() ([]byte, error) {
	type plain LeetCode
	return encodeObject(plain(l), l.Extra)
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	type plain Phase
	extra, err := decodeObject(data, (*plain)(p))
	if err != nil {
		return err
	}
	p.Extra = extra
	return nil
}

func (p Phase) MarshalJSON() ([]byte, error) {
	type plain Phase
	return encodeObject(plain(p), p.Extra)
}

func (t *Topic) UnmarshalJSON(data []byte) error {
	type plain Topic
	extra, err := decodeObject(data, (*plain)(t))
	if err != nil {
		return err
	}
	t.Extra = extra
	return nil
}

func (t Topic) MarshalJSON() ([]byte, error) {
	type plain Topic
	return encodeObject(plain(t), t.Extra)
}

func (s *Systems) UnmarshalJSON(data []byte) error {
	type plain Systems
	extra, err := decodeObject(data, (*plain)(s))
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s Systems) MarshalJSON() ([]byte, error) {
	type plain Systems
	return encodeObject(plain(s), s.Extra)
}

func (m *Module) UnmarshalJSON(data []byte) error {
	type plain Module
	extra, err := decodeObject(data, (*plain)(m))
	if err != nil {
		return err
	}
	m.Extra = extra
	return nil
}

func (m Module) MarshalJSON() ([]byte, error) {
	type plain Module
	return encodeObject(plain(m), m.Extra)
}

func (s *SystemsTopic) UnmarshalJSON(data []byte) error {
	type plain SystemsTopic
	extra, err := decodeObject(data, (*plain)(s))
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s SystemsTopic) MarshalJSON() ([]byte, error) {
	type plain SystemsTopic
	return encodeObject(plain(s), s.Extra)
}

// Phase returns the first phase with the given id, or nil.
func (l *LeetCode) Phase(id int) *Phase {
	for i := range l.Phases {
		if l.Phases[i].ID == id {
			return &l.Phases[i]
		}
	}
	return nil
}

// Recount sets TotalSolved to the sum of the phases' Solved counts.
func (l *LeetCode) Recount() {
	total := 0
	for _, p := range l.Phases {
		total += p.Solved
	}
	l.TotalSolved = total
}

// Topic returns the topic with the exact given name, or nil.
func (p *Phase) Topic(name string) *Topic {
	for i := range p.Topics {
		if p.Topics[i].Name == name {
			return &p.Topics[i]
		}
	}
	return nil
}

// Recount sets Solved to the sum of the topics' Solved counts.
func (p *Phase) Recount() {
	total := 0
	for _, t := range p.Topics {
		total += t.Solved
	}
	p.Solved = total
}

// Has reports whether the problem name is already recorded.
func (t *Topic) Has(problem string) bool {
	return slices.Contains(t.Problems, problem)
}

// Insert appends problem if it is not already present and resyncs Solved.
// Returns false when the name was already recorded.
func (t *Topic) Insert(problem string) bool {
	if t.Has(problem) {
		return false
	}
	t.Problems = append(t.Problems, problem)
	t.Solved = len(t.Problems)
	return true
}

// Done reports whether the topic has reached its target.
func (t Topic) Done() bool {
	return t.Solved >= t.Target
}

// Module returns the module with the exact given name, or nil.
func (s *Systems) Module(name string) *Module {
	for i := range s.Modules {
		if s.Modules[i].Name == name {
			return &s.Modules[i]
		}
	}
	return nil
}

// Topic returns the systems topic with the exact given name, or nil.
func (m *Module) Topic(name string) *SystemsTopic {
	for i := range m.Topics {
		if m.Topics[i].Name == name {
			return &m.Topics[i]
		}
	}
	return nil
}

// Completed returns how many of the module's topics are complete.
func (m Module) Completed() int {
	n := 0
	for _, t := range m.Topics {
		if t.Completed {
			n++
		}
	}
	return n
}

// Percent returns int(done/total*100), or 0 when total is not positive.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(done) / float64(total) * 100)
}

// Clone returns a deep copy of the document. Extra members are shared.
func (d *Document) Clone() *Document {
	out := *d
	out.LeetCode.Phases = make([]Phase, len(d.LeetCode.Phases))
	for i, p := range d.LeetCode.Phases {
		p.Topics = make([]Topic, len(d.LeetCode.Phases[i].Topics))
		for j, t := range d.LeetCode.Phases[i].Topics {
			t.Problems = slices.Clone(t.Problems)
			p.Topics[j] = t
		}
		out.LeetCode.Phases[i] = p
	}
	out.Systems.Modules = make([]Module, len(d.Systems.Modules))
	for i, m := range d.Systems.Modules {
		m.Topics = make([]SystemsTopic, len(d.Systems.Modules[i].Topics))
		for j, t := range d.Systems.Modules[i].Topics {
			t.Subtopics = slices.Clone(t.Subtopics)
			m.Topics[j] = t
		}
		out.Systems.Modules[i] = m
	}
	return &out
}
