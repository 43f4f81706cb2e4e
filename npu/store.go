package npu

import (
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Corpus record types
// ---------------------------------------------------------------------------

// Pattern is one design pattern record. Records are built wholesale at load
// time and never mutated afterward; all mutable state lives in the device,
// not the corpus.
type Pattern struct {
	ID             int    `json:"number"`
	Name           string `json:"name"`
	Asterisks      int    `json:"asterisks"`
	Category       string `json:"category"`
	Context        string `json:"context"`
	ProblemSummary string `json:"problem_summary"`
	ProblemDetails string `json:"problem_details"`
	Solution       string `json:"solution"`
	Diagram        string `json:"diagram"`
	Connections    string `json:"connections"`
	Preceding      []int  `json:"preceding_patterns"`
	Following      []int  `json:"following_patterns"`
}

// Archetype is a pattern template whose placeholder tokens resolve to
// domain-specific terms. Mappings are keyed placeholder name first, then
// domain name.
type Archetype struct {
	ID           string                       `json:"pattern_id"`
	Name         string                       `json:"name"`
	Template     string                       `json:"archetypal_pattern"`
	Original     string                       `json:"original_template"`
	Placeholders []string                     `json:"placeholders"`
	Mappings     map[string]map[string]string `json:"domain_mappings"`
}

// TransformTo substitutes every placeholder token in the template with its
// value for the given domain. A placeholder with no value for the domain
// keeps its literal {{name}} token; substitution never fails part-way.
func (a *Archetype) TransformTo(domain Domain) string {
	result := a.Template
	for _, ph := range a.Placeholders {
		byDomain, ok := a.Mappings[ph]
		if !ok {
			continue
		}
		value, ok := byDomain[domain.String()]
		if !ok {
			continue
		}
		result = strings.ReplaceAll(result, "{{"+ph+"}}", value)
	}
	return result
}

// Sequence is an ordered grouping of patterns that combine into an
// emergent effect.
type Sequence struct {
	ID          int    `json:"id"`
	Name        string `json:"heading"`
	Description string `json:"description"`
	Emergent    string `json:"emergent_phenomena"`
	PatternIDs  []int  `json:"patterns"`
}

// Category groups patterns by an inclusive id range. The three categories
// partition the full 1..253 id space.
type Category struct {
	Name        string
	Description string
	First, Last int
	PatternIDs  []int
}

var categoryDefs = [...]Category{
	{Name: "towns", Description: "Regional and community patterns", First: 1, Last: 94},
	{Name: "buildings", Description: "Building and room patterns", First: 95, Last: 204},
	{Name: "construction", Description: "Construction detail patterns", First: 205, Last: 253},
}

// ---------------------------------------------------------------------------
// PatternStore
// ---------------------------------------------------------------------------

// PatternStore holds the loaded corpus. Patterns live in an arena sorted by
// ascending id; the preceding, following, sequence, and category id lists
// are resolved to arena indices once at build time, so navigation never
// repeats existence checks. A store is immutable once built: the device
// swaps in a fully built store or none at all.
type PatternStore struct {
	arena []Pattern
	index map[int]int // pattern id -> arena index

	archetypes map[string]*Archetype
	sequences  map[int]*Sequence
	categories map[string]*Category

	preceding  [][]int // arena indices, parallel to arena
	following  [][]int
	seqMembers map[int][]int
	catMembers map[string][]int
}

// NewPatternStore builds a store from decoded corpus documents. Records
// with a non-positive id are dropped (id 0 is the corpus meta-pattern, not
// an addressable record); link lists referencing absent ids lose those
// entries here, once, rather than at every navigation.
func NewPatternStore(patterns []Pattern, archetypes []Archetype, sequences []Sequence) *PatternStore {
	s := &PatternStore{
		index:      make(map[int]int),
		archetypes: make(map[string]*Archetype, len(archetypes)),
		sequences:  make(map[int]*Sequence, len(sequences)),
		categories: make(map[string]*Category, len(categoryDefs)),
		seqMembers: make(map[int][]int, len(sequences)),
		catMembers: make(map[string][]int, len(categoryDefs)),
	}

	for _, p := range patterns {
		if p.ID <= 0 {
			continue
		}
		if at, ok := s.index[p.ID]; ok {
			s.arena[at] = p
			continue
		}
		s.index[p.ID] = len(s.arena)
		s.arena = append(s.arena, p)
	}
	sort.Slice(s.arena, func(i, j int) bool { return s.arena[i].ID < s.arena[j].ID })
	for i := range s.arena {
		s.index[s.arena[i].ID] = i
	}

	s.preceding = make([][]int, len(s.arena))
	s.following = make([][]int, len(s.arena))
	for i := range s.arena {
		s.preceding[i] = s.resolve(s.arena[i].Preceding)
		s.following[i] = s.resolve(s.arena[i].Following)
	}

	for i := range archetypes {
		a := archetypes[i]
		s.archetypes[a.ID] = &a
	}

	for i := range sequences {
		seq := sequences[i]
		s.sequences[seq.ID] = &seq
		s.seqMembers[seq.ID] = s.resolve(seq.PatternIDs)
	}

	for _, def := range categoryDefs {
		cat := def
		var members []int
		for i := range s.arena {
			if id := s.arena[i].ID; id >= cat.First && id <= cat.Last {
				cat.PatternIDs = append(cat.PatternIDs, id)
				members = append(members, i)
			}
		}
		s.categories[cat.Name] = &cat
		s.catMembers[cat.Name] = members
	}

	return s
}

// resolve maps a pattern id list to arena indices, dropping absent ids.
func (s *PatternStore) resolve(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if at, ok := s.index[id]; ok {
			out = append(out, at)
		}
	}
	return out
}

func (s *PatternStore) deref(indices []int) []*Pattern {
	out := make([]*Pattern, len(indices))
	for i, at := range indices {
		out[i] = &s.arena[at]
	}
	return out
}

// Len returns the number of loaded patterns.
func (s *PatternStore) Len() int {
	return len(s.arena)
}

// ArchetypeCount returns the number of loaded archetypal patterns.
func (s *PatternStore) ArchetypeCount() int {
	return len(s.archetypes)
}

// SequenceCount returns the number of loaded sequences.
func (s *PatternStore) SequenceCount() int {
	return len(s.sequences)
}

// CategoryCount returns the number of derived categories.
func (s *PatternStore) CategoryCount() int {
	return len(s.categories)
}

// First returns the lowest-id pattern, or nil when the store is empty.
func (s *PatternStore) First() *Pattern {
	if len(s.arena) == 0 {
		return nil
	}
	return &s.arena[0]
}

// ByID returns the pattern with the given id.
func (s *PatternStore) ByID(id int) (*Pattern, bool) {
	at, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.arena[at], true
}

// ByName returns the pattern whose name matches case-insensitively. When
// several patterns share a name, the lowest id wins; the arena is sorted
// ascending, so the first match is that record.
func (s *PatternStore) ByName(name string) (*Pattern, bool) {
	for i := range s.arena {
		if strings.EqualFold(s.arena[i].Name, name) {
			return &s.arena[i], true
		}
	}
	return nil, false
}

// Search returns every pattern whose name, context, problem summary, or
// solution contains text case-insensitively, ordered by ascending id. An
// empty result is legal, not an error.
func (s *PatternStore) Search(text string) []*Pattern {
	needle := strings.ToLower(text)
	results := []*Pattern{}
	for i := range s.arena {
		p := &s.arena[i]
		haystack := strings.ToLower(p.Name + " " + p.Context + " " + p.ProblemSummary + " " + p.Solution)
		if strings.Contains(haystack, needle) {
			results = append(results, p)
		}
	}
	return results
}

// Archetype returns the archetypal pattern with the given string id.
func (s *PatternStore) Archetype(id string) (*Archetype, bool) {
	a, ok := s.archetypes[id]
	return a, ok
}

// PrecedingOf returns the records linked as preceding the given pattern,
// in stored order. The second result is false when the id itself is
// unknown.
func (s *PatternStore) PrecedingOf(id int) ([]*Pattern, bool) {
	at, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.deref(s.preceding[at]), true
}

// FollowingOf returns the records linked as following the given pattern,
// in stored order.
func (s *PatternStore) FollowingOf(id int) ([]*Pattern, bool) {
	at, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.deref(s.following[at]), true
}

// Sequence returns the sequence definition with the given id.
func (s *PatternStore) Sequence(id int) (*Sequence, bool) {
	seq, ok := s.sequences[id]
	return seq, ok
}

// SequencePatterns returns the member records of a sequence in definition
// order. The second result is false when the sequence id is unknown.
func (s *PatternStore) SequencePatterns(id int) ([]*Pattern, bool) {
	members, ok := s.seqMembers[id]
	if !ok {
		return nil, false
	}
	return s.deref(members), true
}

// Category returns the category with the given name.
func (s *PatternStore) Category(name string) (*Category, bool) {
	cat, ok := s.categories[name]
	return cat, ok
}

// CategoryPatterns returns the records of a category in ascending id
// order. The second result is false when the category name is unknown.
func (s *PatternStore) CategoryPatterns(name string) ([]*Pattern, bool) {
	members, ok := s.catMembers[name]
	if !ok {
		return nil, false
	}
	return s.deref(members), true
}

// All returns every loaded record in ascending id order.
func (s *PatternStore) All() []*Pattern {
	out := make([]*Pattern, len(s.arena))
	for i := range s.arena {
		out[i] = &s.arena[i]
	}
	return out
}
