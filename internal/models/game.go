package models

import (
	"sort"

	"github.com/goccy/go-json"
)

// PreferenceEntry holds one game's display name and the per-player scores.
// A player without a score is resolved to the default at scoring time.
type PreferenceEntry struct {
	Name   string             `json:"name"`
	Scores map[string]float64 `json:"scores"`
}

// Score returns the stored score for a player, if any.
func (e *PreferenceEntry) Score(player string) (float64, bool) {
	if e == nil {
		return 0, false
	}
	s, ok := e.Scores[player]
	return s, ok
}

// Preferences maps a game key to its preference entry
type Preferences map[string]*PreferenceEntry

// Clone returns a deep copy so the base map stays untouched by edits.
func (p Preferences) Clone() Preferences {
	out := make(Preferences, len(p))
	for key, entry := range p {
		scores := make(map[string]float64, len(entry.Scores))
		for player, score := range entry.Scores {
			scores[player] = score
		}
		out[key] = &PreferenceEntry{Name: entry.Name, Scores: scores}
	}
	return out
}

// Keys returns the game keys in sorted order
func (p Preferences) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RuleEntry is the normalized player-count constraint model for one game.
type RuleEntry struct {
	Name       string `json:"name"`
	MinPlayers int    `json:"min_players"`
	MaxPlayers *int   `json:"max_players"` // nil = unbounded
	IdealMin   *int   `json:"ideal_min,omitempty"`
	IdealMax   *int   `json:"ideal_max,omitempty"`
	OnlineCap  *int   `json:"online_cap,omitempty"`
	Notes      string `json:"notes,omitempty"`

	AllowedCounts    CountSet `json:"allowed_counts"`
	DisallowedCounts CountSet `json:"disallowed_counts"`

	// RangeAllowed is set when min/max came from an explicit range sentence,
	// so the range is honored alongside the allow-list.
	RangeAllowed bool `json:"range_allowed"`
}

// NewRuleEntry returns a rule with permissive defaults
func NewRuleEntry(name string) *RuleEntry {
	return &RuleEntry{
		Name:             name,
		MinPlayers:       1,
		AllowedCounts:    CountSet{},
		DisallowedCounts: CountSet{},
	}
}

// LowerMax tightens MaxPlayers to n when n is smaller than the current bound.
func (r *RuleEntry) LowerMax(n int) {
	if r.MaxPlayers == nil || n < *r.MaxPlayers {
		r.MaxPlayers = &n
	}
}

// RaiseMin tightens MinPlayers to n when n is larger than the current bound.
func (r *RuleEntry) RaiseMin(n int) {
	if n > r.MinPlayers {
		r.MinPlayers = n
	}
}

// Rules maps a game key to its rule entry
type Rules map[string]*RuleEntry

// CountSet is a set of exact player counts
type CountSet map[int]struct{}

// Add inserts n into the set, allocating it if nil
func (s *CountSet) Add(n int) {
	if *s == nil {
		*s = CountSet{}
	}
	(*s)[n] = struct{}{}
}

// Has reports whether n is in the set
func (s CountSet) Has(n int) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the members in ascending order
func (s CountSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s CountSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of counts.
func (s *CountSet) UnmarshalJSON(data []byte) error {
	var counts []int
	if err := json.Unmarshal(data, &counts); err != nil {
		return err
	}
	set := make(CountSet, len(counts))
	for _, n := range counts {
		set.Add(n)
	}
	*s = set
	return nil
}
