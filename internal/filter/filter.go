// Package filter provides filtering of olympiad entries.
//
// Filters narrow down the parsed list before it is reported:
//   - Lessons: subject labels (exact match, case-insensitive)
//   - Levels: olympiad levels (1..3)
//   - Names: olympiad name fragments (substring match, case-insensitive)
//
// A filter can be built from CLI flags or parsed from a compact query
// string such as "lesson:информатика level:1,2 name:проба".
package filter

import (
	"strings"

	"github.com/pfrederiksen/rsr-olymps/internal/olymp"
)

// Filter represents entry filtering criteria. A zero filter matches
// everything.
type Filter struct {
	// Subject labels; an entry matches when its lesson equals any of them.
	Lessons []string `json:"lessons,omitempty"`

	// Levels in 1..3; an entry matches when its level is any of them.
	Levels []int `json:"levels,omitempty"`

	// Name fragments; an entry matches when its name contains any of them.
	Names []string `json:"names,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty reports whether the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Lessons) == 0 && len(f.Levels) == 0 && len(f.Names) == 0
}

// Matches checks if an entry passes all active criteria. Within one
// criterion the values are alternatives; between criteria all must hold.
func (f *Filter) Matches(o *olymp.Olymp) bool {
	if len(f.Lessons) > 0 && !containsFold(f.Lessons, o.Lesson) {
		return false
	}

	if len(f.Levels) > 0 {
		found := false
		for _, l := range f.Levels {
			if l == o.Level {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Names) > 0 {
		name := strings.ToLower(o.Name)
		found := false
		for _, frag := range f.Names {
			if strings.Contains(name, strings.ToLower(frag)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Apply returns the entries that match the filter, preserving order.
func (f *Filter) Apply(olymps []*olymp.Olymp) []*olymp.Olymp {
	if f.IsEmpty() {
		return olymps
	}
	out := make([]*olymp.Olymp, 0, len(olymps))
	for _, o := range olymps {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
