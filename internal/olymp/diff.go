package olymp

import (
	"sort"
	"strings"
)

// Snapshot represents the set of entries seen at a point in time.
type Snapshot struct {
	Olymps    map[string]*Olymp `json:"olymps"`     // keyed by Olymp.ID
	UpdatedAt string            `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Olymps: make(map[string]*Olymp),
	}
}

// CreateSnapshot creates a snapshot from a list of entries.
func CreateSnapshot(olymps []*Olymp, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt
	for _, o := range olymps {
		snap.Olymps[o.ID] = o
	}
	return snap
}

// DiffResult contains the results of comparing current entries against a
// previous snapshot.
type DiffResult struct {
	NewOlymps []*Olymp
	ByLesson  map[string][]*Olymp // new entries grouped by subject
}

// Diff compares current entries against a previous snapshot and returns the
// entries that were not present before. When lessonFilter is non-empty and
// not "all", entries for other subjects are ignored.
func Diff(previous *Snapshot, current []*Olymp, lessonFilter string) *DiffResult {
	result := &DiffResult{
		NewOlymps: make([]*Olymp, 0),
		ByLesson:  make(map[string][]*Olymp),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, o := range current {
		if lessonFilter != "" && !strings.EqualFold(lessonFilter, "all") {
			if !strings.EqualFold(o.Lesson, lessonFilter) {
				continue
			}
		}

		if _, exists := previous.Olymps[o.ID]; !exists {
			result.NewOlymps = append(result.NewOlymps, o)
			result.ByLesson[o.Lesson] = append(result.ByLesson[o.Lesson], o)
		}
	}

	// Sort for consistent output.
	sort.Slice(result.NewOlymps, func(i, j int) bool {
		return lessOlymp(result.NewOlymps[i], result.NewOlymps[j])
	})
	for lesson := range result.ByLesson {
		group := result.ByLesson[lesson]
		sort.Slice(group, func(i, j int) bool {
			return lessOlymp(group[i], group[j])
		})
	}

	return result
}

func lessOlymp(a, b *Olymp) bool {
	if a.Number != b.Number {
		return a.Number < b.Number
	}
	if a.Lesson != b.Lesson {
		return a.Lesson < b.Lesson
	}
	return a.Level < b.Level
}
