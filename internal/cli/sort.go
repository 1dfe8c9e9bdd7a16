package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/rsr-olymps/internal/olymp"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByNumber SortOrder = "number"
	SortByName   SortOrder = "name"
	SortByLesson SortOrder = "lesson"
)

// sortOlymps sorts a slice of entries based on the specified sort order
func sortOlymps(olymps []*olymp.Olymp, sortOrder SortOrder) {
	switch sortOrder {
	case SortByName:
		sort.Slice(olymps, func(i, j int) bool {
			a, b := olymps[i], olymps[j]
			if !strings.EqualFold(a.Name, b.Name) {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
			if a.Lesson != b.Lesson {
				return a.Lesson < b.Lesson
			}
			return a.Level < b.Level
		})
	case SortByLesson:
		sort.Slice(olymps, func(i, j int) bool {
			a, b := olymps[i], olymps[j]
			if a.Lesson != b.Lesson {
				return a.Lesson < b.Lesson
			}
			if a.Number != b.Number {
				return a.Number < b.Number
			}
			return a.Level < b.Level
		})
	default: // SortByNumber, document order
		sort.Slice(olymps, func(i, j int) bool {
			a, b := olymps[i], olymps[j]
			if a.Number != b.Number {
				return a.Number < b.Number
			}
			return a.Level < b.Level
		})
	}
}
