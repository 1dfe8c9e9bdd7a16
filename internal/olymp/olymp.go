package olymp

import (
	"crypto/sha1"
	"fmt"
)

// Olymp represents one entry of the RSR olympiad table. An olympiad that is
// listed for several subjects or levels produces one entry per combination:
// ITMO/physics, ITMO/informatics, and ITMO/math are three distinct entries
// that share a name and URL.
type Olymp struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Lesson string `json:"lesson"`
	Level  int    `json:"level"`
}

// GenerateID creates a deterministic ID for an entry based on its identity
// fields. Number is deliberately excluded so the ID survives table
// reordering between runs.
func GenerateID(name, lesson string, level int) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%d", name, lesson, level)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates an Olymp with its ID populated.
func New(number int, name, url, lesson string, level int) *Olymp {
	return &Olymp{
		ID:     GenerateID(name, lesson, level),
		Number: number,
		Name:   name,
		URL:    url,
		Lesson: lesson,
		Level:  level,
	}
}

// String renders the entry in the short listing form used by the CLI text
// output, e.g. "14: Высшая проба: информатика (#1)".
func (o *Olymp) String() string {
	return fmt.Sprintf("%d: %s: %s (#%d)", o.Number, o.Name, o.Lesson, o.Level)
}
