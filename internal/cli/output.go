package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pfrederiksen/rsr-olymps/internal/olymp"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time                 `json:"checked_at"`
	Lesson    string                    `json:"lesson,omitempty"`
	Olymps    []*olymp.Olymp            `json:"olymps"`
	Count     int                       `json:"count"`
	ByLesson  map[string][]*olymp.Olymp `json:"by_lesson,omitempty"`
	ShowAll   bool                      `json:"show_all,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSONValue(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSONValue outputs any value as indented JSON
func writeJSONValue(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	entryLabel := "new"
	entryPrefix := "NEW"
	if result.ShowAll {
		entryLabel = "olympiads"
		entryPrefix = ""
	}

	if result.Count == 0 {
		if result.ShowAll {
			fmt.Fprintln(w, "No olympiads found.")
		} else {
			fmt.Fprintln(w, "No new olympiads found.")
		}
		return nil
	}

	// With several subjects in play, show grouped output
	if len(result.ByLesson) > 1 {
		lessons := make([]string, 0, len(result.ByLesson))
		for lesson := range result.ByLesson {
			lessons = append(lessons, lesson)
		}
		sort.Strings(lessons)

		for _, lesson := range lessons {
			olymps := result.ByLesson[lesson]
			if len(olymps) == 0 {
				continue
			}

			fmt.Fprintf(w, "\n%s (%d %s):\n", lesson, len(olymps), entryLabel)
			for _, o := range olymps {
				if entryPrefix != "" {
					fmt.Fprintf(w, "  %s: %s (#%d)\n", entryPrefix, o.Name, o.Level)
				} else {
					fmt.Fprintf(w, "  %s (#%d)\n", o.Name, o.Level)
				}
				if verbose {
					fmt.Fprintf(w, "       ID: %s\n", o.ID)
					if o.URL != "" {
						fmt.Fprintf(w, "       URL: %s\n", o.URL)
					}
				}
			}
		}
		fmt.Fprintf(w, "\nTotal: %d %s across %d subjects\n", result.Count, entryLabel, len(result.ByLesson))
	} else {
		// Simple list for single-subject queries
		for _, o := range result.Olymps {
			if entryPrefix != "" {
				fmt.Fprintf(w, "%s: %s\n", entryPrefix, o)
			} else {
				fmt.Fprintf(w, "%s\n", o)
			}
			if verbose {
				fmt.Fprintf(w, "     ID: %s\n", o.ID)
				if o.URL != "" {
					fmt.Fprintf(w, "     URL: %s\n", o.URL)
				}
			}
		}
		fmt.Fprintf(w, "\nTotal: %d %s\n", result.Count, entryLabel)
	}

	return nil
}
