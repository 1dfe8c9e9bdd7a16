package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseQuery parses a compact filter query into a Filter.
//
// The query is a whitespace-separated list of key:value terms:
//
//	lesson:информатика level:1,2 name:проба
//
// Keys may repeat; comma-separated values are alternatives. A bare term
// without a key is treated as a name fragment. Level values must be
// integers in 1..3.
func ParseQuery(query string) (*Filter, error) {
	f := NewFilter()

	for _, term := range strings.Fields(query) {
		key, value, found := strings.Cut(term, ":")
		if !found {
			f.Names = append(f.Names, term)
			continue
		}
		if value == "" {
			return nil, fmt.Errorf("empty value in term %q", term)
		}

		switch strings.ToLower(key) {
		case "lesson", "subject":
			f.Lessons = append(f.Lessons, splitValues(value)...)
		case "name":
			f.Names = append(f.Names, splitValues(value)...)
		case "level":
			for _, v := range splitValues(value) {
				level, err := strconv.Atoi(v)
				if err != nil {
					return nil, fmt.Errorf("invalid level %q in term %q", v, term)
				}
				if level < 1 || level > 3 {
					return nil, fmt.Errorf("level %d out of range 1..3", level)
				}
				f.Levels = append(f.Levels, level)
			}
		default:
			return nil, fmt.Errorf("unknown filter key %q", key)
		}
	}

	return f, nil
}

func splitValues(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
