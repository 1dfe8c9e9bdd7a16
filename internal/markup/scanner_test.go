package markup_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/rsr-olymps/internal/markup"
)

// recorder collects scanner events as compact strings so tests can compare
// whole event sequences at once. Text runs are concatenated until the next
// tag event to keep expectations independent of run splitting.
type recorder struct {
	events  []string
	pending string
}

func (r *recorder) StartTag(name string, attrs []markup.Attribute) {
	r.flush()
	ev := "<" + name
	for _, a := range attrs {
		ev += fmt.Sprintf(" %s=%q", a.Name, a.Value)
	}
	r.events = append(r.events, ev+">")
}

func (r *recorder) EndTag(name string) {
	r.flush()
	r.events = append(r.events, "</"+name+">")
}

func (r *recorder) Text(text string) {
	r.pending += text
}

func (r *recorder) flush() {
	if r.pending != "" {
		r.events = append(r.events, "text:"+r.pending)
		r.pending = ""
	}
}

func scanAll(t *testing.T, input string, chunkSize int) []string {
	t.Helper()
	rec := &recorder{}
	s := markup.NewScanner(rec)
	if chunkSize <= 0 {
		s.Feed(input)
	} else {
		for len(input) > 0 {
			n := chunkSize
			if n > len(input) {
				n = len(input)
			}
			s.Feed(input[:n])
			input = input[n:]
		}
	}
	rec.flush()
	return rec.events
}

func TestScannerBasicEvents(t *testing.T) {
	events := scanAll(t, `<p class="intro">Hi &amp; bye</p>`, 0)
	assert.Equal(t, []string{
		`<p class="intro">`,
		"text:Hi & bye",
		"</p>",
	}, events)
}

func TestScannerAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"double quoted", `<a href="https://x.ru/a">`, `<a href="https://x.ru/a">`},
		{"single quoted", `<a href='x'>`, `<a href="x">`},
		{"unquoted", `<td rowspan=2>`, `<td rowspan="2">`},
		{"valueless", `<td nowrap>`, `<td nowrap="">`},
		{"gt inside quotes", `<a title="a>b" href="x">`, `<a title="a>b" href="x">`},
		{"entity in value", `<a href="?a=1&amp;b=2">`, `<a href="?a=1&b=2">`},
		{"mixed case name", `<TD CLASS="x">`, `<td class="x">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := scanAll(t, tt.input, 0)
			require.Len(t, events, 1)
			assert.Equal(t, tt.expected, events[0])
		})
	}
}

func TestScannerSelfClosingTag(t *testing.T) {
	events := scanAll(t, `a<br/>b<img src="x.png" />c<hr>`, 0)
	assert.Equal(t, []string{
		"text:a",
		"<br>", "</br>",
		"text:b",
		`<img src="x.png">`, "</img>",
		"text:c",
		"<hr>",
	}, events)
}

func TestScannerSkipsCommentsAndDeclarations(t *testing.T) {
	input := "<!DOCTYPE html>a<!-- a comment with <tr> inside -->b<?php noise ?>c<p>"
	events := scanAll(t, input, 0)
	assert.Equal(t, []string{"text:abc", "<p>"}, events)
}

func TestScannerSkipsScriptAndStyleBodies(t *testing.T) {
	input := `<script>var s = "<table><tr><td>1</td></tr>";</script><style>td > a {}</style><td>ok</td>`
	events := scanAll(t, input, 0)
	assert.Equal(t, []string{
		"<script>", "</script>",
		"<style>", "</style>",
		"<td>", "text:ok", "</td>",
	}, events)
}

func TestScannerBareLessThanIsText(t *testing.T) {
	events := scanAll(t, "<td>1 < 2 and 2 <3</td>", 0)
	assert.Equal(t, []string{"<td>", "text:1 < 2 and 2 <3", "</td>"}, events)
}

func TestScannerIgnoresEmptyCloseTag(t *testing.T) {
	events := scanAll(t, "<td>x</><y></td>", 0)
	// "</>" names nothing and "<y>" is a real (if unknown) tag.
	assert.Equal(t, []string{"<td>", "text:x", "<y>", "</td>"}, events)
}

func TestScannerChunkedFeedEquivalence(t *testing.T) {
	input := `<!DOCTYPE html><table class="mainTableInfo"><tr>` +
		`<td rowspan="2">1</td><td><a href="https://olymp.hse.ru">Высшая &laquo;проба&raquo;</a></td>` +
		`<!-- rows --><td>математика</td><td>1</td></tr></table>`

	whole := scanAll(t, input, 0)
	require.NotEmpty(t, whole)

	for _, chunkSize := range []int{1, 2, 3, 7, 64} {
		t.Run(fmt.Sprintf("chunk size %d", chunkSize), func(t *testing.T) {
			assert.Equal(t, whole, scanAll(t, input, chunkSize))
		})
	}
}

func TestScannerUnclosedTagAtEndOfInput(t *testing.T) {
	// The trailing partial tag stays buffered; everything before it is
	// reported.
	events := scanAll(t, "<td>abc<td", 0)
	assert.Equal(t, []string{"<td>", "text:abc"}, events)
}

func TestScannerStrayCloseTagPassedThrough(t *testing.T) {
	events := scanAll(t, "</tr><td>x</td>", 0)
	assert.Equal(t, []string{"</tr>", "<td>", "text:x", "</td>"}, events)
}
