package markup

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Attribute is a single name/value pair from a start tag. Names are
// lower-cased and values are entity-decoded.
type Attribute struct {
	Name  string
	Value string
}

// TokenHandler receives the structural events produced by a Scanner.
// Implementations must tolerate events that do not nest cleanly: the scanner
// reports what the markup says, not what a valid document would say.
type TokenHandler interface {
	// StartTag is called for each opening tag (and once for a self-closing
	// tag, immediately followed by the matching EndTag).
	StartTag(name string, attrs []Attribute)

	// EndTag is called for each closing tag, matched or not.
	EndTag(name string)

	// Text is called with an entity-decoded text run. How a run is split
	// across calls depends only on the markup, never on how the input was
	// chunked, so handlers may simply concatenate.
	Text(text string)
}

// Scanner is an incremental HTML tokenizer. Raw markup is pushed in with
// Feed; complete tags and text runs are reported to the handler, and anything
// still incomplete (a tag or comment split across a chunk boundary, a text
// run not yet terminated by a tag) is buffered until more input arrives.
//
// A Scanner is good for one document and must not be used from multiple
// goroutines.
type Scanner struct {
	handler TokenHandler
	buf     []byte
	rawtext string // end tag that terminates a script/style body, "" otherwise
}

// NewScanner creates a Scanner that reports events to h.
func NewScanner(h TokenHandler) *Scanner {
	return &Scanner{handler: h}
}

// Feed consumes the next chunk of markup. Chunk boundaries need not align
// with tag or text boundaries.
func (s *Scanner) Feed(chunk string) {
	s.buf = append(s.buf, chunk...)
	n := s.scan()
	s.buf = append(s.buf[:0], s.buf[n:]...)
}

// scan processes as much of s.buf as possible and returns the number of
// bytes consumed. Anything after the returned offset is an incomplete
// construct that must wait for the next chunk.
func (s *Scanner) scan() int {
	pos := 0
	for pos < len(s.buf) {
		if s.rawtext != "" {
			n, done := s.scanRawtext(pos)
			if !done {
				return n
			}
			pos = n
			continue
		}

		lt := bytes.IndexByte(s.buf[pos:], '<')
		if lt < 0 {
			// Text run not yet terminated by a tag; hold it so entities and
			// runs split across chunks stay intact.
			return pos
		}
		if lt > 0 {
			s.emitText(string(s.buf[pos : pos+lt]))
			pos += lt
		}

		n, done := s.scanTag(pos)
		if !done {
			return pos
		}
		pos = n
	}
	return pos
}

// scanRawtext looks for the close tag that ends a script/style body. The
// body itself is discarded.
func (s *Scanner) scanRawtext(pos int) (int, bool) {
	want := "</" + s.rawtext
	idx := strings.Index(strings.ToLower(string(s.buf[pos:])), want)
	if idx < 0 {
		// Keep a tail that could be the start of the close tag.
		keep := len(s.buf) - len(want)
		if keep < pos {
			keep = pos
		}
		return keep, false
	}
	gt := bytes.IndexByte(s.buf[pos+idx:], '>')
	if gt < 0 {
		return pos + idx, false
	}
	s.handler.EndTag(s.rawtext)
	s.rawtext = ""
	return pos + idx + gt + 1, true
}

// scanTag consumes one construct starting at the '<' at pos. It returns the
// new offset and whether the construct was complete.
func (s *Scanner) scanTag(pos int) (int, bool) {
	if pos+1 >= len(s.buf) {
		return pos, false
	}

	switch c := s.buf[pos+1]; {
	case c == '!':
		return s.scanDeclaration(pos)

	case c == '?':
		// Processing instruction; consumed silently.
		gt := bytes.IndexByte(s.buf[pos:], '>')
		if gt < 0 {
			return pos, false
		}
		return pos + gt + 1, true

	case c == '/':
		return s.scanEndTag(pos)

	case isNameStart(c):
		return s.scanStartTag(pos)

	default:
		// A bare '<' that opens nothing is ordinary text. Fold it into the
		// run that extends to the next '<'.
		next := bytes.IndexByte(s.buf[pos+1:], '<')
		if next < 0 {
			return pos, false
		}
		s.emitText(string(s.buf[pos : pos+1+next]))
		return pos + 1 + next, true
	}
}

// scanDeclaration consumes a comment or a <!DOCTYPE ...> style declaration.
func (s *Scanner) scanDeclaration(pos int) (int, bool) {
	rest := string(s.buf[pos:])
	if strings.HasPrefix(rest, "<!--") {
		end := strings.Index(rest[4:], "-->")
		if end < 0 {
			return pos, false
		}
		return pos + 4 + end + 3, true
	}
	if strings.HasPrefix("<!--", rest) {
		// Could still become a comment opener.
		return pos, false
	}
	gt := strings.IndexByte(rest, '>')
	if gt < 0 {
		return pos, false
	}
	return pos + gt + 1, true
}

func (s *Scanner) scanEndTag(pos int) (int, bool) {
	gt := bytes.IndexByte(s.buf[pos:], '>')
	if gt < 0 {
		return pos, false
	}
	name := tagName(string(s.buf[pos+2 : pos+gt]))
	if name != "" {
		s.handler.EndTag(name)
	}
	return pos + gt + 1, true
}

func (s *Scanner) scanStartTag(pos int) (int, bool) {
	end, ok := findTagEnd(s.buf, pos+1)
	if !ok {
		return pos, false
	}

	content := strings.TrimSpace(string(s.buf[pos+1 : end]))
	selfClosing := strings.HasSuffix(content, "/")
	if selfClosing {
		content = strings.TrimSpace(content[:len(content)-1])
	}

	name, attrs := parseTag(content)
	if name == "" {
		return end + 1, true
	}

	s.handler.StartTag(name, attrs)
	switch {
	case selfClosing:
		s.handler.EndTag(name)
	case name == "script" || name == "style":
		s.rawtext = name
	}
	return end + 1, true
}

// findTagEnd locates the '>' that closes a start tag, skipping over quoted
// attribute values so that <a href="x>y"> is read as one tag.
func findTagEnd(buf []byte, from int) (int, bool) {
	var quote byte
	for i := from; i < len(buf); i++ {
		b := buf[i]
		if quote != 0 {
			if b == quote {
				quote = 0
			}
			continue
		}
		switch b {
		case '"', '\'':
			quote = b
		case '>':
			return i, true
		}
	}
	return 0, false
}

func (s *Scanner) emitText(raw string) {
	if raw == "" {
		return
	}
	s.handler.Text(html.UnescapeString(raw))
}

// tagName extracts and lower-cases the leading tag name from the inside of a
// tag, returning "" when there is none (e.g. "</>").
func tagName(content string) string {
	content = strings.TrimSpace(content)
	if content == "" || !isNameStart(content[0]) {
		return ""
	}
	end := len(content)
	for i := 0; i < len(content); i++ {
		if !isNameByte(content[i]) {
			end = i
			break
		}
	}
	return strings.ToLower(content[:end])
}

// parseTag splits the inside of a start tag into its name and attributes.
// Malformed attribute syntax is skipped rather than reported.
func parseTag(content string) (string, []Attribute) {
	name := tagName(content)
	if name == "" {
		return "", nil
	}

	var attrs []Attribute
	i := len(name)
	for i < len(content) {
		// Skip whitespace and stray slashes between attributes.
		for i < len(content) && (isSpace(content[i]) || content[i] == '/') {
			i++
		}
		if i >= len(content) {
			break
		}

		start := i
		for i < len(content) && content[i] != '=' && !isSpace(content[i]) && content[i] != '/' {
			i++
		}
		attrName := strings.ToLower(content[start:i])
		if attrName == "" {
			i++
			continue
		}

		var value string
		for i < len(content) && isSpace(content[i]) {
			i++
		}
		if i < len(content) && content[i] == '=' {
			i++
			for i < len(content) && isSpace(content[i]) {
				i++
			}
			if i < len(content) && (content[i] == '"' || content[i] == '\'') {
				quote := content[i]
				i++
				start = i
				for i < len(content) && content[i] != quote {
					i++
				}
				value = content[start:i]
				if i < len(content) {
					i++
				}
			} else {
				start = i
				for i < len(content) && !isSpace(content[i]) {
					i++
				}
				value = content[start:i]
			}
		}

		attrs = append(attrs, Attribute{Name: attrName, Value: html.UnescapeString(value)})
	}
	return name, attrs
}

func isNameStart(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isNameByte(b byte) bool {
	return isNameStart(b) || b >= '0' && b <= '9' || b == '-' || b == ':'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
