package scraper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pfrederiksen/rsr-olymps/internal/markup"
	"github.com/pfrederiksen/rsr-olymps/internal/olymp"
)

// tableClass identifies the olympiad table on rsr-olymp.ru. Other tables on
// the page are ignored.
const tableClass = "mainTableInfo"

// Column layout of the olympiad table. The first cell carries the source's
// own ordinal and is ignored: entry numbers are assigned by emission order so
// skipped rows never leave gaps. From lessonCol on, cells come in
// (lesson, level) pairs; a row that lists several subjects yields one entry
// per pair.
const (
	nameCol   = 1
	lessonCol = 2
	minCells  = 4
)

// cell is one finished table cell.
type cell struct {
	text   string
	href   string // first link target seen inside the cell
	header bool   // true for <th>
}

// Parser assembles olympiad entries from the markup event stream. It
// implements markup.TokenHandler and owns all in-progress row and cell
// state; completed entries are exposed through ParsedOlymps.
//
// A Parser handles one document and is not safe for concurrent use.
type Parser struct {
	scanner *markup.Scanner

	inTable    bool
	tableDepth int // nesting of <table> inside the olympiad table
	inHead     bool
	inRow      bool
	inCell     bool
	rowHeader  bool // row contained <th> cells or started inside <thead>

	curText   strings.Builder
	curHref   string
	curHeader bool
	cells     []cell

	// Name and URL of the last emitted entry, inherited by rowspan
	// continuation rows that carry only a (lesson, level) pair.
	lastName string
	lastURL  string

	olymps []*olymp.Olymp
	errs   []error
}

// NewParser creates a Parser ready to be fed markup.
func NewParser() *Parser {
	p := &Parser{}
	p.scanner = markup.NewScanner(p)
	return p
}

// Feed consumes the next chunk of the page. Chunks may split tags, cells, or
// rows at any byte; state carries over between calls.
func (p *Parser) Feed(chunk string) {
	p.scanner.Feed(chunk)
}

// ParsedOlymps returns the entries assembled so far, numbered 1..N in
// document order, together with any per-row errors (joined). Rows whose
// level cell could not be parsed are reported as errors and not emitted;
// they do not disturb the numbering of later entries.
func (p *Parser) ParsedOlymps() ([]*olymp.Olymp, error) {
	return p.olymps, errors.Join(p.errs...)
}

// StartTag implements markup.TokenHandler.
func (p *Parser) StartTag(name string, attrs []markup.Attribute) {
	if !p.inTable {
		if name == "table" && hasClass(attrs, tableClass) {
			p.inTable = true
			p.tableDepth = 1
		}
		return
	}

	// Inside a table nested within a cell, only track nesting depth; its
	// rows belong to that table, not to the olympiad list.
	if p.tableDepth > 1 {
		if name == "table" {
			p.tableDepth++
		}
		return
	}

	switch name {
	case "table":
		p.tableDepth++
	case "thead":
		p.inHead = true
	case "tr":
		// An unterminated previous row is closed implicitly.
		p.finishRow()
		p.inRow = true
		p.rowHeader = p.inHead
	case "td", "th":
		if !p.inRow {
			return
		}
		p.finishCell()
		p.inCell = true
		p.curHeader = name == "th"
		if p.curHeader {
			p.rowHeader = true
		}
	case "a":
		if p.inCell && p.curHref == "" {
			p.curHref = attrValue(attrs, "href")
		}
	}
}

// EndTag implements markup.TokenHandler. Close tags with no matching open
// are ignored.
func (p *Parser) EndTag(name string) {
	if !p.inTable {
		return
	}

	if p.tableDepth > 1 {
		if name == "table" {
			p.tableDepth--
		}
		return
	}

	switch name {
	case "table":
		p.tableDepth--
		if p.tableDepth <= 0 {
			p.finishRow()
			p.inTable = false
			p.inHead = false
		}
	case "thead":
		p.inHead = false
	case "tr":
		p.finishRow()
	case "td", "th":
		p.finishCell()
	}
}

// Text implements markup.TokenHandler. Only text inside an open cell of the
// olympiad table is of interest.
func (p *Parser) Text(text string) {
	if p.inTable && p.inCell && p.tableDepth == 1 {
		p.curText.WriteString(text)
	}
}

// finishCell closes the open cell, if any, and appends it to the current row.
func (p *Parser) finishCell() {
	if !p.inCell {
		return
	}
	p.inCell = false
	p.cells = append(p.cells, cell{
		text:   normalize(p.curText.String()),
		href:   p.curHref,
		header: p.curHeader,
	})
	p.curText.Reset()
	p.curHref = ""
	p.curHeader = false
}

// finishRow closes the open row, if any, and converts its cells into entries.
func (p *Parser) finishRow() {
	p.finishCell()
	if !p.inRow {
		return
	}
	p.inRow = false
	cells := p.cells
	p.cells = nil

	if p.rowHeader || len(cells) == 0 {
		return
	}

	switch {
	case len(cells) >= minCells:
		name := cells[nameCol].text
		if name == "" {
			return
		}
		url := cells[nameCol].href
		p.lastName, p.lastURL = name, url
		p.emitPairs(name, url, cells[lessonCol:])

	case len(cells) == 2 && p.lastName != "":
		// Rowspan continuation: the name column spans several rows, so the
		// follow-up row carries only its own (lesson, level) pair.
		p.emitPairs(p.lastName, p.lastURL, cells)

	default:
		// Separator or otherwise non-data row.
	}
}

// emitPairs walks (lesson, level) cell pairs and emits one entry per valid
// pair. Pairs with an empty lesson or level cell are skipped as non-data;
// a level that is not an integer in 1..3 is recorded as a row error.
func (p *Parser) emitPairs(name, url string, cells []cell) {
	for i := 0; i+1 < len(cells); i += 2 {
		lesson := cells[i].text
		levelText := cells[i+1].text
		if lesson == "" || levelText == "" {
			continue
		}

		level, err := parseLevel(levelText)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("row %q, subject %q: %w", name, lesson, err))
			continue
		}

		p.olymps = append(p.olymps, olymp.New(len(p.olymps)+1, name, url, lesson, level))
	}
}

// parseLevel parses an olympiad level, which must be an integer in 1..3.
func parseLevel(text string) (int, error) {
	level, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parsing level %q: %w", text, err)
	}
	if level < 1 || level > 3 {
		return 0, fmt.Errorf("level %d out of range 1..3", level)
	}
	return level, nil
}

// normalize trims a cell's text and collapses internal whitespace runs to a
// single space.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasClass(attrs []markup.Attribute, class string) bool {
	for _, f := range strings.Fields(attrValue(attrs, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attrValue(attrs []markup.Attribute, name string) string {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}
