package scraper

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"golang.org/x/net/html/charset"
)

// TableReport summarizes the shape of the olympiad table as seen by a full
// DOM parse. It exists for diagnostics only: when the extraction starts
// returning empty or odd results, `rsr-olymps doctor` uses it to show
// whether the page still carries the expected structure.
type TableReport struct {
	Found      bool        `json:"found"`
	HeaderRows int         `json:"header_rows"`
	BodyRows   int         `json:"body_rows"`
	Links      int         `json:"links"`
	CellCounts map[int]int `json:"cell_counts"` // rows per distinct cell count
}

// Inspect parses r as a full document and reports on the olympiad table.
func Inspect(r io.Reader) (*TableReport, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	report := &TableReport{
		CellCounts: make(map[int]int),
	}

	table := doc.Find("table." + tableClass).First()
	if table.Length() == 0 {
		return report, nil
	}
	report.Found = true

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if row.Closest("thead").Length() > 0 || row.Find("th").Length() > 0 {
			report.HeaderRows++
			return
		}
		report.BodyRows++
		report.CellCounts[row.Find("td").Length()]++
	})
	report.Links = table.Find("a[href]").Length()

	return report, nil
}

// InspectWeb fetches the scraper's page and inspects its olympiad table.
func (s *Scraper) InspectWeb() (*TableReport, error) {
	req, err := s.newRequest()
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}

	return Inspect(body)
}

// String renders the report for the doctor command's text output.
func (r *TableReport) String() string {
	if !r.Found {
		return "olympiad table not found (expected table." + tableClass + ")"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "olympiad table found\n")
	fmt.Fprintf(&b, "  header rows: %d\n", r.HeaderRows)
	fmt.Fprintf(&b, "  body rows:   %d\n", r.BodyRows)
	fmt.Fprintf(&b, "  links:       %d\n", r.Links)
	counts := make([]int, 0, len(r.CellCounts))
	for count := range r.CellCounts {
		counts = append(counts, count)
	}
	sort.Ints(counts)
	for _, count := range counts {
		fmt.Fprintf(&b, "  rows with %d cells: %d\n", count, r.CellCounts[count])
	}
	return b.String()
}
