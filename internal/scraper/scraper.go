package scraper

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/pfrederiksen/rsr-olymps/internal/olymp"
)

const (
	RSRURL    = "https://rsr-olymp.ru"
	UserAgent = "rsr-olymps-cli/1.0 (github.com/pfrederiksen/rsr-olymps)"
	Timeout   = 30 * time.Second

	// feedChunkSize is the read size used when streaming the page body into
	// the parser. The parser accepts arbitrary chunk boundaries, so the
	// value only affects memory use.
	feedChunkSize = 64 * 1024
)

// Scraper handles fetching and parsing the RSR olympiad list.
type Scraper struct {
	client *http.Client
	url    string
}

// New creates a Scraper for the canonical RSR page.
func New() *Scraper {
	return NewForURL(RSRURL)
}

// NewForURL creates a Scraper for an alternative page location, such as a
// mirror or a local test server.
func NewForURL(url string) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url: url,
	}
}

// FetchOlymps fetches the page and parses all olympiad entries from it.
// Network and HTTP failures are returned as-is (wrapped); parse-level row
// errors come joined alongside the successfully parsed entries.
func (s *Scraper) FetchOlymps() ([]*olymp.Olymp, error) {
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

	// The page may be served in a legacy Cyrillic encoding; decode to UTF-8
	// before feeding the parser.
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}

	return parseOlymps(body)
}

func (s *Scraper) newRequest() (*http.Request, error) {
	req, err := http.NewRequest("GET", s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	return req, nil
}

// ParseFromWeb fetches url and returns the olympiad entries parsed from it.
// It is a convenience wrapper for one-shot callers.
func ParseFromWeb(url string) ([]*olymp.Olymp, error) {
	return NewForURL(url).FetchOlymps()
}

// parseOlymps streams r through a Parser in chunks.
func parseOlymps(r io.Reader) ([]*olymp.Olymp, error) {
	p := NewParser()
	buf := make([]byte, feedChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			p.Feed(string(buf[:n]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading page body: %w", err)
		}
	}
	return p.ParsedOlymps()
}
