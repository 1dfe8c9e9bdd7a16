package scraper

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/sample_olymps.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return data
}

func TestParseFixture(t *testing.T) {
	olymps, err := parseOlymps(strings.NewReader(string(loadFixture(t))))
	if err != nil {
		t.Fatalf("parseOlymps failed: %v", err)
	}

	if len(olymps) != 5 {
		t.Fatalf("expected 5 entries from fixture, got %d", len(olymps))
	}

	// Spot-check entries that exercise the interesting fixture rows.
	checks := []struct {
		number int
		name   string
		url    string
		lesson string
		level  int
	}{
		{1, "Межрегиональная олимпиада школьников «Высшая проба»", "https://olymp.hse.ru/vseros", "математика", 1},
		{2, "Межрегиональная олимпиада школьников «Высшая проба»", "https://olymp.hse.ru/vseros", "информатика", 2},
		{3, "Московская олимпиада школьников", "https://mos.olimpiada.ru", "физика", 1},
		{4, "Олимпиада школьников «Ломоносов»", "", "химия", 1},
		{5, "Олимпиада ИТМО", "https://olymp.itmo.ru", "информатика", 1},
	}

	for i, want := range checks {
		got := olymps[i]
		if got.Number != want.number || got.Name != want.name || got.URL != want.url ||
			got.Lesson != want.lesson || got.Level != want.level {
			t.Errorf("entry %d:\n  got  %d %q %q %q %d\n  want %d %q %q %q %d",
				i, got.Number, got.Name, got.URL, got.Lesson, got.Level,
				want.number, want.name, want.url, want.lesson, want.level)
		}
	}

	// IDs must be populated and unique.
	seen := make(map[string]bool)
	for _, o := range olymps {
		if o.ID == "" {
			t.Error("entry ID should not be empty")
		}
		if seen[o.ID] {
			t.Errorf("duplicate ID %s", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestFetchOlymps(t *testing.T) {
	fixture := loadFixture(t)

	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(fixture)
	}))
	defer srv.Close()

	olymps, err := NewForURL(srv.URL).FetchOlymps()
	if err != nil {
		t.Fatalf("FetchOlymps failed: %v", err)
	}
	if len(olymps) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(olymps))
	}
	if gotUserAgent != UserAgent {
		t.Errorf("expected User-Agent %q, got %q", UserAgent, gotUserAgent)
	}
}

func TestFetchOlympsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewForURL(srv.URL).FetchOlymps(); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestParseFromWeb(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(loadFixture(t))
	}))
	defer srv.Close()

	olymps, err := ParseFromWeb(srv.URL)
	if err != nil {
		t.Fatalf("ParseFromWeb failed: %v", err)
	}
	if len(olymps) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(olymps))
	}
}

func TestParseStructurallyDifferentPage(t *testing.T) {
	// A valid page without the olympiad table yields an empty result, not a
	// failure.
	doc := `<html><body><table class="other"><tr><td>1</td><td>x</td><td>y</td><td>1</td></tr></table></body></html>`

	olymps, err := parseOlymps(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(olymps) != 0 {
		t.Fatalf("expected no entries, got %d", len(olymps))
	}
}
