package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/rsr-olymps/internal/olymp"
)

// Storage handles persistence of olympiad snapshots.
type Storage struct {
	dataDir string
}

// New creates a new Storage instance rooted at dataDir, creating the
// directory if needed. A leading "~/" is expanded to the home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// getSnapshotPath returns the path to the snapshot file for a subject
// filter. The full, unfiltered list lives in snapshot.json.
func (s *Storage) getSnapshotPath(lesson string) string {
	slug := lessonSlug(lesson)
	if slug == "" {
		return filepath.Join(s.dataDir, "snapshot.json")
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", slug))
}

// lessonSlug turns a subject label into a filename-safe slug. "" and "all"
// map to the empty slug (combined snapshot).
func lessonSlug(lesson string) string {
	lesson = strings.ToLower(strings.TrimSpace(lesson))
	if lesson == "" || lesson == "all" {
		return ""
	}
	var b strings.Builder
	for _, r := range lesson {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r >= 'а' && r <= 'я', r == 'ё':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// LoadSnapshot loads a snapshot from disk. A missing file yields an empty
// snapshot, not an error.
func (s *Storage) LoadSnapshot(lesson string) (*olymp.Snapshot, error) {
	path := s.getSnapshotPath(lesson)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return olymp.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot olymp.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Olymps == nil {
		snapshot.Olymps = make(map[string]*olymp.Olymp)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk, stamping UpdatedAt.
func (s *Storage) SaveSnapshot(snapshot *olymp.Snapshot, lesson string) error {
	path := s.getSnapshotPath(lesson)

	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// CreateSnapshotFromOlymps creates and saves a snapshot from a list of
// entries.
func (s *Storage) CreateSnapshotFromOlymps(olymps []*olymp.Olymp, lesson string) error {
	snapshot := olymp.CreateSnapshot(olymps, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot, lesson)
}
