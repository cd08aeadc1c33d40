// Package watchlist stores followed subjects in a flat JSON file.
//
// The file holds a JSON array. Writers take an exclusive lock on
// "<file>.lock" and replace the file atomically, so concurrent processes
// never see a partial write.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"trackmix/internal/services"
)

const lockRetryDelay = 25 * time.Millisecond

// Subject is one followed entry.
type Subject struct {
	ID         uint32   `json:"id"`
	Name       string   `json:"name"`
	NameCN     string   `json:"nameCn"`
	Image      string   `json:"image"`
	URL        string   `json:"url"`
	Watching   bool     `json:"watching"`
	Backlog    bool     `json:"backlog"`
	Watched    bool     `json:"watched"`
	Date       string   `json:"date"`
	Rating     *float64 `json:"rating"`
	Summary    string   `json:"summary"`
	Aliases    []string `json:"aliases,omitempty"`
	AiredCount *uint32  `json:"airedCount,omitempty"`
	TotalCount *uint32  `json:"totalCount,omitempty"`
}

// Tracked reports whether any status flag is set.
func (s Subject) Tracked() bool {
	return s.Watching || s.Backlog || s.Watched
}

// Store reads and writes one watchlist file. The flock guards other
// processes; mu serializes callers sharing this Store.
type Store struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// New returns a store for path. The file is created on first Save.
func New(path string) *Store {
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the watchlist file location.
func (s *Store) Path() string {
	return s.path
}

// List returns all subjects ordered by id. A missing or blank file is an
// empty list.
func (s *Store) List(ctx context.Context) ([]Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	if _, err := s.lock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "watchlist", "lock", s.lock.Path(), err)
	}
	defer func() { _ = s.lock.Unlock() }()

	byID, err := s.load()
	if err != nil {
		return nil, err
	}
	return sorted(byID), nil
}

// Save inserts or replaces subject by id, or removes it when no status flag
// is set. It returns the resulting list ordered by id.
func (s *Store) Save(ctx context.Context, subject Subject) ([]Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	if _, err := s.lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "watchlist", "lock", s.lock.Path(), err)
	}
	defer func() { _ = s.lock.Unlock() }()

	byID, err := s.load()
	if err != nil {
		return nil, err
	}
	if subject.Tracked() {
		byID[subject.ID] = subject
	} else {
		delete(byID, subject.ID)
	}

	list := sorted(byID)
	if err := s.persist(list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return services.Wrap(services.ErrFilesystem, "watchlist", "mkdir", filepath.Dir(s.path), err)
	}
	return nil
}

func (s *Store) load() (map[uint32]Subject, error) {
	byID := make(map[uint32]Subject)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return byID, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "watchlist", "read", s.path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return byID, nil
	}

	var list []Subject
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode watchlist %s: %w", s.path, err)
	}
	for _, subject := range list {
		byID[subject.ID] = subject
	}
	return byID, nil
}

func (s *Store) persist(list []Subject) error {
	if list == nil {
		list = []Subject{}
	}
	payload, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "watchlist", "write", s.path, err)
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(payload)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrFilesystem, "watchlist", "write", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrFilesystem, "watchlist", "write", s.path, err)
	}
	return nil
}

func sorted(byID map[uint32]Subject) []Subject {
	list := make([]Subject, 0, len(byID))
	for _, subject := range byID {
		list = append(list, subject)
	}
	slices.SortFunc(list, func(a, b Subject) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return list
}
