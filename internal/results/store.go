package results

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sugawarayuuta/sonnet"
)

var (
	// ErrUnsupportedStore is returned by NewStore for unknown backends.
	ErrUnsupportedStore = errors.New("unsupported store type")
	// ErrNoRuns is returned when a query needs saved runs and there are none.
	ErrNoRuns = errors.New("no saved runs")
)

// Store defines the interface for storing benchmark runs.
// An empty suite name matches every suite.
type Store interface {
	Save(run Run) error
	LoadLatest(suite string) (*Run, error)
	LoadAll(suite string) ([]Run, error)
	Close() error
}

// StoreConfig holds configuration for the storage backend.
type StoreConfig struct {
	Type string // "json", "sqlite" or "postgres"
	Path string // File path for json and SQLite, DSN for Postgres
}

const defaultHistoryPath = ".optbench/history.json"

// NewStore creates a Store for the configured backend.
func NewStore(config StoreConfig) (Store, error) {
	switch strings.ToLower(config.Type) {
	case "", "json", "file":
		if config.Path == "" {
			config.Path = defaultHistoryPath
		}
		return NewFileStore(config.Path)
	case "sqlite", "sqlite3":
		if config.Path == "" {
			config.Path = ".optbench/history.db"
		}
		return NewSQLiteStore(config.Path)
	case "postgres", "postgresql":
		if config.Path == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return NewPostgresStore(config.Path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStore, config.Type)
	}
}

// FileStore implements Store using a JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Save(run Run) error {
	runs, err := s.LoadAll("")
	if err != nil {
		return err
	}

	runs = append(runs, run)

	data, err := sonnet.Marshal(runs)
	if err != nil {
		return fmt.Errorf("failed to marshal runs: %w", err)
	}

	slog.Debug("saving run", "store", "json", "path", s.path, "suite", run.Suite, "id", run.ID)
	return os.WriteFile(s.path, data, 0644)
}

func (s *FileStore) LoadAll(suite string) ([]Run, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Run{}, nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return []Run{}, nil
	}

	var runs []Run
	if err := sonnet.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal runs: %w", err)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return filterSuite(runs, suite), nil
}

func (s *FileStore) LoadLatest(suite string) (*Run, error) {
	runs, err := s.LoadAll(suite)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[len(runs)-1], nil
}

func (s *FileStore) Close() error {
	return nil
}

func filterSuite(runs []Run, suite string) []Run {
	if suite == "" {
		return runs
	}
	filtered := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.Suite == suite {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
