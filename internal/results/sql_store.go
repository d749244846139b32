package results

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// sqlStore holds the queries shared by the SQLite and Postgres stores.
// Queries are written with ? placeholders and rebound per dialect.
type sqlStore struct {
	db      *sql.DB
	dialect string
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		suite TEXT NOT NULL,
		started_at BIGINT NOT NULL,
		iterations INTEGER NOT NULL,
		init_value DOUBLE PRECISION NOT NULL,
		command_line TEXT NOT NULL DEFAULT '',
		failures INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS measurements (
		run_id TEXT NOT NULL,
		group_index INTEGER NOT NULL,
		group_name TEXT NOT NULL,
		items INTEGER NOT NULL,
		iterations INTEGER NOT NULL,
		row_index INTEGER NOT NULL,
		label TEXT NOT NULL,
		seconds DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, group_index, row_index)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_suite ON runs (suite, started_at)`,
}

func (s *sqlStore) migrate() error {
	for _, q := range schema {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func rebind(dialect, query string) string {
	if dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) Save(run Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(rebind(s.dialect,
		`INSERT INTO runs (id, suite, started_at, iterations, init_value, command_line, failures) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.Suite, run.Timestamp.UnixNano(), run.Iterations, run.Init, run.CommandLine, run.Failures)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	insert := rebind(s.dialect,
		`INSERT INTO measurements (run_id, group_index, group_name, items, iterations, row_index, label, seconds) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for gi, g := range run.Groups {
		for ri, r := range g.Rows {
			if _, err := tx.Exec(insert, run.ID, gi, g.Name, g.Items, g.Iterations, ri, r.Label, r.Seconds); err != nil {
				return fmt.Errorf("failed to insert measurement: %w", err)
			}
		}
	}

	slog.Debug("saving run", "store", s.dialect, "suite", run.Suite, "id", run.ID)
	return tx.Commit()
}

func (s *sqlStore) LoadAll(suite string) ([]Run, error) {
	query := `SELECT id, suite, started_at, iterations, init_value, command_line, failures FROM runs`
	var args []any
	if suite != "" {
		query += ` WHERE suite = ?`
		args = append(args, suite)
	}
	query += ` ORDER BY started_at ASC`

	rows, err := s.db.Query(rebind(s.dialect, query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		if err := rows.Scan(&r.ID, &r.Suite, &started, &r.Iterations, &r.Init, &r.CommandLine, &r.Failures); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, started)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		groups, err := s.loadGroups(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Groups = groups
	}
	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}

func (s *sqlStore) loadGroups(runID string) ([]Group, error) {
	rows, err := s.db.Query(rebind(s.dialect,
		`SELECT group_index, group_name, items, iterations, label, seconds FROM measurements WHERE run_id = ? ORDER BY group_index, row_index`),
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	last := -1
	for rows.Next() {
		var gi int
		var g Group
		var r Row
		if err := rows.Scan(&gi, &g.Name, &g.Items, &g.Iterations, &r.Label, &r.Seconds); err != nil {
			return nil, err
		}
		if gi != last {
			groups = append(groups, g)
			last = gi
		}
		cur := &groups[len(groups)-1]
		cur.Rows = append(cur.Rows, r)
	}
	return groups, rows.Err()
}

func (s *sqlStore) LoadLatest(suite string) (*Run, error) {
	runs, err := s.LoadAll(suite)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[len(runs)-1], nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
