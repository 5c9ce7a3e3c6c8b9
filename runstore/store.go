// Package runstore persists training-run history in a local sqlite
// database: one row of summary metrics per run plus the per-record
// predictions the run produced.
package runstore

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/caseflow/escalate/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TIMESTAMP NOT NULL,
	f1 REAL NOT NULL,
	auc REAL NOT NULL,
	tp INTEGER NOT NULL,
	fp INTEGER NOT NULL,
	tn INTEGER NOT NULL,
	fn INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS predictions (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	row_id TEXT NOT NULL,
	predicted INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS predictions_run ON predictions(run_id);
`

// Run is one training run's summary.
type Run struct {
	ID        int64
	StartedAt time.Time
	F1        float64
	AUC       float64
	TP        int
	FP        int
	TN        int
	FN        int
}

// Prediction is one audited training-row prediction.
type Prediction struct {
	RowID     string
	Predicted int
}

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the run-history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening run store %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "initializing run store %s", path)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records one run and its predictions atomically, returning the new
// run id.
func (s *Store) SaveRun(run Run, preds []Prediction) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, errors.Wrapf(err, "starting run transaction")
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, f1, auc, tp, fp, tn, fn) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC(), run.F1, run.AUC, run.TP, run.FP, run.TN, run.FN)
	if err != nil {
		return 0, errors.Wrapf(err, "inserting run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrapf(err, "reading run id")
	}

	stmt, err := tx.Prepare(`INSERT INTO predictions (run_id, row_id, predicted) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrapf(err, "preparing prediction insert")
	}
	defer stmt.Close()
	for _, p := range preds {
		if _, err := stmt.Exec(id, p.RowID, p.Predicted); err != nil {
			return 0, errors.Wrapf(err, "inserting prediction %s", p.RowID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrapf(err, "committing run %d", id)
	}
	return id, nil
}

// Runs returns every recorded run, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, f1, auc, tp, fp, tn, fn FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, errors.Wrapf(err, "querying runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.F1, &r.AUC, &r.TP, &r.FP, &r.TN, &r.FN); err != nil {
			return nil, errors.Wrapf(err, "scanning run")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Predictions returns the audited predictions of one run in insertion order.
func (s *Store) Predictions(runID int64) ([]Prediction, error) {
	rows, err := s.db.Query(
		`SELECT row_id, predicted FROM predictions WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "querying predictions for run %d", runID)
	}
	defer rows.Close()

	var preds []Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.RowID, &p.Predicted); err != nil {
			return nil, errors.Wrapf(err, "scanning prediction")
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}
