package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Connect establishes a connection to the database
func Connect(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(1)

	return &DB{db}, nil
}

// RunMigrations executes all SQL migration files in order
func (db *DB) RunMigrations(migrationsDir string) error {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, filename := range sqlFiles {
		fmt.Printf("Running migration: %s\n", filename)

		content, err := os.ReadFile(filepath.Join(migrationsDir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}
	}

	return nil
}

// SaveRun inserts a run and all of its result rows in one transaction and
// fills in the run's creation time. Nothing is stored if any insert fails.
func (db *DB) SaveRun(run *Run, results *RunResults) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRun(tx, run); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	if err := insertBenchmarkRecords(tx, results.Benchmark); err != nil {
		return fmt.Errorf("failed to insert benchmark: %w", err)
	}
	if err := insertEstimateRecords(tx, results.Estimates); err != nil {
		return fmt.Errorf("failed to insert estimates: %w", err)
	}
	if err := insertOutlierSummaries(tx, results.Outliers); err != nil {
		return fmt.Errorf("failed to insert outlier summaries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertRun(tx *sql.Tx, run *Run) error {
	query := `
		INSERT INTO analysis_runs (id, kind, source, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	return tx.QueryRow(
		query,
		run.ID,
		run.Kind,
		run.Source,
		run.StartedAt,
		run.FinishedAt,
	).Scan(&run.CreatedAt)
}

func insertBenchmarkRecords(tx *sql.Tx, records []*BenchmarkRecord) error {
	query := `
		INSERT INTO benchmark_reps (run_id, label, category, set_id, reps)
		VALUES ($1, $2, $3, $4, $5)
	`

	return execEach(tx, query, len(records), func(stmt *sql.Stmt, i int) error {
		r := records[i]
		_, err := stmt.Exec(r.RunID, r.Label, r.Category, r.SetID, r.Reps)
		return err
	})
}

func insertEstimateRecords(tx *sql.Tx, records []*EstimateRecord) error {
	query := `
		INSERT INTO rep_estimates (
			run_id, label, category, set_id, column_name,
			cutoff, filter_order, samples, estimated_reps
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	return execEach(tx, query, len(records), func(stmt *sql.Stmt, i int) error {
		r := records[i]
		_, err := stmt.Exec(
			r.RunID,
			r.Label,
			r.Category,
			r.SetID,
			r.ColumnName,
			r.Cutoff,
			r.FilterOrder,
			r.Samples,
			r.EstimatedReps,
		)
		return err
	})
}

func insertOutlierSummaries(tx *sql.Tx, summaries []*OutlierSummary) error {
	query := `
		INSERT INTO outlier_summaries (
			run_id, column_name, mean, std, threshold, replaced_count
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	return execEach(tx, query, len(summaries), func(stmt *sql.Stmt, i int) error {
		s := summaries[i]
		_, err := stmt.Exec(s.RunID, s.ColumnName, s.Mean, s.Std, s.Threshold, s.ReplacedCount)
		return err
	})
}

// execEach prepares query once in tx and executes it n times
func execEach(tx *sql.Tx, query string, n int, exec func(stmt *sql.Stmt, i int) error) error {
	if n == 0 {
		return nil
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	return nil
}
