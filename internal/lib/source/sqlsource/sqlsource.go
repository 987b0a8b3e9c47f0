// Package sqlsource reads hourly result tables from a relational database.
//
// Rows live in a single table, and a manifest lists every table present in
// each hour, so an empty table is told apart from a missing one:
//
//	CREATE TABLE grid_results (hour INT, tbl VARCHAR(16), row_index INT, c0 DOUBLE PRECISION, c1 DOUBLE PRECISION, c2 DOUBLE PRECISION)
//	CREATE TABLE grid_tables (hour INT, tbl VARCHAR(16))
//
// where tbl is one of branches, gens or nodes.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"github.com/ohowland/gridviz/internal/pkg/loader"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Tables read when the Config leaves them empty.
const (
	DefaultTable    = "grid_results"
	DefaultManifest = "grid_tables"
)

const queryTimeout = 5 * time.Second

// Config selects the driver and connection.
type Config struct {
	Driver   string `json:"Driver"` // "mysql" or "postgres"
	DSN      string `json:"DSN"`
	Table    string `json:"Table"`
	Manifest string `json:"Manifest"`
}

// Source reads from an open *sql.DB.
type Source struct {
	db       *sql.DB
	dialect  dialect
	table    string
	manifest string
}

// Open connects using cfg and verifies the connection.
func Open(cfg Config) (*Source, error) {
	if _, err := dialectFor(cfg.Driver); err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return New(db, cfg.Driver, cfg.Table, cfg.Manifest)
}

// New wraps an existing connection.
func New(db *sql.DB, driver, table, manifest string) (*Source, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if table == "" {
		table = DefaultTable
	}
	if manifest == "" {
		manifest = DefaultManifest
	}
	return &Source{db: db, dialect: d, table: table, manifest: manifest}, nil
}

// Extract connects, loads every hour and closes the connection.
func Extract(cfg Config) (dataset.Dataset, error) {
	src, err := Open(cfg)
	if err != nil {
		return dataset.Dataset{}, &dataset.FormatError{Detail: err.Error(), Err: err}
	}
	defer src.Close()
	return loader.Extract(src)
}

// Close closes the underlying connection pool.
func (s *Source) Close() error {
	return s.db.Close()
}

// HourCount returns the number of distinct hours in the manifest.
func (s *Source) HourCount() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx, s.dialect.countHours(s.manifest)).Scan(&n)
	return n, err
}

// ReadTable returns the rows of one table ordered by row_index. The manifest
// decides whether the hour and the table exist; a listed table with no rows
// is empty.
func (s *Source) ReadTable(hour int, name string) ([][]float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var hourRows, tableRows int
	if err := s.db.QueryRowContext(ctx, s.dialect.hourExists(s.manifest), hour).Scan(&hourRows); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, s.dialect.tableExists(s.manifest), hour, name).Scan(&tableRows); err != nil {
		return nil, err
	}
	if err := checkListed(hour, name, hourRows, tableRows); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.selectTable(s.table), hour, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([][]float64, 0)
	for rows.Next() {
		r := make([]float64, loader.Width)
		if err := rows.Scan(&r[0], &r[1], &r[2]); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// checkListed maps the manifest counts of an hour and of one of its tables
// to the loader's missing group and missing table errors.
func checkListed(hour int, name string, hourRows, tableRows int) error {
	if hourRows == 0 {
		return fmt.Errorf("%s: %w", loader.GroupName(hour), loader.ErrMissingGroup)
	}
	if tableRows == 0 {
		return fmt.Errorf("%s/%s: %w", loader.GroupName(hour), name, loader.ErrMissingTable)
	}
	return nil
}

// dialect renders the statements for one driver's placeholder style.
type dialect struct {
	placeholder func(n int) string
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "mysql":
		return dialect{placeholder: func(int) string { return "?" }}, nil
	case "postgres":
		return dialect{placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}, nil
	}
	return dialect{}, fmt.Errorf("sqlsource: unsupported driver %q", driver)
}

func (d dialect) countHours(table string) string {
	return fmt.Sprintf("SELECT COUNT(DISTINCT hour) FROM %s", table)
}

func (d dialect) hourExists(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE hour = %s", table, d.placeholder(1))
}

func (d dialect) tableExists(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE hour = %s AND tbl = %s", table, d.placeholder(1), d.placeholder(2))
}

func (d dialect) selectTable(table string) string {
	return fmt.Sprintf("SELECT c0, c1, c2 FROM %s WHERE hour = %s AND tbl = %s ORDER BY row_index",
		table, d.placeholder(1), d.placeholder(2))
}
