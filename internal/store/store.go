// Package store is the tabular collaborator: a single-table sqlite
// database addressed by free-form filter criteria. Criteria strings are
// passed to the engine verbatim; row values and update assignments go
// through bound parameters.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dbvault/dbvault/internal/config"
	"github.com/dbvault/dbvault/internal/events"
	"github.com/dbvault/dbvault/internal/models"
)

// Store runs CRUD operations against a data file. Each operation opens
// its own connection and releases it on every exit path; nothing is
// cached between calls.
type Store struct {
	table       string
	busyTimeout int
	logger      *events.Logger
}

// New creates a store from config.
func New(cfg *config.StoreConfig, logger *events.Logger) *Store {
	return &Store{
		table:       cfg.Table,
		busyTimeout: cfg.BusyTimeout,
		logger:      logger.WithField("component", "store"),
	}
}

// Create creates a new empty database file at path.
func (s *Store) Create(path string) error {
	db, err := s.open(path)
	if err != nil {
		return &models.StoreError{Op: "create", Path: path, Err: err}
	}
	defer db.Close()

	// Force the file into existence; sqlite defers creation until first write.
	if _, err := db.Exec("PRAGMA user_version = 0"); err != nil {
		return &models.StoreError{Op: "create", Path: path, Err: err}
	}

	s.logger.WithField("path", path).Info("Created store")
	return nil
}

// DefineColumns creates the data table with the given column names.
// Existing tables are left alone.
func (s *Store) DefineColumns(path string, columns []string) error {
	if len(columns) == 0 {
		return &models.StoreError{Op: "define-columns", Path: path,
			Err: fmt.Errorf("at least one column is required")}
	}

	db, err := s.openExisting(path)
	if err != nil {
		return &models.StoreError{Op: "define-columns", Path: path, Err: err}
	}
	defer db.Close()

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(s.table), strings.Join(quoted, ", "))
	if _, err := db.Exec(query); err != nil {
		return &models.StoreError{Op: "define-columns", Path: path, Err: err}
	}

	s.logger.WithFields(map[string]interface{}{
		"path":    path,
		"columns": strings.Join(columns, ","),
	}).Info("Defined columns")
	return nil
}

// InsertRow adds one row. Values are bound as parameters, never spliced.
func (s *Store) InsertRow(path string, row []Pair) error {
	if len(row) == 0 {
		return &models.StoreError{Op: "add-row", Path: path,
			Err: fmt.Errorf("no values given")}
	}

	db, err := s.openExisting(path)
	if err != nil {
		return &models.StoreError{Op: "add-row", Path: path, Err: err}
	}
	defer db.Close()

	cols := make([]string, len(row))
	placeholders := make([]string, len(row))
	args := make([]interface{}, len(row))
	for i, p := range row {
		cols[i] = quoteIdent(p.Column)
		placeholders[i] = "?"
		args[i] = p.Value
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.table), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := db.Exec(query, args...); err != nil {
		return &models.StoreError{Op: "add-row", Path: path, Err: err}
	}

	s.logger.WithField("path", path).Debug("Inserted row")
	return nil
}

// Search returns all rows matching criteria, or every row when criteria
// is empty. The criteria text is passed to the engine verbatim.
func (s *Store) Search(path, criteria string) (*models.TableData, error) {
	db, err := s.openExisting(path)
	if err != nil {
		return nil, &models.StoreError{Op: "search", Path: path, Err: err}
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT * FROM %s", quoteIdent(s.table))
	if criteria != "" {
		query += " WHERE " + criteria
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, &models.StoreError{Op: "search", Path: path, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &models.StoreError{Op: "search", Path: path, Err: err}
	}

	result := &models.TableData{Columns: columns}

	values := make([]sql.NullString, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, &models.StoreError{Op: "search", Path: path, Err: err}
		}
		row := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StoreError{Op: "search", Path: path, Err: err}
	}

	s.logger.WithFields(map[string]interface{}{
		"path":    path,
		"matched": len(result.Rows),
	}).Debug("Searched rows")
	return result, nil
}

// UpdateRows applies assignments to every row matching criteria and
// returns the affected count. Assignment values are bound as parameters;
// the criteria text is passed verbatim.
func (s *Store) UpdateRows(path, criteria string, set []Pair) (int64, error) {
	if len(set) == 0 {
		return 0, &models.StoreError{Op: "update-rows", Path: path,
			Err: fmt.Errorf("no assignments given")}
	}
	if criteria == "" {
		return 0, &models.StoreError{Op: "update-rows", Path: path,
			Err: fmt.Errorf("criteria is required")}
	}

	db, err := s.openExisting(path)
	if err != nil {
		return 0, &models.StoreError{Op: "update-rows", Path: path, Err: err}
	}
	defer db.Close()

	assignments := make([]string, len(set))
	args := make([]interface{}, len(set))
	for i, p := range set {
		assignments[i] = quoteIdent(p.Column) + " = ?"
		args[i] = p.Value
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		quoteIdent(s.table), strings.Join(assignments, ", "), criteria)
	res, err := db.Exec(query, args...)
	if err != nil {
		return 0, &models.StoreError{Op: "update-rows", Path: path, Err: err}
	}

	affected, _ := res.RowsAffected()
	s.logger.WithFields(map[string]interface{}{
		"path":     path,
		"affected": affected,
	}).Info("Updated rows")
	return affected, nil
}

// DeleteRows removes every row matching criteria and returns the
// affected count.
func (s *Store) DeleteRows(path, criteria string) (int64, error) {
	if criteria == "" {
		return 0, &models.StoreError{Op: "delete-rows", Path: path,
			Err: fmt.Errorf("criteria is required")}
	}

	db, err := s.openExisting(path)
	if err != nil {
		return 0, &models.StoreError{Op: "delete-rows", Path: path, Err: err}
	}
	defer db.Close()

	query := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdent(s.table), criteria)
	res, err := db.Exec(query)
	if err != nil {
		return 0, &models.StoreError{Op: "delete-rows", Path: path, Err: err}
	}

	affected, _ := res.RowsAffected()
	s.logger.WithFields(map[string]interface{}{
		"path":     path,
		"affected": affected,
	}).Info("Deleted rows")
	return affected, nil
}

// RenameColumn changes a column name, preserving its data.
func (s *Store) RenameColumn(path, oldName, newName string) error {
	db, err := s.openExisting(path)
	if err != nil {
		return &models.StoreError{Op: "rename-column", Path: path, Err: err}
	}
	defer db.Close()

	if err := s.requireColumn(db, oldName); err != nil {
		return &models.StoreError{Op: "rename-column", Path: path, Err: err}
	}

	query := fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		quoteIdent(s.table), quoteIdent(oldName), quoteIdent(newName))
	if _, err := db.Exec(query); err != nil {
		return &models.StoreError{Op: "rename-column", Path: path, Err: err}
	}

	s.logger.WithFields(map[string]interface{}{
		"path": path,
		"old":  oldName,
		"new":  newName,
	}).Info("Renamed column")
	return nil
}

// DropColumn removes a column and its data.
func (s *Store) DropColumn(path, name string) error {
	db, err := s.openExisting(path)
	if err != nil {
		return &models.StoreError{Op: "drop-column", Path: path, Err: err}
	}
	defer db.Close()

	if err := s.requireColumn(db, name); err != nil {
		return &models.StoreError{Op: "drop-column", Path: path, Err: err}
	}

	query := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s",
		quoteIdent(s.table), quoteIdent(name))
	if _, err := db.Exec(query); err != nil {
		return &models.StoreError{Op: "drop-column", Path: path, Err: err}
	}

	s.logger.WithFields(map[string]interface{}{
		"path":   path,
		"column": name,
	}).Info("Dropped column")
	return nil
}

// Columns returns the data table's column names in table order.
func (s *Store) Columns(path string) ([]string, error) {
	db, err := s.openExisting(path)
	if err != nil {
		return nil, &models.StoreError{Op: "columns", Path: path, Err: err}
	}
	defer db.Close()

	cols, err := s.tableColumns(db)
	if err != nil {
		return nil, &models.StoreError{Op: "columns", Path: path, Err: err}
	}
	return cols, nil
}

// open opens a connection, creating the file if needed.
func (s *Store) open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_timeout=%d", path, s.busyTimeout)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// openExisting opens a connection, refusing to silently create a new
// file for operations that expect one.
func (s *Store) openExisting(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat store file: %w", err)
	}
	return s.open(path)
}

func (s *Store) tableColumns(db *sql.DB) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(s.table)))
	if err != nil {
		return nil, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func (s *Store) requireColumn(db *sql.DB, name string) error {
	columns, err := s.tableColumns(db)
	if err != nil {
		return err
	}
	for _, col := range columns {
		if col == name {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", models.ErrColumnMissing, name)
}

// quoteIdent escapes an identifier for splicing into DDL, where bound
// parameters are not available.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
