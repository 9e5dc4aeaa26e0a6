package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

var _ Storage = (*SQLiteStorage)(nil)

var sqliteColumns = map[string]string{
	ColumnKey:         "key",
	ColumnEnvironment: "environment",
	ColumnStrategy:    "strategy",
}

var sqliteOperators = map[string]string{
	"eq":  "=",
	"neq": "!=",
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS monitoring_decisions (
	key         TEXT PRIMARY KEY,
	environment TEXT NOT NULL DEFAULT '',
	strategy    TEXT NOT NULL DEFAULT '',
	target      TEXT NOT NULL,
	decision    TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_monitoring_decisions_environment ON monitoring_decisions (environment);
`

const sqliteTimeout = 5 * time.Second

type SQLiteStorage struct {
	db *sql.DB
}

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// sqliteDSN appends the connection pragmas, keeping any query the dsn already carries.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}

	return dsn + "?" + sqlitePragmas
}

// NewSQLiteStorage opens the database file and migrates the schema.
func NewSQLiteStorage(dsn string) (*SQLiteStorage, error) {
	if dsn == "" {
		return nil, errors.New("sqlite dsn is required")
	}

	db, err := sql.Open("sqlite", sqliteDSN(dsn))
	if err != nil {
		return nil, errors.Wrap(err, "unable to open sqlite database")
	}

	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) SaveDecision(data *v1.DecisionRecord) error {
	record := *data
	stampRecord(&record)

	target, err := json.Marshal(record.Target)
	if err != nil {
		return errors.Wrap(err, "failed to encode target")
	}

	decision, err := json.Marshal(record.Decision)
	if err != nil {
		return errors.Wrap(err, "failed to encode decision")
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	query := `
INSERT INTO monitoring_decisions (key, environment, strategy, target, decision, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	environment = excluded.environment,
	strategy    = excluded.strategy,
	target      = excluded.target,
	decision    = excluded.decision,
	updated_at  = excluded.updated_at
RETURNING created_at`

	var createdAt string

	err = s.db.QueryRowContext(ctx, query, record.Key, record.Target.Environment, record.Decision.StrategyName(),
		string(target), string(decision), formatTime(record.CreatedAt), formatTime(record.UpdatedAt)).Scan(&createdAt)
	if err != nil {
		return errors.Wrapf(err, "failed to upsert decision %s", record.Key)
	}

	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}

	*data = record

	return nil
}

func (s *SQLiteStorage) GetDecision(key string) (*v1.DecisionRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT key, target, decision, created_at, updated_at FROM monitoring_decisions WHERE key = ?`, key)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (s *SQLiteStorage) DeleteDecision(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM monitoring_decisions WHERE key = ?`, key)
	if err != nil {
		return errors.Wrapf(err, "failed to delete decision %s", key)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrResourceNotFound
	}

	return nil
}

func (s *SQLiteStorage) ListDecisions(option ListOption) ([]v1.DecisionRecord, error) {
	var (
		where []string
		args  []interface{}
	)

	for _, filter := range option.Filters {
		column, ok := sqliteColumns[filter.Column]
		if !ok {
			return nil, errors.Wrapf(ErrUnsupportedFilter, "column %q", filter.Column)
		}

		operator, ok := sqliteOperators[strings.ToLower(filter.Operator)]
		if !ok {
			return nil, errors.Wrapf(ErrUnsupportedFilter, "operator %q", filter.Operator)
		}

		where = append(where, column+" "+operator+" ?")
		args = append(args, filter.Value)
	}

	query := `SELECT key, target, decision, created_at, updated_at FROM monitoring_decisions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY key"

	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list decisions")
	}
	defer rows.Close()

	response := []v1.DecisionRecord{}

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}

		response = append(response, *record)
	}

	return response, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*v1.DecisionRecord, error) {
	var (
		record               v1.DecisionRecord
		target, decision     string
		createdAt, updatedAt string
		err                  error
	)

	if err = row.Scan(&record.Key, &target, &decision, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err = json.Unmarshal([]byte(target), &record.Target); err != nil {
		return nil, errors.Wrapf(err, "failed to decode target of %s", record.Key)
	}

	if err = json.Unmarshal([]byte(decision), &record.Decision); err != nil {
		return nil, errors.Wrapf(err, "failed to decode decision of %s", record.Key)
	}

	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &record, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid timestamp %q", value)
	}

	return t, nil
}
