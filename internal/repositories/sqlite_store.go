package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// SQLiteRequestRepository implements [models.RequestStore] on the track_requests table.
//
// The unique uri column gives dedup-on-insert; transitions run in a transaction, and the
// single-connection pool from [shared.NewDatabase] orders them.
type SQLiteRequestRepository struct {
	db *sql.DB
}

// NewSQLiteRequestRepository creates a new SQLiteRequestRepository with the given database connection.
//
// Migrations must already have been applied.
func NewSQLiteRequestRepository(db *sql.DB) *SQLiteRequestRepository {
	return &SQLiteRequestRepository{db: db}
}

const selectRequest = `
	SELECT uri, status, ts, confirmed_at, manual_added_at, track_json, ip
	FROM track_requests
`

// List returns requests matching status ("" for all) ordered by insertion sequence.
func (r *SQLiteRequestRepository) List(ctx context.Context, status models.Status) ([]*models.TrackRequest, error) {
	query := selectRequest
	args := []any{}

	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query requests: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	items := []*models.TrackRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %v", shared.ErrStorage, err)
	}

	return items, nil
}

// Get retrieves a request by uri.
func (r *SQLiteRequestRepository) Get(ctx context.Context, uri string) (*models.TrackRequest, error) {
	return getRequest(ctx, r.db, uri)
}

// Insert adds req; a duplicate uri fails with [shared.ErrConflict].
func (r *SQLiteRequestRepository) Insert(ctx context.Context, req *models.TrackRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	trackJSON, err := encodeSnapshot(req.Track)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO track_requests (uri, status, ts, confirmed_at, manual_added_at, track_json, ip)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, req.URI, string(req.Status), req.TS, nullInt(req.ConfirmedAt), nullInt(req.ManualAddedAt), trackJSON, req.IP)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", shared.ErrConflict, req.URI)
		}
		return fmt.Errorf("%w: failed to insert request: %v", shared.ErrStorage, err)
	}

	return nil
}

// Transition applies fn to the stored request inside a transaction.
func (r *SQLiteRequestRepository) Transition(ctx context.Context, uri string, fn models.Mutator) (*models.TrackRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrStorage, err)
	}
	defer tx.Rollback()

	current, err := getRequest(ctx, tx, uri)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := checkTransition(current, next); err != nil {
		return nil, err
	}

	trackJSON, err := encodeSnapshot(next.Track)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE track_requests
		SET status = ?, confirmed_at = ?, manual_added_at = ?, track_json = ?
		WHERE uri = ?
	`, string(next.Status), nullInt(next.ConfirmedAt), nullInt(next.ManualAddedAt), trackJSON, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to update request: %v", shared.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit transition: %v", shared.ErrStorage, err)
	}

	return next, nil
}

// Delete permanently removes a request by uri.
func (r *SQLiteRequestRepository) Delete(ctx context.Context, uri string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM track_requests WHERE uri = ?", uri)
	if err != nil {
		return fmt.Errorf("%w: failed to delete request: %v", shared.ErrStorage, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get affected rows: %v", shared.ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, uri)
	}

	return nil
}

// Close closes the underlying database.
func (r *SQLiteRequestRepository) Close() error {
	return r.db.Close()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getRequest(ctx context.Context, q queryRower, uri string) (*models.TrackRequest, error) {
	req, err := scanRequest(q.QueryRowContext(ctx, selectRequest+" WHERE uri = ?", uri))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, uri)
	}
	return req, err
}

func scanRequest(row scanner) (*models.TrackRequest, error) {
	var (
		req           models.TrackRequest
		status        string
		confirmedAt   sql.NullInt64
		manualAddedAt sql.NullInt64
		trackJSON     sql.NullString
		ip            sql.NullString
	)

	err := row.Scan(&req.URI, &status, &req.TS, &confirmedAt, &manualAddedAt, &trackJSON, &ip)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan request: %v", shared.ErrStorage, err)
	}

	req.Status = models.Status(status)
	req.IP = ip.String
	if confirmedAt.Valid {
		v := confirmedAt.Int64
		req.ConfirmedAt = &v
	}
	if manualAddedAt.Valid {
		v := manualAddedAt.Int64
		req.ManualAddedAt = &v
	}
	if trackJSON.Valid && trackJSON.String != "" {
		var snap models.TrackSnapshot
		if err := json.Unmarshal([]byte(trackJSON.String), &snap); err != nil {
			return nil, fmt.Errorf("%w: corrupt track snapshot for %s: %v", shared.ErrStorage, req.URI, err)
		}
		req.Track = &snap
	}

	return &req, nil
}

func encodeSnapshot(s *models.TrackSnapshot) (sql.NullString, error) {
	if s == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("%w: failed to encode track snapshot: %v", shared.ErrStorage, err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
