package requests

import (
	"context"
	"database/sql"
	"strings"

	"shareit/internal/platform/db"
)

type Store struct {
	conn *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{conn: conn} }

// GetByID returns (nil, nil) when no row matches.
func (s *Store) GetByID(ctx context.Context, id int64) (*ItemRequest, error) {
	const q = `SELECT request_id, description, requester_id, created FROM requests WHERE request_id = ?`
	var r ItemRequest
	if err := s.conn.QueryRowContext(ctx, q, id).Scan(&r.ID, &r.Description, &r.RequesterID, &r.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) ExecCreate(ctx context.Context, r *ItemRequest) error {
	return db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `INSERT INTO requests (description, requester_id, created) VALUES (?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, r.Description, r.RequesterID, r.Created)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		r.ID = id
		return nil
	})
}

func (s *Store) ListByRequester(ctx context.Context, requesterID int64) ([]ItemRequest, error) {
	const q = `SELECT request_id, description, requester_id, created
		FROM requests WHERE requester_id = ? ORDER BY created DESC`
	return s.queryRequests(ctx, q, requesterID)
}

// ListOthers pages through requests made by everyone but the caller,
// newest first, with a plain LIMIT/OFFSET.
func (s *Store) ListOthers(ctx context.Context, requesterID int64, from, size int) ([]ItemRequest, error) {
	const q = `SELECT request_id, description, requester_id, created
		FROM requests WHERE requester_id <> ? ORDER BY created DESC LIMIT ? OFFSET ?`
	return s.queryRequests(ctx, q, requesterID, size, from)
}

func (s *Store) queryRequests(ctx context.Context, q string, args ...any) ([]ItemRequest, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []ItemRequest
	for rows.Next() {
		var r ItemRequest
		if err := rows.Scan(&r.ID, &r.Description, &r.RequesterID, &r.Created); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// ItemsByRequestIDs loads all items answering the request id set in one query.
func (s *Store) ItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]AnswerItem, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	q := `SELECT item_id, name, description, available, owner_id, request_id
		FROM items
		WHERE request_id IN (` + placeholders(len(requestIDs)) + `)
		ORDER BY item_id`
	args := make([]any, 0, len(requestIDs))
	for _, id := range requestIDs {
		args = append(args, id)
	}

	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []AnswerItem
	for rows.Next() {
		var it AnswerItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE user_id = ?`
	var n int64
	if err := s.conn.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
