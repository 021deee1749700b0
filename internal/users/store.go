package users

import (
	"context"
	"database/sql"

	"shareit/internal/platform/db"
)

type Store struct {
	conn *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{conn: conn} }

// GetByID returns (nil, nil) when no row matches.
func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT user_id, name, email FROM users WHERE user_id = ?`
	var u User
	if err := s.conn.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListAll(ctx context.Context) ([]User, error) {
	const q = `SELECT user_id, name, email FROM users ORDER BY user_id`
	rows, err := s.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// EmailTaken reports whether another user already uses the email.
// excludeID is ignored when zero.
func (s *Store) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE email = ? AND user_id <> ?`
	var n int64
	if err := s.conn.QueryRowContext(ctx, q, email, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ExecCreate(ctx context.Context, u *User) error {
	return db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `INSERT INTO users (name, email) VALUES (?, ?)`
		res, err := tx.ExecContext(ctx, q, u.Name, u.Email)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		u.ID = id
		return nil
	})
}

func (s *Store) ExecUpdate(ctx context.Context, u *User) error {
	return db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `UPDATE users SET name = ?, email = ? WHERE user_id = ?`
		_, err := tx.ExecContext(ctx, q, u.Name, u.Email, u.ID)
		return err
	})
}

func (s *Store) ExecDelete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `DELETE FROM users WHERE user_id = ?`
		res, err := tx.ExecContext(ctx, q, id)
		if err != nil {
			return err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = aff > 0
		return nil
	})
	return deleted, err
}
