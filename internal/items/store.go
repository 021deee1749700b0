package items

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"shareit/internal/platform/db"
)

type Store struct {
	conn *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{conn: conn} }

// GetByID returns (nil, nil) when no row matches.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	const q = `SELECT item_id, name, description, available, owner_id, request_id
		FROM items WHERE item_id = ?`
	var it Item
	err := s.conn.QueryRowContext(ctx, q, id).
		Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID int64) ([]Item, error) {
	const q = `SELECT item_id, name, description, available, owner_id, request_id
		FROM items WHERE owner_id = ? ORDER BY item_id`
	return s.queryItems(ctx, q, ownerID)
}

// Search matches available items by case-insensitive substring on name or
// description. Blank queries are short-circuited by the service.
func (s *Store) Search(ctx context.Context, text string) ([]Item, error) {
	const q = `SELECT item_id, name, description, available, owner_id, request_id
		FROM items
		WHERE available = TRUE
		  AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)
		ORDER BY item_id`
	pattern := "%" + strings.ToLower(text) + "%"
	return s.queryItems(ctx, q, pattern, pattern)
}

func (s *Store) queryItems(ctx context.Context, q string, args ...any) ([]Item, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (s *Store) ExecCreate(ctx context.Context, it *Item) error {
	return db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `INSERT INTO items (name, description, available, owner_id, request_id)
			VALUES (?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.OwnerID, it.RequestID)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		it.ID = id
		return nil
	})
}

func (s *Store) ExecUpdate(ctx context.Context, it *Item) error {
	return db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `UPDATE items SET name = ?, description = ?, available = ?, request_id = ?
			WHERE item_id = ?`
		_, err := tx.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.RequestID, it.ID)
		return err
	})
}

func (s *Store) ExecDelete(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `DELETE FROM items WHERE item_id = ?`
		_, err := tx.ExecContext(ctx, q, id)
		return err
	})
}

// CommentsByItemIDs loads comments for the whole id set in one query.
func (s *Store) CommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]Comment, error) {
	return commentsByItemIDs(ctx, s.conn, itemIDs)
}

// Enrichment loads comments and the last/next APPROVED bookings for the
// whole id set, one query per concern, inside one read-only transaction
// so the three reads see a single snapshot.
func (s *Store) Enrichment(ctx context.Context, itemIDs []int64, now time.Time) ([]Comment, []ApprovedBooking, []ApprovedBooking, error) {
	var (
		comments   []Comment
		last, next []ApprovedBooking
	)
	err := db.ReadOnly(ctx, s.conn, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if comments, err = commentsByItemIDs(ctx, tx, itemIDs); err != nil {
			return err
		}
		if last, err = lastBookings(ctx, tx, itemIDs, now); err != nil {
			return err
		}
		next, err = nextBookings(ctx, tx, itemIDs, now)
		return err
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return comments, last, next, nil
}

func commentsByItemIDs(ctx context.Context, conn db.DBTX, itemIDs []int64) ([]Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	q := `SELECT c.comment_id, c.text, c.item_id, c.author_id, u.name, c.created
		FROM comments c
		JOIN users u ON u.user_id = c.author_id
		WHERE c.item_id IN (` + placeholders(len(itemIDs)) + `)
		ORDER BY c.created`
	rows, err := conn.QueryContext(ctx, q, int64Args(itemIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.Text, &cm.ItemID, &cm.AuthorID, &cm.AuthorName, &cm.Created); err != nil {
			return nil, err
		}
		list = append(list, cm)
	}
	return list, rows.Err()
}

// lastBookings returns approved bookings started before now for the whole
// id set, newest start first. The caller keeps the first per item.
func lastBookings(ctx context.Context, conn db.DBTX, itemIDs []int64, now time.Time) ([]ApprovedBooking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	q := `SELECT booking_id, item_id, booker_id, start_date, end_date
		FROM bookings
		WHERE item_id IN (` + placeholders(len(itemIDs)) + `)
		  AND start_date < ?
		  AND status = 'APPROVED'
		ORDER BY start_date DESC`
	return queryApproved(ctx, conn, q, append(int64Args(itemIDs), now)...)
}

// nextBookings returns approved bookings starting after now, earliest
// start first. The caller keeps the first per item.
func nextBookings(ctx context.Context, conn db.DBTX, itemIDs []int64, now time.Time) ([]ApprovedBooking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	q := `SELECT booking_id, item_id, booker_id, start_date, end_date
		FROM bookings
		WHERE item_id IN (` + placeholders(len(itemIDs)) + `)
		  AND start_date > ?
		  AND status = 'APPROVED'
		ORDER BY start_date ASC`
	return queryApproved(ctx, conn, q, append(int64Args(itemIDs), now)...)
}

func queryApproved(ctx context.Context, conn db.DBTX, q string, args ...any) ([]ApprovedBooking, error) {
	rows, err := conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []ApprovedBooking
	for rows.Next() {
		var b ApprovedBooking
		if err := rows.Scan(&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// HasCompletedBooking reports whether the user holds an APPROVED booking
// of the item that already ended.
func (s *Store) HasCompletedBooking(ctx context.Context, userID, itemID int64, now time.Time) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
		WHERE booker_id = ? AND item_id = ? AND status = 'APPROVED' AND end_date < ?`
	var n int64
	if err := s.conn.QueryRowContext(ctx, q, userID, itemID, now).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ExecCreateComment(ctx context.Context, cm *Comment) error {
	return db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, cm.Text, cm.ItemID, cm.AuthorID, cm.Created)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		cm.ID = id
		return nil
	})
}

// UserName resolves a user's display name; ok is false when absent.
func (s *Store) UserName(ctx context.Context, id int64) (string, bool, error) {
	const q = `SELECT name FROM users WHERE user_id = ?`
	var name string
	if err := s.conn.QueryRowContext(ctx, q, id).Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE user_id = ?`
	var n int64
	if err := s.conn.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) RequestExists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM requests WHERE request_id = ?`
	var n int64
	if err := s.conn.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}
