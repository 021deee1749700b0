package bookings

import (
	"context"
	"database/sql"
	"time"

	"shareit/internal/platform/db"
)

type Store struct {
	conn *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{conn: conn} }

const bookingColumns = `b.booking_id, b.start_date, b.end_date, b.item_id, i.name, i.owner_id, b.booker_id, b.status`

// GetByID returns (nil, nil) when no row matches.
func (s *Store) GetByID(ctx context.Context, id int64) (*Booking, error) {
	q := `SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN items i ON i.item_id = b.item_id
		WHERE b.booking_id = ?`
	var b Booking
	err := s.conn.QueryRowContext(ctx, q, id).
		Scan(&b.ID, &b.Start, &b.End, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (s *Store) ExecCreate(ctx context.Context, b *Booking) error {
	return db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
			VALUES (?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, b.Start, b.End, b.ItemID, b.BookerID, b.Status)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		b.ID = id
		return nil
	})
}

// ExecTransition moves a booking out of WAITING with a compare-and-set,
// so two concurrent approvals cannot both win. Returns false when the
// booking had already left WAITING.
func (s *Store) ExecTransition(ctx context.Context, id int64, to string) (bool, error) {
	var moved bool
	err := db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `UPDATE bookings SET status = ? WHERE booking_id = ? AND status = ?`
		res, err := tx.ExecContext(ctx, q, to, id, StatusWaiting)
		if err != nil {
			return err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return err
		}
		moved = aff == 1
		return nil
	})
	return moved, err
}

// ListByBooker filters the booker's bookings by state, start descending.
func (s *Store) ListByBooker(ctx context.Context, bookerID int64, state State, now time.Time) ([]Booking, error) {
	return s.list(ctx, "b.booker_id = ?", bookerID, state, now)
}

// ListByOwner filters bookings of the owner's items by state, start descending.
func (s *Store) ListByOwner(ctx context.Context, ownerID int64, state State, now time.Time) ([]Booking, error) {
	return s.list(ctx, "i.owner_id = ?", ownerID, state, now)
}

func (s *Store) list(ctx context.Context, who string, id int64, state State, now time.Time) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN items i ON i.item_id = b.item_id
		WHERE ` + who
	args := []any{id}

	switch state {
	case StateCurrent:
		q += ` AND b.start_date < ? AND b.end_date > ?`
		args = append(args, now, now)
	case StatePast:
		q += ` AND b.end_date < ?`
		args = append(args, now)
	case StateFuture:
		q += ` AND b.start_date > ?`
		args = append(args, now)
	case StateWaiting, StateRejected:
		q += ` AND b.status = ?`
		args = append(args, string(state))
	}
	q += ` ORDER BY b.start_date DESC`

	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.Start, &b.End, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.Status); err != nil {
			return nil, err
		}
		list = append(list, b)
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

// GetItem returns (nil, nil) when no row matches.
func (s *Store) GetItem(ctx context.Context, id int64) (*itemRow, error) {
	const q = `SELECT item_id, name, owner_id, available FROM items WHERE item_id = ?`
	var it itemRow
	if err := s.conn.QueryRowContext(ctx, q, id).Scan(&it.ID, &it.Name, &it.OwnerID, &it.Available); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}
