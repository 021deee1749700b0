package bookings

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/apperr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type bookingStore interface {
	GetByID(ctx context.Context, id int64) (*Booking, error)
	ExecCreate(ctx context.Context, b *Booking) error
	ExecTransition(ctx context.Context, id int64, to string) (bool, error)
	ListByBooker(ctx context.Context, bookerID int64, state State, now time.Time) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state State, now time.Time) ([]Booking, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	GetItem(ctx context.Context, id int64) (*itemRow, error)
}

type Service struct {
	store  bookingStore
	clock  Clock
	logger *zerolog.Logger
}

func NewService(conn *sql.DB, logger *zerolog.Logger) *Service {
	return &Service{store: NewStore(conn), clock: realClock{}, logger: logger}
}

// Create checks every precondition in order before the WAITING row is
// written: dates present and ordered, start not in the past, booker and
// item exist, item available, booker is not the owner.
func (s *Service) Create(ctx context.Context, userID int64, req CreateBookingRequest) (*BookingResponse, error) {
	if req.Start == nil || req.End == nil || !req.Start.Before(*req.End) {
		return nil, apperr.InvalidArgument("start must be before end")
	}
	if req.Start.Before(s.clock.Now()) {
		return nil, apperr.Conflict("start must not be in the past")
	}

	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user ID=%d not found", userID)
	}

	it, err := s.store.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperr.NotFound("item ID=%d not found", req.ItemID)
	}
	if !it.Available {
		return nil, apperr.InvalidArgument("item ID=%d is not available for booking", it.ID)
	}
	if userID == it.OwnerID {
		return nil, apperr.Forbidden("cannot book own item")
	}

	b := &Booking{
		Start:       *req.Start,
		End:         *req.End,
		ItemID:      it.ID,
		ItemName:    it.Name,
		ItemOwnerID: it.OwnerID,
		BookerID:    userID,
		Status:      StatusWaiting,
	}
	if err := s.store.ExecCreate(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Int64("item_id", it.ID).Int64("booking_id", b.ID).Msg("booking created")
	resp := buildBookingResponse(b)
	return &resp, nil
}

// Approve moves a WAITING booking to APPROVED or REJECTED. Only the
// item's owner may call it; any booking that already left WAITING fails
// with a conflict, and the transition itself is a compare-and-set so a
// concurrent approval cannot slip through.
func (s *Service) Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*BookingResponse, error) {
	b, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("booking ID=%d not found", bookingID)
	}
	if b.ItemOwnerID != ownerID {
		return nil, apperr.Forbidden("only the item's owner may approve or reject the booking")
	}
	if b.Status != StatusWaiting {
		return nil, apperr.Conflict("booking ID=%d already %s", b.ID, b.Status)
	}

	to := StatusRejected
	if approved {
		to = StatusApproved
	}
	moved, err := s.store.ExecTransition(ctx, bookingID, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperr.Conflict("booking ID=%d already decided", bookingID)
	}
	b.Status = to

	s.logger.Info().Int64("owner_id", ownerID).Int64("booking_id", b.ID).Str("status", to).Msg("booking decided")
	resp := buildBookingResponse(b)
	return &resp, nil
}

// GetByID is restricted to the booking's booker and the item's owner.
func (s *Service) GetByID(ctx context.Context, userID, bookingID int64) (*BookingResponse, error) {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user ID=%d not found", userID)
	}

	b, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("booking ID=%d not found", bookingID)
	}
	if b.BookerID != userID && b.ItemOwnerID != userID {
		return nil, apperr.Forbidden("only the item's owner or the booker may view the booking")
	}

	resp := buildBookingResponse(b)
	return &resp, nil
}

func (s *Service) GetUserBookings(ctx context.Context, userID int64, state string) ([]BookingResponse, error) {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user ID=%d not found", userID)
	}

	list, err := s.store.ListByBooker(ctx, userID, ParseState(state), s.clock.Now())
	if err != nil {
		return nil, err
	}
	return buildBookingResponses(list), nil
}

func (s *Service) GetOwnerBookings(ctx context.Context, ownerID int64, state string) ([]BookingResponse, error) {
	exists, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user ID=%d not found", ownerID)
	}

	list, err := s.store.ListByOwner(ctx, ownerID, ParseState(state), s.clock.Now())
	if err != nil {
		return nil, err
	}
	return buildBookingResponses(list), nil
}

func buildBookingResponses(list []Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(list))
	for i := range list {
		resp = append(resp, buildBookingResponse(&list[i]))
	}
	return resp
}
