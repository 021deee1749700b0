package items

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/apperr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type itemStore interface {
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Item, error)
	Search(ctx context.Context, text string) ([]Item, error)
	ExecCreate(ctx context.Context, it *Item) error
	ExecUpdate(ctx context.Context, it *Item) error
	ExecDelete(ctx context.Context, id int64) error
	CommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]Comment, error)
	Enrichment(ctx context.Context, itemIDs []int64, now time.Time) ([]Comment, []ApprovedBooking, []ApprovedBooking, error)
	HasCompletedBooking(ctx context.Context, userID, itemID int64, now time.Time) (bool, error)
	ExecCreateComment(ctx context.Context, cm *Comment) error
	UserName(ctx context.Context, id int64) (string, bool, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	RequestExists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	store  itemStore
	clock  Clock
	logger *zerolog.Logger
}

func NewService(conn *sql.DB, logger *zerolog.Logger) *Service {
	return &Service{store: NewStore(conn), clock: realClock{}, logger: logger}
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemResponse, error) {
	exists, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("owner ID=%d not found", ownerID)
	}

	it := &Item{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if req.Available != nil {
		it.Available = *req.Available
	}
	if req.RequestID != nil {
		found, err := s.store.RequestExists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, apperr.NotFound("request ID=%d not found", *req.RequestID)
		}
		it.RequestID = sql.NullInt64{Int64: *req.RequestID, Valid: true}
	}

	if err := s.store.ExecCreate(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("owner_id", ownerID).Int64("item_id", it.ID).Msg("item created")
	resp := buildItemResponse(it, nil)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, ownerID, itemID int64, req UpdateItemRequest) (*ItemResponse, error) {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperr.NotFound("item ID=%d not found", itemID)
	}
	if it.OwnerID != ownerID {
		return nil, apperr.Forbidden("only the owner may edit the item")
	}

	if req.RequestID != nil {
		found, err := s.store.RequestExists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, apperr.NotFound("request ID=%d not found", *req.RequestID)
		}
		it.RequestID = sql.NullInt64{Int64: *req.RequestID, Valid: true}
	}
	if req.Name != nil {
		it.Name = *req.Name
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.store.ExecUpdate(ctx, it); err != nil {
		return nil, err
	}

	comments, err := s.commentsFor(ctx, it.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("owner_id", ownerID).Int64("item_id", it.ID).Msg("item updated")
	resp := buildItemResponse(it, comments)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, itemID int64) error {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return apperr.NotFound("item ID=%d not found", itemID)
	}
	if it.OwnerID != ownerID {
		return apperr.Forbidden("only the owner may delete the item")
	}

	if err := s.store.ExecDelete(ctx, itemID); err != nil {
		return err
	}
	s.logger.Info().Int64("owner_id", ownerID).Int64("item_id", itemID).Msg("item deleted")
	return nil
}

// GetByID returns the enriched view. Booking fields are only populated
// when the caller owns the item.
func (s *Service) GetByID(ctx context.Context, callerID, itemID int64) (*ItemDetailResponse, error) {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperr.NotFound("item ID=%d not found", itemID)
	}

	if it.OwnerID != callerID {
		comments, err := s.commentsFor(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		resp := buildItemDetailResponse(it, nil, nil, comments)
		return &resp, nil
	}

	comments, last, next, err := s.store.Enrichment(ctx, []int64{itemID}, s.clock.Now())
	if err != nil {
		return nil, err
	}

	resp := buildItemDetailResponse(it, firstPerItem(last)[itemID], firstPerItem(next)[itemID], groupComments(comments)[itemID])
	return &resp, nil
}

// GetAllByOwner loads the owner's items and resolves comments and
// last/next bookings for the whole id set in one query pass each,
// grouping in memory to avoid per-item round trips.
func (s *Service) GetAllByOwner(ctx context.Context, ownerID int64) ([]ItemDetailResponse, error) {
	exists, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("owner ID=%d not found", ownerID)
	}

	list, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []ItemDetailResponse{}, nil
	}

	itemIDs := make([]int64, 0, len(list))
	for i := range list {
		itemIDs = append(itemIDs, list[i].ID)
	}

	comments, lastRows, nextRows, err := s.store.Enrichment(ctx, itemIDs, s.clock.Now())
	if err != nil {
		return nil, err
	}
	commentsByItem := groupComments(comments)
	last := firstPerItem(lastRows)
	next := firstPerItem(nextRows)

	resp := make([]ItemDetailResponse, 0, len(list))
	for i := range list {
		it := &list[i]
		resp = append(resp, buildItemDetailResponse(it, last[it.ID], next[it.ID], commentsByItem[it.ID]))
	}

	s.logger.Info().Int64("owner_id", ownerID).Int("count", len(resp)).Msg("owner items listed")
	return resp, nil
}

// Search returns available items matching the text. Blank text returns
// an empty result without touching storage.
func (s *Service) Search(ctx context.Context, text string) ([]ItemResponse, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemResponse{}, nil
	}

	found, err := s.store.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return []ItemResponse{}, nil
	}

	itemIDs := make([]int64, 0, len(found))
	for i := range found {
		itemIDs = append(itemIDs, found[i].ID)
	}
	comments, err := s.store.CommentsByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	commentsByItem := groupComments(comments)

	resp := make([]ItemResponse, 0, len(found))
	for i := range found {
		resp = append(resp, buildItemResponse(&found[i], commentsByItem[found[i].ID]))
	}
	return resp, nil
}

// AddComment is gated on a completed (APPROVED, already ended) booking
// of the item by the author.
func (s *Service) AddComment(ctx context.Context, userID, itemID int64, req CreateCommentRequest) (*CommentResponse, error) {
	authorName, found, err := s.store.UserName(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("user ID=%d not found", userID)
	}

	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperr.NotFound("item ID=%d not found", itemID)
	}

	now := s.clock.Now()
	completed, err := s.store.HasCompletedBooking(ctx, userID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, apperr.InvalidArgument("comment allowed only after completed booking")
	}

	cm := &Comment{
		Text:       req.Text,
		ItemID:     itemID,
		AuthorID:   userID,
		AuthorName: authorName,
		Created:    now,
	}
	if err := s.store.ExecCreateComment(ctx, cm); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Int64("item_id", itemID).Int64("comment_id", cm.ID).Msg("comment created")
	resp := buildCommentResponse(cm)
	return &resp, nil
}

func (s *Service) commentsFor(ctx context.Context, itemID int64) ([]CommentResponse, error) {
	comments, err := s.store.CommentsByItemIDs(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}
	return groupComments(comments)[itemID], nil
}

func groupComments(comments []Comment) map[int64][]CommentResponse {
	grouped := make(map[int64][]CommentResponse, len(comments))
	for i := range comments {
		cm := &comments[i]
		grouped[cm.ItemID] = append(grouped[cm.ItemID], buildCommentResponse(cm))
	}
	return grouped
}

// firstPerItem keeps the first row seen per item; the store orders rows
// so that the first one is the wanted booking.
func firstPerItem(rows []ApprovedBooking) map[int64]*ApprovedBooking {
	grouped := make(map[int64]*ApprovedBooking, len(rows))
	for i := range rows {
		b := &rows[i]
		if _, ok := grouped[b.ItemID]; !ok {
			grouped[b.ItemID] = b
		}
	}
	return grouped
}
