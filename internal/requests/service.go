package requests

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

type requestStore interface {
	GetByID(ctx context.Context, id int64) (*ItemRequest, error)
	ExecCreate(ctx context.Context, r *ItemRequest) error
	ListByRequester(ctx context.Context, requesterID int64) ([]ItemRequest, error)
	ListOthers(ctx context.Context, requesterID int64, from, size int) ([]ItemRequest, error)
	ItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]AnswerItem, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	store  requestStore
	clock  Clock
	logger *zerolog.Logger
}

func NewService(conn *sql.DB, logger *zerolog.Logger) *Service {
	return &Service{store: NewStore(conn), clock: realClock{}, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateRequestRequest) (*RequestResponse, error) {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user ID=%d not found", userID)
	}

	r := &ItemRequest{
		Description: req.Description,
		RequesterID: userID,
		Created:     s.clock.Now(),
	}
	if err := s.store.ExecCreate(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Int64("request_id", r.ID).Msg("item request created")
	resp := buildRequestResponse(r, nil)
	return &resp, nil
}

// GetOwn lists the caller's requests newest first, each decorated with
// the items answering it; items are fetched in one batched query.
func (s *Service) GetOwn(ctx context.Context, userID int64) ([]RequestResponse, error) {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user ID=%d not found", userID)
	}

	list, err := s.store.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, list)
}

// GetAll pages through other users' requests with a true offset query.
func (s *Service) GetAll(ctx context.Context, userID int64, from, size int) ([]RequestResponse, error) {
	if from < 0 || size <= 0 {
		return nil, apperr.InvalidArgument("from must be >= 0 and size > 0")
	}

	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user ID=%d not found", userID)
	}

	list, err := s.store.ListOthers(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, list)
}

func (s *Service) GetByID(ctx context.Context, userID, requestID int64) (*RequestResponse, error) {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user ID=%d not found", userID)
	}

	r, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound("request ID=%d not found", requestID)
	}

	items, err := s.store.ItemsByRequestIDs(ctx, []int64{requestID})
	if err != nil {
		return nil, err
	}
	resp := buildRequestResponse(r, buildAnswerItemResponses(items))
	return &resp, nil
}

func (s *Service) decorate(ctx context.Context, list []ItemRequest) ([]RequestResponse, error) {
	if len(list) == 0 {
		return []RequestResponse{}, nil
	}

	ids := make([]int64, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}
	items, err := s.store.ItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]AnswerItemResponse, len(items))
	for i := range items {
		it := &items[i]
		byRequest[it.RequestID] = append(byRequest[it.RequestID], buildAnswerItemResponse(it))
	}

	resp := make([]RequestResponse, 0, len(list))
	for i := range list {
		r := &list[i]
		resp = append(resp, buildRequestResponse(r, byRequest[r.ID]))
	}
	return resp, nil
}

func buildAnswerItemResponses(items []AnswerItem) []AnswerItemResponse {
	resp := make([]AnswerItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, buildAnswerItemResponse(&items[i]))
	}
	return resp
}
