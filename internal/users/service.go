package users

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"shareit/internal/apperr"
)

type userStore interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	ListAll(ctx context.Context) ([]User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	ExecCreate(ctx context.Context, u *User) error
	ExecUpdate(ctx context.Context, u *User) error
	ExecDelete(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	store  userStore
	logger *zerolog.Logger
}

func NewService(conn *sql.DB, logger *zerolog.Logger) *Service {
	return &Service{store: NewStore(conn), logger: logger}
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	taken, err := s.store.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("email already in use: %s", req.Email)
	}

	u := &User{Name: req.Name, Email: req.Email}
	if err := s.store.ExecCreate(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", u.ID).Str("email", u.Email).Msg("user created")
	resp := buildUserResponse(u)
	return &resp, nil
}

func (s *Service) GetAll(ctx context.Context) ([]UserResponse, error) {
	list, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]UserResponse, 0, len(list))
	for i := range list {
		resp = append(resp, buildUserResponse(&list[i]))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user ID=%d not found", id)
	}
	resp := buildUserResponse(u)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*UserResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user ID=%d not found", id)
	}

	if req.Email != nil && *req.Email != u.Email {
		taken, err := s.store.EmailTaken(ctx, *req.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("email already in use: %s", *req.Email)
		}
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}

	if err := s.store.ExecUpdate(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", u.ID).Msg("user updated")
	resp := buildUserResponse(u)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.ExecDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("user ID=%d not found", id)
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
