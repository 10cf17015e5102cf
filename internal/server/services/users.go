package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/server/repositories/users"
)

type UserService struct {
	users users.Repository
}

func NewUserService(u users.Repository) *UserService {
	return &UserService{users: u}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return list, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}
