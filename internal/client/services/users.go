package services

import (
	"context"

	"github.com/dmitrijs2005/memorylane/internal/client/client"
	"github.com/dmitrijs2005/memorylane/internal/models"
)

type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
}

type userService struct {
	client client.Client
}

func NewUserService(c client.Client) UserService {
	return &userService{client: c}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.client.ListUsers(ctx)
}

func (s *userService) Get(ctx context.Context, id string) (models.User, error) {
	return s.client.GetUser(ctx, id)
}
