package repo

import (
	"context"

	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	FindOne(ctx context.Context, f UserFilter) (models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}
