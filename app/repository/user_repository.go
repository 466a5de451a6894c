package repository

import (
	"context"
	"strings"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	Gateway[models.User]
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{Gateway: NewGateway[models.User](db)}
}

// FindByEmail looks a user up by the normalized email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, By("email", strings.ToLower(strings.TrimSpace(email))))
}

func (r *userRepository) UpdateRole(ctx context.Context, id, role string) error {
	return r.updateOne(ctx, id, map[string]any{"role": role})
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	return r.updateOne(ctx, id, map[string]any{"avatar_url": url})
}

func (r *userRepository) updateOne(ctx context.Context, id string, values map[string]any) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	_, err := r.UpdateMany(ctx, By("id", id), values)
	return err
}

// List retrieves a paginated list of users, newest first
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	return r.FindMany(ctx, Query{Order: "created_at DESC", Offset: offset, Limit: limit})
}
