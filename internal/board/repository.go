package board

import (
	"context"

	"github.com/starford/mannaz/internal/models"
)

// Repository defines the post persistence operations. Consumers depend on
// this interface rather than the concrete *DB.
type Repository interface {
	CreatePost(ctx context.Context, p *models.Post) (int64, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, p *models.Post) error
	DeletePost(ctx context.Context, id int64) error
	ListPosts(ctx context.Context, page, pageSize int) ([]models.Post, int, error)
	Close() error
}

// Verify *DB satisfies Repository at compile time.
var _ Repository = (*DB)(nil)
