package referral

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*Case, error)
	Update(ctx context.Context, c *Case) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Case, int, error)
	ListByLevel(ctx context.Context, level string, limit, offset int) ([]*Case, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Case, int, error)
	CountByLevel(ctx context.Context) (map[string]int, error)
}
