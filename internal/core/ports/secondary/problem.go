package secondary

import (
	"context"

	"gitlab.com/codearena.net/internal/domain"
)

type ProblemStore interface {
	// FindByID returns nil, nil when the problem does not exist
	FindByID(ctx context.Context, id string) (*domain.Problem, error)
}
