package secondary

import (
	"context"

	"gitlab.com/codearena.net/internal/domain"
)

// ExecutionService is the external batch execution engine
type ExecutionService interface {
	// SubmitBatch queues one execution per request and returns one token per request, in order
	SubmitBatch(ctx context.Context, requests []domain.ExecutionRequest) ([]string, error)

	// GetBatch fetches the current state of every token in a single call
	GetBatch(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error)
}
