package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codearena.net/internal/domain"
)

type SubmissionRepository interface {
	// Create stores a pending submission
	Create(ctx context.Context, submission *domain.Submission) error

	// Finalize writes the terminal state; it only succeeds while the row is still pending
	Finalize(ctx context.Context, submission *domain.Submission) error

	// Get retrieves a submission by ID
	Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// ListByUserProblem returns a user's submissions for a problem, newest first
	ListByUserProblem(ctx context.Context, userID, problemID string) ([]*domain.Submission, error)
}
