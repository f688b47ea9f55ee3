package evaluation

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codearena.net/internal/domain"
)

// SubmitRequest scores code against a problem's hidden test cases
type SubmitRequest struct {
	UserID    string
	ProblemID string
	Code      string
	Language  string
}

// RunRequest checks code against a problem's visible test cases, or a single custom input
type RunRequest struct {
	UserID      string
	ProblemID   string
	Code        string
	Language    string
	CustomInput *string
}

// VerifyRequest checks a reference solution against author-provided test cases
type VerifyRequest struct {
	Code      string
	Language  string
	TestCases []domain.TestCase
}

// IEvaluationService is the orchestrator boundary consumed by the HTTP layer
type IEvaluationService interface {
	// Submit persists a submission and credits the user's solved set when accepted.
	// A non-nil submission may come back together with an error wrapping errs.ErrPersistence.
	Submit(ctx context.Context, req SubmitRequest) (*domain.Submission, error)

	// Run evaluates every visible case without persisting anything
	Run(ctx context.Context, req RunRequest) (*domain.RunResult, error)

	// Verify evaluates a reference solution without persisting anything
	Verify(ctx context.Context, req VerifyRequest) (*domain.RunResult, error)

	// ListSubmissions returns a user's submission history for a problem
	ListSubmissions(ctx context.Context, userID, problemID string) ([]*domain.Submission, error)

	// GetSubmission returns one of the user's own submissions;
	// another user's submission is reported as errs.ErrSubmissionNotFound
	GetSubmission(ctx context.Context, userID string, id uuid.UUID) (*domain.Submission, error)

	// ListSolved returns the ids of problems the user has solved
	ListSolved(ctx context.Context, userID string) ([]string, error)

	// Languages lists the canonical language names accepted by Submit and Run
	Languages() []string
}
