// Package submissionrepository stores submissions in PostgreSQL
package submissionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/ports/secondary"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/static/errs"
	querybuilder "gitlab.com/codearena.net/internal/utils"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func New(db *sqlx.DB, logger primary.Logger, schema string) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func (r *SubmissionRepository) columns() []string {
	tbl := domain.GetSubmissionTable()
	return []string{
		tbl.ID, tbl.UserID, tbl.ProblemID, tbl.Code, tbl.Language, tbl.Status,
		tbl.TestCasesTotal, tbl.TestCasesPassed, tbl.Runtime, tbl.Memory,
		tbl.ErrorMessage, tbl.CreatedAt, tbl.UpdatedAt,
	}
}

// Create inserts a new submission row
func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(r.columns()...).
		Into(tbl.TableName()).
		Values(
			s.ID, s.UserID, s.ProblemID, s.Code, s.Language, s.Status,
			s.TestCasesTotal, s.TestCasesPassed, s.Runtime, s.Memory,
			s.ErrorMessage, s.CreatedAt, s.UpdatedAt,
		).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to insert submission", "submissionId", s.ID, "error", err)
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// Finalize moves a pending row to its terminal state.
// A row that is missing or already terminal yields errs.ErrSubmissionFinalized.
func (r *SubmissionRepository) Finalize(ctx context.Context, s *domain.Submission) error {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Update(tbl.TableName(), querybuilder.UpdateData{
			tbl.Status:          s.Status,
			tbl.TestCasesPassed: s.TestCasesPassed,
			tbl.Runtime:         s.Runtime,
			tbl.Memory:          s.Memory,
			tbl.ErrorMessage:    s.ErrorMessage,
			tbl.UpdatedAt:       s.UpdatedAt,
		}).
		Where(tbl.ID+" = ?", s.ID).
		And(tbl.Status+" = ?", domain.SubmissionStatusPending).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to finalize submission", "submissionId", s.ID, "error", err)
		return fmt.Errorf("failed to finalize submission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", errs.ErrSubmissionFinalized, s.ID)
	}
	return nil
}

// Get returns nil, nil when the submission does not exist
func (r *SubmissionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(r.columns()...).
		From(tbl.TableName()).
		Where(tbl.ID+" = ?", id).
		Build()

	var s domain.Submission
	if err := r.db.GetContext(ctx, &s, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get submission", "submissionId", id, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &s, nil
}

func (r *SubmissionRepository) ListByUserProblem(ctx context.Context, userID, problemID string) ([]*domain.Submission, error) {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(r.columns()...).
		From(tbl.TableName()).
		Where(tbl.UserID+" = ?", userID).
		And(tbl.ProblemID+" = ?", problemID).
		OrderBy(tbl.CreatedAt, false).
		Build()

	submissions := make([]*domain.Submission, 0)
	if err := r.db.SelectContext(ctx, &submissions, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to list submissions", "userId", userID, "problemId", problemID, "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func (r *SubmissionRepository) EnsureTableExists(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.submissions (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			problem_id TEXT NOT NULL,
			code TEXT NOT NULL,
			language VARCHAR(32) NOT NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			test_cases_total INTEGER NOT NULL DEFAULT 0,
			test_cases_passed INTEGER NOT NULL DEFAULT 0,
			runtime DOUBLE PRECISION NOT NULL DEFAULT 0,
			memory BIGINT NOT NULL DEFAULT 0,
			error_message TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
		CREATE INDEX IF NOT EXISTS submissions_user_problem_idx
			ON %s.submissions (user_id, problem_id, created_at DESC)
	`, r.schema, r.schema)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		r.logger.Error("Failed to create submissions table", "error", err)
		return fmt.Errorf("failed to create submissions table: %w", err)
	}
	return nil
}
