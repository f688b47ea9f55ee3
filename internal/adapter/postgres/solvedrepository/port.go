// Package solvedrepository keeps each user's solved problems in PostgreSQL
package solvedrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/ports/secondary"
	"gitlab.com/codearena.net/internal/domain"
	querybuilder "gitlab.com/codearena.net/internal/utils"
)

var _ secondary.SolvedSetStore = (*SolvedRepository)(nil)

type SolvedRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func New(db *sqlx.DB, logger primary.Logger, schema string) *SolvedRepository {
	return &SolvedRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// AddSolved relies on the (user_id, problem_id) primary key, so concurrent
// accepted submissions insert at most one row
func (r *SolvedRepository) AddSolved(ctx context.Context, userID, problemID string) (bool, error) {
	tbl := domain.GetSolvedTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(tbl.UserID, tbl.ProblemID, tbl.SolvedAt).
		Into(tbl.TableName()).
		Values(userID, problemID, time.Now()).
		OnConflict(tbl.UserID, tbl.ProblemID).
		DoNothing().
		Build()

	result, err := r.db.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...)
	if err != nil {
		r.logger.Error("Failed to add solved problem", "userId", userID, "problemId", problemID, "error", err)
		return false, fmt.Errorf("failed to add solved problem: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListSolved returns problem ids in the order they were solved
func (r *SolvedRepository) ListSolved(ctx context.Context, userID string) ([]string, error) {
	tbl := domain.GetSolvedTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ProblemID).
		From(tbl.TableName()).
		Where(tbl.UserID+" = ?", userID).
		OrderBy(tbl.SolvedAt, true).
		Build()

	ids := make([]string, 0)
	if err := r.db.SelectContext(ctx, &ids, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to list solved problems", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to list solved problems: %w", err)
	}
	return ids, nil
}

func (r *SolvedRepository) EnsureTableExists(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.user_solved_problems (
			user_id TEXT NOT NULL,
			problem_id TEXT NOT NULL,
			solved_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, problem_id)
		)
	`, r.schema)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		r.logger.Error("Failed to create user_solved_problems table", "error", err)
		return fmt.Errorf("failed to create user_solved_problems table: %w", err)
	}
	return nil
}
