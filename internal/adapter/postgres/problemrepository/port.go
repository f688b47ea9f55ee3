// Package problemrepository reads problems and their test cases from PostgreSQL
package problemrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/ports/secondary"
	"gitlab.com/codearena.net/internal/domain"
	querybuilder "gitlab.com/codearena.net/internal/utils"
)

var _ secondary.ProblemStore = (*ProblemRepository)(nil)

type ProblemRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

type problemRow struct {
	ID               string `db:"id"`
	Title            string `db:"title"`
	VisibleTestCases []byte `db:"visible_test_cases"`
	HiddenTestCases  []byte `db:"hidden_test_cases"`
}

func New(db *sqlx.DB, logger primary.Logger, schema string) *ProblemRepository {
	return &ProblemRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// FindByID returns nil, nil when no such problem exists
func (r *ProblemRepository) FindByID(ctx context.Context, id string) (*domain.Problem, error) {
	tbl := domain.GetProblemTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ID, tbl.Title, tbl.VisibleTestCases, tbl.HiddenTestCases).
		From(tbl.TableName()).
		Where(tbl.ID+" = ?", id).
		Build()

	var row problemRow
	if err := r.db.GetContext(ctx, &row, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get problem", "problemId", id, "error", err)
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	problem := &domain.Problem{ID: row.ID, Title: row.Title}
	if err := decodeCases(row.VisibleTestCases, &problem.VisibleTestCases); err != nil {
		r.logger.Error("Failed to decode visible test cases", "problemId", id, "error", err)
		return nil, fmt.Errorf("failed to decode visible test cases: %w", err)
	}
	if err := decodeCases(row.HiddenTestCases, &problem.HiddenTestCases); err != nil {
		r.logger.Error("Failed to decode hidden test cases", "problemId", id, "error", err)
		return nil, fmt.Errorf("failed to decode hidden test cases: %w", err)
	}
	return problem, nil
}

func decodeCases(raw []byte, dst *[]domain.TestCase) error {
	if len(raw) == 0 {
		*dst = []domain.TestCase{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (r *ProblemRepository) EnsureTableExists(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.problems (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			visible_test_cases JSONB NOT NULL DEFAULT '[]',
			hidden_test_cases JSONB NOT NULL DEFAULT '[]'
		)
	`, r.schema)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		r.logger.Error("Failed to create problems table", "error", err)
		return fmt.Errorf("failed to create problems table: %w", err)
	}
	return nil
}
