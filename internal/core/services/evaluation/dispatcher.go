package evaluation

import (
	"context"
	"fmt"

	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/ports/secondary"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/static/errs"
)

// Dispatcher sends one submission's test cases to the execution service as a single batch
type Dispatcher struct {
	executor secondary.ExecutionService
	logger   primary.Logger
}

func NewDispatcher(executor secondary.ExecutionService, logger primary.Logger) *Dispatcher {
	return &Dispatcher{
		executor: executor,
		logger:   logger,
	}
}

// Dispatch returns exactly one token per test case, aligned with testCases
func (d *Dispatcher) Dispatch(ctx context.Context, code string, languageID int, testCases []domain.TestCase) ([]string, error) {
	return d.DispatchRequests(ctx, BuildRequests(code, languageID, testCases))
}

// DispatchRequests submits prepared requests; tokens are unique and aligned with requests
func (d *Dispatcher) DispatchRequests(ctx context.Context, requests []domain.ExecutionRequest) ([]string, error) {
	tokens, err := d.executor.SubmitBatch(ctx, requests)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		d.logger.Error("Batch submit failed", "cases", len(requests), "error", err)
		return nil, fmt.Errorf("%w: %v", errs.ErrDispatchFailed, err)
	}

	if len(tokens) != len(requests) {
		d.logger.Error("Batch submit returned wrong token count", "expected", len(requests), "got", len(tokens))
		return nil, fmt.Errorf("%w: expected %d tokens, got %d", errs.ErrDispatchFailed, len(requests), len(tokens))
	}
	seen := make(map[string]struct{}, len(tokens))
	for i, token := range tokens {
		if token == "" {
			return nil, fmt.Errorf("%w: empty token for test case %d", errs.ErrDispatchFailed, i+1)
		}
		if _, dup := seen[token]; dup {
			d.logger.Error("Batch submit returned duplicate token", "token", token, "case", i+1)
			return nil, fmt.Errorf("%w: duplicate token %s for test case %d", errs.ErrDispatchFailed, token, i+1)
		}
		seen[token] = struct{}{}
	}

	d.logger.Debug("Batch dispatched", "cases", len(tokens))
	return tokens, nil
}

// BuildRequests derives one execution request per test case, preserving order.
// Every request carries its expected output, including an empty one.
func BuildRequests(code string, languageID int, testCases []domain.TestCase) []domain.ExecutionRequest {
	requests := make([]domain.ExecutionRequest, len(testCases))
	for i, tc := range testCases {
		expected := tc.ExpectedOutput
		requests[i] = domain.ExecutionRequest{
			SourceCode:     code,
			LanguageID:     languageID,
			Stdin:          tc.Input,
			ExpectedOutput: &expected,
		}
	}
	return requests
}

// BuildUncheckedRequests is BuildRequests without expected outputs, for inputs
// that have no known answer
func BuildUncheckedRequests(code string, languageID int, testCases []domain.TestCase) []domain.ExecutionRequest {
	requests := BuildRequests(code, languageID, testCases)
	for i := range requests {
		requests[i].ExpectedOutput = nil
	}
	return requests
}
