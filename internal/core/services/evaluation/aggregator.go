package evaluation

import (
	"fmt"

	"gitlab.com/codearena.net/internal/config"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/static/errs"
)

// Mode selects how much of a result sequence is aggregated
type Mode int

const (
	// ModeShortCircuit stops at the first failing case; used for scored submissions
	ModeShortCircuit Mode = iota
	// ModeFull aggregates every case and keeps per-case diagnostics; used for runs
	ModeFull
)

// Aggregator reduces per-case results into one verdict
type Aggregator struct {
	cfg *config.ExecutorCfg
}

func NewAggregator(cfg *config.ExecutorCfg) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Classify maps a terminal execution status id to a submission status.
// Ids with no explicit mapping count as wrong answers.
func (a *Aggregator) Classify(statusID int) domain.SubmissionStatus {
	if statusID == a.cfg.AcceptedStatusID {
		return domain.SubmissionStatusAccepted
	}
	if _, ok := a.cfg.RuntimeErrorStatusIDs[statusID]; ok {
		return domain.SubmissionStatusRuntimeError
	}
	if _, ok := a.cfg.CompileErrorStatusIDs[statusID]; ok {
		return domain.SubmissionStatusCompilationError
	}
	return domain.SubmissionStatusWrongAnswer
}

// Aggregate walks results in test-case order. The first non-accepted case fixes the
// reported status and message; later failures never override it.
func (a *Aggregator) Aggregate(testCases []domain.TestCase, results []domain.ExecutionResult, mode Mode) (domain.Verdict, error) {
	if len(results) != len(testCases) {
		return domain.Verdict{}, fmt.Errorf("%w: %d results for %d test cases", errs.ErrAggregation, len(results), len(testCases))
	}

	verdict := domain.Verdict{Status: domain.SubmissionStatusAccepted}
	if mode == ModeFull {
		verdict.Cases = make([]domain.CaseResult, 0, len(results))
	}
	failed := false

	for i, r := range results {
		if !a.cfg.IsTerminal(r.StatusID) {
			return domain.Verdict{}, fmt.Errorf("%w: test case %d still has status %d", errs.ErrAggregation, i+1, r.StatusID)
		}

		status := a.Classify(r.StatusID)
		if mode == ModeFull {
			verdict.Cases = append(verdict.Cases, domain.CaseResult{
				Index:          i,
				Input:          testCases[i].Input,
				ExpectedOutput: testCases[i].ExpectedOutput,
				Stdout:         r.Stdout,
				Stderr:         r.Stderr,
				Status:         status,
				Passed:         status == domain.SubmissionStatusAccepted,
				Time:           r.Time,
				Memory:         r.Memory,
			})
		}

		if status == domain.SubmissionStatusAccepted {
			verdict.TestCasesPassed++
			verdict.Runtime += r.Time
			verdict.Memory = max(verdict.Memory, r.Memory)
			continue
		}

		if !failed {
			failed = true
			verdict.Status = status
			verdict.ErrorMessage = failureMessage(status, r, i)
		}
		if mode == ModeShortCircuit {
			break
		}
	}

	return verdict, nil
}

func failureMessage(status domain.SubmissionStatus, r domain.ExecutionResult, index int) string {
	candidates := []string{r.Stderr, r.Message}
	if status == domain.SubmissionStatusCompilationError {
		candidates = []string{r.CompileOutput, r.Stderr, r.Message}
	}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return fmt.Sprintf("%s on test case %d", status, index+1)
}
