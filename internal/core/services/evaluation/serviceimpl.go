package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gitlab.com/codearena.net/internal/config"
	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/ports/secondary"
	"gitlab.com/codearena.net/internal/core/services/language"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/static/errs"
)

const persistTimeout = 5 * time.Second

var _ IEvaluationService = (*EvaluationService)(nil)

// EvaluationService owns the submission lifecycle:
// pending -> accepted | wrong_answer | runtime_error | compilation_error | language_error | service_error
type EvaluationService struct {
	resolver    *language.Resolver
	dispatcher  *Dispatcher
	poller      *Poller
	aggregator  *Aggregator
	submissions secondary.SubmissionRepository
	problems    secondary.ProblemStore
	solved      secondary.SolvedSetStore
	logger      primary.Logger
}

// NewEvaluationService wires the evaluation pipeline
func NewEvaluationService(
	executor secondary.ExecutionService,
	submissions secondary.SubmissionRepository,
	problems secondary.ProblemStore,
	solved secondary.SolvedSetStore,
	execCfg *config.ExecutorCfg,
	langCfg *config.LanguageCfg,
	logger primary.Logger,
) *EvaluationService {
	return &EvaluationService{
		resolver:    language.NewResolver(langCfg),
		dispatcher:  NewDispatcher(executor, logger),
		poller:      NewPoller(executor, execCfg, logger),
		aggregator:  NewAggregator(execCfg),
		submissions: submissions,
		problems:    problems,
		solved:      solved,
		logger:      logger,
	}
}

// Submit evaluates code against the hidden test cases
func (s *EvaluationService) Submit(ctx context.Context, req SubmitRequest) (*domain.Submission, error) {
	if req.UserID == "" || req.ProblemID == "" || strings.TrimSpace(req.Code) == "" || req.Language == "" {
		return nil, fmt.Errorf("%w: some field missing", errs.ErrInvalidRequest)
	}

	problem, err := s.findProblem(ctx, req.ProblemID)
	if err != nil {
		return nil, err
	}
	testCases := problem.HiddenTestCases

	languageID, canonical, langErr := s.resolver.Resolve(req.Language)
	storedLanguage := canonical
	if langErr != nil {
		storedLanguage = strings.ToLower(strings.TrimSpace(req.Language))
	}

	submission := domain.NewSubmission(req.UserID, req.ProblemID, req.Code, storedLanguage, len(testCases))
	if err := s.submissions.Create(ctx, submission); err != nil {
		s.logger.Error("Failed to create submission", "problemId", req.ProblemID, "userId", req.UserID, "error", err)
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	s.logger.Info("Submission created",
		"submissionId", submission.ID,
		"problemId", req.ProblemID,
		"userId", req.UserID,
		"cases", len(testCases))

	if langErr != nil {
		submission.Apply(domain.Verdict{
			Status:       domain.SubmissionStatusLanguageError,
			ErrorMessage: fmt.Sprintf("Invalid language: %s", req.Language),
		})
		if err := s.finalize(ctx, submission); err != nil {
			return submission, errors.Join(langErr, err)
		}
		return submission, langErr
	}

	requests := BuildRequests(req.Code, languageID, testCases)
	verdict, err := s.evaluate(ctx, requests, testCases, ModeShortCircuit)
	var evalErr error
	switch {
	case err == nil:
	case ctx.Err() != nil:
		// abandoned before a terminal aggregate; the row stays pending
		s.logger.Warn("Submission evaluation cancelled", "submissionId", submission.ID, "error", ctx.Err())
		return submission, ctx.Err()
	case errs.IsServiceError(err):
		s.logger.Warn("Execution service failure", "submissionId", submission.ID, "error", err)
		verdict = domain.Verdict{Status: domain.SubmissionStatusServiceError, ErrorMessage: err.Error()}
	default:
		s.logger.Error("Evaluation invariant violated", "submissionId", submission.ID, "error", err)
		verdict = domain.Verdict{Status: domain.SubmissionStatusServiceError, ErrorMessage: err.Error()}
		evalErr = err
	}

	submission.Apply(verdict)
	persistErr := s.finalize(ctx, submission)

	if submission.Status == domain.SubmissionStatusAccepted {
		if err := s.markSolved(ctx, req.UserID, req.ProblemID); err != nil {
			persistErr = errors.Join(persistErr, err)
		}
	}

	s.logger.Info("Submission finished",
		"submissionId", submission.ID,
		"status", submission.Status,
		"passed", submission.TestCasesPassed,
		"total", submission.TestCasesTotal)

	return submission, errors.Join(evalErr, persistErr)
}

// Run evaluates code against the visible test cases, or against a single custom input
func (s *EvaluationService) Run(ctx context.Context, req RunRequest) (*domain.RunResult, error) {
	if req.UserID == "" || req.ProblemID == "" || strings.TrimSpace(req.Code) == "" || req.Language == "" {
		return nil, fmt.Errorf("%w: some field missing", errs.ErrInvalidRequest)
	}

	problem, err := s.findProblem(ctx, req.ProblemID)
	if err != nil {
		return nil, err
	}

	testCases := problem.VisibleTestCases
	build := BuildRequests
	if req.CustomInput != nil {
		testCases = []domain.TestCase{{Input: *req.CustomInput}}
		build = BuildUncheckedRequests
	}

	s.logger.Debug("Running code", "problemId", req.ProblemID, "userId", req.UserID, "cases", len(testCases))
	return s.diagnose(ctx, req.Code, req.Language, testCases, build)
}

// Verify evaluates a reference solution against the supplied test cases
func (s *EvaluationService) Verify(ctx context.Context, req VerifyRequest) (*domain.RunResult, error) {
	if strings.TrimSpace(req.Code) == "" || req.Language == "" {
		return nil, fmt.Errorf("%w: some field missing", errs.ErrInvalidRequest)
	}
	return s.diagnose(ctx, req.Code, req.Language, req.TestCases, BuildRequests)
}

// ListSubmissions returns a user's submission history for a problem
func (s *EvaluationService) ListSubmissions(ctx context.Context, userID, problemID string) ([]*domain.Submission, error) {
	list, err := s.submissions.ListByUserProblem(ctx, userID, problemID)
	if err != nil {
		s.logger.Error("Failed to list submissions", "userId", userID, "problemId", problemID, "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return list, nil
}

func (s *EvaluationService) GetSubmission(ctx context.Context, userID string, id uuid.UUID) (*domain.Submission, error) {
	submission, err := s.submissions.Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load submission", "submissionId", id, "error", err)
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if submission == nil || submission.UserID != userID {
		return nil, fmt.Errorf("%w: %s", errs.ErrSubmissionNotFound, id)
	}
	return submission, nil
}

// ListSolved returns the problems credited to the user
func (s *EvaluationService) ListSolved(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.solved.ListSolved(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list solved problems", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to list solved problems: %w", err)
	}
	return ids, nil
}

func (s *EvaluationService) Languages() []string {
	return s.resolver.Languages()
}

type requestBuilder func(code string, languageID int, testCases []domain.TestCase) []domain.ExecutionRequest

// diagnose runs the full-aggregation pipeline shared by Run and Verify
func (s *EvaluationService) diagnose(ctx context.Context, code, lang string, testCases []domain.TestCase, build requestBuilder) (*domain.RunResult, error) {
	languageID, _, err := s.resolver.Resolve(lang)
	if err != nil {
		return nil, err
	}

	result := &domain.RunResult{TestCasesTotal: len(testCases)}

	verdict, err := s.evaluate(ctx, build(code, languageID, testCases), testCases, ModeFull)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errs.IsServiceError(err):
		s.logger.Warn("Execution service failure during run", "error", err)
		result.Status = domain.SubmissionStatusServiceError
		result.ErrorMessage = err.Error()
		result.Cases = []domain.CaseResult{}
		return result, nil
	default:
		return nil, err
	}

	result.Status = verdict.Status
	result.TestCasesPassed = verdict.TestCasesPassed
	result.Runtime = verdict.Runtime
	result.Memory = verdict.Memory
	result.ErrorMessage = verdict.ErrorMessage
	result.Cases = verdict.Cases
	return result, nil
}

// evaluate drives dispatch, poll and aggregate for one evaluation
func (s *EvaluationService) evaluate(ctx context.Context, requests []domain.ExecutionRequest, testCases []domain.TestCase, mode Mode) (domain.Verdict, error) {
	if len(testCases) == 0 {
		return s.aggregator.Aggregate(nil, nil, mode)
	}

	tokens, err := s.dispatcher.DispatchRequests(ctx, requests)
	if err != nil {
		return domain.Verdict{}, err
	}

	results, err := s.poller.AwaitCompletion(ctx, tokens)
	if err != nil {
		return domain.Verdict{}, err
	}

	return s.aggregator.Aggregate(testCases, results, mode)
}

func (s *EvaluationService) findProblem(ctx context.Context, problemID string) (*domain.Problem, error) {
	problem, err := s.problems.FindByID(ctx, problemID)
	if err != nil {
		s.logger.Error("Failed to load problem", "problemId", problemID, "error", err)
		return nil, fmt.Errorf("failed to load problem: %w", err)
	}
	if problem == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrProblemNotFound, problemID)
	}
	return problem, nil
}

// finalize writes the terminal state even if the caller has gone away,
// since the verdict is already known
func (s *EvaluationService) finalize(ctx context.Context, submission *domain.Submission) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := s.submissions.Finalize(writeCtx, submission); err != nil {
		s.logger.Error("Failed to finalize submission", "submissionId", submission.ID, "status", submission.Status, "error", err)
		return fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}
	return nil
}

func (s *EvaluationService) markSolved(ctx context.Context, userID, problemID string) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	added, err := s.solved.AddSolved(writeCtx, userID, problemID)
	if err != nil {
		s.logger.Error("Failed to update solved set", "userId", userID, "problemId", problemID, "error", err)
		return fmt.Errorf("%w: solved set: %v", errs.ErrPersistence, err)
	}
	if added {
		s.logger.Info("Problem solved", "userId", userID, "problemId", problemID)
	}
	return nil
}
