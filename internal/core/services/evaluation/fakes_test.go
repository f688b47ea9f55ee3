package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/codearena.net/internal/config"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/static/errs"
)

func testExecutorCfg() *config.ExecutorCfg {
	return &config.ExecutorCfg{
		BaseURL:               "http://judge.test",
		PollInterval:          time.Millisecond,
		MaxWait:               200 * time.Millisecond,
		PendingMaxStatusID:    2,
		AcceptedStatusID:      3,
		RuntimeErrorStatusIDs: map[int]struct{}{4: {}, 7: {}, 11: {}},
		CompileErrorStatusIDs: map[int]struct{}{6: {}},
	}
}

func testLanguageCfg() *config.LanguageCfg {
	return &config.LanguageCfg{
		IDs: map[string]int{"c": 50, "c++": 54, "java": 62, "javascript": 63, "python": 71},
		Aliases: map[string][]string{
			"cpp": {"cpp17", "cpp14", "c++"},
			"js":  {"javascript", "nodejs"},
			"py":  {"python3", "python"},
		},
	}
}

type pollResponse struct {
	results []domain.ExecutionResult
	err     error
}

// fakeExecutor either replays scripted poll responses or judges each request with judge.
// Judged batches are reported in reverse order to exercise token correlation.
type fakeExecutor struct {
	mu sync.Mutex

	submitErr error
	tokens    []string
	polls     []pollResponse
	judge     func(req domain.ExecutionRequest) domain.ExecutionResult

	submitted [][]domain.ExecutionRequest
	pending   map[string]domain.ExecutionRequest
	getCalls  int
}

func (f *fakeExecutor) SubmitBatch(ctx context.Context, requests []domain.ExecutionRequest) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.submitted = append(f.submitted, requests)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.tokens != nil {
		return f.tokens, nil
	}

	if f.pending == nil {
		f.pending = make(map[string]domain.ExecutionRequest)
	}
	tokens := make([]string, len(requests))
	for i, r := range requests {
		tokens[i] = fmt.Sprintf("tok-%d-%d", len(f.submitted), i)
		f.pending[tokens[i]] = r
	}
	return tokens, nil
}

func (f *fakeExecutor) GetBatch(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := f.getCalls
	f.getCalls++

	if len(f.polls) > 0 {
		resp := f.polls[min(call, len(f.polls)-1)]
		return resp.results, resp.err
	}

	results := make([]domain.ExecutionResult, 0, len(tokens))
	for i := len(tokens) - 1; i >= 0; i-- {
		r := f.judge(f.pending[tokens[i]])
		r.Token = tokens[i]
		results = append(results, r)
	}
	return results, nil
}

func (f *fakeExecutor) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

// additionJudge accepts a case when the expected output matches the sum encoded in stdin.
// Cases whose stdin is "crash" fail with a runtime error.
func additionJudge(req domain.ExecutionRequest) domain.ExecutionResult {
	if req.Stdin == "crash" {
		return domain.ExecutionResult{StatusID: 11, Stderr: "segmentation fault", Time: 0.01}
	}
	var a, b int
	if _, err := fmt.Sscanf(req.Stdin, "%d %d", &a, &b); err != nil {
		return domain.ExecutionResult{StatusID: 4, Stdout: "", Time: 0.01}
	}
	out := fmt.Sprint(a + b)
	if req.ExpectedOutput != nil && out != *req.ExpectedOutput {
		return domain.ExecutionResult{StatusID: 5, Stdout: out, Time: 0.01, Memory: 900}
	}
	return domain.ExecutionResult{StatusID: 3, Stdout: out, Time: 0.02, Memory: 1024}
}

type memSubmissionRepo struct {
	mu          sync.Mutex
	rows        map[uuid.UUID]domain.Submission
	createErr   error
	finalizeErr error
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{rows: make(map[uuid.UUID]domain.Submission)}
}

func (r *memSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.rows[s.ID] = *s
	return nil
}

func (r *memSubmissionRepo) Finalize(ctx context.Context, s *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalizeErr != nil {
		return r.finalizeErr
	}
	row, ok := r.rows[s.ID]
	if !ok || row.Status != domain.SubmissionStatusPending {
		return errs.ErrSubmissionFinalized
	}
	r.rows[s.ID] = *s
	return nil
}

func (r *memSubmissionRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *memSubmissionRepo) ListByUserProblem(ctx context.Context, userID, problemID string) ([]*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*domain.Submission, 0)
	for _, row := range r.rows {
		if row.UserID == userID && row.ProblemID == problemID {
			row := row
			list = append(list, &row)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

type memProblemStore struct {
	problems map[string]*domain.Problem
	err      error
}

func (s *memProblemStore) FindByID(ctx context.Context, id string) (*domain.Problem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.problems[id], nil
}

type memSolvedStore struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
	adds int
	err  error
}

func newMemSolvedStore() *memSolvedStore {
	return &memSolvedStore{sets: make(map[string]map[string]struct{})}
}

func (s *memSolvedStore) AddSolved(ctx context.Context, userID, problemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adds++
	if s.err != nil {
		return false, s.err
	}
	set, ok := s.sets[userID]
	if !ok {
		set = make(map[string]struct{})
		s.sets[userID] = set
	}
	if _, exists := set[problemID]; exists {
		return false, nil
	}
	set[problemID] = struct{}{}
	return true, nil
}

func (s *memSolvedStore) ListSolved(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sets[userID]))
	for id := range s.sets[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

var errBoom = errors.New("boom")
