package evaluation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codearena.net/internal/adapter/logging"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/static/errs"
)

func results(pairs ...interface{}) []domain.ExecutionResult {
	out := make([]domain.ExecutionResult, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, domain.ExecutionResult{Token: pairs[i].(string), StatusID: pairs[i+1].(int)})
	}
	return out
}

func TestAwaitCompletionPollsUntilTerminal(t *testing.T) {
	exec := &fakeExecutor{polls: []pollResponse{
		{results: results("a", 1, "b", 1)},
		{results: results("a", 3, "b", 2)},
		{results: results("b", 4, "a", 3)},
	}}
	p := NewPoller(exec, testExecutorCfg(), logging.NewNopLogger())

	got, err := p.AwaitCompletion(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Token)
	assert.Equal(t, 3, got[0].StatusID)
	assert.Equal(t, "b", got[1].Token)
	assert.Equal(t, 4, got[1].StatusID)
	assert.Equal(t, 3, exec.getCalls)
}

func TestAwaitCompletionEmpty(t *testing.T) {
	exec := &fakeExecutor{}
	p := NewPoller(exec, testExecutorCfg(), logging.NewNopLogger())

	got, err := p.AwaitCompletion(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, exec.getCalls)
}

func TestAwaitCompletionTimesOut(t *testing.T) {
	cfg := testExecutorCfg()
	cfg.MaxWait = 30 * time.Millisecond
	exec := &fakeExecutor{polls: []pollResponse{{results: results("a", 1)}}}
	p := NewPoller(exec, cfg, logging.NewNopLogger())

	_, err := p.AwaitCompletion(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, errs.ErrPollTimeout)
	assert.Greater(t, exec.getCalls, 1)
}

func TestAwaitCompletionRetriesTransportErrors(t *testing.T) {
	exec := &fakeExecutor{polls: []pollResponse{
		{err: errBoom},
		{err: errBoom},
		{results: results("a", 3)},
	}}
	p := NewPoller(exec, testExecutorCfg(), logging.NewNopLogger())

	got, err := p.AwaitCompletion(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 3, got[0].StatusID)
}

func TestAwaitCompletionTimeoutCarriesLastError(t *testing.T) {
	cfg := testExecutorCfg()
	cfg.MaxWait = 20 * time.Millisecond
	exec := &fakeExecutor{polls: []pollResponse{{err: errBoom}}}
	p := NewPoller(exec, cfg, logging.NewNopLogger())

	_, err := p.AwaitCompletion(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, errs.ErrPollTimeout)
	assert.Contains(t, err.Error(), "boom")
}

func TestAwaitCompletionMalformedIsFatal(t *testing.T) {
	tests := []struct {
		name string
		resp pollResponse
	}{
		{"adapter reports malformed", pollResponse{err: errs.ErrPollMalformed}},
		{"wrong count", pollResponse{results: results("a", 3)}},
		{"unknown token", pollResponse{results: results("a", 3, "z", 3)}},
		{"missing token", pollResponse{results: results("a", 3, "", 3)}},
		{"repeated token", pollResponse{results: results("a", 3, "a", 3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{polls: []pollResponse{tt.resp}}
			p := NewPoller(exec, testExecutorCfg(), logging.NewNopLogger())

			_, err := p.AwaitCompletion(context.Background(), []string{"a", "b"})
			assert.ErrorIs(t, err, errs.ErrPollMalformed)
			assert.Equal(t, 1, exec.getCalls)
		})
	}
}

func TestAwaitCompletionParentCancel(t *testing.T) {
	cfg := testExecutorCfg()
	cfg.MaxWait = time.Second
	cfg.PollInterval = 5 * time.Millisecond
	exec := &fakeExecutor{polls: []pollResponse{{results: results("a", 1)}}}
	p := NewPoller(exec, cfg, logging.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.AwaitCompletion(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, errs.ErrPollTimeout)
}
