package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitlab.com/codearena.net/internal/config"
	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/ports/secondary"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/static/errs"
)

type pollState int

const (
	pollRequest pollState = iota
	pollWait
	pollDone
)

// Poller waits for a batch of tokens to reach terminal status
type Poller struct {
	executor secondary.ExecutionService
	cfg      *config.ExecutorCfg
	logger   primary.Logger
}

func NewPoller(executor secondary.ExecutionService, cfg *config.ExecutorCfg, logger primary.Logger) *Poller {
	return &Poller{
		executor: executor,
		cfg:      cfg,
		logger:   logger,
	}
}

// AwaitCompletion polls until every token is terminal, MaxWait elapses or ctx is done.
// Results are returned in token order regardless of the order the service reports them.
// Transport errors are retried on the next tick; malformed responses fail immediately.
func (p *Poller) AwaitCompletion(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error) {
	if len(tokens) == 0 {
		return []domain.ExecutionResult{}, nil
	}

	pollCtx, cancel := context.WithTimeout(ctx, p.cfg.MaxWait)
	defer cancel()

	var (
		results []domain.ExecutionResult
		lastErr error
		rounds  int
		state   = pollRequest
	)

	for state != pollDone {
		switch state {
		case pollRequest:
			rounds++
			batch, err := p.executor.GetBatch(pollCtx, tokens)
			if err != nil {
				if errors.Is(err, errs.ErrPollMalformed) {
					return nil, err
				}
				if pollCtx.Err() != nil {
					return nil, p.stopReason(ctx, lastErr)
				}
				p.logger.Warn("Status poll failed, retrying", "round", rounds, "error", err)
				lastErr = err
				state = pollWait
				continue
			}

			ordered, err := correlate(tokens, batch)
			if err != nil {
				return nil, err
			}
			if p.allTerminal(ordered) {
				results = ordered
				state = pollDone
				continue
			}
			state = pollWait

		case pollWait:
			wait := time.NewTimer(p.cfg.PollInterval)
			select {
			case <-pollCtx.Done():
				wait.Stop()
				return nil, p.stopReason(ctx, lastErr)
			case <-wait.C:
				state = pollRequest
			}
		}
	}

	p.logger.Debug("Batch finished", "tokens", len(tokens), "rounds", rounds)
	return results, nil
}

// stopReason separates caller cancellation from our own deadline
func (p *Poller) stopReason(parent context.Context, lastErr error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if lastErr != nil {
		return fmt.Errorf("%w after %s (last error: %v)", errs.ErrPollTimeout, p.cfg.MaxWait, lastErr)
	}
	return fmt.Errorf("%w after %s", errs.ErrPollTimeout, p.cfg.MaxWait)
}

func (p *Poller) allTerminal(results []domain.ExecutionResult) bool {
	for _, r := range results {
		if !p.cfg.IsTerminal(r.StatusID) {
			return false
		}
	}
	return true
}

// correlate re-aligns results to the token order by token identity
func correlate(tokens []string, batch []domain.ExecutionResult) ([]domain.ExecutionResult, error) {
	if len(batch) != len(tokens) {
		return nil, fmt.Errorf("%w: expected %d results, got %d", errs.ErrPollMalformed, len(tokens), len(batch))
	}

	byToken := make(map[string]domain.ExecutionResult, len(batch))
	for _, r := range batch {
		if r.Token == "" {
			return nil, fmt.Errorf("%w: result without token", errs.ErrPollMalformed)
		}
		if _, dup := byToken[r.Token]; dup {
			return nil, fmt.Errorf("%w: repeated result for token %s", errs.ErrPollMalformed, r.Token)
		}
		byToken[r.Token] = r
	}

	ordered := make([]domain.ExecutionResult, len(tokens))
	for i, token := range tokens {
		r, ok := byToken[token]
		if !ok {
			return nil, fmt.Errorf("%w: no result for token %s", errs.ErrPollMalformed, token)
		}
		ordered[i] = r
	}
	return ordered, nil
}
