package secondary

import "context"

// SolvedSetStore keeps the per-user set of solved problem ids
type SolvedSetStore interface {
	// AddSolved inserts atomically; added is false when the problem was already present
	AddSolved(ctx context.Context, userID, problemID string) (added bool, err error)

	ListSolved(ctx context.Context, userID string) ([]string, error)
}
