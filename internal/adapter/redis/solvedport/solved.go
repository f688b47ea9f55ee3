// Package solvedport keeps each user's solved problems in a Redis set
package solvedport

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/ports/secondary"
)

const solvedKeyPrefix = "solved:"

var _ secondary.SolvedSetStore = (*SolvedRepository)(nil)

// SolvedRepository implements secondary.SolvedSetStore with Redis sets
type SolvedRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
}

func NewSolvedRepository(redisClient *redis.Client, logger primary.Logger) *SolvedRepository {
	return &SolvedRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

func solvedKey(userID string) string {
	return solvedKeyPrefix + userID
}

// AddSolved uses SADD, which is atomic and ignores members already present
func (r *SolvedRepository) AddSolved(ctx context.Context, userID, problemID string) (bool, error) {
	added, err := r.redisClient.SAdd(ctx, solvedKey(userID), problemID).Result()
	if err != nil {
		r.logger.Error("Failed to add solved problem", "userId", userID, "problemId", problemID, "error", err)
		return false, fmt.Errorf("failed to add solved problem: %w", err)
	}
	return added > 0, nil
}

// ListSolved returns problem ids sorted lexically, since sets are unordered
func (r *SolvedRepository) ListSolved(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.redisClient.SMembers(ctx, solvedKey(userID)).Result()
	if err != nil {
		r.logger.Error("Failed to list solved problems", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to list solved problems: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
