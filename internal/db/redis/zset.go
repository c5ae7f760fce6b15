package redis

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/db"
)

// ZIncrBy increments a sorted-set member's score.
func (s *Store) ZIncrBy(ctx context.Context, key, member string, delta float64) error {
	cmd := s.b().Zincrby().Key(key).Increment(delta).Member(member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZIncrBy, Err: err}
	}
	return nil
}

// ZTop returns the n highest-scored members, descending.
func (s *Store) ZTop(ctx context.Context, key string, n int) ([]db.ScoredMember, error) {
	if n <= 0 {
		return nil, nil
	}
	cmd := s.b().Zrevrange().Key(key).Start(0).Stop(int64(n - 1)).Withscores().Build()
	scores, err := s.do(ctx, cmd).AsZScores()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}

	members := make([]db.ScoredMember, len(scores))
	for i, zs := range scores {
		members[i] = db.ScoredMember{Member: zs.Member, Score: zs.Score}
	}
	return members, nil
}
