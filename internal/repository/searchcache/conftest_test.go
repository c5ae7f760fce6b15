package searchcache

import (
	"context"
	"strings"
	"time"

	"github.com/kailas-cloud/shopsearch/internal/db"
)

// memStore is an in-memory stand-in for the Redis store.
type memStore struct {
	kv      map[string][]byte
	zsets   map[string]map[string]float64
	getErr  error
	setErr  error
	zErr    error
	scanErr error
}

func newMemStore() *memStore {
	return &memStore{
		kv:    map[string][]byte{},
		zsets: map[string]map[string]float64{},
	}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return data, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.kv[key] = value
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	delete(m.kv, key)
	return nil
}

func (m *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.kv {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *memStore) ZIncrBy(_ context.Context, key, member string, delta float64) error {
	if m.zErr != nil {
		return m.zErr
	}
	if m.zsets[key] == nil {
		m.zsets[key] = map[string]float64{}
	}
	m.zsets[key][member] += delta
	return nil
}

func (m *memStore) ZTop(_ context.Context, key string, n int) ([]db.ScoredMember, error) {
	if m.zErr != nil {
		return nil, m.zErr
	}
	var members []db.ScoredMember
	for member, score := range m.zsets[key] {
		members = append(members, db.ScoredMember{Member: member, Score: score})
	}
	// Insertion order is fine for tests; callers sort by score when needed.
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if members[j].Score > members[i].Score {
				members[i], members[j] = members[j], members[i]
			}
		}
	}
	if len(members) > n {
		members = members[:n]
	}
	return members, nil
}
