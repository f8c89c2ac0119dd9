package memory

import (
	"context"
	"sync"

	"github.com/futalytics/brasileirao-features/internal/domain/quota"
)

type QuotaRepository struct {
	mu   sync.Mutex
	used map[string]int
}

func NewQuotaRepository() *QuotaRepository {
	return &QuotaRepository{used: make(map[string]int)}
}

func (r *QuotaRepository) Get(_ context.Context, day string) (quota.Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return quota.Usage{Day: day, Count: r.used[day]}, nil
}

func (r *QuotaRepository) Increment(_ context.Context, day string, n int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.used[day] += n
	return r.used[day], nil
}

var _ quota.Repository = (*QuotaRepository)(nil)
