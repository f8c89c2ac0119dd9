package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/futalytics/brasileirao-features/internal/domain/teaminfo"
)

type TeamInfoRepository struct {
	mu    sync.RWMutex
	infos map[string]teaminfo.Info
}

func NewTeamInfoRepository(infos []teaminfo.Info) *TeamInfoRepository {
	byName := make(map[string]teaminfo.Info, len(infos))
	for _, item := range infos {
		byName[strings.ToLower(item.Name)] = item
	}
	return &TeamInfoRepository{infos: byName}
}

func (r *TeamInfoRepository) ListAll(_ context.Context) ([]teaminfo.Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]teaminfo.Info, 0, len(r.infos))
	for _, item := range r.infos {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamInfoRepository) UpsertBatch(_ context.Context, infos []teaminfo.Info) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range infos {
		r.infos[strings.ToLower(item.Name)] = item
	}
	return len(infos), nil
}

var _ teaminfo.Repository = (*TeamInfoRepository)(nil)
