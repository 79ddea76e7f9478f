package memory

import (
	"context"
	"sync"

	"github.com/omarshaarawi/hapdaily/internal/models"
)

// Repository keeps the latest slate per engine for the life of the process.
type Repository struct {
	slates map[string]models.StoredSlate
	mu     sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{slates: make(map[string]models.StoredSlate)}
}

func (r *Repository) SaveSlate(_ context.Context, slate models.StoredSlate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slate.Picks = append([]models.StoredPick(nil), slate.Picks...)
	r.slates[slate.Engine] = slate
	return nil
}

func (r *Repository) LatestSlate(_ context.Context, engine string) (models.StoredSlate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slate, ok := r.slates[engine]
	return slate, ok, nil
}
