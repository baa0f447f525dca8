package repositories

import (
	"context"
	"sync"

	"rosterboard/internal/models"
	"rosterboard/internal/pkg/errors"
)

// MemoryRosterRepository is an in-memory Lookup used in tests and local runs.
type MemoryRosterRepository struct {
	mu      sync.RWMutex
	clubs   map[string]models.Club
	players map[string]models.Player
}

func NewMemoryRosterRepository() *MemoryRosterRepository {
	return &MemoryRosterRepository{
		clubs:   make(map[string]models.Club),
		players: make(map[string]models.Player),
	}
}

func (r *MemoryRosterRepository) AddClub(c models.Club) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clubs[c.ID] = c
}

func (r *MemoryRosterRepository) AddPlayer(p models.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.ID] = p
}

func (r *MemoryRosterRepository) FindClubByID(ctx context.Context, id string) (*models.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clubs[id]
	if !ok {
		return nil, errors.NotFound("club", id)
	}
	return &c, nil
}

func (r *MemoryRosterRepository) FindPlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Player
	for _, id := range ids {
		if p, ok := r.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
