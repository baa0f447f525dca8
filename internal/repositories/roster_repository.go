package repositories

import (
	"context"

	"rosterboard/internal/models"
)

// Lookup is the read-only data capability the render orchestrator depends on.
type Lookup interface {
	// FindClubByID returns the club or a NotFound-coded error.
	FindClubByID(ctx context.Context, id string) (*models.Club, error)

	// FindPlayersByIDs returns the players that exist among ids, in no
	// particular order. Unknown ids are simply absent from the result.
	FindPlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error)
}
