package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rosterboard/internal/httpkit"
	"rosterboard/internal/models"
	"rosterboard/internal/pkg/errors"
)

// PGRosterRepository implements Lookup against PostgreSQL.
type PGRosterRepository struct {
	db *pgxpool.Pool
}

func NewPGRosterRepository(db *pgxpool.Pool) *PGRosterRepository {
	return &PGRosterRepository{db: db}
}

func (r *PGRosterRepository) FindClubByID(ctx context.Context, id string) (*models.Club, error) {
	var c models.Club
	err := r.db.QueryRow(ctx, `
		SELECT id, name, COALESCE(logo_key, ''), created_at
		FROM clubs
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&c.ID, &c.Name, &c.LogoKey, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NotFound("club", id)
		}
		if httpkit.IsConnectionFailure(err) || httpkit.IsUndefinedTable(err) {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "repo.club", "club lookup unavailable")
		}
		return nil, errors.Wrap(err, "repo.club", "club lookup failed")
	}
	return &c, nil
}

func (r *PGRosterRepository) FindPlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, display_name, COALESCE(avatar_key, ''), created_at
		FROM players
		WHERE id = ANY($1) AND deleted_at IS NULL
	`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "repo.players", "player lookup failed")
	}
	defer rows.Close()

	var out []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.AvatarKey, &p.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "repo.players", "player scan failed")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "repo.players", "player rows failed")
	}
	return out, nil
}
