package station

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, name, location, tokenHash string) (Station, error) {
	var st Station
	err := s.DB.QueryRow(ctx, `
    INSERT INTO stations (name, location, token_hash)
    VALUES ($1,$2,$3)
    RETURNING id, name, location, registered_at
  `, name, location, tokenHash).Scan(&st.ID, &st.Name, &st.Location, &st.RegisteredAt)
	if err != nil {
		return Station{}, err
	}
	return st, nil
}

// FindByID returns the station and its credential hash, or ErrInvalid when
// unknown or revoked.
func (s *Store) FindByID(ctx context.Context, stationID string) (Station, string, error) {
	// A tampered credential id must read as invalid, not as a cast failure.
	if _, err := uuid.Parse(stationID); err != nil {
		return Station{}, "", ErrInvalid
	}

	var st Station
	var tokenHash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, location, registered_at, token_hash
    FROM stations
    WHERE id = $1 AND revoked_at IS NULL
  `, stationID).Scan(&st.ID, &st.Name, &st.Location, &st.RegisteredAt, &tokenHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Station{}, "", ErrInvalid
	}
	if err != nil {
		return Station{}, "", err
	}
	return st, tokenHash, nil
}

func (s *Store) Revoke(ctx context.Context, stationID string, at time.Time) error {
	if _, err := uuid.Parse(stationID); err != nil {
		return ErrInvalid
	}
	tag, err := s.DB.Exec(ctx, "UPDATE stations SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL", stationID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalid
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]Station, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, location, registered_at
    FROM stations
    WHERE revoked_at IS NULL
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Station
	for rows.Next() {
		var st Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Location, &st.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
