package station

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"rosterd/internal/auth"
	"rosterd/internal/platform/clock"
)

// StoreAPI is the persistence slice this service needs.
type StoreAPI interface {
	Create(ctx context.Context, name, location, tokenHash string) (Station, error)
	FindByID(ctx context.Context, stationID string) (Station, string, error)
	Revoke(ctx context.Context, stationID string, at time.Time) error
	List(ctx context.Context) ([]Station, error)
}

type Service struct {
	Store    StoreAPI
	Clock    clock.Clock
	TokenTTL time.Duration
}

func NewService(store StoreAPI, clk clock.Clock, tokenTTL time.Duration) *Service {
	return &Service{Store: store, Clock: clk, TokenTTL: tokenTTL}
}

// Register enrolls a terminal and issues its credential. The token embeds the
// station id so later authentication is a single lookup plus a hash compare.
func (s *Service) Register(ctx context.Context, name, location string) (Registration, error) {
	secret := uuid.NewString()
	hash, err := auth.HashSecret(secret)
	if err != nil {
		return Registration{}, err
	}

	st, err := s.Store.Create(ctx, name, location, hash)
	if err != nil {
		return Registration{}, err
	}
	return Registration{Station: st, Token: st.ID + "." + secret}, nil
}

// Authenticate resolves a terminal credential. Unknown id, bad secret,
// revocation and expiry all collapse into ErrInvalid; the terminal's only
// recourse is re-registration either way.
func (s *Service) Authenticate(ctx context.Context, token string) (Station, error) {
	stationID, secret, ok := strings.Cut(token, ".")
	if !ok || stationID == "" || secret == "" {
		return Station{}, ErrInvalid
	}

	st, tokenHash, err := s.Store.FindByID(ctx, stationID)
	if err != nil {
		return Station{}, err
	}
	if auth.CheckSecret(tokenHash, secret) != nil {
		return Station{}, ErrInvalid
	}
	if s.TokenTTL > 0 && s.Clock.Now().After(st.RegisteredAt.Add(s.TokenTTL)) {
		return Station{}, ErrInvalid
	}
	return st, nil
}

func (s *Service) Revoke(ctx context.Context, stationID string) error {
	return s.Store.Revoke(ctx, stationID, s.Clock.Now())
}

func (s *Service) List(ctx context.Context) ([]Station, error) {
	return s.Store.List(ctx)
}
