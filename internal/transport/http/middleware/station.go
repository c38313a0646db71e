package middleware

import (
	"context"
	"errors"
	"net/http"

	"rosterd/internal/domain/station"
	"rosterd/internal/transport/http/api"
)

// StationAuthenticator resolves a terminal credential to a station.
type StationAuthenticator interface {
	Authenticate(ctx context.Context, token string) (station.Station, error)
}

// RequireStation gates attendance actions on a valid X-Station-Token. The
// station_invalid code is what tells a terminal to re-register rather than
// retry; never collapse it into a generic failure.
func RequireStation(stations StationAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Station-Token")
			if token == "" {
				api.Fail(w, http.StatusUnauthorized, "station_invalid", "station credential missing", GetRequestID(r.Context()))
				return
			}

			st, err := stations.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, station.ErrInvalid) {
					api.Fail(w, http.StatusUnauthorized, "station_invalid", "station not registered", GetRequestID(r.Context()))
					return
				}
				api.Fail(w, http.StatusInternalServerError, "station_auth_failed", "station authentication failed", GetRequestID(r.Context()))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyStation, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetStation(ctx context.Context) (station.Station, bool) {
	st, ok := ctx.Value(ctxKeyStation).(station.Station)
	return st, ok
}
