package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/rogerio-castellano/plant-store/internal/http/ban"
	rl "github.com/rogerio-castellano/plant-store/internal/http/rate_limiter"
)

// RateLimit rejects clients that exceed their token bucket with 429. Each
// rejection is a strike; a client that collects enough strikes is banned and
// gets 403 until the ban expires. Ban store failures let the request through.
func RateLimit(visitors *rl.Visitors, bans ban.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			client := clientIP(r)

			banned, err := bans.IsBanned(ctx, client)
			if err != nil {
				Logger(ctx).WithError(err).Warn("ban lookup failed")
			}
			if banned {
				writeError(w, http.StatusForbidden, "temporarily banned")
				return
			}

			if !visitors.Allow(client) {
				nowBanned, err := bans.Strike(ctx, client, r.URL.Path)
				if err != nil {
					Logger(ctx).WithError(err).Warn("strike not recorded")
				}
				if nowBanned {
					Logger(ctx).WithField("client", client).Warn("client banned")
				}
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
