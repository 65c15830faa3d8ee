package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
)

type CtxKey int

const (
	CtxGameClaims CtxKey = iota
)

// GameClaims returns the claims stored by [RequireGame].
func GameClaims(ctx context.Context) (*config.GameClaims, bool) {
	claims, ok := ctx.Value(CtxGameClaims).(*config.GameClaims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		token, ok := strings.CutPrefix(h, "Bearer ")
		if ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	// browsers cannot set headers on a WebSocket handshake
	return r.URL.Query().Get("token")
}

// RequireGame rejects requests whose token does not grant access to the game
// named by the {id} path value.
func RequireGame(log *logrus.Logger, j *config.JWT) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := j.Parse(bearerToken(r))
			if err == nil && claims.GameID != r.PathValue("id") {
				err = config.ErrInvalidToken
			}
			if err != nil {
				log.WithFields(logrus.Fields{
					"game":  r.PathValue("id"),
					"error": err,
				}).Debug("unauthorized")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				err = json.NewEncoder(w).Encode(map[string]string{
					"error": config.ErrInvalidToken.Error(),
				})
				if err != nil {
					log.WithField("error", err).Error("unable to send response")
				}
				return
			}
			ctx := context.WithValue(r.Context(), CtxGameClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
