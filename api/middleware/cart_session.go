package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/pkg/config"
)

const (
	cartSessionCookie = "sipes_cart"
	cartSessionHeader = "X-Cart-Session"
)

// CartSession resolves the storefront cart session token from the header or
// cookie, issuing a fresh one when the caller has none. The token is echoed
// back on both channels so browser and non-browser clients can carry it.
func CartSession(cfg config.CartConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(cartSessionHeader))
			if sessionID == "" {
				if cookie, err := r.Cookie(cartSessionCookie); err == nil {
					sessionID = strings.TrimSpace(cookie.Value)
				}
			}
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cfg.SessionTTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(cartSessionHeader, sessionID)

			next.ServeHTTP(w, r.WithContext(WithCartSession(r.Context(), sessionID)))
		})
	}
}
