package identity

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const contextKey = "identity.snapshot"

// Middleware resolves the request's bearer token into a Snapshot and
// stashes it on the echo context. Requests without a usable token carry a
// not-ready snapshot rather than being rejected here; each handler
// decides what not-ready means for its operation.
func Middleware(p Provider, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request())
			if token != "" {
				snap, err := p.Identify(c.Request().Context(), token)
				if err != nil {
					logger.Warn("identity lookup failed", zap.Error(err))
				} else if snap.Ready {
					c.Set(contextKey, snap)
				}
			}
			return next(c)
		}
	}
}

// FromContext returns the identity resolved for this request, or the zero
// (not ready) snapshot when none was.
func FromContext(c echo.Context) Snapshot {
	if snap, ok := c.Get(contextKey).(Snapshot); ok {
		return snap
	}
	return Snapshot{}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if strings.HasPrefix(h, prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
