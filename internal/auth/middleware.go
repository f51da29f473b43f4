package auth

import (
	"net/http"
	"strings"
)

// Middleware validates bearer tokens and attaches the caller's identity to
// the request context.
type Middleware struct {
	Secret      []byte
	PublicPaths []string
}

// NewMiddleware constructs an auth middleware. Paths listed as public (or
// prefixes ending in "/") bypass authentication.
func NewMiddleware(secret []byte, publicPaths []string) *Middleware {
	return &Middleware{Secret: secret, PublicPaths: publicPaths}
}

// Wrap applies auth to the handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := ParseJWT(extractBearer(r), m.Secret)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := WithIdentity(r.Context(), claims.UserGUID, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) isPublic(path string) bool {
	for _, public := range m.PublicPaths {
		if strings.HasSuffix(public, "/") {
			if strings.HasPrefix(path, public) {
				return true
			}
			continue
		}
		if path == public {
			return true
		}
	}
	return false
}

func extractBearer(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
