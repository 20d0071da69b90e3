package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests that did not present a valid access
// token. Refresh and stream tokens share the signing key, so the claim
// type is checked too.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
