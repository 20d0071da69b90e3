package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
)

// identityFromRequest rebuilds the caller's identity from verified JWT
// claims. Returns a zero identity when the request carries no valid
// token; services treat that as unauthenticated.
func identityFromRequest(r *http.Request) auth.Identity {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return auth.Identity{}
	}

	id := auth.Identity{}
	if v, ok := claims["user_id"].(string); ok {
		id.UserID = v
	}
	if v, ok := claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		id.Name = v
	}
	if v, ok := claims["role"].(string); ok {
		id.Role = user.Role(v)
	}
	return id
}
