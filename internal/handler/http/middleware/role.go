package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/hakobu-dev/hakobu-backend-go/internal/handler/http/response"
)

// AdminOnly restricts a route to back-office accounts.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || user.Role(role) != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// DriverOnly restricts a route to driver accounts.
func DriverOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrDriverAccessRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || user.Role(role) != user.RoleDriver {
			response.HandleError(w, user.ErrDriverAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
