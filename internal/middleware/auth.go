package middleware

import (
	"net/http"

	"swiftcart-backend/internal/repository"
	"swiftcart-backend/pkg/api"
	appErrors "swiftcart-backend/pkg/errors"
)

// AdminOnly guards a route so only users with the admin role pass. The
// caller identifies itself with the id query parameter; identity proofing
// happens upstream at the identity provider.
func AdminOnly(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.URL.Query().Get("id")
			if id == "" {
				api.Error(w, http.StatusUnauthorized, "User not login")
				return
			}

			user, err := users.FindByID(r.Context(), id)
			if err != nil {
				if appErrors.IsNotFound(err) {
					api.Error(w, http.StatusUnauthorized, "ID not exists")
					return
				}
				api.HandleError(w, err)
				return
			}

			if !user.IsAdmin() {
				api.Error(w, http.StatusForbidden, "Only for Admin")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
