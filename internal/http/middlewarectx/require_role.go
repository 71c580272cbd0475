package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/udara-chinthaka/ems/internal/http/response"
)

// RequireRole создает middleware, пропускающий только пользователей с заданной ролью.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual, ok := r.Context().Value(Role).(string)
			if !ok || actual == "" {
				log.Error("user role missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user role missing"))
				return
			}
			if actual != role {
				log.Error("access denied", slog.String("required", role), slog.String("actual", actual))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied for role "+actual))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
