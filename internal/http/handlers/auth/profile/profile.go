// Package profile реализует HTTP-обработчик чтения собственного профиля.
//
// Uid пользователя берётся из контекста аутентификации, состав полей ответа
// зависит от роли: организатор получает данные организации и рейтинг,
// заказчик — имя и должность.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/udara-chinthaka/ems/internal/domain"
	"github.com/udara-chinthaka/ems/internal/http/middlewarectx"
	"github.com/udara-chinthaka/ems/internal/http/response"
	"github.com/udara-chinthaka/ems/internal/lib/sl"
	"github.com/udara-chinthaka/ems/internal/models"
)

// Handler управляет HTTP-запросами на чтение собственного профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	Profile(ctx context.Context, userUID string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает профиль аутентифицированного пользователя. Состав полей зависит от роли.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /profile [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.Profile(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read profile", sl.Err(err))
		w.WriteHeader(response.DomainStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	data := map[string]any{
		"uid":      user.UID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
	}
	if user.Role == string(domain.RoleOrganizer) {
		data["organization_name"] = user.OrganizationName
		data["phone"] = user.Phone
		data["rating"] = user.Rating
		data["review_count"] = user.ReviewCount
	} else {
		data["name"] = user.Name
		data["position"] = user.Position
	}

	log.Info("profile read", slog.String("uid", user.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profile": data,
	}))
}
