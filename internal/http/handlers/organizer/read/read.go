package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/udara-chinthaka/ems/internal/http/response"
	"github.com/udara-chinthaka/ems/internal/lib/sl"
	"github.com/udara-chinthaka/ems/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Get(ctx context.Context, organizerUID string) (*models.OrganizerProfile, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль организатора
// @Description Возвращает публичный профиль организатора с рейтингом и числом отзывов.
// @Tags Organizers
// @Produce  json
// @Param id path string true "UID организатора"
// @Success 200 {object} map[string]any "Профиль организатора"
// @Failure 404 {object} response.ErrorResponse "Организатор не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /organizers/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.organizer.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read organizer", sl.Err(err))
		w.WriteHeader(response.DomainStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("organizer read", slog.String("uid", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"organizer": res,
	}))
}
