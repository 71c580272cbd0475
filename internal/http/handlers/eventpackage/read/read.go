// Package read реализует HTTP-обработчик для получения пакета услуг по ID.
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

// Handler обрабатывает запросы на получение пакета услуг по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения пакета.
type Service interface {
	GetEventPackage(ctx context.Context, id string) (*models.EventPackage, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пакет услуг
// @Description Возвращает пакет услуг по ID. Чтение обслуживается кешем.
// @Tags EventPackages
// @Produce  json
// @Param id path string true "ID пакета услуг"
// @Success 200 {object} map[string]any "Данные пакета"
// @Failure 404 {object} response.ErrorResponse "Пакет не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /event-packages/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.eventpackage.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	res, err := h.service.GetEventPackage(r.Context(), id)
	if err != nil {
		log.Error("failed to read event package", sl.Err(err))
		w.WriteHeader(response.DomainStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("event package read", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"event_package": res,
	}))
}
