// Package create реализует HTTP-обработчик для создания пакетов услуг организатора.
//
// Handler принимает JSON-запрос с данными пакета, валидирует их, извлекает uid организатора
// из контекста и делегирует создание сервису каталога. Тип мероприятия должен принадлежать
// тому же организатору, новый пакет получает статус Active.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/udara-chinthaka/ems/internal/http/middlewarectx"
	"github.com/udara-chinthaka/ems/internal/http/response"
	"github.com/udara-chinthaka/ems/internal/lib/sl"
	"github.com/udara-chinthaka/ems/internal/models"
)

// Handler управляет HTTP-запросами на создание пакетов услуг.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания пакета услуг.
type Service interface {
	CreateEventPackage(ctx context.Context, organizerUID string, req models.DummyEventPackage) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать пакет услуг
// @Description Создает новый пакет услуг текущего организатора. Возвращает ID созданной записи.
// @Tags EventPackages
// @Accept  json
// @Produce  json
// @Param request body models.DummyEventPackage true "Данные пакета услуг"
// @Success 200 {object} map[string]any "Успешное создание"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Тип мероприятия не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании"
// @Router /event-packages [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.eventpackage.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyEventPackage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	organizerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || organizerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.CreateEventPackage(r.Context(), organizerUID, req)
	if err != nil {
		log.Error("failed to create event package", sl.Err(err))
		w.WriteHeader(response.DomainStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("event package created", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
