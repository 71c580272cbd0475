// Package register реализует HTTP-обработчики регистрации пользователей обеих ролей.
//
// OrganizerHandler и RequesterHandler принимают JSON с учетными данными, валидируют
// их и делегируют создание учетной записи сервису аутентификации.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/udara-chinthaka/ems/internal/http/response"
	"github.com/udara-chinthaka/ems/internal/lib/sl"
	"github.com/udara-chinthaka/ems/internal/models"
)

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	RegisterOrganizer(ctx context.Context, req models.DummyRegisterOrganizer) (string, error)
	RegisterRequester(ctx context.Context, req models.DummyRegisterRequester) (string, error)
}

// OrganizerHandler обрабатывает регистрацию организаторов.
type OrganizerHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewOrganizer создает новый OrganizerHandler с переданными логгером и сервисом.
func NewOrganizer(log *slog.Logger, service Service) *OrganizerHandler {
	return &OrganizerHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация организатора
// @Description Создает учетную запись организатора с нулевым рейтингом.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyRegisterOrganizer true "Данные организатора"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email или username заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register/organizer [post]
func (h *OrganizerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register.organizer"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegisterOrganizer
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	uid, err := h.service.RegisterOrganizer(r.Context(), req)
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(response.DomainStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("organizer registered", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":      uid,
		"username": req.Username,
	}))
}

// RequesterHandler обрабатывает регистрацию заказчиков.
type RequesterHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewRequester создает новый RequesterHandler с переданными логгером и сервисом.
func NewRequester(log *slog.Logger, service Service) *RequesterHandler {
	return &RequesterHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация заказчика
// @Description Создает учетную запись заказчика мероприятий.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyRegisterRequester true "Данные заказчика"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email или username заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register/requester [post]
func (h *RequesterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register.requester"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegisterRequester
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	uid, err := h.service.RegisterRequester(r.Context(), req)
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(response.DomainStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("requester registered", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":      uid,
		"username": req.Username,
	}))
}
