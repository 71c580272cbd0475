// Package services содержит бизнес-логику жизненного цикла заявок:
// создание по активному пакету, переходы статусов по таблице из пакета domain,
// отмену, отзыв с атомарным пересчётом рейтинга организатора и публикацию
// уведомлений об изменениях.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/udara-chinthaka/ems/internal/domain"
	"github.com/udara-chinthaka/ems/internal/lib/errs"
	"github.com/udara-chinthaka/ems/internal/lib/sl"
	"github.com/udara-chinthaka/ems/internal/models"
)

// RequestRepository определяет методы для работы с заявками в хранилище.
type RequestRepository interface {
	CreateRequest(ctx context.Context, req models.EventRequest) (string, error)
	GetRequest(ctx context.Context, id string) (*models.EventRequest, error)
	ListRequestsByOrganizer(ctx context.Context, organizerUID string, limit, offset int) ([]*models.EventRequest, error)
	ListRequestsByRequester(ctx context.Context, requesterUID string, limit, offset int) ([]*models.EventRequest, error)
	// UpdateRequestStatus применяет условный переход from → to;
	// errs.ErrConcurrency, если статус уже изменился параллельно.
	UpdateRequestStatus(ctx context.Context, id string, from, to domain.Status) error
	// AttachFeedback атомарно записывает отзыв и пересчитывает рейтинг.
	AttachFeedback(ctx context.Context, requestID, organizerUID string, rating int, comment string) error
}

// PackageReader читает пакеты каталога при создании заявки.
type PackageReader interface {
	GetEventPackage(ctx context.Context, id string) (*models.EventPackage, error)
}

// Cache описывает методы для сброса кешированных профилей организаторов.
type Cache interface {
	Invalidate(ctx context.Context, key string) error
}

// Notifier публикует уведомления об изменениях заявок.
// Публикация fire-and-forget: ошибка логируется и не прерывает операцию.
type Notifier interface {
	Publish(routingKey string, message any) error
}

// Notification — сообщение для внешнего канала уведомлений.
type Notification struct {
	Event        string `json:"event"`
	RequestID    string `json:"request_id"`
	PackageID    string `json:"package_id"`
	OrganizerUID string `json:"organizer_uid"`
	RequesterUID string `json:"requester_uid"`
	Status       string `json:"status"`
	Rating       int    `json:"rating,omitempty"`
}

// RequestService реализует жизненный цикл заявки и координацию с каталогом.
type RequestService struct {
	repo       RequestRepository
	packages   PackageReader
	cache      Cache
	notifier   Notifier
	routingKey string
	log        *slog.Logger
}

// NewRequestService создает новый экземпляр RequestService.
func NewRequestService(repo RequestRepository, packages PackageReader, cache Cache,
	notifier Notifier, routingKey string, log *slog.Logger) *RequestService {
	return &RequestService{
		repo:       repo,
		packages:   packages,
		cache:      cache,
		notifier:   notifier,
		routingKey: routingKey,
		log:        log,
	}
}

// Create создаёт заявку заказчика по активному пакету.
// Дата мероприятия строго в будущем, участников больше нуля, комментарий
// обязателен; пакет должен существовать, быть активным и принадлежать
// указанному организатору.
func (s *RequestService) Create(ctx context.Context, requesterUID string, req models.DummyEventRequest) (string, error) {
	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		return "", fmt.Errorf("invalid event date: %w", errs.ErrValidation)
	}
	if !eventDate.After(time.Now()) {
		return "", fmt.Errorf("event date must be in the future: %w", errs.ErrValidation)
	}
	if req.Attendees <= 0 {
		return "", fmt.Errorf("attendees must be positive: %w", errs.ErrValidation)
	}
	if strings.TrimSpace(req.Comments) == "" {
		return "", fmt.Errorf("comments must not be empty: %w", errs.ErrValidation)
	}

	pkg, err := s.packages.GetEventPackage(ctx, req.PackageID)
	if err != nil {
		return "", err
	}
	if pkg.Status != models.PackageActive || pkg.OrganizerUID != req.OrganizerUID {
		return "", fmt.Errorf("package %s is not available from organizer %s: %w",
			req.PackageID, req.OrganizerUID, errs.ErrNotFound)
	}

	id, err := s.repo.CreateRequest(ctx, models.EventRequest{
		PackageID:    req.PackageID,
		OrganizerUID: req.OrganizerUID,
		RequesterUID: requesterUID,
		EventDate:    eventDate,
		Attendees:    req.Attendees,
		Comments:     req.Comments,
		Status:       string(domain.StatusPending),
	})
	if err != nil {
		return "", err
	}
	s.log.Info("created event request", slog.String("id", id))

	s.notify(Notification{
		Event:        "request.created",
		RequestID:    id,
		PackageID:    req.PackageID,
		OrganizerUID: req.OrganizerUID,
		RequesterUID: requesterUID,
		Status:       string(domain.StatusPending),
	})
	return id, nil
}

// Get возвращает заявку её участнику. Посторонним заявка не видна.
func (s *RequestService) Get(ctx context.Context, id, actorUID string) (*models.EventRequest, error) {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.OrganizerUID != actorUID && req.RequesterUID != actorUID {
		return nil, fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
	}
	return req, nil
}

// List возвращает заявки актора: организатору — входящие, заказчику — свои.
func (s *RequestService) List(ctx context.Context, actorUID string, role domain.Role, limit, offset int) ([]*models.EventRequest, error) {
	if role == domain.RoleOrganizer {
		return s.repo.ListRequestsByOrganizer(ctx, actorUID, limit, offset)
	}
	return s.repo.ListRequestsByRequester(ctx, actorUID, limit, offset)
}

// UpdateStatus переводит заявку в новый статус по таблице переходов.
// Текущий статус перечитывается непосредственно перед изменением, а сам
// переход условный: обнаруженная гонка отклоняется, а не перезаписывается.
func (s *RequestService) UpdateStatus(ctx context.Context, id, newStatus, actorUID string, role domain.Role) error {
	to, err := domain.ParseStatus(newStatus)
	if err != nil {
		return err
	}

	req, err := s.Get(ctx, id, actorUID)
	if err != nil {
		return err
	}
	// участник — но роль должна соответствовать стороне заявки
	if role == domain.RoleOrganizer && req.OrganizerUID != actorUID {
		return fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
	}
	if role == domain.RoleRequester && req.RequesterUID != actorUID {
		return fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
	}

	from := domain.Status(req.Status)
	if err := domain.CanTransition(from, to, role); err != nil {
		return err
	}

	if err := s.repo.UpdateRequestStatus(ctx, id, from, to); err != nil {
		return err
	}
	s.log.Info("request status updated",
		slog.String("id", id),
		slog.String("from", string(from)),
		slog.String("to", string(to)))

	s.notify(Notification{
		Event:        "request.status_changed",
		RequestID:    id,
		PackageID:    req.PackageID,
		OrganizerUID: req.OrganizerUID,
		RequesterUID: req.RequesterUID,
		Status:       string(to),
	})
	return nil
}

// Cancel отменяет заявку. Допустимость отмены из текущего статуса и роль
// актора проверяет общая таблица переходов.
func (s *RequestService) Cancel(ctx context.Context, id, actorUID string, role domain.Role) error {
	return s.UpdateStatus(ctx, id, string(domain.StatusCancelled), actorUID, role)
}

// AttachFeedback записывает отзыв по завершённой заявке. Отзыв write-once,
// оценка в диапазоне 1..5; вместе с отзывом атомарно обновляется рейтинг
// организатора — при откате не фиксируется ни то, ни другое.
func (s *RequestService) AttachFeedback(ctx context.Context, id, requesterUID string, fb models.DummyFeedback) error {
	if fb.Rating < 1 || fb.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", errs.ErrValidation)
	}
	if strings.TrimSpace(fb.Comment) == "" {
		return fmt.Errorf("comment must not be empty: %w", errs.ErrValidation)
	}

	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if req.RequesterUID != requesterUID {
		return fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
	}
	if domain.Status(req.Status) != domain.StatusCompleted {
		return fmt.Errorf("feedback allowed only for completed requests: %w", errs.ErrInvalidState)
	}
	if req.Feedback != nil {
		return fmt.Errorf("feedback already submitted: %w", errs.ErrAlreadyExists)
	}

	if err := s.repo.AttachFeedback(ctx, id, req.OrganizerUID, fb.Rating, fb.Comment); err != nil {
		return err
	}
	s.log.Info("feedback attached",
		slog.String("id", id),
		slog.Int("rating", fb.Rating))

	// рейтинг организатора изменился, каталог организаторов устарел
	for _, key := range []string{"organizers:directory", fmt.Sprintf("organizer:%s", req.OrganizerUID)} {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			s.log.Warn("failed to invalidate organizer cache", slog.String("key", key), sl.Err(err))
		}
	}

	s.notify(Notification{
		Event:        "request.feedback",
		RequestID:    id,
		PackageID:    req.PackageID,
		OrganizerUID: req.OrganizerUID,
		RequesterUID: req.RequesterUID,
		Status:       req.Status,
		Rating:       fb.Rating,
	})
	return nil
}

func (s *RequestService) notify(msg Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(s.routingKey, msg); err != nil {
		s.log.Warn("failed to publish notification",
			slog.String("event", msg.Event),
			slog.String("request_id", msg.RequestID),
			sl.Err(err))
	}
}
