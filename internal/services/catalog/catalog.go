// Package services содержит бизнес-логику каталога: типы мероприятий и
// пакеты услуг организатора, с проверками владения и ссылочной целостности,
// а также кеширование горячих чтений.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/udara-chinthaka/ems/internal/lib/errs"
	"github.com/udara-chinthaka/ems/internal/lib/sl"
	"github.com/udara-chinthaka/ems/internal/models"
)

// CatalogRepository определяет методы для работы с каталогом в хранилище.
type CatalogRepository interface {
	CreateEventType(ctx context.Context, et models.EventType) (string, error)
	GetEventType(ctx context.Context, id string) (*models.EventType, error)
	ListEventTypesByOrganizer(ctx context.Context, organizerUID string) ([]*models.EventType, error)
	UpdateEventType(ctx context.Context, id, organizerUID string, upd models.DummyEventTypeUpdate) (int64, error)
	DeleteEventType(ctx context.Context, id, organizerUID string) error

	CreateEventPackage(ctx context.Context, p models.EventPackage) (string, error)
	GetEventPackage(ctx context.Context, id string) (*models.EventPackage, error)
	ListEventPackagesByOrganizer(ctx context.Context, organizerUID string, activeOnly bool) ([]*models.EventPackage, error)
	UpdateEventPackage(ctx context.Context, id, organizerUID string, upd models.DummyEventPackageUpdate) (int64, error)
	DeleteEventPackage(ctx context.Context, id, organizerUID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// CatalogService реализует операции каталога с кешированием чтений пакетов.
type CatalogService struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CreateEventType создаёт тип мероприятия для организатора.
func (s *CatalogService) CreateEventType(ctx context.Context, organizerUID string, req models.DummyEventType) (string, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		return "", fmt.Errorf("name and description must not be empty: %w", errs.ErrValidation)
	}

	id, err := s.repo.CreateEventType(ctx, models.EventType{
		OrganizerUID: organizerUID,
		Name:         req.Name,
		Description:  req.Description,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("created event type", slog.String("id", id))
	return id, nil
}

// ListEventTypes возвращает типы мероприятий организатора.
func (s *CatalogService) ListEventTypes(ctx context.Context, organizerUID string) ([]*models.EventType, error) {
	return s.repo.ListEventTypesByOrganizer(ctx, organizerUID)
}

// UpdateEventType частично обновляет тип мероприятия владельца.
func (s *CatalogService) UpdateEventType(ctx context.Context, id, organizerUID string, req models.DummyEventTypeUpdate) error {
	count, err := s.repo.UpdateEventType(ctx, id, organizerUID, req)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("event type %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// DeleteEventType удаляет тип мероприятия, если на него не ссылаются пакеты.
func (s *CatalogService) DeleteEventType(ctx context.Context, id, organizerUID string) error {
	return s.repo.DeleteEventType(ctx, id, organizerUID)
}

// CreateEventPackage создаёт пакет услуг. Тип мероприятия должен существовать
// и принадлежать тому же организатору, цена — положительная.
// Новый пакет получает статус Active.
func (s *CatalogService) CreateEventPackage(ctx context.Context, organizerUID string, req models.DummyEventPackage) (string, error) {
	if req.Price <= 0 {
		return "", fmt.Errorf("price must be positive: %w", errs.ErrValidation)
	}

	eventType, err := s.repo.GetEventType(ctx, req.EventTypeID)
	if err != nil {
		return "", err
	}
	if eventType.OrganizerUID != organizerUID {
		return "", fmt.Errorf("event type belongs to another organizer: %w", errs.ErrValidation)
	}

	id, err := s.repo.CreateEventPackage(ctx, models.EventPackage{
		OrganizerUID: organizerUID,
		EventTypeID:  req.EventTypeID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Location:     req.Location,
		ImageURL:     req.ImageURL,
		Status:       models.PackageActive,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("created event package", slog.String("id", id))

	s.invalidatePackageLists(ctx, organizerUID)
	return id, nil
}

// GetEventPackage возвращает пакет по ID, используя кеш или репозиторий.
func (s *CatalogService) GetEventPackage(ctx context.Context, id string) (*models.EventPackage, error) {
	var result *models.EventPackage
	cacheKey := fmt.Sprintf("package:%s", id)
	found, err := s.cache.Get(ctx, cacheKey, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetEventPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache package", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// ListEventPackages возвращает пакеты организатора. Каталожное чтение
// (activeOnly) кешируется — его выполняет каждый заказчик при просмотре.
func (s *CatalogService) ListEventPackages(ctx context.Context, organizerUID string, activeOnly bool) ([]*models.EventPackage, error) {
	if !activeOnly {
		return s.repo.ListEventPackagesByOrganizer(ctx, organizerUID, false)
	}

	var result []*models.EventPackage
	cacheKey := fmt.Sprintf("packages:active:%s", organizerUID)
	found, err := s.cache.Get(ctx, cacheKey, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListEventPackagesByOrganizer(ctx, organizerUID, true)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, result, 10*time.Minute); err != nil {
		s.log.Warn("failed to cache package list", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// UpdateEventPackage частично обновляет пакет владельца и сбрасывает кеш.
func (s *CatalogService) UpdateEventPackage(ctx context.Context, id, organizerUID string, req models.DummyEventPackageUpdate) error {
	count, err := s.repo.UpdateEventPackage(ctx, id, organizerUID, req)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("event package %s: %w", id, errs.ErrNotFound)
	}

	if err := s.cache.Invalidate(ctx, fmt.Sprintf("package:%s", id)); err != nil {
		s.log.Warn("failed to invalidate package cache", slog.String("id", id), sl.Err(err))
	}
	s.invalidatePackageLists(ctx, organizerUID)
	return nil
}

// DeleteEventPackage удаляет пакет, если на него не ссылаются заявки,
// и сбрасывает кеш.
func (s *CatalogService) DeleteEventPackage(ctx context.Context, id, organizerUID string) error {
	if err := s.repo.DeleteEventPackage(ctx, id, organizerUID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("package:%s", id)); err != nil {
		s.log.Warn("failed to invalidate package cache", slog.String("id", id), sl.Err(err))
	}
	s.invalidatePackageLists(ctx, organizerUID)
	return nil
}

func (s *CatalogService) invalidatePackageLists(ctx context.Context, organizerUID string) {
	key := fmt.Sprintf("packages:active:%s", organizerUID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate package list cache", slog.String("key", key), sl.Err(err))
	}
}
