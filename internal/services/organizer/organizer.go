// Package services содержит бизнес-логику публичного каталога организаторов.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/udara-chinthaka/ems/internal/lib/sl"
	"github.com/udara-chinthaka/ems/internal/models"
)

// OrganizerRepository определяет методы чтения профилей организаторов.
type OrganizerRepository interface {
	ListOrganizers(ctx context.Context, limit, offset int) ([]*models.OrganizerProfile, error)
	GetOrganizer(ctx context.Context, organizerUID string) (*models.OrganizerProfile, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// OrganizerService отдаёт каталог организаторов, отсортированный по рейтингу.
type OrganizerService struct {
	repo  OrganizerRepository
	cache Cache
	log   *slog.Logger
}

// NewOrganizerService создает новый экземпляр OrganizerService.
func NewOrganizerService(repo OrganizerRepository, cache Cache, log *slog.Logger) *OrganizerService {
	return &OrganizerService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает каталог организаторов. Первая страница кешируется:
// её читает каждый посетитель. Кеш сбрасывает сервис заявок при новом отзыве.
func (s *OrganizerService) List(ctx context.Context, limit, offset int) ([]*models.OrganizerProfile, error) {
	const cacheKey = "organizers:directory"

	firstPage := offset == 0
	if firstPage {
		var cached []*models.OrganizerProfile
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.log.Warn("cache lookup failed", slog.String("key", cacheKey), sl.Err(err))
		}
		if found && len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	result, err := s.repo.ListOrganizers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if firstPage {
		if err := s.cache.Set(ctx, cacheKey, result, 10*time.Minute); err != nil {
			s.log.Warn("failed to cache organizer directory", sl.Err(err))
		}
	}
	return result, nil
}

// Get возвращает публичный профиль организатора по uid.
func (s *OrganizerService) Get(ctx context.Context, organizerUID string) (*models.OrganizerProfile, error) {
	var result *models.OrganizerProfile
	cacheKey := fmt.Sprintf("organizer:%s", organizerUID)
	found, err := s.cache.Get(ctx, cacheKey, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetOrganizer(ctx, organizerUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache organizer profile", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}
