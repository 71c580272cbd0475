package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/udara-chinthaka/ems/internal/domain"
	"github.com/udara-chinthaka/ems/internal/lib/errs"
	"github.com/udara-chinthaka/ems/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateRequest(ctx context.Context, req models.EventRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetRequest(ctx context.Context, id string) (*models.EventRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRequest), args.Error(1)
}

func (m *RepoMock) ListRequestsByOrganizer(ctx context.Context, organizerUID string, limit, offset int) ([]*models.EventRequest, error) {
	args := m.Called(ctx, organizerUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventRequest), args.Error(1)
}

func (m *RepoMock) ListRequestsByRequester(ctx context.Context, requesterUID string, limit, offset int) ([]*models.EventRequest, error) {
	args := m.Called(ctx, requesterUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventRequest), args.Error(1)
}

func (m *RepoMock) UpdateRequestStatus(ctx context.Context, id string, from, to domain.Status) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *RepoMock) AttachFeedback(ctx context.Context, requestID, organizerUID string, rating int, comment string) error {
	return m.Called(ctx, requestID, organizerUID, rating, comment).Error(0)
}

type PackagesMock struct{ mock.Mock }

func (m *PackagesMock) GetEventPackage(ctx context.Context, id string) (*models.EventPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventPackage), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(repo *RepoMock, packages *PackagesMock, cache *CacheMock, notifier *NotifierMock) *RequestService {
	return NewRequestService(repo, packages, cache, notifier, "request.event", newNoopLogger())
}

const (
	organizerUID = "7b0c2fd0-1111-4a5b-9e3f-000000000001"
	requesterUID = "7b0c2fd0-2222-4a5b-9e3f-000000000002"
	packageID    = "7b0c2fd0-3333-4a5b-9e3f-000000000003"
	requestID    = "7b0c2fd0-4444-4a5b-9e3f-000000000004"
)

func activePackage() *models.EventPackage {
	return &models.EventPackage{
		ID:           packageID,
		OrganizerUID: organizerUID,
		Status:       models.PackageActive,
		Price:        5000,
	}
}

func validCreateReq() models.DummyEventRequest {
	return models.DummyEventRequest{
		PackageID:    packageID,
		OrganizerUID: organizerUID,
		EventDate:    time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
		Attendees:    50,
		Comments:     "outdoor ceremony",
	}
}

func TestRequestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        models.DummyEventRequest
		setupMocks func(r *RepoMock, p *PackagesMock, n *NotifierMock)
		wantErr    error
	}{
		{
			name: "успешное создание со статусом Pending",
			req:  validCreateReq(),
			setupMocks: func(r *RepoMock, p *PackagesMock, n *NotifierMock) {
				p.On("GetEventPackage", mock.Anything, packageID).Return(activePackage(), nil).Once()
				r.On("CreateRequest", mock.Anything, mock.MatchedBy(func(e models.EventRequest) bool {
					return e.Status == string(domain.StatusPending) &&
						e.RequesterUID == requesterUID &&
						e.Feedback == nil
				})).Return(requestID, nil).Once()
				n.On("Publish", "request.event", mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "дата мероприятия в прошлом",
			req: func() models.DummyEventRequest {
				r := validCreateReq()
				r.EventDate = time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
				return r
			}(),
			setupMocks: func(_ *RepoMock, _ *PackagesMock, _ *NotifierMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name: "нулевое количество участников",
			req: func() models.DummyEventRequest {
				r := validCreateReq()
				r.Attendees = 0
				return r
			}(),
			setupMocks: func(_ *RepoMock, _ *PackagesMock, _ *NotifierMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name: "пустой комментарий",
			req: func() models.DummyEventRequest {
				r := validCreateReq()
				r.Comments = "   "
				return r
			}(),
			setupMocks: func(_ *RepoMock, _ *PackagesMock, _ *NotifierMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name: "некорректная дата",
			req: func() models.DummyEventRequest {
				r := validCreateReq()
				r.EventDate = "not-a-date"
				return r
			}(),
			setupMocks: func(_ *RepoMock, _ *PackagesMock, _ *NotifierMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name: "пакет не существует",
			req:  validCreateReq(),
			setupMocks: func(_ *RepoMock, p *PackagesMock, _ *NotifierMock) {
				p.On("GetEventPackage", mock.Anything, packageID).
					Return(nil, errs.ErrNotFound).Once()
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name: "пакет неактивен",
			req:  validCreateReq(),
			setupMocks: func(_ *RepoMock, p *PackagesMock, _ *NotifierMock) {
				pkg := activePackage()
				pkg.Status = models.PackageInactive
				p.On("GetEventPackage", mock.Anything, packageID).Return(pkg, nil).Once()
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name: "пакет принадлежит другому организатору",
			req:  validCreateReq(),
			setupMocks: func(_ *RepoMock, p *PackagesMock, _ *NotifierMock) {
				pkg := activePackage()
				pkg.OrganizerUID = "7b0c2fd0-9999-4a5b-9e3f-000000000009"
				p.On("GetEventPackage", mock.Anything, packageID).Return(pkg, nil).Once()
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name: "ошибка публикации уведомления не ломает создание",
			req:  validCreateReq(),
			setupMocks: func(r *RepoMock, p *PackagesMock, n *NotifierMock) {
				p.On("GetEventPackage", mock.Anything, packageID).Return(activePackage(), nil).Once()
				r.On("CreateRequest", mock.Anything, mock.Anything).Return(requestID, nil).Once()
				n.On("Publish", "request.event", mock.Anything).Return(errors.New("amqp down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			packages := new(PackagesMock)
			cache := new(CacheMock)
			notifier := new(NotifierMock)
			tt.setupMocks(repo, packages, notifier)

			svc := newService(repo, packages, cache, notifier)
			id, err := svc.Create(context.Background(), requesterUID, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, id)
			} else {
				require.NoError(t, err)
				assert.Equal(t, requestID, id)
			}
			repo.AssertExpectations(t)
			packages.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func storedRequest(status domain.Status) *models.EventRequest {
	return &models.EventRequest{
		ID:           requestID,
		PackageID:    packageID,
		OrganizerUID: organizerUID,
		RequesterUID: requesterUID,
		Status:       string(status),
	}
}

func TestRequestService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    domain.Status
		newStatus  string
		actorUID   string
		role       domain.Role
		setupRepo  func(r *RepoMock)
		wantErr    error
		wantUpdate bool
	}{
		{
			name:      "организатор подтверждает Pending",
			current:   domain.StatusPending,
			newStatus: "Confirmed",
			actorUID:  organizerUID,
			role:      domain.RoleOrganizer,
			setupRepo: func(r *RepoMock) {
				r.On("UpdateRequestStatus", mock.Anything, requestID,
					domain.StatusPending, domain.StatusConfirmed).Return(nil).Once()
			},
			wantUpdate: true,
		},
		{
			name:      "Confirmed -> Completed минуя InProgress запрещён",
			current:   domain.StatusConfirmed,
			newStatus: "Completed",
			actorUID:  organizerUID,
			role:      domain.RoleOrganizer,
			setupRepo: func(_ *RepoMock) {},
			wantErr:   errs.ErrInvalidTransition,
		},
		{
			name:      "заказчик отменяет Pending",
			current:   domain.StatusPending,
			newStatus: "Cancelled",
			actorUID:  requesterUID,
			role:      domain.RoleRequester,
			setupRepo: func(r *RepoMock) {
				r.On("UpdateRequestStatus", mock.Anything, requestID,
					domain.StatusPending, domain.StatusCancelled).Return(nil).Once()
			},
			wantUpdate: true,
		},
		{
			name:      "заказчик не может подтвердить заявку",
			current:   domain.StatusPending,
			newStatus: "Confirmed",
			actorUID:  requesterUID,
			role:      domain.RoleRequester,
			setupRepo: func(_ *RepoMock) {},
			wantErr:   errs.ErrInvalidTransition,
		},
		{
			name:      "отмена из InProgress запрещена",
			current:   domain.StatusInProgress,
			newStatus: "Cancelled",
			actorUID:  requesterUID,
			role:      domain.RoleRequester,
			setupRepo: func(_ *RepoMock) {},
			wantErr:   errs.ErrInvalidTransition,
		},
		{
			name:      "терминальный статус неизменяем",
			current:   domain.StatusCancelled,
			newStatus: "Confirmed",
			actorUID:  organizerUID,
			role:      domain.RoleOrganizer,
			setupRepo: func(_ *RepoMock) {},
			wantErr:   errs.ErrInvalidTransition,
		},
		{
			name:      "неизвестный статус",
			current:   domain.StatusPending,
			newStatus: "Approved",
			actorUID:  organizerUID,
			role:      domain.RoleOrganizer,
			setupRepo: func(_ *RepoMock) {},
			wantErr:   errs.ErrValidation,
		},
		{
			name:      "посторонний актор не видит заявку",
			current:   domain.StatusPending,
			newStatus: "Confirmed",
			actorUID:  "7b0c2fd0-9999-4a5b-9e3f-000000000009",
			role:      domain.RoleOrganizer,
			setupRepo: func(_ *RepoMock) {},
			wantErr:   errs.ErrNotFound,
		},
		{
			name:      "гонка: статус изменился параллельно",
			current:   domain.StatusPending,
			newStatus: "Confirmed",
			actorUID:  organizerUID,
			role:      domain.RoleOrganizer,
			setupRepo: func(r *RepoMock) {
				r.On("UpdateRequestStatus", mock.Anything, requestID,
					domain.StatusPending, domain.StatusConfirmed).
					Return(errs.ErrConcurrency).Once()
			},
			wantErr: errs.ErrConcurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			notifier := new(NotifierMock)
			repo.On("GetRequest", mock.Anything, requestID).
				Return(storedRequest(tt.current), nil).Maybe()
			tt.setupRepo(repo)
			if tt.wantUpdate {
				notifier.On("Publish", "request.event", mock.MatchedBy(func(n Notification) bool {
					return n.Event == "request.status_changed" && n.Status == tt.newStatus
				})).Return(nil).Once()
			}

			svc := newService(repo, new(PackagesMock), new(CacheMock), notifier)
			err := svc.UpdateStatus(context.Background(), requestID, tt.newStatus, tt.actorUID, tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestRequestService_AttachFeedback(t *testing.T) {
	feedback := models.DummyFeedback{Rating: 5, Comment: "great service"}

	tests := []struct {
		name       string
		fb         models.DummyFeedback
		stored     *models.EventRequest
		setupMocks func(r *RepoMock, c *CacheMock, n *NotifierMock)
		wantErr    error
	}{
		{
			name:   "успешный отзыв по завершённой заявке",
			fb:     feedback,
			stored: storedRequest(domain.StatusCompleted),
			setupMocks: func(r *RepoMock, c *CacheMock, n *NotifierMock) {
				r.On("AttachFeedback", mock.Anything, requestID, organizerUID, 5, "great service").
					Return(nil).Once()
				c.On("Invalidate", mock.Anything, "organizers:directory").Return(nil).Once()
				c.On("Invalidate", mock.Anything, "organizer:"+organizerUID).Return(nil).Once()
				n.On("Publish", "request.event", mock.MatchedBy(func(msg Notification) bool {
					return msg.Event == "request.feedback" && msg.Rating == 5
				})).Return(nil).Once()
			},
		},
		{
			name:       "отзыв по отменённой заявке запрещён",
			fb:         feedback,
			stored:     storedRequest(domain.StatusCancelled),
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *NotifierMock) {},
			wantErr:    errs.ErrInvalidState,
		},
		{
			name:       "отзыв до завершения запрещён",
			fb:         feedback,
			stored:     storedRequest(domain.StatusInProgress),
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *NotifierMock) {},
			wantErr:    errs.ErrInvalidState,
		},
		{
			name: "повторный отзыв запрещён",
			fb:   feedback,
			stored: func() *models.EventRequest {
				req := storedRequest(domain.StatusCompleted)
				req.Feedback = &models.Feedback{Rating: 4, Comment: "ok"}
				return req
			}(),
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *NotifierMock) {},
			wantErr:    errs.ErrAlreadyExists,
		},
		{
			name:       "оценка вне диапазона",
			fb:         models.DummyFeedback{Rating: 6, Comment: "great"},
			stored:     nil,
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *NotifierMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name:       "пустой комментарий",
			fb:         models.DummyFeedback{Rating: 4, Comment: "  "},
			stored:     nil,
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *NotifierMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name: "чужая заявка не видна",
			fb:   feedback,
			stored: func() *models.EventRequest {
				req := storedRequest(domain.StatusCompleted)
				req.RequesterUID = "7b0c2fd0-9999-4a5b-9e3f-000000000009"
				return req
			}(),
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *NotifierMock) {},
			wantErr:    errs.ErrNotFound,
		},
		{
			name:   "гонка при записи отзыва",
			fb:     feedback,
			stored: storedRequest(domain.StatusCompleted),
			setupMocks: func(r *RepoMock, _ *CacheMock, _ *NotifierMock) {
				r.On("AttachFeedback", mock.Anything, requestID, organizerUID, 5, "great service").
					Return(errs.ErrConcurrency).Once()
			},
			wantErr: errs.ErrConcurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			notifier := new(NotifierMock)
			if tt.stored != nil {
				repo.On("GetRequest", mock.Anything, requestID).Return(tt.stored, nil).Once()
			}
			tt.setupMocks(repo, cache, notifier)

			svc := newService(repo, new(PackagesMock), cache, notifier)
			err := svc.AttachFeedback(context.Background(), requestID, requesterUID, tt.fb)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestRequestService_Get_HidesForeignRequests(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetRequest", mock.Anything, requestID).
		Return(storedRequest(domain.StatusPending), nil).Twice()
	svc := newService(repo, new(PackagesMock), new(CacheMock), new(NotifierMock))

	req, err := svc.Get(context.Background(), requestID, organizerUID)
	require.NoError(t, err)
	assert.Equal(t, requestID, req.ID)

	_, err = svc.Get(context.Background(), requestID, "7b0c2fd0-9999-4a5b-9e3f-000000000009")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRequestService_List_ByRole(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListRequestsByOrganizer", mock.Anything, organizerUID, 20, 0).
		Return([]*models.EventRequest{storedRequest(domain.StatusPending)}, nil).Once()
	repo.On("ListRequestsByRequester", mock.Anything, requesterUID, 20, 0).
		Return([]*models.EventRequest{}, nil).Once()
	svc := newService(repo, new(PackagesMock), new(CacheMock), new(NotifierMock))

	result, err := svc.List(context.Background(), organizerUID, domain.RoleOrganizer, 20, 0)
	require.NoError(t, err)
	assert.Len(t, result, 1)

	result, err = svc.List(context.Background(), requesterUID, domain.RoleRequester, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, result)
	repo.AssertExpectations(t)
}

func TestRequestService_Cancel_DelegatesToTransitionTable(t *testing.T) {
	repo := new(RepoMock)
	notifier := new(NotifierMock)
	repo.On("GetRequest", mock.Anything, requestID).
		Return(storedRequest(domain.StatusConfirmed), nil).Once()
	repo.On("UpdateRequestStatus", mock.Anything, requestID,
		domain.StatusConfirmed, domain.StatusCancelled).Return(nil).Once()
	notifier.On("Publish", "request.event", mock.Anything).Return(nil).Once()

	svc := newService(repo, new(PackagesMock), new(CacheMock), notifier)
	err := svc.Cancel(context.Background(), requestID, organizerUID, domain.RoleOrganizer)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
