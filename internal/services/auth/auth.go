// Package services содержит логику бизнес-уровня для регистрации и
// аутентификации пользователей обеих ролей.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/udara-chinthaka/ems/internal/domain"
	"github.com/udara-chinthaka/ems/internal/lib/errs"
	"github.com/udara-chinthaka/ems/internal/lib/jwt"
	"github.com/udara-chinthaka/ems/internal/lib/password"
	"github.com/udara-chinthaka/ems/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Неудачная проверка пароля — это всегда неудачный вход, без тихих веток.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его uid.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или errs.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по uid или errs.ErrNotFound.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// AuthService отвечает за регистрацию, вход и проверку JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// RegisterOrganizer создаёт учётную запись организатора с нулевым рейтингом.
func (s *AuthService) RegisterOrganizer(ctx context.Context, req models.DummyRegisterOrganizer) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:            req.Email,
		Username:         req.Username,
		PasswordHash:     hashed,
		Role:             string(domain.RoleOrganizer),
		OrganizationName: req.OrganizationName,
		Phone:            req.Phone,
	}
	return s.users.RegisterUser(ctx, user)
}

// RegisterRequester создаёт учётную запись заказчика.
func (s *AuthService) RegisterRequester(ctx context.Context, req models.DummyRegisterRequester) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         string(domain.RoleRequester),
		Name:         req.Name,
		Position:     req.Position,
	}
	return s.users.RegisterUser(ctx, user)
}

// Profile возвращает учётную запись аутентифицированного пользователя.
// Хэш пароля наружу не отдаётся.
func (s *AuthService) Profile(ctx context.Context, userUID string) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// Login проверяет учётные данные и выпускает JWT.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	return token, user.Role, nil
}
