package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/udara-chinthaka/ems/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его uid.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	uid := uuid.NewString()
	query := `INSERT INTO users (uid, email, username, password_hash, role,
			      organization_name, phone, name, position, rating, review_count)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0)`
	if _, err := s.DB.ExecContext(ctx, query,
		uid, user.Email, user.Username, user.PasswordHash, user.Role,
		user.OrganizationName, user.Phone, user.Name, user.Position); err != nil {
		return "", classify(op, err)
	}
	return uid, nil
}

// GetUserByEmail возвращает пользователя по адресу электронной почты.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, organization_name,
			      phone, name, position, rating, review_count, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.OrganizationName, &u.Phone, &u.Name, &u.Position,
		&u.Rating, &u.ReviewCount, &u.CreatedAt); err != nil {
		return nil, classify(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его uid.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, organization_name,
			      phone, name, position, rating, review_count, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.OrganizationName, &u.Phone, &u.Name, &u.Position,
		&u.Rating, &u.ReviewCount, &u.CreatedAt); err != nil {
		return nil, classify(op, err)
	}
	return u, nil
}

// ListOrganizers возвращает публичные профили организаторов,
// отсортированные по убыванию рейтинга.
func (s *Storage) ListOrganizers(ctx context.Context, limit, offset int) ([]*models.OrganizerProfile, error) {
	const op = "storage.ListOrganizers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, organization_name, phone, rating, review_count
			  FROM users
			  WHERE role = 'organizer'
			  ORDER BY rating DESC, review_count DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.OrganizerProfile
	for rows.Next() {
		var item models.OrganizerProfile
		if err := rows.Scan(&item.UID, &item.Username, &item.OrganizationName,
			&item.Phone, &item.Rating, &item.ReviewCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetOrganizer возвращает публичный профиль организатора по uid.
func (s *Storage) GetOrganizer(ctx context.Context, organizerUID string) (*models.OrganizerProfile, error) {
	const op = "storage.GetOrganizer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, organization_name, phone, rating, review_count
			  FROM users
			  WHERE uid = $1 AND role = 'organizer'`
	p := &models.OrganizerProfile{}
	row := s.DB.QueryRowContext(ctx, query, organizerUID)
	if err := row.Scan(&p.UID, &p.Username, &p.OrganizationName,
		&p.Phone, &p.Rating, &p.ReviewCount); err != nil {
		return nil, classify(op, err)
	}
	return p, nil
}
