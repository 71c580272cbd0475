package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/udara-chinthaka/ems/internal/lib/errs"
	"github.com/udara-chinthaka/ems/internal/models"
)

// CreateEventType вставляет новый тип мероприятия и возвращает его ID.
func (s *Storage) CreateEventType(ctx context.Context, et models.EventType) (string, error) {
	const op = "storage.CreateEventType"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id := uuid.NewString()
	query := `INSERT INTO event_types (id, organizer_uid, name, description)
			  VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query,
		id, et.OrganizerUID, et.Name, et.Description); err != nil {
		return "", classify(op, err)
	}
	return id, nil
}

// GetEventType возвращает тип мероприятия по ID.
func (s *Storage) GetEventType(ctx context.Context, id string) (*models.EventType, error) {
	const op = "storage.GetEventType"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_uid, name, description, created_at
			  FROM event_types WHERE id = $1`
	var result models.EventType
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&result.ID, &result.OrganizerUID, &result.Name,
		&result.Description, &result.CreatedAt); err != nil {
		return nil, classify(op, err)
	}
	return &result, nil
}

// ListEventTypesByOrganizer возвращает типы мероприятий организатора.
func (s *Storage) ListEventTypesByOrganizer(ctx context.Context, organizerUID string) ([]*models.EventType, error) {
	const op = "storage.ListEventTypesByOrganizer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_uid, name, description, created_at
			  FROM event_types
			  WHERE organizer_uid = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, organizerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.EventType
	for rows.Next() {
		var item models.EventType
		if err := rows.Scan(&item.ID, &item.OrganizerUID, &item.Name,
			&item.Description, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateEventType частично обновляет тип мероприятия владельца.
// Владелец (organizer_uid) через обновление не меняется.
func (s *Storage) UpdateEventType(ctx context.Context, id, organizerUID string, upd models.DummyEventTypeUpdate) (int64, error) {
	const op = "storage.UpdateEventType"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE event_types
			  SET name = COALESCE($1, name),
			      description = COALESCE($2, description)
			  WHERE id = $3 AND organizer_uid = $4`
	result, err := s.DB.ExecContext(ctx, query, upd.Name, upd.Description, id, organizerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// DeleteEventType удаляет тип мероприятия владельца.
// Пока на тип ссылается хотя бы один пакет, удаление запрещено (errs.ErrConflict).
func (s *Storage) DeleteEventType(ctx context.Context, id, organizerUID string) error {
	const op = "storage.DeleteEventType"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var referenced bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM event_packages WHERE event_type_id = $1)`,
		id).Scan(&referenced); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if referenced {
		return fmt.Errorf("%s: event type has packages: %w", op, errs.ErrConflict)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM event_types WHERE id = $1 AND organizer_uid = $2`, id, organizerUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateEventPackage вставляет новый пакет услуг и возвращает его ID.
func (s *Storage) CreateEventPackage(ctx context.Context, p models.EventPackage) (string, error) {
	const op = "storage.CreateEventPackage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id := uuid.NewString()
	query := `INSERT INTO event_packages (id, organizer_uid, event_type_id, title,
			      description, price, location, image_url, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := s.DB.ExecContext(ctx, query,
		id, p.OrganizerUID, p.EventTypeID, p.Title, p.Description,
		p.Price, p.Location, p.ImageURL, p.Status); err != nil {
		return "", classify(op, err)
	}
	return id, nil
}

// GetEventPackage возвращает пакет услуг по ID.
func (s *Storage) GetEventPackage(ctx context.Context, id string) (*models.EventPackage, error) {
	const op = "storage.GetEventPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_uid, event_type_id, title, description,
			      price, location, image_url, status, created_at
			  FROM event_packages WHERE id = $1`
	var result models.EventPackage
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&result.ID, &result.OrganizerUID, &result.EventTypeID,
		&result.Title, &result.Description, &result.Price, &result.Location,
		&result.ImageURL, &result.Status, &result.CreatedAt); err != nil {
		return nil, classify(op, err)
	}
	return &result, nil
}

// ListEventPackagesByOrganizer возвращает пакеты организатора.
// При activeOnly отдаются только активные — так каталог видят заказчики.
func (s *Storage) ListEventPackagesByOrganizer(ctx context.Context, organizerUID string, activeOnly bool) ([]*models.EventPackage, error) {
	const op = "storage.ListEventPackagesByOrganizer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, organizer_uid, event_type_id, title, description,
			      price, location, image_url, status, created_at
			  FROM event_packages
			  WHERE organizer_uid = $1
			    AND ($2 = false OR status = 'Active')
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, organizerUID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.EventPackage
	for rows.Next() {
		var item models.EventPackage
		if err := rows.Scan(&item.ID, &item.OrganizerUID, &item.EventTypeID,
			&item.Title, &item.Description, &item.Price, &item.Location,
			&item.ImageURL, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateEventPackage частично обновляет пакет владельца.
// Владелец и тип мероприятия через обновление не меняются.
func (s *Storage) UpdateEventPackage(ctx context.Context, id, organizerUID string, upd models.DummyEventPackageUpdate) (int64, error) {
	const op = "storage.UpdateEventPackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE event_packages
			  SET title = COALESCE($1, title),
			      description = COALESCE($2, description),
			      price = COALESCE($3, price),
			      location = COALESCE($4, location),
			      image_url = COALESCE($5, image_url),
			      status = COALESCE($6, status)
			  WHERE id = $7 AND organizer_uid = $8`
	result, err := s.DB.ExecContext(ctx, query,
		upd.Title, upd.Description, upd.Price, upd.Location, upd.ImageURL, upd.Status,
		id, organizerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// DeleteEventPackage удаляет пакет владельца.
// Пока на пакет ссылается хотя бы одна заявка, удаление запрещено (errs.ErrConflict).
func (s *Storage) DeleteEventPackage(ctx context.Context, id, organizerUID string) error {
	const op = "storage.DeleteEventPackage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var referenced bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM event_requests WHERE package_id = $1)`,
		id).Scan(&referenced); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if referenced {
		return fmt.Errorf("%s: package has requests: %w", op, errs.ErrConflict)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM event_packages WHERE id = $1 AND organizer_uid = $2`, id, organizerUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
