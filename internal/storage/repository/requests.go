package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/udara-chinthaka/ems/internal/domain"
	"github.com/udara-chinthaka/ems/internal/lib/errs"
	"github.com/udara-chinthaka/ems/internal/models"
)

// CreateRequest вставляет новую заявку и возвращает её ID.
// Дата подачи проставляется базой (NOW()).
func (s *Storage) CreateRequest(ctx context.Context, req models.EventRequest) (string, error) {
	const op = "storage.CreateRequest"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id := uuid.NewString()
	query := `INSERT INTO event_requests (id, package_id, organizer_uid, requester_uid,
			      event_date, request_date, attendees, comments, status)
			  VALUES ($1, $2, $3, $4, $5, NOW(), $6, $7, $8)`
	if _, err := s.DB.ExecContext(ctx, query,
		id, req.PackageID, req.OrganizerUID, req.RequesterUID,
		req.EventDate, req.Attendees, req.Comments, req.Status); err != nil {
		return "", classify(op, err)
	}
	return id, nil
}

// GetRequest возвращает заявку по ID вместе с отзывом, если он есть.
func (s *Storage) GetRequest(ctx context.Context, id string) (*models.EventRequest, error) {
	const op = "storage.GetRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, package_id, organizer_uid, requester_uid, event_date,
			      request_date, attendees, comments, status, feedback_rating, feedback_comment
			  FROM event_requests WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	return scanRequest(op, row)
}

// ListRequestsByOrganizer возвращает входящие заявки организатора с пагинацией.
func (s *Storage) ListRequestsByOrganizer(ctx context.Context, organizerUID string, limit, offset int) ([]*models.EventRequest, error) {
	const op = "storage.ListRequestsByOrganizer"
	return s.listRequests(ctx, op,
		`SELECT id, package_id, organizer_uid, requester_uid, event_date,
		     request_date, attendees, comments, status, feedback_rating, feedback_comment
		 FROM event_requests
		 WHERE organizer_uid = $1
		 ORDER BY request_date DESC
		 LIMIT $2 OFFSET $3`, organizerUID, limit, offset)
}

// ListRequestsByRequester возвращает заявки заказчика с пагинацией.
func (s *Storage) ListRequestsByRequester(ctx context.Context, requesterUID string, limit, offset int) ([]*models.EventRequest, error) {
	const op = "storage.ListRequestsByRequester"
	return s.listRequests(ctx, op,
		`SELECT id, package_id, organizer_uid, requester_uid, event_date,
		     request_date, attendees, comments, status, feedback_rating, feedback_comment
		 FROM event_requests
		 WHERE requester_uid = $1
		 ORDER BY request_date DESC
		 LIMIT $2 OFFSET $3`, requesterUID, limit, offset)
}

// UpdateRequestStatus переводит заявку из статуса from в статус to условным
// UPDATE. Ноль затронутых строк означает, что статус уже изменился параллельно
// (оптимистическая проверка), — состояние остаётся нетронутым.
func (s *Storage) UpdateRequestStatus(ctx context.Context, id string, from, to domain.Status) error {
	const op = "storage.UpdateRequestStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE event_requests SET status = $1 WHERE id = $2 AND status = $3`
	result, err := s.DB.ExecContext(ctx, query, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrConcurrency)
	}
	return nil
}

// AttachFeedback атомарно записывает отзыв по завершённой заявке и пересчитывает
// рейтинг организатора. Строка организатора блокируется FOR UPDATE, обе записи
// выполняются в одной транзакции: откат отменяет и отзыв, и рейтинг.
func (s *Storage) AttachFeedback(ctx context.Context, requestID, organizerUID string, rating int, comment string) error {
	const op = "storage.AttachFeedback"
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

	var currentRating float64
	var reviewCount int
	if err := tx.QueryRowContext(ctx,
		`SELECT rating, review_count FROM users WHERE uid = $1 AND role = 'organizer' FOR UPDATE`,
		organizerUID).Scan(&currentRating, &reviewCount); err != nil {
		return classify(op, err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE event_requests
		 SET feedback_rating = $1, feedback_comment = $2
		 WHERE id = $3 AND status = 'Completed' AND feedback_rating IS NULL`,
		rating, comment, requestID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrConcurrency)
	}

	newRating, newCount := domain.NextRating(currentRating, reviewCount, rating)
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET rating = $1, review_count = $2 WHERE uid = $3`,
		newRating, newCount, organizerUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) listRequests(ctx context.Context, op, query string, args ...any) ([]*models.EventRequest, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.EventRequest
	for rows.Next() {
		item, err := scanRequest(op, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(op string, row rowScanner) (*models.EventRequest, error) {
	var item models.EventRequest
	var feedbackRating sql.NullInt64
	var feedbackComment sql.NullString
	if err := row.Scan(&item.ID, &item.PackageID, &item.OrganizerUID, &item.RequesterUID,
		&item.EventDate, &item.RequestDate, &item.Attendees, &item.Comments,
		&item.Status, &feedbackRating, &feedbackComment); err != nil {
		return nil, classify(op, err)
	}
	if feedbackRating.Valid {
		item.Feedback = &models.Feedback{
			Rating:  int(feedbackRating.Int64),
			Comment: feedbackComment.String,
		}
	}
	return &item, nil
}
