// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей, каталога (типы и пакеты мероприятий) и заявок.
// Ссылочная целостность при удалении и атомарность отзыва с пересчётом
// рейтинга обеспечиваются здесь, в SQL-транзакциях.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/udara-chinthaka/ems/internal/lib/errs"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'event_requests'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table event_requests missing or query error: %w", err)
	}
	return nil
}

// classify переводит ошибки драйвера в доменные классы:
// отсутствие строк — errs.ErrNotFound, нарушение уникальности — errs.ErrAlreadyExists.
func classify(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, errs.ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}
