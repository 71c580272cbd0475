// Package errs определяет классы доменных ошибок сервиса.
// Сервисный слой оборачивает их через fmt.Errorf("%s: %w", op, err),
// HTTP-слой распознаёт класс через errors.Is и подбирает код ответа.
package errs

import "errors"

var (
	// ErrValidation — входные данные отсутствуют или некорректны.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound — запрошенная сущность не существует или недоступна актору.
	ErrNotFound = errors.New("not found")
	// ErrConflict — нарушение ссылочной целостности при удалении.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition — недопустимый переход статуса заявки.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidState — операция не разрешена в текущем статусе.
	ErrInvalidState = errors.New("invalid state")
	// ErrAlreadyExists — повторная попытка записи write-once данных.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConcurrency — оптимистическая проверка не прошла, состояние изменилось.
	ErrConcurrency = errors.New("concurrent modification")
)
