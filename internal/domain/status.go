// Package domain содержит правила жизненного цикла заявки на мероприятие:
// статусы, роли акторов, таблицу допустимых переходов и пересчёт рейтинга
// организатора. Пакет не зависит от хранилища и транспорта.
package domain

import (
	"fmt"

	"github.com/udara-chinthaka/ems/internal/lib/errs"
)

// Status — статус заявки на мероприятие.
type Status string

// Статусы заявки. Прямой путь Pending → Confirmed → InProgress → Completed
// ведёт организатор, отмена возможна из Pending и Confirmed.
const (
	StatusPending    Status = "Pending"
	StatusConfirmed  Status = "Confirmed"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// Role — роль пользователя системы.
type Role string

const (
	// RoleOrganizer — организатор: владеет типами, пакетами и ведёт заявки.
	RoleOrganizer Role = "organizer"
	// RoleRequester — заказчик: создаёт заявки, отменяет их и оставляет отзыв.
	RoleRequester Role = "requester"
)

// ParseStatus проверяет строковое значение статуса.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q: %w", s, errs.ErrValidation)
}

// ParseRole проверяет строковое значение роли.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOrganizer, RoleRequester:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q: %w", s, errs.ErrValidation)
}

// Terminal сообщает, является ли статус конечным.
// Из Completed и Cancelled переходов нет.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// transitions — таблица допустимых переходов: из статуса → в статус → роли,
// которым переход разрешён.
var transitions = map[Status]map[Status][]Role{
	StatusPending: {
		StatusConfirmed: {RoleOrganizer},
		StatusCancelled: {RoleOrganizer, RoleRequester},
	},
	StatusConfirmed: {
		StatusInProgress: {RoleOrganizer},
		StatusCancelled:  {RoleOrganizer, RoleRequester},
	},
	StatusInProgress: {
		StatusCompleted: {RoleOrganizer},
	},
}

// CanTransition проверяет переход from → to для актора с ролью role.
// Строка таблицы — это пара статусов вместе с ролью, поэтому и неизвестный
// переход, и чужая роль дают errs.ErrInvalidTransition.
func CanTransition(from, to Status, role Role) error {
	for _, r := range transitions[from][to] {
		if r == role {
			return nil
		}
	}
	return fmt.Errorf("transition %s -> %s by %s: %w", from, to, role, errs.ErrInvalidTransition)
}
