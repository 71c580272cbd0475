// Package models содержит доменные структуры маркетплейса мероприятий
// и вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Профильные поля зависят от роли: у организатора заполнены
// OrganizationName, Phone, Rating и ReviewCount, у заказчика — Name и Position.
type User struct {
	UID              string    // Уникальный идентификатор пользователя
	Email            string    // Электронная почта (уникальная)
	Username         string    // Имя пользователя (уникальное)
	PasswordHash     string    // Хэш пароля
	Role             string    // Роль: organizer или requester
	OrganizationName string    // Название организации (организатор)
	Phone            string    // Контактный телефон (организатор)
	Name             string    // Имя (заказчик)
	Position         string    // Должность (заказчик)
	Rating           float64   // Средний рейтинг организатора
	ReviewCount      int       // Количество полученных отзывов
	CreatedAt        time.Time // Дата регистрации
}

// OrganizerProfile — публичный профиль организатора для каталога.
// Пароль и почта наружу не отдаются.
type OrganizerProfile struct {
	UID              string  `json:"uid"`
	Username         string  `json:"username"`
	OrganizationName string  `json:"organization_name"`
	Phone            string  `json:"phone"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"review_count"`
}

// DummyRegisterOrganizer используется для приёма данных регистрации организатора.
type DummyRegisterOrganizer struct {
	Email            string `json:"email" validate:"required,email"`
	Username         string `json:"username" validate:"required,alphanum"`
	Password         string `json:"password" validate:"required,min=8"`
	OrganizationName string `json:"organization_name" validate:"required"`
	Phone            string `json:"phone" validate:"required"`
}

// DummyRegisterRequester используется для приёма данных регистрации заказчика.
type DummyRegisterRequester struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Position string `json:"position" validate:"omitempty"`
}

// DummyLogin используется для приёма учётных данных при входе.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
