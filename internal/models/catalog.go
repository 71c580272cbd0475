package models

import "time"

// Статусы пакета услуг. Неактивный пакет не принимает новые заявки.
const (
	PackageActive   = "Active"
	PackageInactive = "Inactive"
)

// EventType — тип мероприятия в каталоге организатора.
// Тип нельзя удалить, пока на него ссылается хотя бы один пакет.
type EventType struct {
	ID           string    `json:"id"`
	OrganizerUID string    `json:"organizer_uid"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// EventPackage — бронируемый пакет услуг, привязанный к типу мероприятия
// того же организатора. Пакет нельзя удалить, пока на него ссылается заявка.
type EventPackage struct {
	ID           string    `json:"id"`
	OrganizerUID string    `json:"organizer_uid"`
	EventTypeID  string    `json:"event_type_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Location     string    `json:"location"`
	ImageURL     string    `json:"image_url,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// DummyEventType используется для приёма данных типа мероприятия из JSON-запроса.
type DummyEventType struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// DummyEventTypeUpdate — частичное обновление типа: nil-поле не трогаем.
type DummyEventTypeUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
}

// DummyEventPackage используется для приёма данных пакета из JSON-запроса.
type DummyEventPackage struct {
	EventTypeID string `json:"event_type_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Location    string `json:"location" validate:"required"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// DummyEventPackageUpdate — частичное обновление пакета.
// Владелец и тип мероприятия через обновление не меняются.
type DummyEventPackageUpdate struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Price       *int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Location    *string `json:"location,omitempty" validate:"omitempty,min=1"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive"`
}
