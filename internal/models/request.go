package models

import "time"

// EventRequest — заявка заказчика на проведение мероприятия по пакету.
// Статусы и правила переходов описаны в пакете domain.
// Feedback заполняется один раз и только в статусе Completed.
type EventRequest struct {
	ID           string    `json:"id"`
	PackageID    string    `json:"package_id"`
	OrganizerUID string    `json:"organizer_uid"`
	RequesterUID string    `json:"requester_uid"`
	EventDate    time.Time `json:"event_date"`
	RequestDate  time.Time `json:"request_date"`
	Attendees    int       `json:"attendees"`
	Comments     string    `json:"comments"`
	Status       string    `json:"status"`
	Feedback     *Feedback `json:"feedback,omitempty"`
}

// Feedback — отзыв заказчика по завершённой заявке.
type Feedback struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// DummyEventRequest используется для приёма данных новой заявки из JSON-запроса.
// Дата мероприятия приходит строкой в формате RFC 3339 и валидируется
// на «строго в будущем» в сервисном слое.
type DummyEventRequest struct {
	PackageID    string `json:"package_id" validate:"required,uuid"`
	OrganizerUID string `json:"organizer_uid" validate:"required,uuid"`
	EventDate    string `json:"event_date" validate:"required"`
	Attendees    int    `json:"attendees" validate:"required,gt=0"`
	Comments     string `json:"comments" validate:"required"`
}

// DummyStatusUpdate используется для приёма нового статуса заявки.
type DummyStatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

// DummyFeedback используется для приёма отзыва по завершённой заявке.
type DummyFeedback struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}
