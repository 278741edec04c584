package reservations

import (
	"net/url"
	"time"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusSeated    Status = "seated"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusSeated, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Reservation is a booking as returned by the API.
type Reservation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	PartySize int       `json:"partySize"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // HH:MM, 24h
	Notes     string    `json:"notes,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateRequest is the payload for booking a new reservation.
type CreateRequest struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	PartySize int    `json:"partySize" validate:"required,gte=1,lte=50"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateRequest is a partial update: nil fields are left unchanged.
type UpdateRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=1"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	PartySize *int    `json:"partySize,omitempty" validate:"omitempty,gte=1,lte=50"`
	Date      *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time      *string `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Notes     *string `json:"notes,omitempty"`
	Status    *Status `json:"status,omitempty"`
}

// Stats are the dashboard aggregates.
type Stats struct {
	TodayReservations int `json:"todayReservations"`
	TotalReservations int `json:"totalReservations"`
	CancelledToday    int `json:"cancelledToday"`
}

// ListFilter narrows List results. Zero fields are omitted from the query.
type ListFilter struct {
	Date   string
	Status Status
	Search string
}

func (f ListFilter) query() url.Values {
	q := url.Values{}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}
