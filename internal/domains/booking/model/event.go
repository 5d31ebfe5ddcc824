package model

import "time"

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// Event is published to the booking topic after a booking write commits.
type Event struct {
	Type           string    `json:"type"`
	BookingID      int64     `json:"booking_id"`
	UserID         int64     `json:"user_id"`
	RoomID         int64     `json:"room_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	CheckIn        string    `json:"check_in"`
	CheckOut       string    `json:"check_out"`
	Guests         int       `json:"guests"`
	Actor          string    `json:"actor"`
	OccurredAt     time.Time `json:"occurred_at"`
}
