package model

import (
	"time"
	"travelnest/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID       = "id"
	FieldUserID   = "user_id"
	FieldRoomID   = "room_id"
	FieldCheckIn  = "check_in"
	FieldCheckOut = "check_out"
	FieldGuests   = "guests"
	FieldStatus   = "status"

	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"

	PaymentTableName   = "payments"
	FieldPaymentStatus = "payment_status"

	PaymentStatusNone       = "no_payment"
	PaymentStatusPaidOnline = "paid_online"
)

type Booking struct {
	ID       int64     `db:"id"`
	UserID   int64     `db:"user_id"`
	RoomID   int64     `db:"room_id"`
	CheckIn  time.Time `db:"check_in"`
	CheckOut time.Time `db:"check_out"`
	Guests   int       `db:"guests"`
	Status   string    `db:"status"`
	model.Metadata
}

// Nights is the length of the stay.
func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// BookingDetail is a booking joined with its guest, room, hotel, destination
// and, when one exists, its payment.
type BookingDetail struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	RoomID        int64     `db:"room_id"`
	CheckIn       time.Time `db:"check_in"`
	CheckOut      time.Time `db:"check_out"`
	Guests        int       `db:"guests"`
	Status        string    `db:"status"`
	FirstName     string    `db:"first_name"     table:"users"        column:"first_name"`
	LastName      string    `db:"last_name"      table:"users"        column:"last_name"`
	Email         string    `db:"email"          table:"users"        column:"email"`
	RoomType      string    `db:"room_type"      table:"rooms"        column:"room_type"`
	Price         float64   `db:"price"          table:"rooms"        column:"price"`
	HotelID       int64     `db:"hotel_id"       table:"rooms"        column:"hotel_id"`
	HotelName     string    `db:"hotel_name"     table:"hotels"       column:"name"`
	Destination   string    `db:"destination"    table:"destinations" column:"name"`
	Country       string    `db:"country"        table:"destinations" column:"country"`
	PaymentStatus *string   `db:"payment_status" table:"payments"     column:"payment_status"`
	Amount        *float64  `db:"amount"         table:"payments"     column:"amount"`
	model.Metadata
}

func (BookingDetail) GetJoinQuery() string {
	return `INNER JOIN users ON users.id = bookings.user_id
INNER JOIN rooms ON rooms.id = bookings.room_id
INNER JOIN hotels ON hotels.id = rooms.hotel_id
INNER JOIN destinations ON destinations.id = hotels.destination_id
LEFT JOIN payments ON payments.booking_id = bookings.id`
}

type StatusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}
