package model

import "travelnest/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID        = "id"
	FieldHotelID   = "hotel_id"
	FieldRoomType  = "room_type"
	FieldPrice     = "price"
	FieldAvailable = "available"

	DiscountTableName  = "discounts"
	DiscountEntityName = "discount"
	FieldMinPrice      = "min_price"

	TypeSingle = "single"
	TypeDouble = "double"
	TypeSuite  = "suite"
)

// Room is a bookable room type of a hotel. Available counts the units that
// can still be booked and never drops below zero.
type Room struct {
	ID        int64   `db:"id"`
	HotelID   int64   `db:"hotel_id"`
	RoomType  string  `db:"room_type"`
	Price     float64 `db:"price"`
	Available int     `db:"available"`
	HotelName string  `db:"hotel_name" table:"hotels" column:"name"`
	model.Metadata
}

func (Room) GetJoinQuery() string {
	return "INNER JOIN hotels ON hotels.id = rooms.hotel_id"
}

// Discount reduces the price of rooms whose price falls inside [MinPrice, MaxPrice].
type Discount struct {
	ID              int64   `db:"id"`
	MinPrice        float64 `db:"min_price"`
	MaxPrice        float64 `db:"max_price"`
	DiscountPercent float64 `db:"discount_percent"`
	model.Metadata
}

func (d Discount) Covers(price float64) bool {
	return price >= d.MinPrice && price <= d.MaxPrice
}
