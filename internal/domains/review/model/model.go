package model

import "travelnest/shared/model"

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID      = "id"
	FieldUserID  = "user_id"
	FieldHotelID = "hotel_id"
	FieldRating  = "rating"
	FieldComment = "comment"

	// MinTopRating is the average a hotel needs to be listed among the top-rated hotels.
	MinTopRating = 3.5
)

// Review is append-only. Reads carry the reviewer and hotel names.
type Review struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	HotelID   int64  `db:"hotel_id"`
	Rating    int    `db:"rating"`
	Comment   string `db:"comment"`
	FirstName string `db:"first_name" table:"users"  column:"first_name"`
	LastName  string `db:"last_name"  table:"users"  column:"last_name"`
	HotelName string `db:"hotel_name" table:"hotels" column:"name"`
	model.Metadata
}

func (Review) GetJoinQuery() string {
	return `INNER JOIN users ON users.id = reviews.user_id
INNER JOIN hotels ON hotels.id = reviews.hotel_id`
}

type HotelRating struct {
	HotelID       int64   `db:"hotel_id"`
	HotelName     string  `db:"hotel_name"`
	AverageRating float64 `db:"average_rating"`
	TotalReviews  int     `db:"total_reviews"`
}
