package model

import "travelnest/shared/model"

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID            = "id"
	FieldDestinationID = "destination_id"
	FieldName          = "name"
	FieldBasePrice     = "base_price"
	FieldRating        = "rating"
	FieldImage         = "image"

	DestinationTableName = "destinations"
	FieldCountry         = "country"

	// MinCountryRating is the average rating a country must exceed to appear in the statistics.
	MinCountryRating = 4.0
)

// Hotel is a row of hotels joined with the name and country of its destination.
type Hotel struct {
	ID            int64   `db:"id"`
	DestinationID int64   `db:"destination_id"`
	Name          string  `db:"name"`
	BasePrice     float64 `db:"base_price"`
	Rating        float64 `db:"rating"`
	Image         string  `db:"image"`
	Destination   string  `db:"destination_name" table:"destinations" column:"name"`
	Country       string  `db:"country"          table:"destinations" column:"country"`
	model.Metadata
}

func (Hotel) GetJoinQuery() string {
	return "INNER JOIN destinations ON destinations.id = hotels.destination_id"
}

type CountryStat struct {
	Country       string  `db:"country"`
	TotalHotels   int     `db:"total_hotels"`
	AverageRating float64 `db:"average_rating"`
}
