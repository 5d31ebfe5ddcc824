package model

import "travelnest/shared/model"

const (
	TableName  = "destinations"
	EntityName = "destination"

	FieldID          = "id"
	FieldName        = "name"
	FieldCountry     = "country"
	FieldDescription = "description"
)

type Destination struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Country     string `db:"country"`
	Description string `db:"description"`
	model.Metadata
}
