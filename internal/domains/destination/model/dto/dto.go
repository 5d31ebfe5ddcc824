package dto

import (
	"travelnest/internal/domains/destination/model"
	"travelnest/shared"
	gDto "travelnest/shared/dto"
	gModel "travelnest/shared/model"
	"travelnest/shared/timezone"
)

type CreateDestinationRequest struct {
	Name        string `json:"name"        validate:"required,max=150"`
	Country     string `json:"country"     validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

func (c *CreateDestinationRequest) ToModel(actor string) model.Destination {
	return model.Destination{
		Name:        c.Name,
		Country:     c.Country,
		Description: c.Description,
		Metadata:    gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UpdateDestinationRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=150"`
	Country     string `db:"country"     json:"country"     validate:"omitempty,max=100"`
	Description string `db:"description" json:"description" validate:"omitempty,max=2000"`
}

type DestinationResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	Description string `json:"description"`
	gDto.Metadata
}

func (r *DestinationResponse) FromModel(model model.Destination) {
	r.ID = model.ID
	r.Name = model.Name
	r.Country = model.Country
	r.Description = model.Description
	r.Metadata.FromModel(model.Metadata)
}

type GetDestinationsResponse struct {
	Destinations []DestinationResponse `json:"destinations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetDestinationsResponse) FromModels(models []model.Destination, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Destinations = make([]DestinationResponse, len(models))
	for i, mod := range models {
		r.Destinations[i].FromModel(mod)
	}
}

// ListFilter builds the where clause for the destination list: a free-text
// search over name and description plus an exact country match.
func ListFilter(search, country string) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if search != "" {
		filter.Filters = append(filter.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "search_name", Field: model.FieldName, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
				gDto.Filter{ArgName: "search_description", Field: model.FieldDescription, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
			},
		})
	}

	if country != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldCountry,
			Operator: gDto.FilterOperatorEq,
			Value:    country,
			Table:    model.TableName,
		})
	}

	return filter
}
