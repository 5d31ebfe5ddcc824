package dto

import (
	"io"
	"mime/multipart"
	"travelnest/internal/domains/hotel/model"
	"travelnest/shared"
	gDto "travelnest/shared/dto"
	gModel "travelnest/shared/model"
	"travelnest/shared/timezone"
)

type CreateHotelRequest struct {
	DestinationID int64   `json:"destination_id" validate:"required,gt=0"`
	Name          string  `json:"name"           validate:"required,max=150"`
	BasePrice     float64 `json:"base_price"     validate:"gte=0"`
	Rating        float64 `json:"rating"         validate:"gte=0,lte=5"`
}

func (c *CreateHotelRequest) ToModel(actor string) model.Hotel {
	return model.Hotel{
		DestinationID: c.DestinationID,
		Name:          c.Name,
		BasePrice:     c.BasePrice,
		Rating:        c.Rating,
		Metadata:      gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UpdateHotelRequest struct {
	DestinationID int64    `db:"destination_id" json:"destination_id" validate:"omitempty,gt=0"`
	Name          string   `db:"name"           json:"name"           validate:"omitempty,max=150"`
	BasePrice     *float64 `db:"base_price"     json:"base_price"     validate:"omitempty,gte=0"`
	Rating        *float64 `db:"rating"         json:"rating"         validate:"omitempty,gte=0,lte=5"`
}

// UploadImageRequest carries a multipart cover image.
type UploadImageRequest struct {
	Image *multipart.FileHeader `form:"image" validate:"required,mimetypes=image/jpeg image/png image/webp,maxfilesize=5"`
	File  io.ReadSeeker         `validate:"-"`
}

type HotelResponse struct {
	ID            int64   `json:"id"`
	DestinationID int64   `json:"destination_id"`
	Destination   string  `json:"destination"`
	Country       string  `json:"country"`
	Name          string  `json:"name"`
	BasePrice     float64 `json:"base_price"`
	Rating        float64 `json:"rating"`
	Image         string  `json:"image"`
	gDto.Metadata
}

func (r *HotelResponse) FromModel(model model.Hotel) {
	r.ID = model.ID
	r.DestinationID = model.DestinationID
	r.Destination = model.Destination
	r.Country = model.Country
	r.Name = model.Name
	r.BasePrice = model.BasePrice
	r.Rating = model.Rating
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetHotelsResponse struct {
	Hotels    []HotelResponse `json:"hotels"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetHotelsResponse) FromModels(models []model.Hotel, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Hotels = make([]HotelResponse, len(models))
	for i, mod := range models {
		r.Hotels[i].FromModel(mod)
	}
}

type CountryStatResponse struct {
	Country       string  `json:"country"`
	TotalHotels   int     `json:"total_hotels"`
	AverageRating float64 `json:"average_rating"`
}

func FromCountryStats(stats []model.CountryStat) []CountryStatResponse {
	res := make([]CountryStatResponse, len(stats))
	for i, stat := range stats {
		res[i] = CountryStatResponse(stat)
	}

	return res
}

// ListParams are the hotel list filters accepted on the query string.
type ListParams struct {
	Search        string
	Country       string
	DestinationID int64
	MinPrice      *float64
	MaxPrice      *float64
}

func (p ListParams) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if p.Search != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "search",
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    p.Search,
			Table:    model.TableName,
		})
	}

	if p.Country != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldCountry,
			Operator: gDto.FilterOperatorEq,
			Value:    p.Country,
			Table:    model.DestinationTableName,
		})
	}

	if p.DestinationID > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldDestinationID,
			Operator: gDto.FilterOperatorEq,
			Value:    p.DestinationID,
			Table:    model.TableName,
		})
	}

	if p.MinPrice != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "min_price",
			Field:    model.FieldBasePrice,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    *p.MinPrice,
			Table:    model.TableName,
		})
	}

	if p.MaxPrice != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "max_price",
			Field:    model.FieldBasePrice,
			Operator: gDto.FilterOperatorLessEq,
			Value:    *p.MaxPrice,
			Table:    model.TableName,
		})
	}

	return filter
}
