package dto

import (
	"strings"
	"travelnest/internal/domains/review/model"
	"travelnest/shared"
	gDto "travelnest/shared/dto"
	gModel "travelnest/shared/model"
	"travelnest/shared/timezone"
)

type CreateReviewRequest struct {
	HotelID int64  `json:"hotel_id" validate:"required,gt=0"`
	Rating  int    `json:"rating"   validate:"required,min=1,max=5"`
	Comment string `json:"comment"  validate:"required,max=2000"`
}

func (c *CreateReviewRequest) ToModel(userID int64, actor string) model.Review {
	return model.Review{
		UserID:   userID,
		HotelID:  c.HotelID,
		Rating:   c.Rating,
		Comment:  strings.TrimSpace(c.Comment),
		Metadata: gModel.NewMetadata(actor, timezone.Now()),
	}
}

type ReviewResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name"`
	HotelID   int64  `json:"hotel_id"`
	HotelName string `json:"hotel_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.UserName = strings.TrimSpace(model.FirstName + " " + model.LastName)
	r.HotelID = model.HotelID
	r.HotelName = model.HotelName
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}

type HotelRatingResponse struct {
	HotelID       int64   `json:"hotel_id"`
	HotelName     string  `json:"hotel_name"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

type TopHotelsResponse struct {
	Hotels []HotelRatingResponse `json:"hotels"`
}

func (r *TopHotelsResponse) FromModels(models []model.HotelRating) {
	r.Hotels = make([]HotelRatingResponse, len(models))
	for i, mod := range models {
		r.Hotels[i] = HotelRatingResponse(mod)
	}
}

type ListParams struct {
	HotelID int64
	UserID  int64
}

func (p ListParams) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if p.HotelID > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldHotelID,
			Operator: gDto.FilterOperatorEq,
			Value:    p.HotelID,
			Table:    model.TableName,
		})
	}

	if p.UserID > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldUserID,
			Operator: gDto.FilterOperatorEq,
			Value:    p.UserID,
			Table:    model.TableName,
		})
	}

	return filter
}
