package dto

import (
	"fmt"
	"travelnest/internal/domains/booking/model"
	"travelnest/shared"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"
	gModel "travelnest/shared/model"
	"travelnest/shared/timezone"
)

const confirmationFormat = "Room successfully booked! Check-in: %s | Check-out: %s"

type CreateBookingRequest struct {
	RoomID   int64  `json:"room_id"   validate:"required,gt=0"`
	CheckIn  string `json:"check_in"  validate:"required,isodate"`
	CheckOut string `json:"check_out" validate:"required,isodate"`
	Guests   int    `json:"guests"    validate:"required,gte=1"`
}

// ToModel builds a confirmed booking for userID. The stay must last at least one night.
func (c *CreateBookingRequest) ToModel(userID int64, actor string) (model.Booking, error) {
	checkIn, err := timezone.ParseDate(c.CheckIn)
	if err != nil {
		return model.Booking{}, failure.BadRequestFromString("check_in must be a YYYY-MM-DD date") // nolint:wrapcheck
	}

	checkOut, err := timezone.ParseDate(c.CheckOut)
	if err != nil {
		return model.Booking{}, failure.BadRequestFromString("check_out must be a YYYY-MM-DD date") // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return model.Booking{}, failure.BadRequestFromString("check_out must be after check_in") // nolint:wrapcheck
	}

	return model.Booking{
		UserID:   userID,
		RoomID:   c.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   c.Guests,
		Status:   model.StatusConfirmed,
		Metadata: gModel.NewMetadata(actor, timezone.Now()),
	}, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=no_payment paid_online will_pay"`
}

type BookingResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	RoomID   int64  `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Nights   int    `json:"nights"`
	Guests   int    `json:"guests"`
	Status   string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.RoomID = model.RoomID
	r.CheckIn = timezone.FormatDate(model.CheckIn)
	r.CheckOut = timezone.FormatDate(model.CheckOut)
	r.Nights = model.Nights()
	r.Guests = model.Guests
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type CreateBookingResponse struct {
	Message string          `json:"message"`
	Booking BookingResponse `json:"booking"`
}

func NewCreateBookingResponse(booking model.Booking) CreateBookingResponse {
	res := CreateBookingResponse{}
	res.Booking.FromModel(booking)
	res.Message = fmt.Sprintf(confirmationFormat, res.Booking.CheckIn, res.Booking.CheckOut)

	return res
}

type BookingDetailResponse struct {
	BookingResponse
	GuestName     string  `json:"guest_name"`
	Email         string  `json:"email"`
	HotelID       int64   `json:"hotel_id"`
	HotelName     string  `json:"hotel_name"`
	Destination   string  `json:"destination"`
	Country       string  `json:"country"`
	RoomType      string  `json:"room_type"`
	Price         float64 `json:"price"`
	PaymentStatus string  `json:"payment_status"`
	Amount        float64 `json:"amount"`
}

func (r *BookingDetailResponse) FromModel(detail model.BookingDetail) {
	r.BookingResponse.FromModel(model.Booking{
		ID:       detail.ID,
		UserID:   detail.UserID,
		RoomID:   detail.RoomID,
		CheckIn:  detail.CheckIn,
		CheckOut: detail.CheckOut,
		Guests:   detail.Guests,
		Status:   detail.Status,
		Metadata: detail.Metadata,
	})
	r.GuestName = detail.FirstName + " " + detail.LastName
	r.Email = detail.Email
	r.HotelID = detail.HotelID
	r.HotelName = detail.HotelName
	r.Destination = detail.Destination
	r.Country = detail.Country
	r.RoomType = detail.RoomType
	r.Price = detail.Price

	r.PaymentStatus = model.PaymentStatusNone
	if detail.PaymentStatus != nil {
		r.PaymentStatus = *detail.PaymentStatus
	}

	if detail.Amount != nil {
		r.Amount = *detail.Amount
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingDetailResponse `json:"bookings"`
	TotalPage int                     `json:"total_page"`
	TotalData int                     `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.BookingDetail, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingDetailResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// MyBookingsResponse lists the caller's bookings with a count per status.
type MyBookingsResponse struct {
	GetBookingsResponse
	Summary map[string]int `json:"summary"`
}

func (r *MyBookingsResponse) SetSummary(counts []model.StatusCount) {
	r.Summary = map[string]int{
		model.StatusPending:   0,
		model.StatusConfirmed: 0,
		model.StatusCancelled: 0,
	}

	for _, count := range counts {
		r.Summary[count.Status] = count.Total
	}
}

// ListParams are the booking list filters.
type ListParams struct {
	UserID int64
	Status string
	// Unpaid keeps bookings without a paid_online payment.
	Unpaid bool
}

func (p ListParams) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if p.UserID > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldUserID,
			Operator: gDto.FilterOperatorEq,
			Value:    p.UserID,
			Table:    model.TableName,
		})
	}

	if p.Status != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    p.Status,
			Table:    model.TableName,
		})
	}

	if p.Unpaid {
		filter.Filters = append(filter.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldPaymentStatus,
					Operator: gDto.FilterIsNull,
					Table:    model.PaymentTableName,
				},
				gDto.Filter{
					ArgName:  "paid_status",
					Field:    model.FieldPaymentStatus,
					Operator: gDto.FilterOperatorNotEq,
					Value:    model.PaymentStatusPaidOnline,
					Table:    model.PaymentTableName,
				},
			},
		})
	}

	return filter
}
