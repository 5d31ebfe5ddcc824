package dto_test

import (
	"net/http"
	"testing"
	"time"
	"travelnest/internal/domains/booking/model"
	"travelnest/internal/domains/booking/model/dto"
	"travelnest/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{RoomID: 7, CheckIn: "2026-07-10", CheckOut: "2026-07-13", Guests: 2}

	got, err := req.ToModel(4, "guest@travelnest.io")
	require.NoError(t, err)

	assert.Equal(t, int64(4), got.UserID)
	assert.Equal(t, int64(7), got.RoomID)
	assert.Equal(t, model.StatusConfirmed, got.Status)
	assert.Equal(t, 3, got.Nights())
	assert.Equal(t, "guest@travelnest.io", got.CreatedBy)
}

func TestCreateBookingRequest_ToModelRejectsBadStay(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{name: "reversed", checkIn: "2026-07-13", checkOut: "2026-07-10"},
		{name: "same day", checkIn: "2026-07-13", checkOut: "2026-07-13"},
		{name: "bad check-in", checkIn: "13-07-2026", checkOut: "2026-07-14"},
		{name: "bad check-out", checkIn: "2026-07-13", checkOut: "2026-02-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateBookingRequest{RoomID: 1, CheckIn: tt.checkIn, CheckOut: tt.checkOut, Guests: 1}

			_, err := req.ToModel(1, "guest")

			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestNewCreateBookingResponse(t *testing.T) {
	checkIn := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)

	res := dto.NewCreateBookingResponse(model.Booking{
		ID:       9,
		CheckIn:  checkIn,
		CheckOut: checkIn.AddDate(0, 0, 2),
		Guests:   1,
		Status:   model.StatusConfirmed,
	})

	assert.Equal(t, "Room successfully booked! Check-in: 2026-07-10 | Check-out: 2026-07-12", res.Message)
	assert.Equal(t, int64(9), res.Booking.ID)
	assert.Equal(t, 2, res.Booking.Nights)
}

func TestBookingDetailResponse_DefaultsMissingPayment(t *testing.T) {
	var res dto.BookingDetailResponse
	res.FromModel(model.BookingDetail{ID: 1, FirstName: "Ada", LastName: "Lovelace"})

	assert.Equal(t, model.PaymentStatusNone, res.PaymentStatus)
	assert.Zero(t, res.Amount)
	assert.Equal(t, "Ada Lovelace", res.GuestName)
}

func TestMyBookingsResponse_SetSummary(t *testing.T) {
	var res dto.MyBookingsResponse
	res.SetSummary([]model.StatusCount{{Status: model.StatusConfirmed, Total: 4}})

	assert.Equal(t, map[string]int{"pending": 0, "confirmed": 4, "cancelled": 0}, res.Summary)
}

func TestListParams_Filter(t *testing.T) {
	tests := []struct {
		name      string
		params    dto.ListParams
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:     "no filters",
			wantArgs: map[string]any{},
		},
		{
			name:      "owner and status",
			params:    dto.ListParams{UserID: 3, Status: "pending"},
			wantWhere: "(bookings.user_id = :user_id AND bookings.status = :status)",
			wantArgs:  map[string]any{"user_id": int64(3), "status": "pending"},
		},
		{
			name:      "unpaid",
			params:    dto.ListParams{Unpaid: true},
			wantWhere: "((payments.payment_status IS NULL OR payments.payment_status != :paid_status))",
			wantArgs:  map[string]any{"paid_status": "paid_online"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := tt.params.Filter()

			where, args := filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
