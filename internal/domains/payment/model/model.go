package model

import "travelnest/shared/model"

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldAmount        = "amount"
	FieldMethod        = "method"
	FieldPaymentStatus = "payment_status"

	StatusNoPayment  = "no_payment"
	StatusPaidOnline = "paid_online"
	StatusWillPay    = "will_pay"

	// MethodUnknown marks a payment row created by an administrator before any money moved.
	MethodUnknown = "N/A"
)

// Payment is the optional payment record of a booking, at most one per booking.
type Payment struct {
	ID            int64   `db:"id"`
	BookingID     int64   `db:"booking_id"`
	Amount        float64 `db:"amount"`
	Method        string  `db:"method"`
	PaymentStatus string  `db:"payment_status"`
	model.Metadata
}
