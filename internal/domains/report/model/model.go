package model

const (
	// TopLimit caps every ranked list of the dashboard and the summary.
	TopLimit = 5

	PaymentStatusPaidOnline = "paid_online"
)

// DefaultCountries is the country set used by the summary when none is requested.
var DefaultCountries = []string{"France", "Spain", "Italy"}

type Counts struct {
	Users        int `db:"users" json:"users"`
	Destinations int `db:"destinations" json:"destinations"`
	Hotels       int `db:"hotels" json:"hotels"`
	Bookings     int `db:"bookings" json:"bookings"`
	Reviews      int `db:"reviews" json:"reviews"`
}

type PaymentSummary struct {
	PaidBookings   int     `db:"paid_bookings" json:"paid_bookings"`
	TotalRevenue   float64 `db:"total_revenue" json:"total_revenue"`
	AveragePayment float64 `db:"average_payment" json:"average_payment"`
}

type DestinationRating struct {
	Destination   string  `db:"destination"`
	Country       string  `db:"country"`
	TotalHotels   int     `db:"total_hotels"`
	AverageRating float64 `db:"average_rating"`
}

type HotelBookings struct {
	HotelID       int64  `db:"hotel_id"`
	HotelName     string `db:"hotel_name"`
	Country       string `db:"country"`
	TotalBookings int    `db:"total_bookings"`
}

type HotelRating struct {
	HotelID     int64   `db:"hotel_id"`
	HotelName   string  `db:"hotel_name"`
	Destination string  `db:"destination"`
	Country     string  `db:"country"`
	Rating      float64 `db:"rating"`
}

type DestinationStat struct {
	Destination      string  `db:"destination"`
	Country          string  `db:"country"`
	TotalHotels      int     `db:"total_hotels"`
	AverageRating    float64 `db:"average_rating"`
	TopRating        float64 `db:"top_rating"`
	MinPrice         float64 `db:"min_price"`
	AverageBasePrice float64 `db:"average_base_price"`
}
