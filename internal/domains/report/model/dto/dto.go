package dto

import (
	"strings"
	"travelnest/internal/domains/report/model"
)

type DashboardResponse struct {
	Totals           model.Counts           `json:"totals"`
	Payments         model.PaymentSummary   `json:"payments"`
	TopDestinations  []DestinationRatingDto `json:"top_destinations"`
	MostBookedHotels []HotelBookingsDto     `json:"most_booked_hotels"`
}

type DestinationRatingDto struct {
	Destination   string  `json:"destination"`
	Country       string  `json:"country"`
	TotalHotels   int     `json:"total_hotels"`
	AverageRating float64 `json:"average_rating"`
}

type HotelBookingsDto struct {
	HotelID       int64  `json:"hotel_id"`
	HotelName     string `json:"hotel_name"`
	Country       string `json:"country"`
	TotalBookings int    `json:"total_bookings"`
}

type HotelRatingDto struct {
	HotelID     int64   `json:"hotel_id"`
	HotelName   string  `json:"hotel_name"`
	Destination string  `json:"destination"`
	Country     string  `json:"country"`
	Rating      float64 `json:"rating"`
}

type DestinationStatDto struct {
	Destination      string  `json:"destination"`
	Country          string  `json:"country"`
	TotalHotels      int     `json:"total_hotels"`
	AverageRating    float64 `json:"average_rating"`
	TopRating        float64 `json:"top_rating"`
	MinPrice         float64 `json:"min_price"`
	AverageBasePrice float64 `json:"average_base_price"`
}

type SummaryResponse struct {
	AboveAverageHotels []HotelRatingDto     `json:"above_average_hotels"`
	DestinationStats   []DestinationStatDto `json:"destination_stats"`
	Countries          []string             `json:"countries"`
	HotelsInCountries  []HotelRatingDto     `json:"hotels_in_countries"`
}

// Countries normalises a comma separated country list, falling back to
// model.DefaultCountries when nothing usable is given.
func Countries(raw string) []string {
	countries := []string{}
	seen := map[string]bool{}

	for _, country := range strings.Split(raw, ",") {
		country = strings.TrimSpace(country)
		if country == "" || seen[strings.ToLower(country)] {
			continue
		}

		seen[strings.ToLower(country)] = true
		countries = append(countries, country)
	}

	if len(countries) == 0 {
		return append([]string{}, model.DefaultCountries...)
	}

	return countries
}

func (d *DashboardResponse) FromModels(
	counts model.Counts,
	payments model.PaymentSummary,
	destinations []model.DestinationRating,
	hotels []model.HotelBookings,
) {
	d.Totals = counts
	d.Payments = payments

	d.TopDestinations = make([]DestinationRatingDto, 0, len(destinations))
	for _, m := range destinations {
		d.TopDestinations = append(d.TopDestinations, DestinationRatingDto(m))
	}

	d.MostBookedHotels = make([]HotelBookingsDto, 0, len(hotels))
	for _, m := range hotels {
		d.MostBookedHotels = append(d.MostBookedHotels, HotelBookingsDto(m))
	}
}

func (s *SummaryResponse) FromModels(
	aboveAverage []model.HotelRating,
	stats []model.DestinationStat,
	countries []string,
	inCountries []model.HotelRating,
) {
	s.AboveAverageHotels = hotelRatings(aboveAverage)
	s.HotelsInCountries = hotelRatings(inCountries)
	s.Countries = countries

	s.DestinationStats = make([]DestinationStatDto, 0, len(stats))
	for _, m := range stats {
		s.DestinationStats = append(s.DestinationStats, DestinationStatDto(m))
	}
}

func hotelRatings(models []model.HotelRating) []HotelRatingDto {
	res := make([]HotelRatingDto, 0, len(models))
	for _, m := range models {
		res = append(res, HotelRatingDto(m))
	}

	return res
}
