package repository

import (
	"context"
	"fmt"
	"travelnest/infras/otel"
	"travelnest/infras/postgres"
	"travelnest/internal/domains/report/model"
	"travelnest/shared/constant"
	"travelnest/shared/logger"

	"github.com/jmoiron/sqlx"
)

const (
	queryCounts = `
SELECT (SELECT COUNT(*) FROM users) AS users,
       (SELECT COUNT(*) FROM destinations) AS destinations,
       (SELECT COUNT(*) FROM hotels) AS hotels,
       (SELECT COUNT(*) FROM bookings) AS bookings,
       (SELECT COUNT(*) FROM reviews) AS reviews`

	queryPaymentSummary = `
SELECT COUNT(payments.id) AS paid_bookings,
       COALESCE(SUM(payments.amount), 0) AS total_revenue,
       COALESCE(ROUND(AVG(payments.amount), 2), 0) AS average_payment
FROM payments
INNER JOIN bookings ON bookings.id = payments.booking_id
WHERE payments.payment_status = ?`

	queryTopDestinations = `
SELECT destination, country,
       COUNT(hotel_id) AS total_hotels,
       ROUND(AVG(rating), 2) AS average_rating
FROM v_hotel_details
GROUP BY destination, country
HAVING COUNT(hotel_id) > 0
ORDER BY average_rating DESC, destination ASC
LIMIT ?`

	queryMostBookedHotels = `
SELECT v_hotel_details.hotel_id AS hotel_id,
       v_hotel_details.hotel_name AS hotel_name,
       v_hotel_details.country AS country,
       COUNT(bookings.id) AS total_bookings
FROM v_hotel_details
LEFT JOIN rooms ON rooms.hotel_id = v_hotel_details.hotel_id
LEFT JOIN bookings ON bookings.room_id = rooms.id
GROUP BY v_hotel_details.hotel_id, v_hotel_details.hotel_name, v_hotel_details.country
ORDER BY total_bookings DESC, hotel_name ASC
LIMIT ?`

	queryAboveAverageHotels = `
SELECT hotel_id, hotel_name, destination, country, rating
FROM v_hotel_details
WHERE rating > (SELECT AVG(rating) FROM hotels)
ORDER BY rating DESC, hotel_name ASC
LIMIT ?`

	queryDestinationStats = `
SELECT destinations.name AS destination,
       destinations.country AS country,
       COUNT(hotels.id) AS total_hotels,
       COALESCE(ROUND(AVG(hotels.rating), 2), 0) AS average_rating,
       COALESCE(MAX(hotels.rating), 0) AS top_rating,
       COALESCE(MIN(hotels.base_price), 0) AS min_price,
       COALESCE(ROUND(AVG(hotels.base_price), 2), 0) AS average_base_price
FROM destinations
LEFT JOIN hotels ON hotels.destination_id = destinations.id
GROUP BY destinations.id, destinations.name, destinations.country
ORDER BY average_rating DESC, destination ASC`

	queryHotelsInCountries = `
SELECT hotel_id, hotel_name, destination, country, rating
FROM v_hotel_details
WHERE country IN (?)
ORDER BY country ASC, rating DESC, hotel_name ASC
LIMIT ?`
)

// Report runs the read-only aggregate queries behind the admin dashboard and summary.
type Report interface {
	Counts(ctx context.Context) (model.Counts, error)
	PaymentSummary(ctx context.Context) (model.PaymentSummary, error)
	TopDestinations(ctx context.Context, limit int) ([]model.DestinationRating, error)
	MostBookedHotels(ctx context.Context, limit int) ([]model.HotelBookings, error)
	AboveAverageHotels(ctx context.Context, limit int) ([]model.HotelRating, error)
	DestinationStats(ctx context.Context) ([]model.DestinationStat, error)
	HotelsInCountries(ctx context.Context, countries []string, limit int) ([]model.HotelRating, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Report {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) get(ctx context.Context, op string, dest any, query string, args ...any) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report."+op)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.GetContext(ctx, dest, r.db.Read.Rebind(query), args...); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to run report %s: %w", op, err)
	}

	return nil
}

func (r *repositoryImpl) selectAll(ctx context.Context, op string, dest any, query string, args ...any) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report."+op)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.SelectContext(ctx, dest, r.db.Read.Rebind(query), args...); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to run report %s: %w", op, err)
	}

	return nil
}

func (r *repositoryImpl) Counts(ctx context.Context) (counts model.Counts, err error) {
	err = r.get(ctx, "Counts", &counts, queryCounts)

	return counts, err
}

// PaymentSummary aggregates the payments marked as paid online.
func (r *repositoryImpl) PaymentSummary(ctx context.Context) (summary model.PaymentSummary, err error) {
	err = r.get(ctx, "PaymentSummary", &summary, queryPaymentSummary, model.PaymentStatusPaidOnline)

	return summary, err
}

func (r *repositoryImpl) TopDestinations(ctx context.Context, limit int) ([]model.DestinationRating, error) {
	ratings := []model.DestinationRating{}

	return ratings, r.selectAll(ctx, "TopDestinations", &ratings, queryTopDestinations, limit)
}

func (r *repositoryImpl) MostBookedHotels(ctx context.Context, limit int) ([]model.HotelBookings, error) {
	hotels := []model.HotelBookings{}

	return hotels, r.selectAll(ctx, "MostBookedHotels", &hotels, queryMostBookedHotels, limit)
}

// AboveAverageHotels lists hotels rated above the average of all hotels.
func (r *repositoryImpl) AboveAverageHotels(ctx context.Context, limit int) ([]model.HotelRating, error) {
	hotels := []model.HotelRating{}

	return hotels, r.selectAll(ctx, "AboveAverageHotels", &hotels, queryAboveAverageHotels, limit)
}

// DestinationStats includes destinations without hotels, with zeroed figures.
func (r *repositoryImpl) DestinationStats(ctx context.Context) ([]model.DestinationStat, error) {
	stats := []model.DestinationStat{}

	return stats, r.selectAll(ctx, "DestinationStats", &stats, queryDestinationStats)
}

func (r *repositoryImpl) HotelsInCountries(ctx context.Context, countries []string, limit int) ([]model.HotelRating, error) {
	hotels := []model.HotelRating{}

	if len(countries) == 0 {
		return hotels, nil
	}

	query, args, err := sqlx.In(queryHotelsInCountries, countries, limit)
	if err != nil {
		return hotels, fmt.Errorf("failed to expand country set: %w", err)
	}

	return hotels, r.selectAll(ctx, "HotelsInCountries", &hotels, query, args...)
}
