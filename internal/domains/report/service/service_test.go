package service_test

import (
	"context"
	"testing"
	"time"
	"travelnest/config"
	"travelnest/infras/otel/mocks"
	"travelnest/internal/domains/report/repository"
	"travelnest/internal/domains/report/service"
	"travelnest/shared/constant"
	"travelnest/shared/testkit"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 0.001

func newService(t *testing.T, cfg *config.Config) (service.Report, *testkit.Fixture, *miniredis.Miniredis) {
	t.Helper()

	db := testkit.NewDB(t)
	redisCache, server := testkit.NewCache(t)
	otl := mocks.NewOtel()

	fixture := testkit.NewFixture(t, db)
	fixture.User(1, "ayu@travelnest.io", constant.RoleUser, "Secret@1")
	fixture.User(2, "admin@travelnest.io", constant.RoleAdmin, "Secret@1")

	fixture.Destination(1, "Paris", "France")
	fixture.Destination(2, "Rome", "Italy")
	fixture.Destination(3, "Bali", "Indonesia")
	fixture.Destination(4, "Oslo", "Norway")

	fixture.Hotel(1, 1, "Le Marais", 200, 4.8)
	fixture.Hotel(2, 1, "Gare Inn", 80, 3.0)
	fixture.Hotel(3, 2, "Roma Vista", 150, 4.2)
	fixture.Hotel(4, 3, "Ubud Retreat", 120, 4.6)

	fixture.Room(1, 1, "double", 200, 3)
	fixture.Room(2, 3, "single", 150, 3)
	fixture.Room(3, 4, "suite", 120, 3)

	fixture.Booking(1, 1, 1, "confirmed")
	fixture.Booking(2, 1, 1, "pending")
	fixture.Booking(3, 1, 2, "pending")
	fixture.Booking(4, 1, 3, "cancelled")

	fixture.Payment(1, 300, "paid_online")
	fixture.Payment(2, 150, "paid_online")
	fixture.Payment(3, 99, "will_pay")

	fixture.Review(1, 4, 5, "lovely")

	return service.New(repository.New(db, otl), cfg, redisCache, otl), fixture, server
}

func TestReportService_Dashboard(t *testing.T) {
	svc, _, _ := newService(t, &config.Config{})

	res, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Totals.Users)
	assert.Equal(t, 4, res.Totals.Destinations)
	assert.Equal(t, 4, res.Totals.Hotels)
	assert.Equal(t, 4, res.Totals.Bookings)
	assert.Equal(t, 1, res.Totals.Reviews)

	assert.Equal(t, 2, res.Payments.PaidBookings)
	assert.InDelta(t, 450, res.Payments.TotalRevenue, delta)
	assert.InDelta(t, 225, res.Payments.AveragePayment, delta)

	require.Len(t, res.TopDestinations, 3)
	assert.Equal(t, "Bali", res.TopDestinations[0].Destination)
	assert.Equal(t, "Rome", res.TopDestinations[1].Destination)
	assert.Equal(t, "Paris", res.TopDestinations[2].Destination)
	assert.Equal(t, 2, res.TopDestinations[2].TotalHotels)
	assert.InDelta(t, 3.9, res.TopDestinations[2].AverageRating, delta)

	names := []string{}
	for _, h := range res.MostBookedHotels {
		names = append(names, h.HotelName)
	}

	assert.Equal(t, []string{"Le Marais", "Roma Vista", "Ubud Retreat", "Gare Inn"}, names)
	assert.Equal(t, 2, res.MostBookedHotels[0].TotalBookings)
	assert.Zero(t, res.MostBookedHotels[3].TotalBookings)
}

func TestReportService_DashboardWithoutPayments(t *testing.T) {
	svc, fixture, _ := newService(t, &config.Config{})
	fixture.Exec("DELETE FROM payments")

	res, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.Payments.PaidBookings)
	assert.Zero(t, res.Payments.TotalRevenue)
	assert.Zero(t, res.Payments.AveragePayment)
}

func TestReportService_DashboardIsCached(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	svc, fixture, server := newService(t, cfg)

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return server.Exists("report:dashboard") }, 2*time.Second, 10*time.Millisecond)

	fixture.User(3, "late@travelnest.io", constant.RoleUser, "Secret@1")

	second, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Totals.Users, second.Totals.Users)
}

func TestReportService_Summary(t *testing.T) {
	svc, _, _ := newService(t, &config.Config{})

	res, err := svc.Summary(context.Background(), nil)
	require.NoError(t, err)

	above := []string{}
	for _, h := range res.AboveAverageHotels {
		above = append(above, h.HotelName)
	}

	assert.Equal(t, []string{"Le Marais", "Ubud Retreat", "Roma Vista"}, above)

	require.Len(t, res.DestinationStats, 4)
	assert.Equal(t, "Bali", res.DestinationStats[0].Destination)

	paris := res.DestinationStats[2]
	assert.Equal(t, "Paris", paris.Destination)
	assert.Equal(t, 2, paris.TotalHotels)
	assert.InDelta(t, 3.9, paris.AverageRating, delta)
	assert.InDelta(t, 4.8, paris.TopRating, delta)
	assert.InDelta(t, 80, paris.MinPrice, delta)
	assert.InDelta(t, 140, paris.AverageBasePrice, delta)

	oslo := res.DestinationStats[3]
	assert.Equal(t, "Oslo", oslo.Destination)
	assert.Zero(t, oslo.TotalHotels)
	assert.Zero(t, oslo.MinPrice)

	assert.Equal(t, []string{"France", "Spain", "Italy"}, res.Countries)

	inCountries := []string{}
	for _, h := range res.HotelsInCountries {
		inCountries = append(inCountries, h.HotelName)
	}

	assert.Equal(t, []string{"Le Marais", "Gare Inn", "Roma Vista"}, inCountries)
}

func TestReportService_SummaryForCountries(t *testing.T) {
	svc, _, _ := newService(t, &config.Config{})

	res, err := svc.Summary(context.Background(), []string{"Indonesia", "Norway"})
	require.NoError(t, err)

	require.Len(t, res.HotelsInCountries, 1)
	assert.Equal(t, "Ubud Retreat", res.HotelsInCountries[0].HotelName)
	assert.Equal(t, []string{"Indonesia", "Norway"}, res.Countries)
}
