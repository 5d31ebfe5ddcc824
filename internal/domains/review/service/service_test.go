package service_test

import (
	"context"
	"net/http"
	"testing"
	"travelnest/config"
	"travelnest/infras/otel/mocks"
	hotelRepo "travelnest/internal/domains/hotel/repository"
	"travelnest/internal/domains/review/model/dto"
	"travelnest/internal/domains/review/repository"
	"travelnest/internal/domains/review/service"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"
	"travelnest/shared/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (service.Review, *testkit.Fixture) {
	t.Helper()

	db := testkit.NewDB(t)
	redisCache, _ := testkit.NewCache(t)
	otl := mocks.NewOtel()

	fixture := testkit.NewFixture(t, db)
	fixture.User(1, "ayu@travelnest.io", constant.RoleUser, "Secret@1")
	fixture.User(2, "ben@travelnest.io", constant.RoleUser, "Secret@1")
	fixture.Destination(1, "Bali", "Indonesia")
	fixture.Hotel(1, 1, "Ubud Retreat", 120, 4.6)
	fixture.Hotel(2, 1, "Kuta Beach", 90, 3.9)
	fixture.Hotel(3, 1, "Seminyak Inn", 70, 3.1)

	svc := service.New(repository.New(db, otl), hotelRepo.New(db, otl), &config.Config{}, redisCache, otl)

	return svc, fixture
}

func userContext(id int64) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserEmail, "ayu@travelnest.io")
}

func TestReviewService_Create(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.Create(userContext(1), dto.CreateReviewRequest{HotelID: 1, Rating: 5, Comment: "  Quiet and green  "})
	require.NoError(t, err)

	assert.Positive(t, res.ID)
	assert.Equal(t, int64(1), res.UserID)
	assert.Equal(t, "Test User", res.UserName)
	assert.Equal(t, "Ubud Retreat", res.HotelName)
	assert.Equal(t, 5, res.Rating)
	assert.Equal(t, "Quiet and green", res.Comment)
	assert.Equal(t, "ayu@travelnest.io", res.CreatedBy)
}

func TestReviewService_CreateRejects(t *testing.T) {
	svc, fixture := newService(t)

	_, err := svc.Create(context.Background(), dto.CreateReviewRequest{HotelID: 1, Rating: 4, Comment: "ok"})
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))

	_, err = svc.Create(userContext(1), dto.CreateReviewRequest{HotelID: 42, Rating: 4, Comment: "ok"})
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	assert.Zero(t, fixture.Int64("SELECT COUNT(*) FROM reviews"))
}

func TestReviewService_GetAll(t *testing.T) {
	svc, fixture := newService(t)
	fixture.Review(1, 1, 5, "first")
	fixture.Review(2, 2, 3, "second")
	fixture.Review(2, 1, 4, "third")

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListParams{})
	require.NoError(t, err)
	require.Len(t, res.Reviews, 3)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, "third", res.Reviews[0].Comment, "newest first")
	assert.Equal(t, "Ubud Retreat", res.Reviews[0].HotelName)

	res, err = svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListParams{HotelID: 1})
	require.NoError(t, err)
	require.Len(t, res.Reviews, 2)

	for _, review := range res.Reviews {
		assert.Equal(t, int64(1), review.HotelID)
	}

	res, err = svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "rating", SortDir: gDto.SortDirAsc}, dto.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Reviews[0].Rating)
}

func TestReviewService_TopHotels(t *testing.T) {
	svc, fixture := newService(t)
	fixture.Review(1, 1, 5, "superb")
	fixture.Review(2, 1, 4, "lovely")
	fixture.Review(1, 2, 3, "fine")
	fixture.Review(2, 2, 4, "good")
	fixture.Review(1, 3, 2, "noisy")
	fixture.Review(2, 3, 3, "meh")

	res, err := svc.TopHotels(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Hotels, 2)

	assert.Equal(t, "Ubud Retreat", res.Hotels[0].HotelName)
	assert.InDelta(t, 4.5, res.Hotels[0].AverageRating, 0.001)
	assert.Equal(t, 2, res.Hotels[0].TotalReviews)

	assert.Equal(t, "Kuta Beach", res.Hotels[1].HotelName)
	assert.InDelta(t, 3.5, res.Hotels[1].AverageRating, 0.001)
}
