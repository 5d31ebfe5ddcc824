package service_test

import (
	"context"
	"net/http"
	"testing"
	"travelnest/config"
	"travelnest/infras/otel/mocks"
	"travelnest/internal/domains/destination/model/dto"
	"travelnest/internal/domains/destination/repository"
	"travelnest/internal/domains/destination/service"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"
	"travelnest/shared/testkit"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type suite struct {
	svc     service.Destination
	fixture *testkit.Fixture
	redis   *miniredis.Miniredis
}

func newSuite(t *testing.T, ttl int) suite {
	t.Helper()

	db := testkit.NewDB(t)
	redisCache, server := testkit.NewCache(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = ttl

	otl := mocks.NewOtel()

	return suite{
		svc:     service.New(repository.New(db, otl), cfg, redisCache, otl),
		fixture: testkit.NewFixture(t, db),
		redis:   server,
	}
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserEmail, "admin@travelnest.io")
}

func TestDestinationService_CreateAndGet(t *testing.T) {
	s := newSuite(t, 0)
	ctx := adminContext()

	created, err := s.svc.Create(ctx, dto.CreateDestinationRequest{Name: "Bali", Country: "Indonesia", Description: "Beaches"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, "admin@travelnest.io", created.CreatedBy)

	got, err := s.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Bali", got.Name)
	assert.Equal(t, "Indonesia", got.Country)
	assert.Equal(t, "Beaches", got.Description)

	_, err = s.svc.Get(ctx, created.ID+100)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestDestinationService_GetAll(t *testing.T) {
	s := newSuite(t, 0)
	s.fixture.Destination(1, "Ubud", "Indonesia")
	s.fixture.Destination(2, "Kyoto", "Japan")
	s.fixture.Destination(3, "Bali", "Indonesia")
	s.fixture.Destination(4, "Osaka", "Japan")

	tests := []struct {
		name      string
		search    string
		country   string
		wantNames []string
		wantTotal int
	}{
		{
			name:      "ordered by country then name",
			wantNames: []string{"Bali", "Ubud", "Kyoto", "Osaka"},
			wantTotal: 4,
		},
		{
			name:      "filtered by country",
			country:   "Japan",
			wantNames: []string{"Kyoto", "Osaka"},
			wantTotal: 2,
		},
		{
			name:      "search is case insensitive",
			search:    "KYO",
			wantNames: []string{"Kyoto"},
			wantTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListFilter(tt.search, tt.country))
			require.NoError(t, err)

			names := make([]string, 0, len(res.Destinations))
			for _, d := range res.Destinations {
				names = append(names, d.Name)
			}

			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantTotal, res.TotalData)
			assert.Equal(t, 1, res.TotalPage)
		})
	}
}

func TestDestinationService_Update(t *testing.T) {
	s := newSuite(t, 0)
	s.fixture.Destination(1, "Bali", "Indonesia")

	tests := []struct {
		name     string
		id       int64
		req      dto.UpdateDestinationRequest
		wantCode int
	}{
		{name: "empty request", id: 1, req: dto.UpdateDestinationRequest{}, wantCode: http.StatusBadRequest},
		{name: "missing destination", id: 9, req: dto.UpdateDestinationRequest{Name: "Lombok"}, wantCode: http.StatusNotFound},
		{name: "renamed", id: 1, req: dto.UpdateDestinationRequest{Name: "Lombok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.svc.Update(adminContext(), tt.req, tt.id)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)

			got, err := s.svc.Get(context.Background(), tt.id)
			require.NoError(t, err)
			assert.Equal(t, "Lombok", got.Name)
			assert.Equal(t, "Indonesia", got.Country)
			assert.Equal(t, "admin@travelnest.io", got.ModifiedBy)
		})
	}
}

func TestDestinationService_DeleteCascades(t *testing.T) {
	s := newSuite(t, 0)
	s.fixture.Destination(1, "Bali", "Indonesia")
	s.fixture.Hotel(10, 1, "Ocean View", 120, 4.5)
	s.fixture.Room(100, 10, "double", 150, 3)

	require.NoError(t, s.svc.Delete(adminContext(), 1))

	assert.Zero(t, s.fixture.Int64("SELECT COUNT(*) FROM hotels"))
	assert.Zero(t, s.fixture.Int64("SELECT COUNT(*) FROM rooms"))

	err := s.svc.Delete(adminContext(), 1)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestDestinationService_GetServedFromCache(t *testing.T) {
	s := newSuite(t, 60)
	s.fixture.Destination(1, "Bali", "Indonesia")

	first, err := s.svc.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return s.redis.Exists("destination:get:1") }, waitFor, tick)

	s.fixture.Exec("UPDATE destinations SET name = 'Lombok' WHERE id = 1")

	second, err := s.svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "Bali", second.Name)
}
