package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
	"travelnest/config"
	"travelnest/infras/otel/mocks"
	"travelnest/infras/s3"
	s3Mocks "travelnest/infras/s3/mocks"
	destinationRepo "travelnest/internal/domains/destination/repository"
	"travelnest/internal/domains/hotel/model/dto"
	"travelnest/internal/domains/hotel/repository"
	"travelnest/internal/domains/hotel/service"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"
	"travelnest/shared/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type suite struct {
	svc     service.Hotel
	s3      *s3Mocks.MockS3
	fixture *testkit.Fixture
}

func newSuite(t *testing.T) suite {
	t.Helper()

	ctrl := gomock.NewController(t)
	db := testkit.NewDB(t)
	redisCache, _ := testkit.NewCache(t)
	otl := mocks.NewOtel()
	storage := s3Mocks.NewMockS3(ctrl)

	svc := service.New(repository.New(db, otl), destinationRepo.New(db, otl), &config.Config{}, redisCache, otl, storage)

	fixture := testkit.NewFixture(t, db)
	fixture.Destination(1, "Paris", "France")
	fixture.Destination(2, "Kyoto", "Japan")

	return suite{svc: svc, s3: storage, fixture: fixture}
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserEmail, "admin@travelnest.io")
}

func ptr[T any](v T) *T {
	return &v
}

func TestHotelService_Create(t *testing.T) {
	s := newSuite(t)

	_, err := s.svc.Create(adminContext(), dto.CreateHotelRequest{DestinationID: 42, Name: "Nowhere Inn", BasePrice: 80, Rating: 3})
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	assert.Zero(t, s.fixture.Int64("SELECT COUNT(*) FROM hotels"))

	res, err := s.svc.Create(adminContext(), dto.CreateHotelRequest{DestinationID: 1, Name: "Le Marais", BasePrice: 180, Rating: 4.5})
	require.NoError(t, err)
	assert.Positive(t, res.ID)
	assert.Equal(t, "Paris", res.Destination)
	assert.Equal(t, "France", res.Country)
	assert.InDelta(t, 180.0, res.BasePrice, 0.001)
	assert.Empty(t, res.Image)
}

func TestHotelService_GetAll(t *testing.T) {
	s := newSuite(t)
	s.fixture.Hotel(1, 1, "Budget Paris", 60, 3.5)
	s.fixture.Hotel(2, 1, "Grand Paris", 300, 4.8)
	s.fixture.Hotel(3, 2, "Kyoto Garden", 150, 4.8)
	s.fixture.Hotel(4, 2, "Kyoto Station", 90, 4.1)

	tests := []struct {
		name      string
		params    dto.ListParams
		wantNames []string
	}{
		{
			name:      "rating descending then cheaper first",
			wantNames: []string{"Kyoto Garden", "Grand Paris", "Kyoto Station", "Budget Paris"},
		},
		{
			name:      "by country",
			params:    dto.ListParams{Country: "France"},
			wantNames: []string{"Grand Paris", "Budget Paris"},
		},
		{
			name:      "price range",
			params:    dto.ListParams{MinPrice: ptr(80.0), MaxPrice: ptr(200.0)},
			wantNames: []string{"Kyoto Garden", "Kyoto Station"},
		},
		{
			name:      "search by name",
			params:    dto.ListParams{Search: "station"},
			wantNames: []string{"Kyoto Station"},
		},
		{
			name:      "by destination",
			params:    dto.ListParams{DestinationID: 1},
			wantNames: []string{"Grand Paris", "Budget Paris"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, tt.params.Filter())
			require.NoError(t, err)

			names := make([]string, 0, len(res.Hotels))
			for _, h := range res.Hotels {
				names = append(names, h.Name)
			}

			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, len(tt.wantNames), res.TotalData)
		})
	}
}

func TestHotelService_Update(t *testing.T) {
	s := newSuite(t)
	s.fixture.Hotel(1, 1, "Grand Paris", 300, 4.8)

	err := s.svc.Update(adminContext(), dto.UpdateHotelRequest{}, 1)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	err = s.svc.Update(adminContext(), dto.UpdateHotelRequest{DestinationID: 99}, 1)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	err = s.svc.Update(adminContext(), dto.UpdateHotelRequest{Name: "Ghost"}, 9)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	require.NoError(t, s.svc.Update(adminContext(), dto.UpdateHotelRequest{DestinationID: 2, Rating: ptr(0.0)}, 1))

	got, err := s.svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", got.Destination)
	assert.Zero(t, got.Rating)
	assert.InDelta(t, 300.0, got.BasePrice, 0.001)
}

func TestHotelService_CountryStats(t *testing.T) {
	s := newSuite(t)
	s.fixture.Hotel(1, 1, "Budget Paris", 60, 3.0)
	s.fixture.Hotel(2, 1, "Grand Paris", 300, 4.8)
	s.fixture.Hotel(3, 2, "Kyoto Garden", 150, 4.8)
	s.fixture.Hotel(4, 2, "Kyoto Station", 90, 4.2)

	stats, err := s.svc.CountryStats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats, 1)
	assert.Equal(t, "Japan", stats[0].Country)
	assert.Equal(t, 2, stats[0].TotalHotels)
	assert.InDelta(t, 4.5, stats[0].AverageRating, 0.001)
}

func imageRequest(name, contentType, body string) dto.UploadImageRequest {
	return dto.UploadImageRequest{
		Image: &multipart.FileHeader{
			Filename: name,
			Header:   textproto.MIMEHeader{constant.RequestHeaderContentType: {contentType}},
			Size:     int64(len(body)),
		},
		File: bytes.NewReader([]byte(body)),
	}
}

func TestHotelService_UploadImage(t *testing.T) {
	t.Run("replaces the previous image", func(t *testing.T) {
		s := newSuite(t)
		s.fixture.Hotel(1, 1, "Grand Paris", 300, 4.8)
		s.fixture.Exec("UPDATE hotels SET image = 'https://cdn.travelnest.io/hotels/old.png' WHERE id = 1")

		s.s3.EXPECT().
			Upload(gomock.Any(), "hotels", gomock.Any(), "image/png", gomock.Any(), int64(4)).
			DoAndReturn(func(_ context.Context, dir, name, _ string, _ io.ReadSeeker, _ int64) (string, error) {
				assert.True(t, strings.HasSuffix(name, ".png"))

				return "https://cdn.travelnest.io/" + dir + "/" + name, nil
			})
		s.s3.EXPECT().ObjectKeyFromURL("https://cdn.travelnest.io/hotels/old.png").Return("hotels/old.png")
		s.s3.EXPECT().Delete(gomock.Any(), "hotels/old.png").Return(nil)

		res, err := s.svc.UploadImage(adminContext(), imageRequest("cover.PNG", "image/png", "data"), 1)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.Image, "https://cdn.travelnest.io/hotels/"))

		got, err := s.svc.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, res.Image, got.Image)
	})

	t.Run("storage disabled", func(t *testing.T) {
		s := newSuite(t)
		s.fixture.Hotel(1, 1, "Grand Paris", 300, 4.8)

		s.s3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", s3.ErrStorageDisabled)

		_, err := s.svc.UploadImage(adminContext(), imageRequest("cover.jpg", "image/jpeg", "data"), 1)
		assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
	})

	t.Run("upload failure", func(t *testing.T) {
		s := newSuite(t)
		s.fixture.Hotel(1, 1, "Grand Paris", 300, 4.8)

		s.s3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("bucket unreachable"))

		_, err := s.svc.UploadImage(adminContext(), imageRequest("cover.jpg", "image/jpeg", "data"), 1)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("unknown hotel", func(t *testing.T) {
		s := newSuite(t)

		_, err := s.svc.UploadImage(adminContext(), imageRequest("cover.jpg", "image/jpeg", "data"), 5)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestHotelService_Delete(t *testing.T) {
	s := newSuite(t)
	s.fixture.Hotel(1, 1, "Grand Paris", 300, 4.8)
	s.fixture.Room(10, 1, "suite", 500, 2)

	s.s3.EXPECT().ObjectKeyFromURL("").Return("")

	require.NoError(t, s.svc.Delete(adminContext(), 1))
	assert.Zero(t, s.fixture.Int64("SELECT COUNT(*) FROM rooms"))

	err := s.svc.Delete(adminContext(), 1)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
