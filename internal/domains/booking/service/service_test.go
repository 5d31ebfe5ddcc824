package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"
	"travelnest/config"
	"travelnest/infras/kafka"
	kafkaMocks "travelnest/infras/kafka/mocks"
	"travelnest/infras/otel/mocks"
	"travelnest/internal/domains/booking/model"
	"travelnest/internal/domains/booking/model/dto"
	"travelnest/internal/domains/booking/repository"
	"travelnest/internal/domains/booking/service"
	paymentRepo "travelnest/internal/domains/payment/repository"
	roomRepo "travelnest/internal/domains/room/repository"
	"travelnest/shared"
	"travelnest/shared/cache"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"
	"travelnest/shared/metrics"
	"travelnest/shared/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	guestID      int64 = 1
	otherGuestID int64 = 2
	adminID      int64 = 3
	topic              = "travelnest.bookings"

	waitFor = 2 * time.Second
)

type suite struct {
	svc     service.Booking
	fixture *testkit.Fixture
	cache   cache.RedisCache
}

type option func(cfg *config.Config)

func withoutRestore(cfg *config.Config) {
	cfg.Booking.CancellationRestoresCapacity = false
}

func newSuite(t *testing.T, client kafka.Client, opts ...option) suite {
	t.Helper()

	cfg := &config.Config{}
	cfg.Booking.CancellationRestoresCapacity = true
	cfg.Kafka.Topic.Booking = topic

	for _, opt := range opts {
		opt(cfg)
	}

	db := testkit.NewDB(t)
	redisCache, _ := testkit.NewCache(t)
	otl := mocks.NewOtel()

	fixture := testkit.NewFixture(t, db)
	fixture.User(guestID, "guest@travelnest.io", constant.RoleUser, "Secret@1")
	fixture.User(otherGuestID, "other@travelnest.io", constant.RoleUser, "Secret@1")
	fixture.User(adminID, "admin@travelnest.io", constant.RoleAdmin, "Secret@1")
	fixture.Destination(1, "Bali", "Indonesia")
	fixture.Hotel(1, 1, "Ubud Retreat", 120, 4.6)

	svc := service.New(
		db,
		repository.New(db, otl),
		roomRepo.New(db, otl),
		paymentRepo.New(db, otl),
		cfg,
		redisCache,
		otl,
		client,
		metrics.New(cfg),
	)

	return suite{svc: svc, fixture: fixture, cache: redisCache}
}

func userContext(id int64, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, "user@travelnest.io")

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func guest() context.Context {
	return userContext(guestID, constant.RoleUser)
}

func admin() context.Context {
	return userContext(adminID, constant.RoleAdmin)
}

func request(roomID int64) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{RoomID: roomID, CheckIn: "2026-07-10", CheckOut: "2026-07-14", Guests: 2}
}

func (s suite) available(roomID int64) int64 {
	return s.fixture.Int64("SELECT available FROM rooms WHERE id = ?", roomID)
}

func (s suite) bookings() int64 {
	return s.fixture.Int64("SELECT COUNT(*) FROM bookings")
}

// bookConcurrently fires attempts booking requests at once and returns how many succeeded.
func bookConcurrently(t *testing.T, svc service.Booking, roomID int64, attempts int) (confirmed int, rejected []error) {
	t.Helper()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		start = make(chan struct{})
	)

	for range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start

			_, err := svc.Book(guest(), request(roomID))

			mu.Lock()
			defer mu.Unlock()

			if err == nil {
				confirmed++

				return
			}

			rejected = append(rejected, err)
		}()
	}

	close(start)
	wg.Wait()

	return confirmed, rejected
}

func TestBook_RoundTrip(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(3, 1, "double", 150, 2)

	res, err := s.svc.Book(guest(), request(3))
	require.NoError(t, err)

	assert.Equal(t, "Room successfully booked! Check-in: 2026-07-10 | Check-out: 2026-07-14", res.Message)
	assert.Positive(t, res.Booking.ID)
	assert.Equal(t, model.StatusConfirmed, res.Booking.Status)
	assert.Equal(t, 4, res.Booking.Nights)
	assert.Equal(t, int64(1), s.available(3))

	stored, err := s.svc.Get(guest(), res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-07-10", stored.CheckIn)
	assert.Equal(t, "2026-07-14", stored.CheckOut)
	assert.Equal(t, 2, stored.Guests)
	assert.Equal(t, model.StatusConfirmed, stored.Status)
	assert.Equal(t, guestID, stored.UserID)
	assert.Equal(t, "Ubud Retreat", stored.HotelName)
	assert.Equal(t, "Bali", stored.Destination)
	assert.Equal(t, model.PaymentStatusNone, stored.PaymentStatus)

	_, err = s.svc.Get(userContext(otherGuestID, constant.RoleUser), res.Booking.ID)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err), "other guests must not see the booking")

	_, err = s.svc.Get(admin(), res.Booking.ID)
	assert.NoError(t, err)
}

func TestBook_InvalidRoom(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())

	_, err := s.svc.Book(guest(), request(99))

	require.ErrorIs(t, err, service.ErrInvalidRoom)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	assert.EqualError(t, err, "Invalid Room Selected")
	assert.Zero(t, s.bookings())
}

func TestBook_NoUnitLeft(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(5, 1, "suite", 650, 0)

	_, err := s.svc.Book(guest(), request(5))

	require.ErrorIs(t, err, service.ErrRoomUnavailable)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.EqualError(t, err, "Sorry, this room is no longer available.")
	assert.Zero(t, s.bookings())
	assert.Zero(t, s.available(5))
}

func TestBook_Validation(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(3, 1, "double", 150, 2)

	tests := []struct {
		name string
		ctx  context.Context
		req  dto.CreateBookingRequest
		code int
	}{
		{
			name: "anonymous caller",
			ctx:  context.Background(),
			req:  request(3),
			code: http.StatusUnauthorized,
		},
		{
			name: "check-out before check-in",
			ctx:  guest(),
			req:  dto.CreateBookingRequest{RoomID: 3, CheckIn: "2026-07-14", CheckOut: "2026-07-10", Guests: 1},
			code: http.StatusBadRequest,
		},
		{
			name: "zero nights",
			ctx:  guest(),
			req:  dto.CreateBookingRequest{RoomID: 3, CheckIn: "2026-07-14", CheckOut: "2026-07-14", Guests: 1},
			code: http.StatusBadRequest,
		},
		{
			name: "malformed date",
			ctx:  guest(),
			req:  dto.CreateBookingRequest{RoomID: 3, CheckIn: "14/07/2026", CheckOut: "2026-07-20", Guests: 1},
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.svc.Book(tt.ctx, tt.req)
			assert.Equal(t, tt.code, failure.GetCode(err))
		})
	}

	assert.Zero(t, s.bookings())
	assert.Equal(t, int64(2), s.available(3))
}

func TestBook_ExhaustsCapacityInOrder(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(3, 1, "double", 150, 3)

	for range 3 {
		_, err := s.svc.Book(guest(), request(3))
		require.NoError(t, err)
	}

	assert.Zero(t, s.available(3))
	assert.Equal(t, int64(3), s.bookings())

	_, err := s.svc.Book(guest(), request(3))
	require.ErrorIs(t, err, service.ErrRoomUnavailable)
	assert.Zero(t, s.available(3))
	assert.Equal(t, int64(3), s.bookings())
}

func TestBook_LastUnitGoesToOneOfTwo(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(7, 1, "single", 80, 1)

	confirmed, rejected := bookConcurrently(t, s.svc, 7, 2)

	assert.Equal(t, 1, confirmed)
	require.Len(t, rejected, 1)
	require.ErrorIs(t, rejected[0], service.ErrRoomUnavailable)
	assert.Equal(t, int64(1), s.bookings())
	assert.Zero(t, s.available(7))
}

func TestBook_OversubscribedRoom(t *testing.T) {
	const units, extra = 5, 4

	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(3, 1, "double", 150, units)

	confirmed, rejected := bookConcurrently(t, s.svc, 3, units+extra)

	assert.Equal(t, units, confirmed)
	require.Len(t, rejected, extra)

	for _, err := range rejected {
		assert.True(t, errors.Is(err, service.ErrRoomUnavailable), "unexpected rejection: %v", err)
	}

	assert.Zero(t, s.available(3))
	assert.Equal(t, int64(units), s.bookings())
	assert.Zero(t, s.fixture.Int64("SELECT COUNT(*) FROM rooms WHERE available < 0"))
}

func TestUpdateStatus_CancellationRestoresCapacity(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(7, 1, "single", 80, 1)

	first, err := s.svc.Book(guest(), request(7))
	require.NoError(t, err)
	assert.Zero(t, s.available(7))

	require.NoError(t, s.svc.UpdateStatus(admin(), dto.UpdateStatusRequest{Status: model.StatusCancelled}, first.Booking.ID))
	assert.Equal(t, int64(1), s.available(7))

	require.NoError(t, s.svc.UpdateStatus(admin(), dto.UpdateStatusRequest{Status: model.StatusCancelled}, first.Booking.ID))
	assert.Equal(t, int64(1), s.available(7), "repeating a status must not restore twice")

	_, err = s.svc.Book(userContext(otherGuestID, constant.RoleUser), request(7))
	require.NoError(t, err)
	assert.Zero(t, s.available(7))

	err = s.svc.UpdateStatus(admin(), dto.UpdateStatusRequest{Status: model.StatusConfirmed}, first.Booking.ID)
	require.ErrorIs(t, err, service.ErrRoomUnavailable)
	assert.Equal(t, model.StatusCancelled, statusOf(t, s, first.Booking.ID))
	assert.Zero(t, s.available(7))

	s.fixture.Exec("UPDATE rooms SET available = 1 WHERE id = 7")

	require.NoError(t, s.svc.UpdateStatus(admin(), dto.UpdateStatusRequest{Status: model.StatusPending}, first.Booking.ID))
	assert.Equal(t, model.StatusPending, statusOf(t, s, first.Booking.ID))
	assert.Zero(t, s.available(7))
}

func TestUpdateStatus_CapacityUntouchedWhenPolicyDisabled(t *testing.T) {
	s := newSuite(t, kafka.NewNoop(), withoutRestore)
	s.fixture.Room(7, 1, "single", 80, 1)

	res, err := s.svc.Book(guest(), request(7))
	require.NoError(t, err)

	require.NoError(t, s.svc.UpdateStatus(admin(), dto.UpdateStatusRequest{Status: model.StatusCancelled}, res.Booking.ID))
	assert.Zero(t, s.available(7))

	require.NoError(t, s.svc.UpdateStatus(admin(), dto.UpdateStatusRequest{Status: model.StatusConfirmed}, res.Booking.ID))
	assert.Zero(t, s.available(7))
	assert.Equal(t, model.StatusConfirmed, statusOf(t, s, res.Booking.ID))
}

func TestUpdateStatus_UnknownBooking(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())

	err := s.svc.UpdateStatus(admin(), dto.UpdateStatusRequest{Status: model.StatusCancelled}, 404)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func statusOf(t *testing.T, s suite, id int64) string {
	t.Helper()

	res, err := s.svc.Get(admin(), id)
	require.NoError(t, err)

	return res.Status
}

func TestUpdatePayment(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(3, 1, "double", 150, 5)
	s.fixture.Booking(10, guestID, 3, model.StatusConfirmed)
	s.fixture.Booking(11, otherGuestID, 3, model.StatusConfirmed)
	s.fixture.Booking(12, otherGuestID, 3, model.StatusPending)
	s.fixture.Payment(12, 450, "paid_online")

	err := s.svc.UpdatePayment(admin(), dto.UpdatePaymentRequest{PaymentStatus: "will_pay"}, 404)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	require.NoError(t, s.svc.UpdatePayment(admin(), dto.UpdatePaymentRequest{PaymentStatus: "will_pay"}, 10))
	assert.Equal(t, int64(1), s.fixture.Int64("SELECT COUNT(*) FROM payments WHERE booking_id = 10 AND method = 'N/A' AND amount = 0 AND payment_status = 'will_pay'"))

	unpaid, err := s.svc.GetAll(admin(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListParams{Unpaid: true})
	require.NoError(t, err)
	require.Len(t, unpaid.Bookings, 2)

	ids := []int64{unpaid.Bookings[0].ID, unpaid.Bookings[1].ID}
	assert.ElementsMatch(t, []int64{10, 11}, ids)

	require.NoError(t, s.svc.UpdatePayment(admin(), dto.UpdatePaymentRequest{PaymentStatus: "paid_online"}, 10))
	assert.Equal(t, int64(1), s.fixture.Int64("SELECT COUNT(*) FROM payments WHERE booking_id = 10"))

	detail, err := s.svc.Get(admin(), 10)
	require.NoError(t, err)
	assert.Equal(t, "paid_online", detail.PaymentStatus)

	unpaid, err = s.svc.GetAll(admin(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListParams{Unpaid: true})
	require.NoError(t, err)
	require.Len(t, unpaid.Bookings, 1)
	assert.Equal(t, int64(11), unpaid.Bookings[0].ID)
}

func TestDelete_KeepsAvailability(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(3, 1, "double", 150, 1)

	res, err := s.svc.Book(guest(), request(3))
	require.NoError(t, err)
	require.NoError(t, s.svc.UpdatePayment(admin(), dto.UpdatePaymentRequest{PaymentStatus: "will_pay"}, res.Booking.ID))

	require.NoError(t, s.svc.Delete(admin(), res.Booking.ID))
	assert.Zero(t, s.bookings())
	assert.Zero(t, s.fixture.Int64("SELECT COUNT(*) FROM payments"))
	assert.Zero(t, s.available(3))

	err = s.svc.Delete(admin(), res.Booking.ID)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestMyBookings(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(3, 1, "double", 150, 5)
	s.fixture.Booking(10, guestID, 3, model.StatusConfirmed)
	s.fixture.Booking(11, guestID, 3, model.StatusCancelled)
	s.fixture.Booking(12, guestID, 3, model.StatusConfirmed)
	s.fixture.Booking(13, otherGuestID, 3, model.StatusPending)

	res, err := s.svc.MyBookings(guest(), gDto.QueryParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Bookings, 3)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, map[string]int{"pending": 0, "confirmed": 2, "cancelled": 1}, res.Summary)

	for _, booking := range res.Bookings {
		assert.Equal(t, guestID, booking.UserID)
	}

	assert.Equal(t, int64(12), res.Bookings[0].ID, "newest first")

	_, err = s.svc.MyBookings(context.Background(), gDto.QueryParams{Page: 1, Limit: 10})
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestBook_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	sent := make(chan model.Event, 1)
	client.EXPECT().
		SendMessages(gomock.Any(), topic, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			event, _ := messages[0].Value.(model.Event)
			sent <- event

			return nil
		})

	s := newSuite(t, client)
	s.fixture.Room(3, 1, "double", 150, 1)

	res, err := s.svc.Book(guest(), request(3))
	require.NoError(t, err)

	select {
	case event := <-sent:
		assert.Equal(t, model.EventBookingCreated, event.Type)
		assert.Equal(t, res.Booking.ID, event.BookingID)
		assert.Equal(t, guestID, event.UserID)
		assert.Equal(t, "2026-07-10", event.CheckIn)
	case <-time.After(waitFor):
		t.Fatal("booking event was not published")
	}
}

func TestBook_DropsCachedRoomBeforeReturning(t *testing.T) {
	s := newSuite(t, kafka.NewNoop())
	s.fixture.Room(3, 1, "double", 150, 2)

	roomKey := shared.BuildCacheKey(constant.CacheKeyRoom, 3)
	require.NoError(t, s.cache.Save(context.Background(), roomKey, map[string]int{"available": 2}, 60))

	res, err := s.svc.Book(guest(), request(3))
	require.NoError(t, err)

	var cached map[string]int
	assert.ErrorIs(t, s.cache.Get(context.Background(), roomKey, &cached), cache.Nil)

	require.NoError(t, s.cache.Save(context.Background(), roomKey, map[string]int{"available": 1}, 60))
	require.NoError(t, s.svc.UpdateStatus(admin(), dto.UpdateStatusRequest{Status: model.StatusCancelled}, res.Booking.ID))

	assert.ErrorIs(t, s.cache.Get(context.Background(), roomKey, &cached), cache.Nil)
	assert.Equal(t, int64(2), s.available(3))
}
