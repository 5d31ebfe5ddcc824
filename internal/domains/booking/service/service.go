package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"travelnest/config"
	"travelnest/infras/kafka"
	"travelnest/infras/otel"
	"travelnest/infras/postgres"
	"travelnest/internal/domains/booking/model"
	"travelnest/internal/domains/booking/model/dto"
	"travelnest/internal/domains/booking/repository"
	paymentModel "travelnest/internal/domains/payment/model"
	paymentRepo "travelnest/internal/domains/payment/repository"
	roomModel "travelnest/internal/domains/room/model"
	roomRepo "travelnest/internal/domains/room/repository"
	"travelnest/shared"
	"travelnest/shared/cache"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"
	"travelnest/shared/metrics"
	gModel "travelnest/shared/model"
	"travelnest/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = constant.CachePrefixBooking + "get"
	cacheGetAllBooking = constant.CachePrefixBooking + "gets"
	cacheMineBooking   = constant.CachePrefixBooking + "mine"

	// defaultOrder lists the newest bookings first.
	defaultOrder = "bookings.created_at DESC, bookings.id"

	errMsgNotFound     = "booking not found"
	errMsgUnauthorized = "authentication required"
	errMsgStaleStatus  = "booking status changed concurrently, reload and retry"
	errMsgPaymentRace  = "payment was created concurrently, retry"
)

var (
	// ErrInvalidRoom is returned when the requested room does not exist.
	ErrInvalidRoom = failure.NotFound("Invalid Room Selected")
	// ErrRoomUnavailable is returned when the room has no unit left to claim.
	ErrRoomUnavailable = failure.Conflict("Sorry, this room is no longer available.")
)

var sortableColumns = []string{model.FieldCheckIn, model.FieldStatus, constant.FieldCreatedAt}

type Booking interface {
	Book(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Get(ctx context.Context, id int64) (dto.BookingDetailResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, params dto.ListParams) (dto.GetBookingsResponse, error)
	MyBookings(ctx context.Context, req gDto.QueryParams) (dto.MyBookingsResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id int64) error
	UpdatePayment(ctx context.Context, req dto.UpdatePaymentRequest, id int64) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	db          *postgres.Connection
	repo        repository.Booking
	roomRepo    roomRepo.Room
	paymentRepo paymentRepo.Payment
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	kafka       kafka.Client
	metrics     *metrics.Metrics
}

func New(
	db *postgres.Connection,
	repo repository.Booking,
	roomRepo roomRepo.Room,
	paymentRepo paymentRepo.Payment,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
	metrics *metrics.Metrics,
) Booking {
	return &serviceImpl{
		db:          db,
		repo:        repo,
		roomRepo:    roomRepo,
		paymentRepo: paymentRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		kafka:       kafka,
		metrics:     metrics,
	}
}

// Book claims one unit of the room and records a confirmed booking in the
// same transaction. Either both writes commit or neither does.
func (s *serviceImpl) Book(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Book")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID := shared.UserIDFromContext(ctx)
	if userID == 0 {
		return res, failure.Unauthorized(errMsgUnauthorized) // nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)

	booking, err := req.ToModel(userID, actor)
	if err != nil {
		return res, err
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		claimed, err := s.roomRepo.DecrementAvailabilityTx(ctx, tx, req.RoomID, actor)
		if err != nil {
			return fmt.Errorf("failed to claim room: %w", err)
		}

		if !claimed {
			exist, err := s.roomRepo.ExistTx(ctx, tx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
			if err != nil {
				return fmt.Errorf("failed to check if room exists: %w", err)
			}

			if !exist {
				return ErrInvalidRoom
			}

			return ErrRoomUnavailable
		}

		booking.ID, err = s.repo.InsertTx(ctx, tx, booking)
		if err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return nil
	})

	switch {
	case errors.Is(err, ErrInvalidRoom):
		s.metrics.IncBooking(metrics.BookingOutcomeInvalidRoom)

		return res, err
	case errors.Is(err, ErrRoomUnavailable):
		s.metrics.IncBooking(metrics.BookingOutcomeUnavailable)

		return res, err
	case err != nil:
		s.metrics.IncBooking(metrics.BookingOutcomeError)
		log.Error().Err(err).Int64("room", req.RoomID).Msg("failed to book room")

		return res, fmt.Errorf("failed to book room: %w", err)
	}

	s.metrics.IncBooking(metrics.BookingOutcomeConfirmed)
	log.Info().Int64("booking", booking.ID).Int64("room", booking.RoomID).Int64("user", userID).Msg("room booked")

	s.invalidate(ctx, 0, booking.RoomID)
	s.publish(ctx, s.newEvent(model.EventBookingCreated, booking, "", actor))

	return dto.NewCreateBookingResponse(booking), nil
}

// Get returns a booking to an administrator or to the guest who made it.
func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err != nil {
		detail, err := s.repo.Detail(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return res, fmt.Errorf("failed to get booking: %w", err)
		}

		if detail.ID == 0 {
			return res, failure.NotFound(errMsgNotFound) // nolint:wrapcheck
		}

		res.FromModel(detail)

		shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)
	}

	if shared.RoleFromContext(ctx) != constant.RoleAdmin && res.UserID != shared.UserIDFromContext(ctx) {
		return dto.BookingDetailResponse{}, failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) list(ctx context.Context, cachePrefix string, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	if req.RestrictSort(defaultOrder, gDto.SortDirDesc, sortableColumns...) {
		req.SortBy = model.TableName + "." + req.SortBy
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cachePrefix, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.CountDetails(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.Details(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, params dto.ListParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, cacheGetAllBooking, req, params.Filter())
}

func (s *serviceImpl) MyBookings(ctx context.Context, req gDto.QueryParams) (res dto.MyBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.MyBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID := shared.UserIDFromContext(ctx)
	if userID == 0 {
		return res, failure.Unauthorized(errMsgUnauthorized) // nolint:wrapcheck
	}

	res.GetBookingsResponse, err = s.list(ctx, cacheMineBooking, req, dto.ListParams{UserID: userID}.Filter())
	if err != nil {
		return res, err
	}

	counts, err := s.repo.StatusSummary(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user", userID).Msg("failed to summarise bookings")

		return res, fmt.Errorf("failed to summarise bookings: %w", err)
	}

	res.SetSummary(counts)

	return res, nil
}

// UpdateStatus moves a booking to a new status. With the cancellation policy
// enabled, cancelling gives the unit back to the room and leaving the cancelled
// status claims it again, in the same transaction as the status change.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := shared.ActorFromContext(ctx)

	var current model.Booking

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		current = booking

		if current.ID == 0 {
			return failure.NotFound(errMsgNotFound) // nolint:wrapcheck
		}

		if current.Status == req.Status {
			return nil
		}

		if err = s.applyCancellationPolicy(ctx, tx, current, req.Status, actor); err != nil {
			return err
		}

		affected, err := s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        req.Status,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: actor,
		}, statusGuard(id, current.Status))
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		if affected == 0 {
			return failure.Conflict(errMsgStaleStatus) // nolint:wrapcheck
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) == http.StatusInternalServerError {
			log.Error().Err(err).Int64("booking", id).Msg("failed to update booking status")
		}

		return err
	}

	if current.Status == req.Status {
		return nil
	}

	s.metrics.IncStatusChange(req.Status)

	s.invalidate(ctx, id, current.RoomID)

	previous := current.Status
	current.Status = req.Status
	s.publish(ctx, s.newEvent(model.EventBookingStatusChanged, current, previous, actor))

	return nil
}

func (s *serviceImpl) applyCancellationPolicy(ctx context.Context, tx *sqlx.Tx, current model.Booking, next, actor string) error {
	if !s.cfg.Booking.CancellationRestoresCapacity {
		return nil
	}

	switch {
	case next == model.StatusCancelled:
		if _, err := s.roomRepo.IncrementAvailabilityTx(ctx, tx, current.RoomID, actor); err != nil {
			return fmt.Errorf("failed to restore room availability: %w", err)
		}
	case current.Status == model.StatusCancelled:
		claimed, err := s.roomRepo.DecrementAvailabilityTx(ctx, tx, current.RoomID, actor)
		if err != nil {
			return fmt.Errorf("failed to claim room: %w", err)
		}

		if !claimed {
			return ErrRoomUnavailable
		}
	}

	return nil
}

// statusGuard matches the booking only while it still has the status read
// earlier in the transaction.
func statusGuard(id int64, status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id, Table: model.TableName},
			gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: status, Table: model.TableName},
		},
	}
}

// UpdatePayment sets the payment status of a booking, creating the payment
// row on first use.
func (s *serviceImpl) UpdatePayment(ctx context.Context, req dto.UpdatePaymentRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdatePayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := shared.ActorFromContext(ctx)
	paymentFilter := shared.FilterByID(id, paymentModel.FieldBookingID, paymentModel.TableName)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		exist, err := s.repo.ExistTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to check if booking exists: %w", err)
		}

		if !exist {
			return failure.NotFound(errMsgNotFound) // nolint:wrapcheck
		}

		payment, err := s.paymentRepo.GetTx(ctx, tx, paymentFilter)
		if err != nil {
			return fmt.Errorf("failed to get payment: %w", err)
		}

		if payment.ID == 0 {
			_, err = s.paymentRepo.InsertTx(ctx, tx, paymentModel.Payment{
				BookingID:     id,
				Amount:        0,
				Method:        paymentModel.MethodUnknown,
				PaymentStatus: req.PaymentStatus,
				Metadata:      gModel.NewMetadata(actor, timezone.Now()),
			})
			if postgres.IsUniqueViolation(err) {
				return failure.Conflict(errMsgPaymentRace) // nolint:wrapcheck
			}

			if err != nil {
				return fmt.Errorf("failed to create payment: %w", err)
			}

			return nil
		}

		if _, err = s.paymentRepo.UpdateTx(ctx, tx, map[string]any{
			paymentModel.FieldPaymentStatus: req.PaymentStatus,
			constant.FieldModifiedAt:        timezone.Now(),
			constant.FieldModifiedBy:        actor,
		}, paymentFilter); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) == http.StatusInternalServerError {
			log.Error().Err(err).Int64("booking", id).Msg("failed to update payment status")
		}

		return err
	}

	s.invalidate(ctx, id, 0)

	return nil
}

// Delete removes a booking and its payment. Room availability is left as is.
func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.paymentRepo.DeleteTx(ctx, tx, shared.FilterByID(id, paymentModel.FieldBookingID, paymentModel.TableName)); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}

		affected, err := s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}

		if affected == 0 {
			return failure.NotFound(errMsgNotFound) // nolint:wrapcheck
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) == http.StatusInternalServerError {
			log.Error().Err(err).Int64("booking", id).Msg("failed to delete booking")
		}

		return err
	}

	s.invalidate(ctx, id, 0)

	return nil
}

func (s *serviceImpl) newEvent(eventType string, booking model.Booking, previous, actor string) model.Event {
	return model.Event{
		Type:           eventType,
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		RoomID:         booking.RoomID,
		Status:         booking.Status,
		PreviousStatus: previous,
		CheckIn:        timezone.FormatDate(booking.CheckIn),
		CheckOut:       timezone.FormatDate(booking.CheckOut),
		Guests:         booking.Guests,
		Actor:          actor,
		OccurredAt:     timezone.Now(),
	}
}

// publish sends the event after the response is decided. Failures are logged only.
func (s *serviceImpl) publish(ctx context.Context, event model.Event) {
	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{Key: strconv.FormatInt(event.BookingID, 10), Value: event}
		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.Booking, message); err != nil {
			log.Error().Err(err).Str("event", event.Type).Int64("booking", event.BookingID).Msg("failed to publish booking event")
		}
	}()
}

// invalidate clears booking caches and the room availability and reports they
// feed. The room entry is dropped before returning so the caller reads its own
// write; the prefix sweep runs in the background.
func (s *serviceImpl) invalidate(ctx context.Context, id, roomID int64) {
	if roomID != 0 {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(constant.CacheKeyRoom, roomID)); err != nil {
			log.Error().Err(err).Int64("room", roomID).Msg("failed to delete room from cache")
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if id != 0 {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking, cacheMineBooking, constant.CachePrefixRoom, constant.CachePrefixReport)
	}()
}
