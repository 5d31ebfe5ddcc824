package service

import (
	"context"
	"fmt"
	"travelnest/config"
	"travelnest/infras/otel"
	"travelnest/infras/postgres"
	hotelModel "travelnest/internal/domains/hotel/model"
	hotelRepo "travelnest/internal/domains/hotel/repository"
	"travelnest/internal/domains/room/model"
	"travelnest/internal/domains/room/model/dto"
	"travelnest/internal/domains/room/repository"
	"travelnest/shared"
	"travelnest/shared/cache"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom       = constant.CacheKeyRoom
	cacheGetAllRoom    = constant.CachePrefixRoom + "gets"
	cacheDiscountsRoom = constant.CachePrefixRoom + "discounts"

	errMsgNotFound      = "room not found"
	errMsgHotelNotFound = "hotel not found"

	errMsgStaleAvailable = "room availability changed since it was read"
)

var sortableColumns = []string{model.FieldPrice, model.FieldRoomType, model.FieldAvailable, constant.FieldCreatedAt}

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	GetByHotel(ctx context.Context, hotelID int64, req gDto.QueryParams) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, id int64) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id int64) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo      repository.Room
	hotelRepo hotelRepo.Hotel
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Room, hotelRepo hotelRepo.Hotel, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:      repo,
		hotelRepo: hotelRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) ensureHotel(ctx context.Context, id int64) error {
	exist, err := s.hotelRepo.Exist(ctx, shared.FilterByID(id, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if hotel exists")

		return fmt.Errorf("failed to check if hotel exists: %w", err)
	}

	if !exist {
		return failure.NotFound(errMsgHotelNotFound) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) discounts(ctx context.Context) ([]model.Discount, error) {
	var discounts []model.Discount

	if err := s.cache.Get(ctx, cacheDiscountsRoom, &discounts); err == nil {
		return discounts, nil
	}

	discounts, err := s.repo.Discounts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get discounts")

		return nil, fmt.Errorf("failed to get discounts: %w", err)
	}

	shared.SaveCacheAsync(ctx, s.cache, cacheDiscountsRoom, discounts, s.cfg.Cache.TTL)

	return discounts, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.ensureHotel(ctx, req.HotelID); err != nil {
		return res, err
	}

	id, err := s.repo.Insert(ctx, req.ToModel(shared.ActorFromContext(ctx)))
	if err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx, 0)

	return s.load(ctx, id)
}

func (s *serviceImpl) load(ctx context.Context, id int64) (res dto.RoomResponse, err error) {
	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return res, failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	discounts, err := s.discounts(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(room)
	res.ApplyDiscount(discounts)

	return res, nil
}

// GetAll lists rooms cheapest first, each priced with its discount.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(model.FieldPrice, gDto.SortDirAsc, sortableColumns...)
	req.SortBy = model.TableName + "." + req.SortBy

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	discounts, err := s.discounts(ctx)
	if err != nil {
		return res, err
	}

	res.FromModels(models, discounts, total, req.Limit)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) GetByHotel(ctx context.Context, hotelID int64, req gDto.QueryParams) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetByHotel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.ensureHotel(ctx, hotelID); err != nil {
		return res, err
	}

	return s.GetAll(ctx, req, dto.ListParams{HotelID: hotelID}.Filter())
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	res, err = s.load(ctx, id)
	if err != nil {
		return res, err
	}

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if isGuardOnly(req) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	affected, err := s.repo.Update(ctx, shared.TransformFields(req, shared.ActorFromContext(ctx)), req.Filter(id))
	if postgres.IsCheckViolation(err) {
		return failure.BadRequestFromString("available must not be negative") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	if affected == 0 {
		return s.missedUpdate(ctx, req, id)
	}

	s.invalidate(ctx, id)

	return nil
}

// isGuardOnly reports whether req changes no column.
func isGuardOnly(req dto.UpdateRoomRequest) bool {
	req.ExpectedAvailable = nil

	return req == (dto.UpdateRoomRequest{})
}

// missedUpdate tells a missing room apart from a stale expected_available.
func (s *serviceImpl) missedUpdate(ctx context.Context, req dto.UpdateRoomRequest, id int64) error {
	if req.ExpectedAvailable == nil {
		return failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	return failure.Conflict(errMsgStaleAvailable) // nolint:wrapcheck
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	affected, err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	if affected == 0 {
		return failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	return nil
}

// invalidate clears room caches and the bookings and reports that embed rooms.
func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != 0 {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete room from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom, constant.CachePrefixBooking, constant.CachePrefixReport)
	}()
}
