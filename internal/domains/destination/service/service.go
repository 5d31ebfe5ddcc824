package service

import (
	"context"
	"fmt"
	"travelnest/config"
	"travelnest/infras/otel"
	"travelnest/internal/domains/destination/model"
	"travelnest/internal/domains/destination/model/dto"
	"travelnest/internal/domains/destination/repository"
	"travelnest/shared"
	"travelnest/shared/cache"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetDestination    = constant.CachePrefixDestination + "get"
	cacheGetAllDestination = constant.CachePrefixDestination + "gets"
	cacheCountDestination  = constant.CachePrefixDestination + "count"

	// defaultOrder lists destinations grouped by country, then alphabetically.
	defaultOrder = "destinations.country ASC, destinations.name"
)

var sortableColumns = []string{model.FieldName, model.FieldCountry, constant.FieldCreatedAt}

type Destination interface {
	Create(ctx context.Context, req dto.CreateDestinationRequest) (dto.DestinationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetDestinationsResponse, error)
	Get(ctx context.Context, id int64) (dto.DestinationResponse, error)
	Update(ctx context.Context, req dto.UpdateDestinationRequest, id int64) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo  repository.Destination
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Destination, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Destination {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateDestinationRequest) (res dto.DestinationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".destination.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	destination := req.ToModel(shared.ActorFromContext(ctx))

	destination.ID, err = s.repo.Insert(ctx, destination)
	if err != nil {
		log.Error().Err(err).Msg("failed to create destination")

		return res, fmt.Errorf("failed to create destination: %w", err)
	}

	s.invalidate(ctx, 0)

	res.FromModel(destination)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetDestinationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".destination.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.RestrictSort(defaultOrder, gDto.SortDirAsc, sortableColumns...) {
		req.SortBy = model.TableName + "." + req.SortBy
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllDestination, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for destinations")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get destinations")

		return res, fmt.Errorf("failed to get destinations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountDestination, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count destinations")

		return res, fmt.Errorf("failed to count destinations: %w", err)
	}

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.DestinationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".destination.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetDestination, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for destination")

		return res, nil
	}

	destination, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get destination")

		return res, fmt.Errorf("failed to get destination: %w", err)
	}

	if destination.ID == 0 {
		return res, failure.NotFound("destination not found") // nolint:wrapcheck
	}

	res.FromModel(destination)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateDestinationRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".destination.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateDestinationRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	affected, err := s.repo.Update(ctx, shared.TransformFields(req, shared.ActorFromContext(ctx)), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to update destination")

		return fmt.Errorf("failed to update destination: %w", err)
	}

	if affected == 0 {
		return failure.NotFound("destination not found") // nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".destination.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	affected, err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to delete destination")

		return fmt.Errorf("failed to delete destination: %w", err)
	}

	if affected == 0 {
		return failure.NotFound("destination not found") // nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	return nil
}

// invalidate clears destination caches and everything that embeds destination
// data. Hotels carry the destination name and country; deletes cascade further.
func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != 0 {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetDestination, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete destination from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllDestination, cacheCountDestination,
			constant.CachePrefixHotel, constant.CachePrefixRoom, constant.CachePrefixReview,
			constant.CachePrefixBooking, constant.CachePrefixReport)
	}()
}
