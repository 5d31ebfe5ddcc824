package service

import (
	"context"
	"fmt"
	"travelnest/config"
	"travelnest/infras/otel"
	hotelModel "travelnest/internal/domains/hotel/model"
	hotelRepo "travelnest/internal/domains/hotel/repository"
	"travelnest/internal/domains/review/model"
	"travelnest/internal/domains/review/model/dto"
	"travelnest/internal/domains/review/repository"
	"travelnest/shared"
	"travelnest/shared/cache"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllReview = constant.CachePrefixReview + "gets"
	cacheTopHotels    = constant.CachePrefixReview + "top"

	defaultOrder = "reviews.created_at DESC, reviews.id"

	errMsgHotelNotFound = "hotel not found"
)

var sortableColumns = []string{model.FieldRating, constant.FieldCreatedAt}

type Review interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, params dto.ListParams) (dto.GetReviewsResponse, error)
	TopHotels(ctx context.Context) (dto.TopHotelsResponse, error)
}

type serviceImpl struct {
	repo      repository.Review
	hotelRepo hotelRepo.Hotel
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Review, hotelRepo hotelRepo.Hotel, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Review {
	return &serviceImpl{
		repo:      repo,
		hotelRepo: hotelRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Create records a review by the caller for an existing hotel.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID := shared.UserIDFromContext(ctx)
	if userID == 0 {
		return res, failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	exist, err := s.hotelRepo.Exist(ctx, shared.FilterByID(req.HotelID, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if hotel exists")

		return res, fmt.Errorf("failed to check if hotel exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound(errMsgHotelNotFound) // nolint:wrapcheck
	}

	id, err := s.repo.Insert(ctx, req.ToModel(userID, shared.ActorFromContext(ctx)))
	if err != nil {
		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	s.invalidate(ctx)

	review, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("review", id).Msg("failed to get review")

		return res, fmt.Errorf("failed to get review: %w", err)
	}

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, params dto.ListParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.RestrictSort(defaultOrder, gDto.SortDirDesc, sortableColumns...) {
		req.SortBy = model.TableName + "." + req.SortBy
	}

	filter := params.Filter()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReview, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

// TopHotels lists hotels whose reviews average at least model.MinTopRating.
func (s *serviceImpl) TopHotels(ctx context.Context) (res dto.TopHotelsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.TopHotels")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err := s.cache.Get(ctx, cacheTopHotels, &res); err == nil {
		return res, nil
	}

	ratings, err := s.repo.TopHotels(ctx, model.MinTopRating)
	if err != nil {
		log.Error().Err(err).Msg("failed to get top rated hotels")

		return res, fmt.Errorf("failed to get top rated hotels: %w", err)
	}

	res.FromModels(ratings)

	shared.SaveCacheAsync(ctx, s.cache, cacheTopHotels, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, constant.CachePrefixReview, constant.CachePrefixReport)
	}()
}
