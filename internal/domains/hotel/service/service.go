package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"travelnest/config"
	"travelnest/infras/otel"
	"travelnest/infras/s3"
	destinationModel "travelnest/internal/domains/destination/model"
	destinationRepo "travelnest/internal/domains/destination/repository"
	"travelnest/internal/domains/hotel/model"
	"travelnest/internal/domains/hotel/model/dto"
	"travelnest/internal/domains/hotel/repository"
	"travelnest/shared"
	"travelnest/shared/cache"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"
	"travelnest/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetHotel     = constant.CachePrefixHotel + "get"
	cacheGetAllHotel  = constant.CachePrefixHotel + "gets"
	cacheCountHotel   = constant.CachePrefixHotel + "count"
	cacheCountryStats = constant.CachePrefixHotel + "stats:countries"

	// defaultOrder puts the best rated hotels first and the cheaper one of equally rated hotels.
	defaultOrder = "hotels.rating DESC, hotels.base_price"

	imageDirectory = "hotels"

	errMsgNotFound        = "hotel not found"
	errMsgDestination     = "destination not found"
	errMsgStorageDisabled = "image storage is not configured"
)

var sortableColumns = []string{model.FieldName, model.FieldBasePrice, model.FieldRating, constant.FieldCreatedAt}

type Hotel interface {
	Create(ctx context.Context, req dto.CreateHotelRequest) (dto.HotelResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetHotelsResponse, error)
	Get(ctx context.Context, id int64) (dto.HotelResponse, error)
	Update(ctx context.Context, req dto.UpdateHotelRequest, id int64) error
	UploadImage(ctx context.Context, req dto.UploadImageRequest, id int64) (dto.HotelResponse, error)
	Delete(ctx context.Context, id int64) error
	CountryStats(ctx context.Context) ([]dto.CountryStatResponse, error)
}

type serviceImpl struct {
	repo            repository.Hotel
	destinationRepo destinationRepo.Destination
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
	s3              s3.S3
}

func New(repo repository.Hotel, destinationRepo destinationRepo.Destination, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Hotel {
	return &serviceImpl{
		repo:            repo,
		destinationRepo: destinationRepo,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
		s3:              s3,
	}
}

func (s *serviceImpl) ensureDestination(ctx context.Context, id int64) error {
	exist, err := s.destinationRepo.Exist(ctx, shared.FilterByID(id, destinationModel.FieldID, destinationModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if destination exists")

		return fmt.Errorf("failed to check if destination exists: %w", err)
	}

	if !exist {
		return failure.NotFound(errMsgDestination) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHotelRequest) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.ensureDestination(ctx, req.DestinationID); err != nil {
		return res, err
	}

	id, err := s.repo.Insert(ctx, req.ToModel(shared.ActorFromContext(ctx)))
	if err != nil {
		log.Error().Err(err).Msg("failed to create hotel")

		return res, fmt.Errorf("failed to create hotel: %w", err)
	}

	s.invalidate(ctx, 0)

	return s.load(ctx, id)
}

func (s *serviceImpl) load(ctx context.Context, id int64) (res dto.HotelResponse, err error) {
	hotel, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return res, fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.ID == 0 {
		return res, failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	res.FromModel(hotel)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetHotelsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.RestrictSort(defaultOrder, gDto.SortDirAsc, sortableColumns...) {
		req.SortBy = model.TableName + "." + req.SortBy
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllHotel, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotels")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hotels")

		return res, fmt.Errorf("failed to count hotels: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotels")

		return res, fmt.Errorf("failed to get hotels: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetHotel, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotel")

		return res, nil
	}

	res, err = s.load(ctx, id)
	if err != nil {
		return res, err
	}

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateHotelRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateHotelRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if req.DestinationID != 0 {
		if err = s.ensureDestination(ctx, req.DestinationID); err != nil {
			return err
		}
	}

	affected, err := s.repo.Update(ctx, shared.TransformFields(req, shared.ActorFromContext(ctx)), shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update hotel")

		return fmt.Errorf("failed to update hotel: %w", err)
	}

	if affected == 0 {
		return failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	return nil
}

// UploadImage stores a new cover image and replaces the previous one. The new
// object is removed again when the row cannot be updated.
func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadImageRequest, id int64) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.UploadImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	fileName := uuid.NewString() + strings.ToLower(path.Ext(req.Image.Filename))
	contentType := req.Image.Header.Get(constant.RequestHeaderContentType)

	url, err := s.s3.Upload(ctx, imageDirectory, fileName, contentType, req.File, req.Image.Size)
	if errors.Is(err, s3.ErrStorageDisabled) {
		return res, failure.ServiceUnavailable(errMsgStorageDisabled) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Int64("hotel", id).Msg("failed to upload hotel image")

		return res, fmt.Errorf("failed to upload hotel image: %w", err)
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	updated := map[string]any{
		model.FieldImage:         url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.ActorFromContext(ctx),
	}

	if _, err = s.repo.Update(ctx, updated, filter); err != nil {
		log.Error().Err(err).Int64("hotel", id).Msg("failed to save hotel image")

		if delErr := s.s3.Delete(ctx, path.Join(imageDirectory, fileName)); delErr != nil {
			log.Error().Err(delErr).Str("file", fileName).Msg("failed to remove orphaned hotel image")
		}

		return res, fmt.Errorf("failed to save hotel image: %w", err)
	}

	if current.Image != constant.Empty {
		if oldKey := s.s3.ObjectKeyFromURL(current.Image); oldKey != constant.Empty {
			if delErr := s.s3.Delete(ctx, oldKey); delErr != nil {
				log.Error().Err(delErr).Str("key", oldKey).Msg("failed to remove previous hotel image")
			}
		}
	}

	s.invalidate(ctx, id)

	current.Image = url

	return current, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if _, err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete hotel")

		return fmt.Errorf("failed to delete hotel: %w", err)
	}

	if key := s.s3.ObjectKeyFromURL(current.Image); key != constant.Empty {
		if delErr := s.s3.Delete(ctx, key); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("failed to remove hotel image")
		}
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) CountryStats(ctx context.Context) (res []dto.CountryStatResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.CountryStats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err := s.cache.Get(ctx, cacheCountryStats, &res); err == nil {
		return res, nil
	}

	stats, err := s.repo.CountryStats(ctx, model.MinCountryRating)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel country stats")

		return res, fmt.Errorf("failed to get hotel country stats: %w", err)
	}

	res = dto.FromCountryStats(stats)

	shared.SaveCacheAsync(ctx, s.cache, cacheCountryStats, res, s.cfg.Cache.TTL)

	return res, nil
}

// invalidate clears hotel caches and the rooms, reviews, bookings and reports
// that embed hotel names.
func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != 0 {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetHotel, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete hotel from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllHotel, cacheCountHotel, cacheCountryStats,
			constant.CachePrefixRoom, constant.CachePrefixReview, constant.CachePrefixBooking, constant.CachePrefixReport)
	}()
}
