package service

import (
	"context"
	"fmt"
	"strings"
	"travelnest/config"
	"travelnest/infras/otel"
	"travelnest/internal/domains/report/model"
	"travelnest/internal/domains/report/model/dto"
	"travelnest/internal/domains/report/repository"
	"travelnest/shared"
	"travelnest/shared/cache"
	"travelnest/shared/constant"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	cacheDashboard = constant.CachePrefixReport + "dashboard"
	cacheSummary   = constant.CachePrefixReport + "summary"
)

type Report interface {
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
	Summary(ctx context.Context, countries []string) (dto.SummaryResponse, error)
}

type serviceImpl struct {
	repo  repository.Report
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Report, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Report {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Dashboard runs the headline aggregates concurrently.
func (s *serviceImpl) Dashboard(ctx context.Context) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Dashboard")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err := s.cache.Get(ctx, cacheDashboard, &res); err == nil {
		return res, nil
	}

	var (
		counts       model.Counts
		payments     model.PaymentSummary
		destinations []model.DestinationRating
		hotels       []model.HotelBookings
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		counts, err = s.repo.Counts(gctx)

		return err
	})
	g.Go(func() (err error) {
		payments, err = s.repo.PaymentSummary(gctx)

		return err
	})
	g.Go(func() (err error) {
		destinations, err = s.repo.TopDestinations(gctx, model.TopLimit)

		return err
	})
	g.Go(func() (err error) {
		hotels, err = s.repo.MostBookedHotels(gctx, model.TopLimit)

		return err
	})

	if err = g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to build dashboard")

		return res, fmt.Errorf("failed to build dashboard: %w", err)
	}

	res.FromModels(counts, payments, destinations, hotels)

	shared.SaveCacheAsync(ctx, s.cache, cacheDashboard, res, s.cfg.Cache.TTL)

	return res, nil
}

// Summary reports hotels rated above average, per destination statistics and
// the hotels located in countries.
func (s *serviceImpl) Summary(ctx context.Context, countries []string) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Summary")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(countries) == 0 {
		countries = model.DefaultCountries
	}

	cacheKey := shared.BuildCacheKey(cacheSummary, strings.ToLower(strings.Join(countries, ",")))

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	aboveAverage, err := s.repo.AboveAverageHotels(ctx, model.TopLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotels above average rating")

		return res, fmt.Errorf("failed to get hotels above average rating: %w", err)
	}

	stats, err := s.repo.DestinationStats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get destination statistics")

		return res, fmt.Errorf("failed to get destination statistics: %w", err)
	}

	inCountries, err := s.repo.HotelsInCountries(ctx, countries, model.TopLimit*2)
	if err != nil {
		log.Error().Err(err).Strs("countries", countries).Msg("failed to get hotels by country")

		return res, fmt.Errorf("failed to get hotels by country: %w", err)
	}

	res.FromModels(aboveAverage, stats, countries, inCountries)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}
