package service

import (
	"context"
	"fmt"
	"travelnest/config"
	"travelnest/infras/otel"
	"travelnest/internal/domains/user/model"
	"travelnest/internal/domains/user/model/dto"
	"travelnest/internal/domains/user/repository"
	"travelnest/shared"
	"travelnest/shared/cache"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"
	"travelnest/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = constant.CachePrefixUser + "get"
	cacheGetAllUser = constant.CachePrefixUser + "gets"

	errMsgNotFound = "user not found"
)

var sortableColumns = []string{model.FieldFirstName, model.FieldLastName, model.FieldEmail, model.FieldRole, constant.FieldCreatedAt}

// User is the administrator view of accounts. Accounts are created through registration.
type User interface {
	GetAll(ctx context.Context, req gDto.QueryParams, params dto.ListParams) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id int64) (dto.UserResponse, error)
	UpdateRole(ctx context.Context, req dto.UpdateRoleRequest, id int64) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, params dto.ListParams) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.RestrictSort(constant.FieldCreatedAt, gDto.SortDirDesc, sortableColumns...) {
		req.SortBy = model.TableName + "." + req.SortBy
	}

	filter := params.Filter()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	users, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(users, total, req.Limit)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 {
		return res, failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	res.FromModel(user)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

// UpdateRole promotes or demotes another account. Administrators cannot change their own role.
func (s *serviceImpl) UpdateRole(ctx context.Context, req dto.UpdateRoleRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.UpdateRole")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if id == shared.UserIDFromContext(ctx) {
		return failure.BadRequestFromString("you cannot change your own role") // nolint:wrapcheck
	}

	affected, err := s.repo.Update(ctx, map[string]any{
		model.FieldRole:          req.Role,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.ActorFromContext(ctx),
	}, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("user", id).Msg("failed to update user role")

		return fmt.Errorf("failed to update user role: %w", err)
	}

	if affected == 0 {
		return failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	log.Info().Int64("user", id).Str("role", req.Role).Str("by", shared.ActorFromContext(ctx)).Msg("user role changed")

	s.invalidate(ctx, id, false)

	return nil
}

// Delete removes an account together with its bookings and reviews.
func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if id == shared.UserIDFromContext(ctx) {
		return failure.BadRequestFromString("you cannot delete your own account") // nolint:wrapcheck
	}

	affected, err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("user", id).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	if affected == 0 {
		return failure.NotFound(errMsgNotFound) // nolint:wrapcheck
	}

	s.invalidate(ctx, id, true)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id int64, cascaded bool) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete user from cache")
		}

		prefixes := []string{cacheGetAllUser, constant.CachePrefixReport}
		if cascaded {
			prefixes = append(prefixes, constant.CachePrefixBooking, constant.CachePrefixReview)
		}

		shared.InvalidateCaches(c, s.cache, prefixes...)
	}()
}
