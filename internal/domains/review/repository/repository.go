package repository

import (
	"context"
	"fmt"
	"travelnest/infras/otel"
	"travelnest/infras/postgres"
	"travelnest/internal/domains/review/model"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/logger"
	gRepo "travelnest/shared/repository"
)

const queryTopHotels = `
SELECT hotels.id AS hotel_id,
       hotels.name AS hotel_name,
       ROUND(AVG(reviews.rating), 2) AS average_rating,
       COUNT(reviews.id) AS total_reviews
FROM reviews
INNER JOIN hotels ON hotels.id = reviews.hotel_id
GROUP BY hotels.id, hotels.name
HAVING AVG(reviews.rating) >= ?
ORDER BY average_rating DESC, total_reviews DESC, hotels.name ASC`

type Review interface {
	Insert(ctx context.Context, model model.Review) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Review, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	TopHotels(ctx context.Context, minAverage float64) ([]model.HotelRating, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// TopHotels ranks reviewed hotels whose average rating reaches minAverage.
func (r *repositoryImpl) TopHotels(ctx context.Context, minAverage float64) (ratings []model.HotelRating, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.TopHotels")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryTopHotels)

	ratings = []model.HotelRating{}

	if err = r.db.Read.SelectContext(ctx, &ratings, r.db.Read.Rebind(queryTopHotels), minAverage); err != nil {
		logger.ErrorWithStack(err)

		return ratings, fmt.Errorf("failed to get top rated hotels: %w", err)
	}

	return ratings, nil
}
