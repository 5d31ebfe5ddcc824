package repository

import (
	"context"
	"fmt"
	"travelnest/infras/otel"
	"travelnest/infras/postgres"
	"travelnest/internal/domains/hotel/model"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/logger"
	gRepo "travelnest/shared/repository"
)

const queryCountryStats = `
SELECT destinations.country AS country,
       COUNT(hotels.id) AS total_hotels,
       ROUND(AVG(hotels.rating), 2) AS average_rating
FROM hotels
INNER JOIN destinations ON destinations.id = hotels.destination_id
GROUP BY destinations.country
HAVING AVG(hotels.rating) > ?
ORDER BY average_rating DESC, country ASC`

type Hotel interface {
	Insert(ctx context.Context, model model.Hotel) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Hotel, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Hotel, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
	CountryStats(ctx context.Context, minAverage float64) ([]model.CountryStat, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Hotel]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Hotel {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Hotel](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// CountryStats groups hotels by destination country, keeping countries whose
// average rating is above minAverage.
func (r *repositoryImpl) CountryStats(ctx context.Context, minAverage float64) (stats []model.CountryStat, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hotel.CountryStats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryCountryStats)

	stats = []model.CountryStat{}

	if err = r.db.Read.SelectContext(ctx, &stats, r.db.Read.Rebind(queryCountryStats), minAverage); err != nil {
		logger.ErrorWithStack(err)

		return stats, fmt.Errorf("failed to get hotel country stats: %w", err)
	}

	return stats, nil
}
