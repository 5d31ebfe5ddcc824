package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"travelnest/infras/otel"
	"travelnest/infras/postgres"
	"travelnest/internal/domains/booking/model"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/logger"
	gRepo "travelnest/shared/repository"

	"github.com/jmoiron/sqlx"
)

const queryStatusSummary = `
SELECT status, COUNT(id) AS total
FROM bookings
WHERE user_id = ?
GROUP BY status`

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)
	Detail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error)
	Details(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error)
	CountDetails(ctx context.Context, filter gDto.FilterGroup) (int, error)
	StatusSummary(ctx context.Context, userID int64) ([]model.StatusCount, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	detail gRepo.Repository[model.BookingDetail]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.BookingDetail](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Detail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error) {
	return r.detail.Get(ctx, filter)
}

func (r *repositoryImpl) Details(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
	return r.detail.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) CountDetails(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return r.detail.Count(ctx, filter)
}

// StatusSummary counts the bookings of userID per status.
func (r *repositoryImpl) StatusSummary(ctx context.Context, userID int64) (counts []model.StatusCount, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.StatusSummary")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryStatusSummary)

	counts = []model.StatusCount{}

	if err = r.db.Read.SelectContext(ctx, &counts, r.db.Read.Rebind(queryStatusSummary), userID); err != nil {
		logger.ErrorWithStack(err)

		return counts, fmt.Errorf("failed to summarise bookings: %w", err)
	}

	return counts, nil
}
