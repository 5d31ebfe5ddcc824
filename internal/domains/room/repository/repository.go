package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"travelnest/infras/otel"
	"travelnest/infras/postgres"
	"travelnest/internal/domains/room/model"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/logger"
	gRepo "travelnest/shared/repository"
	"travelnest/shared/timezone"

	"github.com/jmoiron/sqlx"
)

// The guard on available makes the decrement a compare-and-set: concurrent
// callers serialise on the row lock and only those that still see a free unit
// affect a row.
const (
	queryDecrementAvailability = `UPDATE rooms SET available = available - 1, modified_at = ?, modified_by = ? WHERE id = ? AND available > 0`
	queryIncrementAvailability = `UPDATE rooms SET available = available + 1, modified_at = ?, modified_by = ? WHERE id = ?`
)

type Room interface {
	Insert(ctx context.Context, model model.Room) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
	Discounts(ctx context.Context) ([]model.Discount, error)
	DecrementAvailabilityTx(ctx context.Context, sqltx *sqlx.Tx, roomID int64, actor string) (bool, error)
	IncrementAvailabilityTx(ctx context.Context, sqltx *sqlx.Tx, roomID int64, actor string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	discount gRepo.Repository[model.Discount]
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		discount:   gRepo.NewRepository[model.Discount](model.DiscountEntityName, model.DiscountTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Discounts returns every discount range, lowest range first.
func (r *repositoryImpl) Discounts(ctx context.Context) ([]model.Discount, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.Discounts")
	defer scope.End()

	params := gDto.QueryParams{SortBy: model.FieldMinPrice, SortDir: gDto.SortDirAsc}

	discounts, err := r.discount.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		scope.TraceError(err)

		return discounts, fmt.Errorf("failed to get discounts: %w", err)
	}

	return discounts, nil
}

// DecrementAvailabilityTx claims one unit of the room. It reports false when
// the room is missing or has no unit left.
func (r *repositoryImpl) DecrementAvailabilityTx(ctx context.Context, sqltx *sqlx.Tx, roomID int64, actor string) (bool, error) {
	return r.shiftAvailability(ctx, sqltx, "DecrementAvailabilityTx", queryDecrementAvailability, roomID, actor)
}

// IncrementAvailabilityTx gives one unit back to the room. It reports false
// when the room is missing.
func (r *repositoryImpl) IncrementAvailabilityTx(ctx context.Context, sqltx *sqlx.Tx, roomID int64, actor string) (bool, error) {
	return r.shiftAvailability(ctx, sqltx, "IncrementAvailabilityTx", queryIncrementAvailability, roomID, actor)
}

func (r *repositoryImpl) shiftAvailability(ctx context.Context, sqltx *sqlx.Tx, op, query string, roomID int64, actor string) (changed bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room."+op)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err := sqltx.ExecContext(ctx, sqltx.Rebind(query), timezone.Now(), actor, roomID)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to update room availability: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows (room): %w", err)
	}

	return affected == 1, nil
}
