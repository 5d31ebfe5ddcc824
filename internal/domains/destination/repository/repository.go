package repository

import (
	"context"
	"travelnest/infras/otel"
	"travelnest/infras/postgres"
	"travelnest/internal/domains/destination/model"
	gDto "travelnest/shared/dto"
	gRepo "travelnest/shared/repository"
)

type Destination interface {
	Insert(ctx context.Context, model model.Destination) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Destination, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Destination, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Destination]
}

func New(db *postgres.Connection, otel otel.Otel) Destination {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Destination](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
