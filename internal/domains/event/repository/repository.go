package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"eventro/infras/otel"
	"eventro/infras/postgres"
	"eventro/internal/domains/event/model"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/logger"
	gRepo "eventro/shared/repository"
	"fmt"
)

type EventPackage interface {
	Insert(ctx context.Context, model model.EventPackage) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.EventPackage, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.EventPackage, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetDistinctCategories(ctx context.Context) ([]string, error)
}

type eventPackageImpl struct {
	gRepo.Repository[model.EventPackage]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) EventPackage {
	return &eventPackageImpl{
		Repository: gRepo.NewRepository[model.EventPackage](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetDistinctCategories returns the categories that currently have packages.
func (repo *eventPackageImpl) GetDistinctCategories(ctx context.Context) (categories []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".event_package.GetDistinctCategories")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s", model.FieldCategory, model.TableName, model.FieldCategory)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &categories, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get distinct categories (%s): %w", model.EntityName, err)
	}

	return categories, nil
}

type Bookmark interface {
	Insert(ctx context.Context, model model.Bookmark) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Bookmark, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Bookmark, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type bookmarkImpl struct {
	gRepo.Repository[model.Bookmark]
	db   *postgres.Connection
	otel otel.Otel
}

func NewBookmark(db *postgres.Connection, otel otel.Otel) Bookmark {
	return &bookmarkImpl{
		Repository: gRepo.NewRepository[model.Bookmark](model.BookmarkEntityName, model.BookmarkTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
