package service

import (
	"context"
	"eventro/config"
	"eventro/infras/otel"
	"eventro/infras/s3"
	"eventro/internal/domains/event/model"
	"eventro/internal/domains/event/model/dto"
	"eventro/internal/domains/event/repository"
	userModel "eventro/internal/domains/user/model"
	userRepository "eventro/internal/domains/user/repository"
	"eventro/shared"
	"eventro/shared/cache"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
	gModel "eventro/shared/model"
	"eventro/shared/timezone"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetEvent        = "event:get"
	cacheGetAllEvent     = "event:gets"
	cacheCountEvent      = "event:count"
	cacheEventCategories = "event:categories"

	imageUploadDirectory = "event-packages"

	recommendationLimit = 10
)

type EventPackage interface {
	Create(ctx context.Context, req dto.CreateEventPackageRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetEventPackagesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.EventPackageResponse, error)
	Update(ctx context.Context, req dto.UpdateEventPackageRequest, id string) error
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	GetCategories(ctx context.Context) (dto.CategoriesResponse, error)
	UploadImages(ctx context.Context, id string, files []*multipart.FileHeader) ([]string, error)
	ToggleBookmark(ctx context.Context, req dto.BookmarkRequest) (dto.BookmarkResponse, error)
	GetBookmarks(ctx context.Context, email string) (dto.GetBookmarksResponse, error)
	GetRecommendations(ctx context.Context, userID string) (dto.GetRecommendationsResponse, error)
}

type serviceImpl struct {
	repo         repository.EventPackage
	bookmarkRepo repository.Bookmark
	userRepo     userRepository.User
	storage      s3.S3
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.EventPackage, bookmarkRepo repository.Bookmark, userRepo userRepository.User, storage s3.S3, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) EventPackage {
	return &serviceImpl{
		repo:         repo,
		bookmarkRepo: bookmarkRepo,
		userRepo:     userRepo,
		storage:      storage,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateEventPackageRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create event package")

		return fmt.Errorf("failed to create event package: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllEvent)
		shared.InvalidateCaches(c, s.cache, cacheCountEvent)
		shared.InvalidateCaches(c, s.cache, cacheEventCategories)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetEventPackagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllEvent, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for event packages")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count event packages")

		return res, fmt.Errorf("failed to count event packages: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get event packages")

		return res, fmt.Errorf("failed to get event packages: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save event packages to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountEvent, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for event package count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count event packages")

		return res, fmt.Errorf("failed to count event packages: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save event package count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.EventPackageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetEvent, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for event package")

		return res, nil
	}

	event, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get event package")

		return res, fmt.Errorf("failed to get event package: %w", err)
	}

	if event.ID == constant.Empty {
		return res, failure.NotFound("event package not found") // nolint:wrapcheck
	}

	res.FromModel(event)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save event package to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateEventPackageRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if event package exists")

		return fmt.Errorf("failed to check if event package exists: %w", err)
	}

	if !exist {
		return failure.NotFound("event package not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	// Array columns need the pq wrapper, so they bypass TransformFields.
	if len(req.Features) > 0 {
		updatedFields[model.FieldFeatures] = pq.StringArray(req.Features)
	}

	if len(req.Images) > 0 {
		updatedFields[model.FieldImages] = pq.StringArray(req.Images)
	}

	if len(req.Tags) > 0 {
		updatedFields[model.FieldTags] = pq.StringArray(req.Tags)
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update event package")

		return fmt.Errorf("failed to update event package: %w", err)
	}

	s.invalidateEventCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if event package exists")

		return fmt.Errorf("failed to check if event package exists: %w", err)
	}

	if !exist {
		return failure.NotFound("event package not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete event package")

		return fmt.Errorf("failed to delete event package: %w", err)
	}

	s.invalidateEventCaches(ctx, id)

	return nil
}

// Publish moves a draft package to published and activates it. Publishing a
// package that is already published fails rather than silently re-stamping
// published_at.
func (s *serviceImpl) Publish(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Publish")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	event, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get event package")

		return fmt.Errorf("failed to get event package: %w", err)
	}

	if event.ID == constant.Empty {
		return failure.NotFound("event package not found") // nolint:wrapcheck
	}

	if event.Status != model.StatusDraft {
		return failure.InvalidState(fmt.Sprintf("cannot publish event package with status %s", event.Status)) // nolint:wrapcheck
	}

	now := timezone.Now()
	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusPublished,
		model.FieldIsActive:      true,
		model.FieldPublishedAt:   now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	statusFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Value: model.StatusDraft, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	if err = s.repo.Update(ctx, updatedFields, statusFilter); err != nil {
		log.Error().Err(err).Msg("failed to publish event package")

		return fmt.Errorf("failed to publish event package: %w", err)
	}

	s.invalidateEventCaches(ctx, id)

	return nil
}

func (s *serviceImpl) SetActive(ctx context.Context, id string, active bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetActive")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if event package exists")

		return fmt.Errorf("failed to check if event package exists: %w", err)
	}

	if !exist {
		return failure.NotFound("event package not found") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldIsActive:      active,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to set event package active flag")

		return fmt.Errorf("failed to set event package active flag: %w", err)
	}

	s.invalidateEventCaches(ctx, id)

	return nil
}

func (s *serviceImpl) GetCategories(ctx context.Context) (res dto.CategoriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCategories")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheEventCategories, &res)
	if err == nil {
		return res, nil
	}

	categories, err := s.repo.GetDistinctCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get event package categories")

		return res, fmt.Errorf("failed to get event package categories: %w", err)
	}

	res.Categories = categories

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheEventCategories, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save event package categories to cache")
		}
	}()

	return res, nil
}

// UploadImages stores each file on object storage and appends the resulting
// URLs to the package's image list.
func (s *serviceImpl) UploadImages(ctx context.Context, id string, files []*multipart.FileHeader) (urls []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImages")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	event, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get event package")

		return nil, fmt.Errorf("failed to get event package: %w", err)
	}

	if event.ID == constant.Empty {
		return nil, failure.NotFound("event package not found") // nolint:wrapcheck
	}

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			log.Error().Err(err).Msg("failed to open uploaded file")

			return nil, failure.BadRequest(fmt.Errorf("failed to open uploaded file: %w", err)) // nolint:wrapcheck
		}

		fileName := uuid.NewString() + filepath.Ext(fileHeader.Filename)

		url, err := s.storage.UploadFile(ctx, constant.Empty, imageUploadDirectory, file, fileHeader, fileName)
		file.Close()

		if err != nil {
			log.Error().Err(err).Msg("failed to upload event package image")

			return nil, fmt.Errorf("failed to upload event package image: %w", err)
		}

		urls = append(urls, url)
	}

	images := append([]string(event.Images), urls...)

	updatedFields := map[string]any{
		model.FieldImages:        pq.StringArray(images),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to persist event package images")

		return nil, fmt.Errorf("failed to persist event package images: %w", err)
	}

	s.invalidateEventCaches(ctx, id)

	return urls, nil
}

// ToggleBookmark adds the bookmark when absent and removes it when present.
func (s *serviceImpl) ToggleBookmark(ctx context.Context, req dto.BookmarkRequest) (res dto.BookmarkResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ToggleBookmark")
	defer scope.End()
	defer scope.TraceIfError(err)

	eventExists, err := s.repo.Exist(ctx, shared.FilterByID(req.EventID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if event package exists")

		return res, fmt.Errorf("failed to check if event package exists: %w", err)
	}

	if !eventExists {
		return res, failure.NotFound("event package not found") // nolint:wrapcheck
	}

	filter := bookmarkFilter(req.UserEmail, req.EventID)

	exist, err := s.bookmarkRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if bookmark exists")

		return res, fmt.Errorf("failed to check if bookmark exists: %w", err)
	}

	if exist {
		if err = s.bookmarkRepo.Delete(ctx, filter); err != nil {
			log.Error().Err(err).Msg("failed to delete bookmark")

			return res, fmt.Errorf("failed to delete bookmark: %w", err)
		}

		return dto.BookmarkResponse{Bookmarked: false, EventID: req.EventID}, nil
	}

	bookmark := model.Bookmark{
		ID:        uuid.NewString(),
		UserEmail: req.UserEmail,
		EventID:   req.EventID,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  req.UserEmail,
			ModifiedBy: req.UserEmail,
		},
	}

	if err = s.bookmarkRepo.Insert(ctx, bookmark); err != nil {
		log.Error().Err(err).Msg("failed to create bookmark")

		return res, fmt.Errorf("failed to create bookmark: %w", err)
	}

	return dto.BookmarkResponse{Bookmarked: true, EventID: req.EventID}, nil
}

func (s *serviceImpl) GetBookmarks(ctx context.Context, email string) (res dto.GetBookmarksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBookmarks")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookmarks, err := s.bookmarkRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByID(email, model.FieldBookmarkUserEmail, model.BookmarkTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookmarks")

		return res, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	if len(bookmarks) == 0 {
		res.Events = []dto.EventPackageResponse{}

		return res, nil
	}

	eventIDs := make([]string, len(bookmarks))
	for i, bookmark := range bookmarks {
		eventIDs[i] = bookmark.EventID
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    eventIDs,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	events, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookmarked event packages")

		return res, fmt.Errorf("failed to get bookmarked event packages: %w", err)
	}

	res.Events = make([]dto.EventPackageResponse, len(events))
	for i, event := range events {
		res.Events[i].FromModel(event)
	}

	res.Total = len(res.Events)

	return res, nil
}

// GetRecommendations lists packages in the categories the user marked as
// favorites. Users without favorites get an empty list.
func (s *serviceImpl) GetRecommendations(ctx context.Context, userID string) (res dto.GetRecommendationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetRecommendations")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user for recommendations")

		return res, fmt.Errorf("failed to get user for recommendations: %w", err)
	}

	if user.ID == constant.Empty {
		return res, failure.NotFound("user not found") // nolint:wrapcheck
	}

	res.Events = []dto.EventPackageResponse{}

	if len(user.FavoriteCategories) == 0 {
		return res, nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCategory,
				Value:    []string(user.FavoriteCategories),
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	events, err := s.repo.GetAll(ctx, gDto.QueryParams{Limit: recommendationLimit}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get recommended event packages")

		return res, fmt.Errorf("failed to get recommended event packages: %w", err)
	}

	res.Events = make([]dto.EventPackageResponse, len(events))
	for i, event := range events {
		res.Events[i].FromModel(event)
	}

	return res, nil
}

func (s *serviceImpl) invalidateEventCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetEvent, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete event package from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllEvent)
		shared.InvalidateCaches(c, s.cache, cacheCountEvent)
		shared.InvalidateCaches(c, s.cache, cacheEventCategories)
	}()
}

func bookmarkFilter(email, eventID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookmarkUserEmail, Value: email, Operator: gDto.FilterOperatorEq, Table: model.BookmarkTableName},
			gDto.Filter{Field: model.FieldBookmarkEventID, Value: eventID, Operator: gDto.FilterOperatorEq, Table: model.BookmarkTableName},
		},
	}
}
