package service

import (
	"context"
	"eventro/config"
	"eventro/infras/otel"
	bookingModel "eventro/internal/domains/booking/model"
	bookingRepo "eventro/internal/domains/booking/repository"
	"eventro/internal/domains/review/model"
	"eventro/internal/domains/review/model/dto"
	"eventro/internal/domains/review/repository"
	"eventro/shared"
	"eventro/shared/cache"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
	"eventro/shared/timezone"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetReview    = "review:get"
	cacheGetAllReview = "review:gets"
	cacheCountReview  = "review:count"
)

type Review interface {
	Create(ctx context.Context, bookingID string, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReviewsResponse, error)
	Get(ctx context.Context, id string) (dto.ReviewResponse, error)
	GetByEmail(ctx context.Context, email string, req gDto.QueryParams) (dto.GetReviewsResponse, error)
	Update(ctx context.Context, req dto.UpdateReviewRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Review
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Review, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Review {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Create gates reviews behind the booking lifecycle: only a booking whose
// event already took place can be reviewed, and only once. Writing the review
// moves the booking to completed.
func (s *serviceImpl) Create(ctx context.Context, bookingID string, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.Status != bookingModel.StatusEventDone {
		return res, failure.InvalidState(fmt.Sprintf("cannot review a booking with status %q", booking.Status)) // nolint:wrapcheck
	}

	exists, err := s.repo.Exist(ctx, filterByBookingID(bookingID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if review exists")

		return res, fmt.Errorf("failed to check if review exists: %w", err)
	}

	if exists {
		return res, failure.Conflict("booking already reviewed") // nolint:wrapcheck
	}

	review := req.ToModel(booking)

	if err = s.repo.Insert(ctx, review); err != nil {
		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	if err = s.moveBooking(ctx, booking, bookingModel.ActionFinishReview); err != nil {
		return res, err
	}

	s.invalidateListCaches(ctx)

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReview, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reviews to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReview, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for review")

		return res, nil
	}

	review, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return res, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return res, failure.NotFound("review not found") // nolint:wrapcheck
	}

	res.FromModel(review)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save review to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetByEmail(ctx context.Context, email string, req gDto.QueryParams) (dto.GetReviewsResponse, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    model.TableName,
			},
		},
	}

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReviewRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateReviewRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if review exists")

		return fmt.Errorf("failed to check if review exists: %w", err)
	}

	if !exist {
		return failure.NotFound("review not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update review")

		return fmt.Errorf("failed to update review: %w", err)
	}

	s.invalidateReviewCaches(ctx, id)

	return nil
}

// Delete removes the review and hands the booking back to event_done, so the
// customer can write a fresh one.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	review, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return failure.NotFound("review not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete review")

		return fmt.Errorf("failed to delete review: %w", err)
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(review.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID != constant.Empty && booking.Status == bookingModel.StatusCompleted {
		if err = s.moveBooking(ctx, booking, bookingModel.ActionReopenReview); err != nil {
			return err
		}
	}

	s.invalidateReviewCaches(ctx, id)

	return nil
}

func (s *serviceImpl) moveBooking(ctx context.Context, booking bookingModel.Booking, action bookingModel.Action) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	next, err := bookingModel.Transition(booking.Status, action)
	if err != nil {
		return err // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		bookingModel.FieldStatus: next,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldID, Value: booking.ID, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{ArgName: "current_status", Field: bookingModel.FieldStatus, Value: booking.Status, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
		},
	}

	count, err := s.bookingRepo.UpdateReturningCount(ctx, updatedFields, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if count == 0 {
		return failure.InvalidState("booking status changed concurrently") // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey("booking:get", booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, "booking:gets")
		shared.InvalidateCaches(c, s.cache, "booking:count")
	}()

	return nil
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReview)
		shared.InvalidateCaches(c, s.cache, cacheCountReview)
	}()
}

func (s *serviceImpl) invalidateReviewCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReview, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete review from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReview)
		shared.InvalidateCaches(c, s.cache, cacheCountReview)
	}()
}

func filterByBookingID(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.TableName,
			},
		},
	}
}
