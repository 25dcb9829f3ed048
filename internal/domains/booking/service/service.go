package service

import (
	"context"
	"eventro/config"
	"eventro/infras/kafka"
	"eventro/infras/otel"
	"eventro/internal/domains/booking/model"
	"eventro/internal/domains/booking/model/dto"
	"eventro/internal/domains/booking/repository"
	eventModel "eventro/internal/domains/event/model"
	eventRepo "eventro/internal/domains/event/repository"
	"eventro/shared"
	"eventro/shared/cache"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
	"eventro/shared/timezone"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	topicBookingCreated = "booking.created"

	eventDateLayout = "2006-01-02"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetByEmail(ctx context.Context, email string, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Approve(ctx context.Context, id string) error
	CompleteEvent(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Booking
	eventRepo eventRepo.EventPackage
	broker    kafka.Client
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Booking, eventRepo eventRepo.EventPackage, broker kafka.Client, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:      repo,
		eventRepo: eventRepo,
		broker:    broker,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		return res, failure.BadRequestFromString("event_date must be an RFC3339 timestamp or YYYY-MM-DD date") // nolint:wrapcheck
	}

	event, err := s.eventRepo.Get(ctx, shared.FilterByID(req.EventID, eventModel.FieldID, eventModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get event package")

		return res, fmt.Errorf("failed to get event package: %w", err)
	}

	if event.ID == constant.Empty {
		return res, failure.NotFound("event package not found") // nolint:wrapcheck
	}

	booking := req.ToModel(event, eventDate, user)

	if booking.FinalPrice < 0 {
		return res, failure.BadRequestFromString("discount amount cannot exceed the package price") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publishBookingCreated(ctx, booking)
	s.invalidateListCaches(ctx)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetByEmail(ctx context.Context, email string, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

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

// Approve moves a pending booking to payment_pending. The status check runs
// inside the UPDATE so a racing gateway callback cannot be overwritten.
func (s *serviceImpl) Approve(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.transition(ctx, id, model.ActionApprove)
}

// CompleteEvent moves a confirmed booking to event_done once the event takes
// place.
func (s *serviceImpl) CompleteEvent(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompleteEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.transition(ctx, id, model.ActionCompleteEvent)
}

func (s *serviceImpl) transition(ctx context.Context, id string, action model.Action) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	next, err := model.Transition(booking.Status, action)
	if err != nil {
		return err // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:        next,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	count, err := s.repo.UpdateReturningCount(ctx, updatedFields, statusGuardFilter(id, booking.Status))
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if count == 0 {
		return failure.InvalidState("booking status changed concurrently") // nolint:wrapcheck
	}

	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) publishBookingCreated(ctx context.Context, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{
			Key: booking.ID,
			Value: dto.BookingCreatedEvent{
				BookingID:     booking.ID,
				EventID:       booking.EventID,
				UserEmail:     booking.UserEmail,
				PackageName:   booking.PackageName,
				TransactionID: booking.TransactionID,
				FinalPrice:    booking.FinalPrice,
				CreatedAt:     booking.CreatedAt.Format(time.RFC3339),
			},
		}

		if err := s.broker.SendMessages(c, topicBookingCreated, message); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking created event")
		}
	}()
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func statusGuardFilter(id string, current model.Status) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Value: current, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

func parseEventDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Parse(eventDateLayout, raw)
}
