package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"eventro/config"
	kafkaMocks "eventro/infras/kafka/mocks"
	"eventro/infras/otel/mocks"
	bookingMocks "eventro/internal/domains/booking/mocks"
	"eventro/internal/domains/booking/model"
	"eventro/internal/domains/booking/model/dto"
	"eventro/internal/domains/booking/service"
	eventMocks "eventro/internal/domains/event/mocks"
	eventModel "eventro/internal/domains/event/model"
	cacheMocks "eventro/shared/cache/mocks"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
)

type bookingServiceMocks struct {
	repo      *bookingMocks.MockBooking
	eventRepo *eventMocks.MockEventPackage
	broker    *kafkaMocks.MockClient
	cache     *cacheMocks.MockRedisCache
}

func newBookingService(t *testing.T) (service.Booking, bookingServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := bookingServiceMocks{
		repo:      bookingMocks.NewMockBooking(ctrl),
		eventRepo: eventMocks.NewMockEventPackage(ctrl),
		broker:    kafkaMocks.NewMockClient(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.eventRepo, m.broker, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func TestBookingService_Create(t *testing.T) {
	event := eventModel.EventPackage{
		ID:                  "550e8400-e29b-41d4-a716-446655440000",
		PackageName:         "Gold Wedding Package",
		Category:            "Wedding",
		Price:               5000,
		PhotographyTeamSize: 3,
		DurationHours:       6,
		ExpectedAttendance:  200,
		StaffTeamSize:       10,
	}

	baseReq := dto.CreateBookingRequest{
		EventID:   event.ID,
		UserEmail: "customer@example.com",
		UserName:  "Customer",
		EventDate: "2026-10-10",
	}

	tests := []struct {
		name      string
		req       func() dto.CreateBookingRequest
		setupMock func(m bookingServiceMocks)
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name: "successful creation with discount",
			req: func() dto.CreateBookingRequest {
				req := baseReq
				req.DiscountAmount = 500
				return req
			},
			setupMock: func(m bookingServiceMocks) {
				m.eventRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(event, nil)
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						assert.Equal(t, model.StatusPending, booking.Status)
						assert.Equal(t, model.PaymentStatusPending, booking.PaymentStatus)
						assert.NotEmpty(t, booking.TransactionID)
						assert.Equal(t, event.PackageName, booking.PackageName)
						assert.Equal(t, float64(4500), booking.FinalPrice)
						return nil
					})
				m.broker.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
				m.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, float64(4500), res.FinalPrice)
				assert.NotEmpty(t, res.TransactionID)
			},
		},
		{
			name: "event package not found",
			req:  func() dto.CreateBookingRequest { return baseReq },
			setupMock: func(m bookingServiceMocks) {
				m.eventRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(eventModel.EventPackage{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "discount exceeds price",
			req: func() dto.CreateBookingRequest {
				req := baseReq
				req.DiscountAmount = 6000
				return req
			},
			setupMock: func(m bookingServiceMocks) {
				m.eventRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(event, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "unparseable event date",
			req: func() dto.CreateBookingRequest {
				req := baseReq
				req.EventDate = "next tuesday"
				return req
			},
			setupMock: func(m bookingServiceMocks) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "repository error",
			req:  func() dto.CreateBookingRequest { return baseReq },
			setupMock: func(m bookingServiceMocks) {
				m.eventRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(event, nil)
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBookingService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			res, err := svc.Create(ctx, tt.req())

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, res)
				}
			}
		})
	}
}

func TestBookingService_Approve(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m bookingServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "approves pending booking",
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusPending}, nil)
				m.repo.EXPECT().
					UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, model.StatusPaymentPending, fields[model.FieldStatus])
						return 1, nil
					})
				m.cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
				m.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "rejects non-pending booking",
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusConfirmed}, nil)
			},
			wantErr:  true,
			wantCode: 422,
		},
		{
			name: "booking not found",
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "concurrent status change",
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusPending}, nil)
				m.repo.EXPECT().
					UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), nil)
			},
			wantErr:  true,
			wantCode: 422,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBookingService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Approve(ctx, "booking-1")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_CompleteEvent(t *testing.T) {
	tests := []struct {
		name     string
		current  model.Status
		wantErr  bool
		wantCode int
	}{
		{name: "completes confirmed booking", current: model.StatusConfirmed},
		{name: "rejects pending booking", current: model.StatusPending, wantErr: true, wantCode: 422},
		{name: "rejects cancelled booking", current: model.StatusCancelled, wantErr: true, wantCode: 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBookingService(t)

			m.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(model.Booking{ID: "booking-1", Status: tt.current}, nil)

			if !tt.wantErr {
				m.repo.EXPECT().
					UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, model.StatusEventDone, fields[model.FieldStatus])
						return 1, nil
					})
				m.cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
				m.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			}

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.CompleteEvent(ctx, "booking-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_GetByEmail(t *testing.T) {
	svc, m := newBookingService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)
	m.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)
	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Len(t, filter.Filters, 1)
			return []model.Booking{{ID: "booking-1", UserEmail: "customer@example.com", Status: model.StatusPending}}, nil
		})
	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	res, err := svc.GetByEmail(context.Background(), "customer@example.com", gDto.QueryParams{Limit: 10})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Bookings, 1)
}
