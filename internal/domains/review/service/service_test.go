package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"eventro/config"
	"eventro/infras/otel/mocks"
	bookingMocks "eventro/internal/domains/booking/mocks"
	bookingModel "eventro/internal/domains/booking/model"
	reviewMocks "eventro/internal/domains/review/mocks"
	"eventro/internal/domains/review/model"
	"eventro/internal/domains/review/model/dto"
	"eventro/internal/domains/review/service"
	cacheMocks "eventro/shared/cache/mocks"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
)

type reviewServiceMocks struct {
	repo        *reviewMocks.MockReview
	bookingRepo *bookingMocks.MockBooking
	cache       *cacheMocks.MockRedisCache
}

func newReviewService(t *testing.T) (service.Review, reviewServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := reviewServiceMocks{
		repo:        reviewMocks.NewMockReview(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.bookingRepo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func eventDoneBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:          "b1f5c9e0-1111-4222-8333-444455556666",
		UserID:      "u-1",
		UserEmail:   "customer@example.com",
		UserName:    "Customer",
		EventID:     "550e8400-e29b-41d4-a716-446655440000",
		PackageName: "Gold Wedding Package",
		Status:      bookingModel.StatusEventDone,
	}
}

func TestReviewService_Create(t *testing.T) {
	req := dto.CreateReviewRequest{Rating: 5, ReviewText: "Fantastic crew, great photos."}

	tests := []struct {
		name      string
		setupMock func(m reviewServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "success moves booking to completed",
			setupMock: func(m reviewServiceMocks) {
				booking := eventDoneBooking()
				m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, review model.Review) error {
						assert.Equal(t, booking.ID, review.BookingID)
						assert.Equal(t, booking.UserEmail, review.UserEmail)
						assert.Equal(t, booking.PackageName, review.PackageName)
						assert.Equal(t, 5, review.Rating)

						return nil
					})
				m.bookingRepo.EXPECT().UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, bookingModel.StatusCompleted, fields[bookingModel.FieldStatus])

						return int64(1), nil
					})
			},
		},
		{
			name: "booking not found",
			setupMock: func(m reviewServiceMocks) {
				m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "booking not reviewable yet",
			setupMock: func(m reviewServiceMocks) {
				booking := eventDoneBooking()
				booking.Status = bookingModel.StatusConfirmed
				m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "booking already reviewed",
			setupMock: func(m reviewServiceMocks) {
				m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(eventDoneBooking(), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "booking advanced concurrently",
			setupMock: func(m reviewServiceMocks) {
				m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(eventDoneBooking(), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				m.bookingRepo.EXPECT().UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newReviewService(t)
			tt.setupMock(m)

			res, err := svc.Create(context.Background(), eventDoneBooking().ID, req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, eventDoneBooking().ID, res.BookingID)
			assert.Equal(t, req.ReviewText, res.ReviewText)
		})
	}
}

func TestReviewService_Update(t *testing.T) {
	rating := 3

	tests := []struct {
		name      string
		req       dto.UpdateReviewRequest
		setupMock func(m reviewServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "success",
			req:  dto.UpdateReviewRequest{Rating: &rating},
			setupMock: func(m reviewServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, model.FieldRating)

						return nil
					})
			},
		},
		{
			name:      "empty request",
			req:       dto.UpdateReviewRequest{},
			setupMock: func(m reviewServiceMocks) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "review not found",
			req:  dto.UpdateReviewRequest{Rating: &rating},
			setupMock: func(m reviewServiceMocks) {
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newReviewService(t)
			tt.setupMock(m)

			err := svc.Update(context.Background(), tt.req, "r-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReviewService_Delete(t *testing.T) {
	review := model.Review{
		ID:        "r-1",
		BookingID: eventDoneBooking().ID,
		Rating:    4,
	}

	t.Run("delete reverts booking to event_done", func(t *testing.T) {
		svc, m := newReviewService(t)

		booking := eventDoneBooking()
		booking.Status = bookingModel.StatusCompleted

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(review, nil)
		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.bookingRepo.EXPECT().UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, bookingModel.StatusEventDone, fields[bookingModel.FieldStatus])

				return int64(1), nil
			})

		err := svc.Delete(context.Background(), review.ID)
		assert.NoError(t, err)
	})

	t.Run("booking already moved on leaves it alone", func(t *testing.T) {
		svc, m := newReviewService(t)

		booking := eventDoneBooking()
		booking.Status = bookingModel.StatusCancelled

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(review, nil)
		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Delete(context.Background(), review.ID)
		assert.NoError(t, err)
	})

	t.Run("review not found", func(t *testing.T) {
		svc, m := newReviewService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Review{}, nil)

		err := svc.Delete(context.Background(), "missing")
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		svc, m := newReviewService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Review{}, errors.New("connection reset"))

		err := svc.Delete(context.Background(), review.ID)
		assert.Error(t, err)
	})
}

func TestReviewService_GetByEmail(t *testing.T) {
	svc, m := newReviewService(t)

	reviews := []model.Review{{ID: "r-1", UserEmail: "customer@example.com", Rating: 5}}

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Review, error) {
			assert.Len(t, filter.Filters, 1)

			return reviews, nil
		})
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res, err := svc.GetByEmail(context.Background(), "customer@example.com", gDto.QueryParams{Limit: 10})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Reviews, 1)
}
