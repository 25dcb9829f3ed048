package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"eventro/config"
	"eventro/infras/otel/mocks"
	"eventro/infras/sslcommerz"
	sslcommerzMocks "eventro/infras/sslcommerz/mocks"
	bookingMocks "eventro/internal/domains/booking/mocks"
	bookingModel "eventro/internal/domains/booking/model"
	paymentMocks "eventro/internal/domains/payment/mocks"
	"eventro/internal/domains/payment/model"
	"eventro/internal/domains/payment/model/dto"
	"eventro/internal/domains/payment/service"
	cacheMocks "eventro/shared/cache/mocks"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
)

type paymentServiceMocks struct {
	repo        *paymentMocks.MockPayment
	bookingRepo *bookingMocks.MockBooking
	gateway     *sslcommerzMocks.MockGateway
	cache       *cacheMocks.MockRedisCache
}

func newPaymentService(t *testing.T) (service.Payment, paymentServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := paymentServiceMocks{
		repo:        paymentMocks.NewMockPayment(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		gateway:     sslcommerzMocks.NewMockGateway(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	// Callback and redirect handling hit the cache asynchronously.
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.BackendBaseURL = "https://api.eventro.test"
	cfg.External.FrontendBaseURL = "https://eventro.test"
	cfg.External.Gateway.Currency = "BDT"

	svc := service.New(m.repo, m.bookingRepo, m.gateway, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func paymentPendingBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:            "booking-1",
		UserEmail:     "customer@example.com",
		UserName:      "Customer",
		PackageName:   "Gold Wedding Package",
		TransactionID: "tran-abc",
		FinalPrice:    4500,
		Status:        bookingModel.StatusPaymentPending,
		PaymentStatus: bookingModel.PaymentStatusPending,
	}
}

func TestPaymentService_Initiate(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m paymentServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "opens gateway session",
			setupMock: func(m paymentServiceMocks) {
				booking := paymentPendingBooking()
				m.bookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
				m.gateway.EXPECT().
					Initiate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req sslcommerz.InitiateRequest) (sslcommerz.InitiateResponse, error) {
						assert.Equal(t, booking.TransactionID, req.TransactionID)
						assert.Equal(t, booking.FinalPrice, req.Amount)
						assert.Contains(t, req.SuccessURL, "/v1/bookings/booking-1/payment/success")
						assert.Equal(t, "01700000000", req.CustomerPhone)
						assert.Equal(t, "Dhaka", req.CustomerCity)
						return sslcommerz.InitiateResponse{
							Status:         "SUCCESS",
							SessionKey:     "session-1",
							GatewayPageURL: "https://gateway.test/pay/session-1",
						}, nil
					})
				m.bookingRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, true, fields[bookingModel.FieldPaymentInitiated])
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "rejects booking that is not payment pending",
			setupMock: func(m paymentServiceMocks) {
				booking := paymentPendingBooking()
				booking.Status = bookingModel.StatusPending
				m.bookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr:  true,
			wantCode: 422,
		},
		{
			name: "booking not found",
			setupMock: func(m paymentServiceMocks) {
				m.bookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "gateway rejects the session",
			setupMock: func(m paymentServiceMocks) {
				m.bookingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(paymentPendingBooking(), nil)
				m.gateway.EXPECT().
					Initiate(gomock.Any(), gomock.Any()).
					Return(sslcommerz.InitiateResponse{}, errors.New("store credentials invalid"))
			},
			wantErr:  true,
			wantCode: 502,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newPaymentService(t)
			tt.setupMock(m)

			res, err := svc.Initiate(context.Background(), "booking-1")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "https://gateway.test/pay/session-1", res.GatewayPageURL)
				assert.Equal(t, "tran-abc", res.TransactionID)
			}
		})
	}
}

func TestPaymentService_HandleSuccess(t *testing.T) {
	validResult := &sslcommerz.ValidationResult{
		Status:        sslcommerz.StatusValid,
		TransactionID: "tran-abc",
		ValidationID:  "val-1",
		Amount:        "4500.00",
		Currency:      "BDT",
		CardType:      "VISA-Dutch Bangla",
		CardBrand:     "VISA",
	}

	t.Run("validated payment confirms booking and redirects to success", func(t *testing.T) {
		svc, m := newPaymentService(t)
		booking := paymentPendingBooking()

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		m.gateway.EXPECT().
			ValidateByTransaction(gomock.Any(), "tran-abc").
			Return(validResult, nil)
		m.repo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, payment model.Payment) error {
				assert.Equal(t, model.StatusCompleted, payment.Status)
				assert.Equal(t, "tran-abc", payment.TransactionID)
				assert.Equal(t, 4500.0, payment.Amount)
				return nil
			})
		m.bookingRepo.EXPECT().
			UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, bookingModel.StatusConfirmed, fields[bookingModel.FieldStatus])
				assert.Equal(t, bookingModel.PaymentStatusPaid, fields[bookingModel.FieldPaymentStatus])
				assert.Equal(t, true, fields[bookingModel.FieldPaymentVerified])
				return 1, nil
			})

		redirect := svc.HandleSuccess(context.Background(), "booking-1", "tran-abc")

		assert.True(t, strings.HasPrefix(redirect, "https://eventro.test/payment/success?"))
		assert.Contains(t, redirect, "tran_id=tran-abc")
		assert.Contains(t, redirect, "bookingId=booking-1")
	})

	t.Run("unvalidated payment cancels booking and redirects to failure", func(t *testing.T) {
		svc, m := newPaymentService(t)

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(paymentPendingBooking(), nil)
		m.gateway.EXPECT().
			ValidateByTransaction(gomock.Any(), "tran-abc").
			Return(nil, nil)
		m.bookingRepo.EXPECT().
			UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, bookingModel.StatusCancelled, fields[bookingModel.FieldStatus])
				assert.Equal(t, bookingModel.PaymentStatusFailed, fields[bookingModel.FieldPaymentStatus])
				return 1, nil
			})

		redirect := svc.HandleSuccess(context.Background(), "booking-1", "tran-abc")

		assert.Contains(t, redirect, "/payment/failed?")
		assert.Contains(t, redirect, "error=payment_not_valid")
	})

	t.Run("missing booking redirects to failure without gateway call", func(t *testing.T) {
		svc, m := newPaymentService(t)

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{}, nil)

		redirect := svc.HandleSuccess(context.Background(), "booking-1", "")

		assert.Contains(t, redirect, "error=booking_not_found")
	})

	t.Run("transaction id falls back to the booking", func(t *testing.T) {
		svc, m := newPaymentService(t)
		booking := paymentPendingBooking()

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)
		m.gateway.EXPECT().
			ValidateByTransaction(gomock.Any(), booking.TransactionID).
			Return(validResult, nil)
		m.repo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			Return(nil)
		m.bookingRepo.EXPECT().
			UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(1), nil)

		redirect := svc.HandleSuccess(context.Background(), "booking-1", "")

		assert.Contains(t, redirect, "/payment/success?")
	})

	t.Run("gateway failure redirects without touching the booking state", func(t *testing.T) {
		svc, m := newPaymentService(t)

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(paymentPendingBooking(), nil)
		m.gateway.EXPECT().
			ValidateByTransaction(gomock.Any(), "tran-abc").
			Return(nil, errors.New("gateway timeout"))

		redirect := svc.HandleSuccess(context.Background(), "booking-1", "tran-abc")

		assert.Contains(t, redirect, "error=validation_failed")
	})
}

func TestPaymentService_HandleCancel(t *testing.T) {
	svc, m := newPaymentService(t)
	booking := paymentPendingBooking()

	m.bookingRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(booking, nil)
	m.bookingRepo.EXPECT().
		UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
			assert.Equal(t, bookingModel.StatusCancelled, fields[bookingModel.FieldStatus])
			assert.Equal(t, bookingModel.PaymentStatusCancelled, fields[bookingModel.FieldPaymentStatus])
			return 1, nil
		})
	m.repo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payment model.Payment) error {
			assert.Equal(t, model.StatusCancelled, payment.Status)
			return nil
		})

	redirect := svc.HandleCancel(context.Background(), "booking-1", "tran-abc")

	assert.Contains(t, redirect, "/payment/cancelled?")
	assert.Contains(t, redirect, "bookingId=booking-1")
}

func TestPaymentService_HandleIPN(t *testing.T) {
	validResult := &sslcommerz.ValidationResult{
		Status:        sslcommerz.StatusValid,
		TransactionID: "tran-abc",
		ValidationID:  "val-1",
		Amount:        "4500.00",
		Currency:      "BDT",
	}

	validReq := dto.IPNRequest{
		Status:        sslcommerz.StatusValid,
		TransactionID: "tran-abc",
		ValidationID:  "val-1",
	}

	t.Run("valid notification settles the payment", func(t *testing.T) {
		svc, m := newPaymentService(t)

		m.gateway.EXPECT().
			ValidateByValidationID(gomock.Any(), "val-1").
			Return(validResult, nil)
		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(paymentPendingBooking(), nil)
		m.repo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			Return(nil)
		m.bookingRepo.EXPECT().
			UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(1), nil)

		assert.NoError(t, svc.HandleIPN(context.Background(), validReq))
	})

	t.Run("duplicate delivery converges on the same row", func(t *testing.T) {
		svc, m := newPaymentService(t)

		m.gateway.EXPECT().
			ValidateByValidationID(gomock.Any(), "val-1").
			Return(validResult, nil).
			Times(2)
		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(paymentPendingBooking(), nil).
			Times(2)
		m.repo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)
		m.bookingRepo.EXPECT().
			UpdateReturningCount(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(1), nil).
			Times(2)

		assert.NoError(t, svc.HandleIPN(context.Background(), validReq))
		assert.NoError(t, svc.HandleIPN(context.Background(), validReq))
	})

	t.Run("non valid status is rejected", func(t *testing.T) {
		svc, _ := newPaymentService(t)

		req := validReq
		req.Status = "FAILED"

		err := svc.HandleIPN(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("notification that does not validate is rejected", func(t *testing.T) {
		svc, m := newPaymentService(t)

		m.gateway.EXPECT().
			ValidateByValidationID(gomock.Any(), "val-1").
			Return(nil, nil)

		err := svc.HandleIPN(context.Background(), validReq)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("transaction mismatch with the validated payment is rejected", func(t *testing.T) {
		svc, m := newPaymentService(t)

		req := validReq
		req.TransactionID = "tran-other"

		m.gateway.EXPECT().
			ValidateByValidationID(gomock.Any(), "val-1").
			Return(validResult, nil)

		err := svc.HandleIPN(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("unknown transaction is a not found", func(t *testing.T) {
		svc, m := newPaymentService(t)

		m.gateway.EXPECT().
			ValidateByValidationID(gomock.Any(), "val-1").
			Return(validResult, nil)
		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{}, nil)

		err := svc.HandleIPN(context.Background(), validReq)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestPaymentService_ForceVerify(t *testing.T) {
	svc, m := newPaymentService(t)
	booking := paymentPendingBooking()

	m.bookingRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(booking, nil)
	m.bookingRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, bookingModel.StatusConfirmed, fields[bookingModel.FieldStatus])
			assert.Equal(t, bookingModel.PaymentStatusPaid, fields[bookingModel.FieldPaymentStatus])
			assert.Equal(t, "admin_override", fields[bookingModel.FieldConfirmedBy])
			return nil
		})

	assert.NoError(t, svc.ForceVerify(context.Background(), "booking-1"))
}

func TestPaymentService_Status(t *testing.T) {
	svc, m := newPaymentService(t)
	booking := paymentPendingBooking()

	m.bookingRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(booking, nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.Payment{ID: "payment-1", TransactionID: "tran-abc", Status: model.StatusCompleted}, nil)

	res, err := svc.Status(context.Background(), "booking-1")

	assert.NoError(t, err)
	assert.Equal(t, "booking-1", res.BookingID)
	assert.Equal(t, string(bookingModel.StatusPaymentPending), res.BookingStatus)
	assert.NotNil(t, res.Payment)
	assert.Equal(t, model.StatusCompleted, res.Payment.Status)
}
