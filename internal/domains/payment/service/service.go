package service

import (
	"context"
	"encoding/json"
	"eventro/config"
	"eventro/infras/otel"
	"eventro/infras/sslcommerz"
	bookingModel "eventro/internal/domains/booking/model"
	bookingRepo "eventro/internal/domains/booking/repository"
	"eventro/internal/domains/payment/model"
	"eventro/internal/domains/payment/model/dto"
	"eventro/internal/domains/payment/repository"
	"eventro/shared"
	"eventro/shared/cache"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
	gModel "eventro/shared/model"
	"eventro/shared/timezone"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllPayment = "payment:gets"
	cacheCountPayment  = "payment:count"

	adminOverrideMarker = "admin_override"

	defaultCustomerPhone   = "01700000000"
	defaultCustomerAddress = "Not provided"
	defaultCustomerCity    = "Dhaka"

	redirectErrBookingNotFound  = "booking_not_found"
	redirectErrMissingTranID    = "missing_transaction_id"
	redirectErrValidationFailed = "validation_failed"
	redirectErrPaymentNotValid  = "payment_not_valid"
)

type Payment interface {
	Initiate(ctx context.Context, bookingID string) (dto.InitiatePaymentResponse, error)
	HandleSuccess(ctx context.Context, bookingID, transactionID string) string
	HandleFailure(ctx context.Context, bookingID, transactionID string) string
	HandleCancel(ctx context.Context, bookingID, transactionID string) string
	HandleIPN(ctx context.Context, req dto.IPNRequest) error
	ForceVerify(ctx context.Context, bookingID string) error
	Status(ctx context.Context, bookingID string) (dto.PaymentStatusResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPaymentsResponse, error)
	GetByEmail(ctx context.Context, email string, req gDto.QueryParams) (dto.GetPaymentsResponse, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	gateway     sslcommerz.Gateway
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Payment, bookingRepo bookingRepo.Booking, gateway sslcommerz.Gateway, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Initiate opens a gateway session for a payment_pending booking and records
// that payment started. The booking status itself does not move until the
// gateway reports back.
func (s *serviceImpl) Initiate(ctx context.Context, bookingID string) (res dto.InitiatePaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Initiate")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	if booking.Status != bookingModel.StatusPaymentPending {
		return res, failure.InvalidState(fmt.Sprintf("cannot initiate payment for a booking with status %q", booking.Status)) // nolint:wrapcheck
	}

	phone := defaultCustomerPhone

	gatewayRes, err := s.gateway.Initiate(ctx, sslcommerz.InitiateRequest{
		TransactionID:   booking.TransactionID,
		Amount:          booking.FinalPrice,
		SuccessURL:      s.callbackURL(booking.ID, "success"),
		FailURL:         s.callbackURL(booking.ID, "fail"),
		CancelURL:       s.callbackURL(booking.ID, "cancel"),
		IPNURL:          s.cfg.External.BackendBaseURL + "/v1/bookings/payment/ipn",
		CustomerName:    booking.UserName,
		CustomerEmail:   booking.UserEmail,
		CustomerPhone:   phone,
		CustomerAddress: defaultCustomerAddress,
		CustomerCity:    defaultCustomerCity,
		ProductName:     booking.PackageName,
		BookingID:       booking.ID,
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("gateway session initiation failed")

		return res, failure.GatewayError(err.Error()) // nolint:wrapcheck
	}

	now := timezone.Now()
	updatedFields := map[string]any{
		bookingModel.FieldPaymentInitiated:   true,
		bookingModel.FieldPaymentInitiatedAt: now,
		constant.FieldModifiedAt:             now,
		constant.FieldModifiedBy:             booking.UserEmail,
	}

	if err = s.bookingRepo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to mark booking payment initiated")

		return res, fmt.Errorf("failed to mark booking payment initiated: %w", err)
	}

	s.invalidateBookingCache(ctx, booking.ID)

	res = dto.InitiatePaymentResponse{
		BookingID:      booking.ID,
		TransactionID:  booking.TransactionID,
		GatewayPageURL: gatewayRes.GatewayPageURL,
		SessionKey:     gatewayRes.SessionKey,
	}

	return res, nil
}

// HandleSuccess processes the browser return leg after the customer pays. It
// always produces a frontend redirect URL; validation happens server side
// against the gateway, never on what the browser claims.
func (s *serviceImpl) HandleSuccess(ctx context.Context, bookingID, transactionID string) string {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleSuccess")
	defer scope.End()

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return s.failureRedirect(bookingID, redirectErrBookingNotFound)
	}

	if transactionID == "" {
		transactionID = booking.TransactionID
	}

	if transactionID == "" {
		return s.failureRedirect(bookingID, redirectErrMissingTranID)
	}

	result, err := s.gateway.ValidateByTransaction(ctx, transactionID)
	if err != nil {
		log.Error().Err(err).Str("transactionID", transactionID).Msg("gateway validation failed")

		return s.failureRedirect(bookingID, redirectErrValidationFailed)
	}

	if result == nil {
		s.markPaymentFailed(ctx, booking, bookingModel.PaymentStatusFailed)

		return s.failureRedirect(bookingID, redirectErrPaymentNotValid)
	}

	if err := s.settleValidPayment(ctx, booking, result); err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to settle validated payment")

		return s.failureRedirect(bookingID, redirectErrValidationFailed)
	}

	return s.successRedirect(bookingID, transactionID)
}

// HandleFailure processes the browser return leg after the gateway reports a
// failed attempt.
func (s *serviceImpl) HandleFailure(ctx context.Context, bookingID, transactionID string) string {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleFailure")
	defer scope.End()

	return s.abortPayment(ctx, bookingID, transactionID, bookingModel.PaymentStatusFailed, model.StatusFailed, "failed")
}

// HandleCancel processes the browser return leg after the customer backs out
// on the gateway page.
func (s *serviceImpl) HandleCancel(ctx context.Context, bookingID, transactionID string) string {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleCancel")
	defer scope.End()

	return s.abortPayment(ctx, bookingID, transactionID, bookingModel.PaymentStatusCancelled, model.StatusCancelled, "cancelled")
}

// HandleIPN processes the gateway's server-to-server notification. It is safe
// under duplicate delivery and under racing with HandleSuccess because both
// converge on the same upsert and the same conditional confirm.
func (s *serviceImpl) HandleIPN(ctx context.Context, req dto.IPNRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleIPN")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Status != sslcommerz.StatusValid {
		return failure.BadRequestFromString(fmt.Sprintf("ignoring notification with status %q", req.Status)) // nolint:wrapcheck
	}

	result, err := s.gateway.ValidateByValidationID(ctx, req.ValidationID)
	if err != nil {
		log.Error().Err(err).Str("validationID", req.ValidationID).Msg("gateway validation failed")

		return failure.GatewayError("could not validate notification with the gateway") // nolint:wrapcheck
	}

	if result == nil {
		return failure.BadRequestFromString("notification did not validate against the gateway") // nolint:wrapcheck
	}

	if result.TransactionID != req.TransactionID {
		return failure.BadRequestFromString("notification transaction does not match the validated payment") // nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx, filterByTransactionID(req.TransactionID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking by transaction id")

		return fmt.Errorf("failed to get booking by transaction id: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found for transaction") // nolint:wrapcheck
	}

	if err = s.settleValidPayment(ctx, booking, result); err != nil {
		return err
	}

	return nil
}

// ForceVerify is the admin escape hatch for gateway outages. It confirms the
// booking unconditionally and stamps who did it.
func (s *serviceImpl) ForceVerify(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ForceVerify")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	now := timezone.Now()
	updatedFields := map[string]any{
		bookingModel.FieldStatus:            bookingModel.StatusConfirmed,
		bookingModel.FieldPaymentStatus:     bookingModel.PaymentStatusPaid,
		bookingModel.FieldPaymentVerified:   true,
		bookingModel.FieldPaymentVerifiedAt: now,
		bookingModel.FieldConfirmedBy:       adminOverrideMarker,
		constant.FieldModifiedAt:            now,
		constant.FieldModifiedBy:            adminOverrideMarker,
	}

	if err = s.bookingRepo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to force verify booking")

		return fmt.Errorf("failed to force verify booking: %w", err)
	}

	s.invalidateBookingCache(ctx, booking.ID)

	return nil
}

func (s *serviceImpl) Status(ctx context.Context, bookingID string) (res dto.PaymentStatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Status")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	res.FromBooking(booking)

	payment, err := s.repo.Get(ctx, filterPaymentByTransactionID(booking.TransactionID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID != constant.Empty {
		var paymentRes dto.PaymentResponse
		paymentRes.FromModel(payment)
		res.Payment = &paymentRes
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPayment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payments")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetByEmail(ctx context.Context, email string, req gDto.QueryParams) (dto.GetPaymentsResponse, error) {
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

func (s *serviceImpl) getBooking(ctx context.Context, bookingID string) (bookingModel.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// settleValidPayment records the validated payment and confirms the booking.
// The confirm is conditional on payment_status still being pending or paid, so
// a booking that was cancelled in the meantime stays cancelled.
func (s *serviceImpl) settleValidPayment(ctx context.Context, booking bookingModel.Booking, result *sslcommerz.ValidationResult) error {
	amount, err := strconv.ParseFloat(result.Amount, 64)
	if err != nil {
		amount = booking.FinalPrice
	}

	details, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal gateway validation result")

		details = []byte("{}")
	}

	now := timezone.Now()
	payment := model.Payment{
		ID:             uuid.NewString(),
		BookingID:      booking.ID,
		UserEmail:      booking.UserEmail,
		TransactionID:  result.TransactionID,
		ValidationID:   &result.ValidationID,
		Amount:         amount,
		Currency:       result.Currency,
		PaymentMethod:  model.MethodSSLCommerz,
		Status:         model.StatusCompleted,
		CardType:       optional(result.CardType),
		CardIssuer:     optional(result.CardIssuer),
		CardBrand:      optional(result.CardBrand),
		PaymentDetails: details,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  booking.UserEmail,
			ModifiedBy: booking.UserEmail,
		},
	}

	if err := s.repo.Upsert(ctx, payment); err != nil {
		return fmt.Errorf("failed to upsert payment: %w", err)
	}

	method := model.MethodSSLCommerz
	updatedFields := map[string]any{
		bookingModel.FieldStatus:            bookingModel.StatusConfirmed,
		bookingModel.FieldPaymentStatus:     bookingModel.PaymentStatusPaid,
		bookingModel.FieldPaymentVerified:   true,
		bookingModel.FieldPaymentVerifiedAt: now,
		bookingModel.FieldPaymentMethod:     method,
		constant.FieldModifiedAt:            now,
		constant.FieldModifiedBy:            booking.UserEmail,
	}

	count, err := s.bookingRepo.UpdateReturningCount(ctx, updatedFields, confirmGuardFilter(booking.ID))
	if err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	if count == 0 {
		log.Warn().Str("bookingID", booking.ID).Msg("payment validated but booking no longer confirmable")
	}

	s.invalidateBookingCache(ctx, booking.ID)

	return nil
}

func (s *serviceImpl) abortPayment(ctx context.Context, bookingID, transactionID string, paymentStatus bookingModel.PaymentStatus, recordStatus, redirectPage string) string {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return s.failureRedirect(bookingID, redirectErrBookingNotFound)
	}

	if transactionID == "" {
		transactionID = booking.TransactionID
	}

	if transactionID != "" {
		s.markPaymentFailed(ctx, booking, paymentStatus)
		s.recordAbortedPayment(ctx, booking, transactionID, recordStatus)
	}

	return s.resultRedirect(redirectPage, url.Values{"bookingId": {bookingID}})
}

// markPaymentFailed cancels the booking on the payment axis. Conditional on
// payment_status still pending so a verified payment is never downgraded.
func (s *serviceImpl) markPaymentFailed(ctx context.Context, booking bookingModel.Booking, paymentStatus bookingModel.PaymentStatus) {
	now := timezone.Now()
	updatedFields := map[string]any{
		bookingModel.FieldStatus:          bookingModel.StatusCancelled,
		bookingModel.FieldPaymentStatus:   paymentStatus,
		bookingModel.FieldPaymentVerified: false,
		constant.FieldModifiedAt:          now,
		constant.FieldModifiedBy:          booking.UserEmail,
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldID, Value: booking.ID, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{ArgName: "current_payment_status", Field: bookingModel.FieldPaymentStatus, Value: bookingModel.PaymentStatusPending, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
		},
	}

	if _, err := s.bookingRepo.UpdateReturningCount(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to cancel booking after payment failure")
	}

	s.invalidateBookingCache(ctx, booking.ID)
}

func (s *serviceImpl) recordAbortedPayment(ctx context.Context, booking bookingModel.Booking, transactionID, status string) {
	now := timezone.Now()
	payment := model.Payment{
		ID:             uuid.NewString(),
		BookingID:      booking.ID,
		UserEmail:      booking.UserEmail,
		TransactionID:  transactionID,
		Amount:         booking.FinalPrice,
		Currency:       s.cfg.External.Gateway.Currency,
		PaymentMethod:  model.MethodSSLCommerz,
		Status:         status,
		PaymentDetails: []byte("{}"),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  booking.UserEmail,
			ModifiedBy: booking.UserEmail,
		},
	}

	if err := s.repo.Upsert(ctx, payment); err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to record aborted payment")
	}
}

func (s *serviceImpl) invalidateBookingCache(ctx context.Context, bookingID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey("booking:get", bookingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, "booking:gets")
		shared.InvalidateCaches(c, s.cache, "booking:count")
		shared.InvalidateCaches(c, s.cache, cacheGetAllPayment)
		shared.InvalidateCaches(c, s.cache, cacheCountPayment)
	}()
}

func (s *serviceImpl) callbackURL(bookingID, leg string) string {
	return fmt.Sprintf("%s/v1/bookings/%s/payment/%s", s.cfg.External.BackendBaseURL, bookingID, leg)
}

func (s *serviceImpl) successRedirect(bookingID, transactionID string) string {
	return s.resultRedirect("success", url.Values{"bookingId": {bookingID}, "tran_id": {transactionID}})
}

func (s *serviceImpl) failureRedirect(bookingID, reason string) string {
	return s.resultRedirect("failed", url.Values{"bookingId": {bookingID}, "error": {reason}})
}

func (s *serviceImpl) resultRedirect(page string, params url.Values) string {
	return fmt.Sprintf("%s/payment/%s?%s", s.cfg.External.FrontendBaseURL, page, params.Encode())
}

func confirmGuardFilter(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldID, Value: bookingID, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{
				ArgName:  "confirmable_payment_status",
				Field:    bookingModel.FieldPaymentStatus,
				Value:    []string{string(bookingModel.PaymentStatusPending), string(bookingModel.PaymentStatusPaid)},
				Operator: gDto.FilterOperatorIn,
				Table:    bookingModel.TableName,
			},
		},
	}
}

func filterByTransactionID(transactionID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldTransactionID,
				Operator: gDto.FilterOperatorEq,
				Value:    transactionID,
				Table:    bookingModel.TableName,
			},
		},
	}
}

func filterPaymentByTransactionID(transactionID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldTransactionID,
				Operator: gDto.FilterOperatorEq,
				Value:    transactionID,
				Table:    model.TableName,
			},
		},
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
