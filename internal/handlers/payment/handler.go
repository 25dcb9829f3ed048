package payment

import (
	"context"
	"eventro/infras/otel"
	paymentModel "eventro/internal/domains/payment/model"
	"eventro/internal/domains/payment/model/dto"
	"eventro/internal/domains/payment/service"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
	"eventro/shared/validator"
	"eventro/transport/http/response"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the gateway round-trip legs under /bookings because they are
// part of the booking payment flow, and the read endpoints under /payments.
func (handler *Handler) Router(r chi.Router) {
	r.Get("/bookings/{id}/payment/initiate", handler.InitiatePayment)
	r.Post("/bookings/{id}/payment/initiate", handler.InitiatePayment)
	r.Get("/bookings/{id}/payment/success", handler.PaymentSuccess)
	r.Post("/bookings/{id}/payment/success", handler.PaymentSuccess)
	r.Get("/bookings/{id}/payment/fail", handler.PaymentFailure)
	r.Post("/bookings/{id}/payment/fail", handler.PaymentFailure)
	r.Get("/bookings/{id}/payment/cancel", handler.PaymentCancel)
	r.Post("/bookings/{id}/payment/cancel", handler.PaymentCancel)
	r.Post("/bookings/{id}/payment/verify", handler.ForceVerify)
	r.Post("/bookings/payment/ipn", handler.PaymentIPN)
	r.Get("/bookings/payment/verify/{id}", handler.PaymentStatus)

	r.Route("/payments", func(r chi.Router) {
		r.Get("/", handler.GetPayments)
		r.Get("/user/{email}", handler.GetPaymentsByEmail)
	})
}

// InitiatePayment opens a gateway session for a pending booking.
// @Summary Initiate payment for a booking
// @Description Create a gateway payment session and return the hosted payment page URL.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.InitiatePaymentResponse] "Payment session created"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/bookings/{id}/payment/initiate [post]
// @Security BearerAuth
func (handler *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InitiatePayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Initiate(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to initiate payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment session created for booking " + id)

	response.WithJSON(w, http.StatusOK, res)
}

// PaymentSuccess handles the browser return leg after a successful payment.
// The gateway drives the customer's browser here, so the answer is always a
// redirect to a frontend result page, never a JSON error.
// @Summary Gateway success return leg
// @Description Validate the transaction and redirect the customer to the frontend result page.
// @Tags Payment
// @Param id path string true "Booking ID"
// @Param tran_id query string false "Gateway transaction ID"
// @Success 303 "Redirect to frontend result page"
// @Router /v1/bookings/{id}/payment/success [post]
func (handler *Handler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	handler.browserLeg(w, r, "PaymentSuccess", handler.service.HandleSuccess)
}

// PaymentFailure handles the browser return leg after a failed payment.
// @Summary Gateway failure return leg
// @Description Record the failure and redirect the customer to the frontend failure page.
// @Tags Payment
// @Param id path string true "Booking ID"
// @Param tran_id query string false "Gateway transaction ID"
// @Success 303 "Redirect to frontend failure page"
// @Router /v1/bookings/{id}/payment/fail [post]
func (handler *Handler) PaymentFailure(w http.ResponseWriter, r *http.Request) {
	handler.browserLeg(w, r, "PaymentFailure", handler.service.HandleFailure)
}

// PaymentCancel handles the browser return leg after the customer cancelled on
// the gateway page.
// @Summary Gateway cancel return leg
// @Description Record the cancellation and redirect the customer to the frontend cancelled page.
// @Tags Payment
// @Param id path string true "Booking ID"
// @Param tran_id query string false "Gateway transaction ID"
// @Success 303 "Redirect to frontend cancelled page"
// @Router /v1/bookings/{id}/payment/cancel [post]
func (handler *Handler) PaymentCancel(w http.ResponseWriter, r *http.Request) {
	handler.browserLeg(w, r, "PaymentCancel", handler.service.HandleCancel)
}

func (handler *Handler) browserLeg(w http.ResponseWriter, r *http.Request, operation string, leg func(ctx context.Context, bookingID, transactionID string) string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+operation)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	transactionID := handler.transactionID(r)

	location := leg(ctx, id, transactionID)

	scope.AddEvent("Redirecting browser to " + location)

	http.Redirect(w, r, location, http.StatusSeeOther)
}

// transactionID digs tran_id out of the query string or the POSTed form. The
// gateway uses both depending on the leg.
func (handler *Handler) transactionID(r *http.Request) string {
	if tranID := r.URL.Query().Get("tran_id"); tranID != "" {
		return tranID
	}

	if err := r.ParseForm(); err != nil {
		return ""
	}

	return r.PostFormValue("tran_id")
}

// PaymentIPN handles the server-to-server instant payment notification.
// @Summary Gateway IPN endpoint
// @Description Validate and settle a transaction notified by the gateway. Idempotent across redeliveries.
// @Tags Payment
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} response.Message "IPN processed successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/payment/ipn [post]
func (handler *Handler) PaymentIPN(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PaymentIPN")
	defer scope.End()

	req, err := handler.parseIPN(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse IPN payload")

		response.WithError(w, err)

		return
	}

	if err := handler.service.HandleIPN(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to process IPN")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("IPN processed successfully for transaction " + req.TransactionID)

	response.WithMessage(w, http.StatusOK, "IPN processed successfully")
}

// parseIPN accepts both the form-encoded payload the gateway actually sends
// and a JSON body, which is what the test harness and manual replays use.
func (handler *Handler) parseIPN(r *http.Request) (dto.IPNRequest, error) {
	req := dto.IPNRequest{}

	contentType := r.Header.Get(constant.RequestHeaderContentType)
	if strings.Contains(contentType, constant.ContentTypeJSON) {
		if err := validator.Validate(r.Body, &req); err != nil {
			return req, err // nolint:wrapcheck
		}

		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, failure.BadRequestFromString("invalid form payload") // nolint:wrapcheck
	}

	req.Status = r.PostFormValue("status")
	req.TransactionID = r.PostFormValue("tran_id")
	req.ValidationID = r.PostFormValue("val_id")
	req.Amount = r.PostFormValue("amount")
	req.Currency = r.PostFormValue("currency")
	req.CardType = r.PostFormValue("card_type")
	req.CardIssuer = r.PostFormValue("card_issuer")
	req.CardBrand = r.PostFormValue("card_brand")
	req.ValueA = r.PostFormValue("value_a")
	req.ValueB = r.PostFormValue("value_b")

	if err := validator.ValidateStruct(&req); err != nil {
		return req, err // nolint:wrapcheck
	}

	return req, nil
}

// ForceVerify lets an operator mark a booking's payment as verified after
// checking with the gateway out of band.
// @Summary Force-verify a booking payment
// @Description Mark the booking payment as verified on operator authority.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Payment verified successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/payment/verify [post]
// @Security BearerAuth
func (handler *Handler) ForceVerify(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ForceVerify")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.ForceVerify(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to force verify payment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payment verified successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Payment verified successfully")
}

// PaymentStatus reports the payment state of a booking.
// @Summary Get booking payment status
// @Description Retrieve the payment status of a booking, including the settled payment record when present.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.PaymentStatusResponse] "Payment status"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/payment/verify/{id} [get]
// @Security BearerAuth
func (handler *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PaymentStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Status(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payment status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment status retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetPayments retrieves all payment records based on query parameters.
// @Summary Get all payments
// @Description Retrieve all payment records with optional filtering and pagination.
// @Tags Payment
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by payment record status"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse] "List of payments"
// @Failure 500 {object} response.Error
// @Router /v1/payments [get]
// @Security BearerAuth
func (handler *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(paymentModel.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    paymentModel.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    paymentModel.TableName,
		})
	}

	payments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, payments)
}

// GetPaymentsByEmail retrieves the payment records of a specific customer.
// @Summary Get payments by customer email
// @Description Retrieve all payment records belonging to the given customer.
// @Tags Payment
// @Accept json
// @Produce json
// @Param email path string true "Customer email"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse] "List of customer payments"
// @Failure 500 {object} response.Error
// @Router /v1/payments/user/{email} [get]
// @Security BearerAuth
func (handler *Handler) GetPaymentsByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentsByEmail")
	defer scope.End()

	email := chi.URLParam(r, constant.RequestParamEmail)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	payments, err := handler.service.GetByEmail(ctx, email, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments by email")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, payments)
}
