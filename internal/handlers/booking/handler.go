package booking

import (
	"eventro/infras/otel"
	"eventro/internal/domains/booking/model"
	"eventro/internal/domains/booking/model/dto"
	"eventro/internal/domains/booking/service"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/validator"
	"eventro/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", handler.CreateBooking)
		r.Get("/", handler.GetBookings)
		r.Get("/user/{email}", handler.GetBookingsByEmail)
		r.Get("/{id}", handler.GetBookingByID)
		r.Patch("/{id}/approve", handler.ApproveBooking)
		r.Patch("/{id}/complete", handler.CompleteEvent)
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Book an event package, snapshotting its details at booking time.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetBookings retrieves all bookings based on query parameters.
// @Summary Get all bookings
// @Description Retrieve all bookings with optional filtering and pagination.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by booking status"
// @Param payment_status query string false "Filter by payment status"
// @Param event_id query string false "Filter by event package ID"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(model.FieldStatus)
	paymentStatus := r.URL.Query().Get(model.FieldPaymentStatus)
	eventID := r.URL.Query().Get(model.FieldEventID)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if paymentStatus != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPaymentStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    paymentStatus,
			Table:    model.TableName,
		})
	}

	if eventID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldEventID,
			Operator: gDto.FilterOperatorEq,
			Value:    eventID,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingsByEmail retrieves the bookings of a specific customer.
// @Summary Get bookings by customer email
// @Description Retrieve all bookings placed by the given customer.
// @Tags Booking
// @Accept json
// @Produce json
// @Param email path string true "Customer email"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of customer bookings"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/user/{email} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingsByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingsByEmail")
	defer scope.End()

	email := chi.URLParam(r, constant.RequestParamEmail)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetByEmail(ctx, email, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings by email")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Customer bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Description Retrieve a booking by its unique identifier.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// ApproveBooking approves a pending booking.
// @Summary Approve a booking
// @Description Move a pending booking to the approved state.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking approved successfully"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/approve [patch]
// @Security BearerAuth
func (handler *Handler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Approve(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking approved successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booking approved successfully")
}

// CompleteEvent marks the booked event as having taken place.
// @Summary Complete a booked event
// @Description Move a confirmed booking to the event done state.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Event marked as done successfully"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/complete [patch]
// @Security BearerAuth
func (handler *Handler) CompleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteEvent")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.CompleteEvent(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete event")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Event marked as done successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Event marked as done successfully")
}
