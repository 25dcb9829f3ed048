package review

import (
	"eventro/infras/otel"
	"eventro/internal/domains/review/model/dto"
	"eventro/internal/domains/review/service"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/validator"
	"eventro/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Post("/bookings/{id}/reviews", handler.CreateReview)

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", handler.GetReviews)
		r.Get("/user/{email}", handler.GetReviewsByEmail)
		r.Get("/{id}", handler.GetReviewByID)
		r.Put("/{id}", handler.UpdateReview)
		r.Delete("/{id}", handler.DeleteReview)
	})
}

// CreateReview handles the creation of a review for a finished booking.
// @Summary Create a review for a booking
// @Description Write a review for a booking whose event has taken place. Completes the booking.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse] "Review created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id}/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReview")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	req := dto.CreateReviewRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, bookingID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create review")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Review created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetReviews retrieves all reviews based on query parameters.
// @Summary Get all reviews
// @Description Retrieve all reviews with optional pagination.
// @Tags Review
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReviewsResponse] "List of reviews"
// @Failure 500 {object} response.Error
// @Router /v1/reviews [get]
func (handler *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	reviews, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reviews")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reviews retrieved successfully")

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetReviewByID retrieves a review by its ID.
// @Summary Get a review by ID
// @Description Retrieve a review by its unique identifier.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Data[dto.ReviewResponse] "Review details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id} [get]
func (handler *Handler) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviewByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	review, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get review by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review retrieved successfully")

	response.WithJSON(w, http.StatusOK, review)
}

// GetReviewsByEmail retrieves the reviews written by a specific user.
// @Summary Get reviews by user email
// @Description Retrieve all reviews written by the given user.
// @Tags Review
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReviewsResponse] "List of user reviews"
// @Failure 500 {object} response.Error
// @Router /v1/reviews/user/{email} [get]
func (handler *Handler) GetReviewsByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviewsByEmail")
	defer scope.End()

	email := chi.URLParam(r, constant.RequestParamEmail)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reviews, err := handler.service.GetByEmail(ctx, email, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reviews by email")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User reviews retrieved successfully")

	response.WithJSON(w, http.StatusOK, reviews)
}

// UpdateReview updates the rating or text of an existing review.
// @Summary Update a review by ID
// @Description Update the rating or text of an existing review.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body dto.UpdateReviewRequest true "Update Review Request"
// @Success 200 {object} response.Message "Review updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateReviewRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update review")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Review updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Review updated successfully")
}

// DeleteReview deletes a review by its ID.
// @Summary Delete a review by ID
// @Description Delete a review and reopen the booking for a fresh one.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Message "Review deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete review")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Review deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Review deleted successfully")
}
