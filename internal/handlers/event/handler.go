package event

import (
	"eventro/infras/otel"
	"eventro/internal/domains/event/model"
	"eventro/internal/domains/event/model/dto"
	"eventro/internal/domains/event/service"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	"eventro/shared/failure"
	"eventro/shared/validator"
	"eventro/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.EventPackage
	otel    otel.Otel
}

func New(service service.EventPackage, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Post("/", handler.CreateEvent)
		r.Get("/", handler.GetEvents)
		r.Get("/categories", handler.GetCategories)
		r.Get("/drafts", handler.GetDrafts)
		r.Get("/published", handler.GetPublished)
		r.Post("/bookmark", handler.ToggleBookmark)
		r.Get("/bookmarks/{email}", handler.GetBookmarks)
		r.Get("/recommendations/{id}", handler.GetRecommendations)
		r.Get("/{id}", handler.GetEventByID)
		r.Put("/{id}", handler.UpdateEvent)
		r.Patch("/{id}/status", handler.SetActive)
		r.Patch("/{id}/publish", handler.PublishEvent)
		r.Delete("/{id}", handler.DeleteEvent)
		r.Post("/{id}/images", handler.UploadImages)
	})
}

// CreateEvent handles the creation of a new event package.
// @Summary Create a new event package
// @Description Create a new event package draft with the provided details.
// @Tags Event
// @Accept json
// @Produce json
// @Param request body dto.CreateEventPackageRequest true "Create Event Package Request"
// @Success 201 {object} response.Message "Event package created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events [post]
// @Security BearerAuth
func (handler *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateEvent")
	defer scope.End()

	req := dto.CreateEventPackageRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create event package")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Event package created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Event package created successfully")
}

// GetEvents retrieves all event packages based on query parameters.
// @Summary Get all event packages
// @Description Retrieve all event packages with optional filtering and pagination.
// @Tags Event
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status (draft, published)"
// @Param is_active query string false "Filter by active flag (true, false)"
// @Success 200 {object} response.Data[dto.GetEventPackagesResponse] "List of event packages"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events [get]
func (handler *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEvents")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.buildListFilter(r)

	events, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get event packages")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Event packages retrieved successfully")

	response.WithJSON(w, http.StatusOK, events)
}

// GetDrafts retrieves all draft event packages.
// @Summary Get draft event packages
// @Description Retrieve all event packages that have not been published yet.
// @Tags Event
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetEventPackagesResponse] "List of draft event packages"
// @Failure 500 {object} response.Error
// @Router /v1/events/drafts [get]
// @Security BearerAuth
func (handler *Handler) GetDrafts(w http.ResponseWriter, r *http.Request) {
	handler.getByStatus(w, r, model.StatusDraft, "GetDrafts")
}

// GetPublished retrieves all published event packages.
// @Summary Get published event packages
// @Description Retrieve all event packages visible to customers.
// @Tags Event
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetEventPackagesResponse] "List of published event packages"
// @Failure 500 {object} response.Error
// @Router /v1/events/published [get]
func (handler *Handler) GetPublished(w http.ResponseWriter, r *http.Request) {
	handler.getByStatus(w, r, model.StatusPublished, "GetPublished")
}

func (handler *Handler) getByStatus(w http.ResponseWriter, r *http.Request, status, operation string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+operation)
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    status,
				Table:    model.TableName,
			},
		},
	}

	events, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get event packages")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Event packages retrieved successfully")

	response.WithJSON(w, http.StatusOK, events)
}

// GetCategories retrieves the distinct categories of published packages.
// @Summary Get event categories
// @Description Retrieve the distinct categories across all event packages.
// @Tags Event
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.CategoriesResponse] "List of categories"
// @Failure 500 {object} response.Error
// @Router /v1/events/categories [get]
func (handler *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCategories")
	defer scope.End()

	categories, err := handler.service.GetCategories(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get categories")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Categories retrieved successfully")

	response.WithJSON(w, http.StatusOK, categories)
}

// GetEventByID retrieves an event package by its ID.
// @Summary Get an event package by ID
// @Description Retrieve an event package by its unique identifier.
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event Package ID"
// @Success 200 {object} response.Data[dto.EventPackageResponse] "Event package details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events/{id} [get]
func (handler *Handler) GetEventByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEventByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	event, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get event package by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Event package retrieved successfully")

	response.WithJSON(w, http.StatusOK, event)
}

// UpdateEvent updates an existing event package by its ID.
// @Summary Update an event package by ID
// @Description Update the details of an existing event package.
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event Package ID"
// @Param request body dto.UpdateEventPackageRequest true "Update Event Package Request"
// @Success 200 {object} response.Message "Event package updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateEvent")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateEventPackageRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update event package")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Event package updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Event package updated successfully")
}

// PublishEvent publishes a draft event package.
// @Summary Publish an event package
// @Description Move a draft event package to the published state.
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event Package ID"
// @Success 200 {object} response.Message "Event package published successfully"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events/{id}/publish [patch]
// @Security BearerAuth
func (handler *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PublishEvent")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Publish(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to publish event package")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Event package published successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Event package published successfully")
}

// SetActive toggles the active flag of an event package.
// @Summary Set event package active flag
// @Description Activate or deactivate an event package without changing its publication state.
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event Package ID"
// @Param request body dto.SetActiveRequest true "Set Active Request"
// @Success 200 {object} response.Message "Event package status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetActive")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.SetActiveRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SetActive(ctx, id, *req.IsActive); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set event package status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Event package status updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Event package status updated successfully")
}

// DeleteEvent deletes an event package by its ID.
// @Summary Delete an event package by ID
// @Description Delete an event package using its unique identifier.
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "Event Package ID"
// @Success 200 {object} response.Message "Event package deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteEvent")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete event package")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Event package deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Event package deleted successfully")
}

// UploadImages uploads one or more package images and persists their URLs.
// @Summary Upload event package images
// @Description Upload image files for an event package and return their public URLs.
// @Tags Event
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Event Package ID"
// @Param images formData file true "Image files to upload"
// @Success 200 {object} response.Data[dto.UploadImagesResponse] "Images uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events/{id}/images [post]
// @Security BearerAuth
func (handler *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImages")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequestFromString("invalid multipart form"))

		return
	}

	files := r.MultipartForm.File[constant.FormImages]
	if len(files) == 0 {
		err := failure.BadRequestFromString("at least one image file is required")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	urls, err := handler.service.UploadImages(ctx, id, files)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload event package images")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Event package images uploaded successfully")

	response.WithJSON(w, http.StatusOK, dto.UploadImagesResponse{URLs: urls})
}

// ToggleBookmark adds or removes a bookmark for the given user and package.
// @Summary Toggle an event package bookmark
// @Description Bookmark the package for the user, or remove the bookmark if it already exists.
// @Tags Event
// @Accept json
// @Produce json
// @Param request body dto.BookmarkRequest true "Bookmark Request"
// @Success 200 {object} response.Data[dto.BookmarkResponse] "Bookmark toggled successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events/bookmark [post]
// @Security BearerAuth
func (handler *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleBookmark")
	defer scope.End()

	req := dto.BookmarkRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ToggleBookmark(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle bookmark")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookmark toggled successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetBookmarks retrieves the bookmarked packages of a user.
// @Summary Get bookmarked event packages
// @Description Retrieve all event packages bookmarked by the given user.
// @Tags Event
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} response.Data[dto.GetBookmarksResponse] "List of bookmarked event packages"
// @Failure 500 {object} response.Error
// @Router /v1/events/bookmarks/{email} [get]
// @Security BearerAuth
func (handler *Handler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookmarks")
	defer scope.End()

	email := chi.URLParam(r, constant.RequestParamEmail)

	res, err := handler.service.GetBookmarks(ctx, email)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookmarks")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookmarks retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetRecommendations retrieves packages matching the user's favorite categories.
// @Summary Get recommended event packages
// @Description Retrieve event packages in the categories the user marked as favorites.
// @Tags Event
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.GetRecommendationsResponse] "List of recommended event packages"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events/recommendations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRecommendations")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.GetRecommendations(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get recommendations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Recommendations retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

func (handler *Handler) buildListFilter(r *http.Request) gDto.FilterGroup {
	category := r.URL.Query().Get(model.FieldCategory)
	status := r.URL.Query().Get(model.FieldStatus)
	isActive := r.URL.Query().Get(model.FieldIsActive)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if category != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Operator: gDto.FilterOperatorEq,
			Value:    category,
			Table:    model.TableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if isActive != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsActive,
			Operator: gDto.FilterOperatorEq,
			Value:    isActive == "true",
			Table:    model.TableName,
		})
	}

	return filterGroup
}
