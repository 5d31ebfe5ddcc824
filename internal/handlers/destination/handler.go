package destination

import (
	"net/http"
	"travelnest/infras/otel"
	"travelnest/internal/domains/destination/model/dto"
	"travelnest/internal/domains/destination/service"
	"travelnest/shared"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/validator"
	"travelnest/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Destination
	otel    otel.Otel
}

func New(service service.Destination, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/destinations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateDestination)
		routerGroup.Get("/", handler.GetDestinations)
		routerGroup.Get("/{id}", handler.GetDestinationByID)
		routerGroup.Patch("/{id}", handler.UpdateDestination)
		routerGroup.Delete("/{id}", handler.DeleteDestination)
	})
}

// CreateDestination handles the creation of a new destination.
// @Summary Create a destination
// @Tags Destination
// @Accept json
// @Produce json
// @Param request body dto.CreateDestinationRequest true "Destination"
// @Success 201 {object} response.Data[dto.DestinationResponse]
// @Failure 400 {object} response.Error
// @Router /v1/destinations [post]
// @Security BearerAuth
func (handler *Handler) CreateDestination(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateDestination")
	defer scope.End()

	var req dto.CreateDestinationRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create destination")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Destination created by " + shared.ActorFromContext(ctx))

	response.WithJSON(w, http.StatusCreated, res)
}

// GetDestinations lists destinations, optionally searched by name or description and filtered by country.
// @Summary List destinations
// @Tags Destination
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Search name or description"
// @Param country query string false "Filter by country"
// @Success 200 {object} response.Data[dto.GetDestinationsResponse]
// @Router /v1/destinations [get]
func (handler *Handler) GetDestinations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDestinations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r)

	query := r.URL.Query()
	filter := dto.ListFilter(query.Get(constant.RequestParamSearch), query.Get(constant.RequestParamCountry))

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get destinations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetDestinationByID returns one destination.
// @Summary Get a destination
// @Tags Destination
// @Produce json
// @Param id path int true "Destination ID"
// @Success 200 {object} response.Data[dto.DestinationResponse]
// @Failure 404 {object} response.Error
// @Router /v1/destinations/{id} [get]
func (handler *Handler) GetDestinationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDestinationByID")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to get destination")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateDestination updates the provided destination fields.
// @Summary Update a destination
// @Tags Destination
// @Accept json
// @Produce json
// @Param id path int true "Destination ID"
// @Param request body dto.UpdateDestinationRequest true "Fields to update"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/destinations/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateDestination")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	var req dto.UpdateDestinationRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to update destination")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Destination updated successfully")
}

// DeleteDestination removes a destination together with its hotels and rooms.
// @Summary Delete a destination
// @Tags Destination
// @Produce json
// @Param id path int true "Destination ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/destinations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteDestination")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete destination")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Destination deleted successfully")
}
