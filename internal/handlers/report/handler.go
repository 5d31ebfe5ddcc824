package report

import (
	"net/http"
	"travelnest/infras/otel"
	"travelnest/internal/domains/report/model/dto"
	"travelnest/internal/domains/report/service"
	"travelnest/shared/constant"
	"travelnest/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryParamCountries = "countries"

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/dashboard", handler.GetDashboard)
		routerGroup.Get("/summary", handler.GetSummary)
	})
}

// GetDashboard returns the admin headline figures.
// @Summary Admin dashboard
// @Tags Report
// @Produce json
// @Success 200 {object} response.Data[dto.DashboardResponse]
// @Failure 403 {object} response.Error
// @Router /v1/reports/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	res, err := handler.service.Dashboard(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get dashboard")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetSummary returns the rating and destination reports.
// @Summary Admin reports
// @Tags Report
// @Produce json
// @Param countries query string false "Comma separated countries, defaults to France,Spain,Italy"
// @Success 200 {object} response.Data[dto.SummaryResponse]
// @Failure 403 {object} response.Error
// @Router /v1/reports/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	res, err := handler.service.Summary(ctx, dto.Countries(r.URL.Query().Get(queryParamCountries)))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get report summary")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
