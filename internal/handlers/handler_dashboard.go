package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/dto"
	"github.com/floatops/float_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// dashboardHandler handles HTTP requests for the aggregated views.
type dashboardHandler struct {
	dashboardService portssvc.DashboardSvcFacade
}

func newDashboardHandler(dashboardService portssvc.DashboardSvcFacade) *dashboardHandler {
	return &dashboardHandler{dashboardService: dashboardService}
}

func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvcFacade) {
	h := newDashboardHandler(dashboardService)
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/supervisors/:supervisorID", h.supervisorCard)
		dashboard.GET("/global", h.globalDashboard)
	}
}

func bindDateRange(c *gin.Context) (domain.DateRange, error) {
	var req dto.DashboardQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: invalid query parameters", apperrors.ErrValidation)
	}
	rng, err := domain.ResolveDateRange(req.Preset, req.From, req.To, time.Now())
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return rng, nil
}

// supervisorCard godoc
// @Summary Supervisor dashboard card
// @Description Reconstructs one supervisor's opening/closing position for a date range
// @Tags dashboard
// @Produce json
// @Param supervisorID path string true "Supervisor ID"
// @Param range query string false "today|yesterday|week|month|year|all|custom"
// @Success 200 {object} dto.SupervisorCardResponse
// @Failure 403 {object} map[string]string "Denied"
// @Failure 404 {object} map[string]string "Not found"
// @Router /dashboard/supervisors/{supervisorID} [get]
func (h *dashboardHandler) supervisorCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rng, err := bindDateRange(c)
	if err != nil {
		logger.Warn("Invalid dashboard range", slog.String("error", err.Error()))
		respondError(c, err, "Invalid dashboard range")
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	card, err := h.dashboardService.SupervisorCard(c.Request.Context(), actor, c.Param("supervisorID"), rng)
	if err != nil {
		respondError(c, err, "Failed to build supervisor card")
		return
	}
	c.JSON(http.StatusOK, dto.ToSupervisorCardResponse(card))
}

// globalDashboard godoc
// @Summary Global dashboard
// @Description Aggregates all active supervisors plus the float pool position (admin only)
// @Tags dashboard
// @Produce json
// @Param range query string false "today|yesterday|week|month|year|all|custom"
// @Success 200 {object} dto.GlobalDashboardResponse
// @Failure 403 {object} map[string]string "Denied"
// @Router /dashboard/global [get]
func (h *dashboardHandler) globalDashboard(c *gin.Context) {
	rng, err := bindDateRange(c)
	if err != nil {
		respondError(c, err, "Invalid dashboard range")
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	global, err := h.dashboardService.GlobalDashboard(c.Request.Context(), actor, rng)
	if err != nil {
		respondError(c, err, "Failed to build global dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToGlobalDashboardResponse(global))
}
