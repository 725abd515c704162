package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/dto"
	"github.com/floatops/float_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// correctionHandler handles HTTP requests for balance line corrections.
type correctionHandler struct {
	correctionService portssvc.CorrectionSvcFacade
}

func newCorrectionHandler(correctionService portssvc.CorrectionSvcFacade) *correctionHandler {
	return &correctionHandler{correctionService: correctionService}
}

func registerCorrectionRoutes(rg *gin.RouterGroup, correctionService portssvc.CorrectionSvcFacade) {
	h := newCorrectionHandler(correctionService)
	corrections := rg.Group("/corrections")
	{
		corrections.POST("/reset", h.resetLine)
		corrections.POST("/delete", h.deleteLine)
	}
}

// resetLine godoc
// @Summary Reset a balance line
// @Description Rewrites a channel or partner line to a new non-negative value with a paired audit entry
// @Tags corrections
// @Accept json
// @Produce json
// @Param reset body dto.ResetLineRequest true "Reset"
// @Success 200 {object} dto.CorrectionResult
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Denied with the specific reason"
// @Router /corrections/reset [post]
func (h *correctionHandler) resetLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ResetLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind reset request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	result, err := h.correctionService.ResetLine(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to reset line")
		return
	}
	logger.Info("Balance line reset",
		slog.String("supervisor_id", result.SupervisorID),
		slog.String("key", result.Key),
		slog.String("audit_entry_id", result.AuditEntryID),
	)
	c.JSON(http.StatusOK, result)
}

// deleteLine godoc
// @Summary Delete a balance line
// @Description Zeroes a channel line, or archives all matching partner entries, with a paired audit entry
// @Tags corrections
// @Accept json
// @Produce json
// @Param delete body dto.DeleteLineRequest true "Delete"
// @Success 200 {object} dto.CorrectionResult
// @Failure 403 {object} map[string]string "Denied with the specific reason"
// @Failure 404 {object} map[string]string "Nothing to delete"
// @Router /corrections/delete [post]
func (h *correctionHandler) deleteLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DeleteLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind delete request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	result, err := h.correctionService.DeleteLine(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to delete line")
		return
	}
	logger.Info("Balance line deleted",
		slog.String("supervisor_id", result.SupervisorID),
		slog.String("key", result.Key),
		slog.String("audit_entry_id", result.AuditEntryID),
	)
	c.JSON(http.StatusOK, result)
}
