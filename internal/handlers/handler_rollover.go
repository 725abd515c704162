package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rolloverHandler exposes the manual trigger for the daily carry-forward.
type rolloverHandler struct {
	rolloverService portssvc.RolloverSvcFacade
	rolloverToken   string
}

func newRolloverHandler(rolloverService portssvc.RolloverSvcFacade, rolloverToken string) *rolloverHandler {
	return &rolloverHandler{rolloverService: rolloverService, rolloverToken: rolloverToken}
}

// registerRolloverRoutes wires the admin trigger inside the authenticated API
// group.
func registerRolloverRoutes(rg *gin.RouterGroup, rolloverService portssvc.RolloverSvcFacade) {
	h := newRolloverHandler(rolloverService, "")
	rg.POST("/rollover/run", h.runAsAdmin)
}

// registerExternalRolloverRoute wires the token-guarded trigger used by an
// external scheduler without a user token.
func registerExternalRolloverRoute(r *gin.Engine, rolloverService portssvc.RolloverSvcFacade, rolloverToken string) {
	h := newRolloverHandler(rolloverService, rolloverToken)
	r.POST("/internal/rollover/run", h.runWithToken)
}

// runAsAdmin godoc
// @Summary Trigger the daily rollover
// @Description Runs the watermark-guarded carry-forward; repeat calls on the same date are no-ops
// @Tags rollover
// @Produce json
// @Success 200 {object} domain.RolloverResult
// @Failure 403 {object} map[string]string "Denied"
// @Router /rollover/run [post]
func (h *rolloverHandler) runAsAdmin(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if actor.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admins can trigger the rollover"})
		return
	}
	h.run(c, "admin")
}

func (h *rolloverHandler) runWithToken(c *gin.Context) {
	token := c.GetHeader("X-Rollover-Token")
	if h.rolloverToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.rolloverToken)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid rollover token"})
		return
	}
	h.run(c, "external")
}

func (h *rolloverHandler) run(c *gin.Context, trigger string) {
	result, err := h.rolloverService.Run(c.Request.Context(), trigger)
	if err != nil {
		respondError(c, err, "Rollover failed")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Rollover trigger handled")
	c.JSON(http.StatusOK, result)
}
