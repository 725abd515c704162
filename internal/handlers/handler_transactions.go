package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/dto"
	"github.com/floatops/float_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for the transaction log.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newTransactionHandler(ledgerService portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ledgerService}
}

func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)
	transactions := rg.Group("/transactions")
	{
		transactions.POST("/deposits", h.recordDeposit)
		transactions.POST("/withdrawals", h.recordWithdrawal)
		transactions.POST("/start-of-day", h.recordStartOfDay)
		transactions.POST("/end-of-day", h.recordEndOfDay)
		transactions.POST("/transfers", h.recordTransfer)
		transactions.POST("/pool-allocations", h.allocatePool)
		transactions.GET("", h.queryEntries)
		transactions.DELETE("/:entryID", h.archiveEntry)
	}
}

func (h *transactionHandler) recordMovement(c *gin.Context, record func(context.Context, domain.Actor, dto.MovementRequest) (*domain.LedgerEntry, error), fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind movement request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	entry, err := record(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, fallback)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// recordDeposit godoc
// @Summary Record a deposit
// @Description Appends a DEPOSIT against a partner sub-ledger or a channel account
// @Tags transactions
// @Accept json
// @Produce json
// @Param movement body dto.MovementRequest true "Deposit"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Denied"
// @Router /transactions/deposits [post]
func (h *transactionHandler) recordDeposit(c *gin.Context) {
	h.recordMovement(c, h.ledgerService.RecordDeposit, "Failed to record deposit")
}

// recordWithdrawal godoc
// @Summary Record a withdrawal
// @Description Appends a WITHDRAWAL against a partner sub-ledger or a channel account
// @Tags transactions
// @Accept json
// @Produce json
// @Param movement body dto.MovementRequest true "Withdrawal"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Denied"
// @Router /transactions/withdrawals [post]
func (h *transactionHandler) recordWithdrawal(c *gin.Context) {
	h.recordMovement(c, h.ledgerService.RecordWithdrawal, "Failed to record withdrawal")
}

func (h *transactionHandler) recordChannelLine(c *gin.Context, record func(context.Context, domain.Actor, dto.ChannelLineRequest) (*domain.LedgerEntry, error), fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ChannelLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind channel line request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	entry, err := record(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, fallback)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// recordStartOfDay godoc
// @Summary Declare a channel opening balance
// @Description Sets the account's start-of-day field and appends the paired START_OF_DAY entry atomically
// @Tags transactions
// @Accept json
// @Produce json
// @Param line body dto.ChannelLineRequest true "Opening balance"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /transactions/start-of-day [post]
func (h *transactionHandler) recordStartOfDay(c *gin.Context) {
	h.recordChannelLine(c, h.ledgerService.RecordStartOfDay, "Failed to record opening balance")
}

// recordEndOfDay godoc
// @Summary Declare a channel closing balance
// @Tags transactions
// @Accept json
// @Produce json
// @Param line body dto.ChannelLineRequest true "Closing balance"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /transactions/end-of-day [post]
func (h *transactionHandler) recordEndOfDay(c *gin.Context) {
	h.recordChannelLine(c, h.ledgerService.RecordEndOfDay, "Failed to record closing balance")
}

// recordTransfer godoc
// @Summary Transfer float between supervisors
// @Description Appends the TRANSFER_OUT/TRANSFER_IN pair and moves the amount between the two accounts atomically
// @Tags transactions
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer"
// @Success 201 {array} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /transactions/transfers [post]
func (h *transactionHandler) recordTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind transfer request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	entries, err := h.ledgerService.RecordTransfer(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to record transfer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponses(entries))
}

// allocatePool godoc
// @Summary Allocate float pool working capital
// @Description Credits centrally allocated capital to a supervisor's float pool channel (admin only)
// @Tags transactions
// @Accept json
// @Produce json
// @Param allocation body dto.PoolAllocationRequest true "Allocation"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 403 {object} map[string]string "Denied"
// @Router /transactions/pool-allocations [post]
func (h *transactionHandler) allocatePool(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PoolAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind pool allocation request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.AllocatePool(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to allocate pool capital")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// queryEntries godoc
// @Summary Browse the transaction log
// @Description Filtered, token-paginated query ordered newest first; each entry carries the viewer's edit/delete permissions
// @Tags transactions
// @Produce json
// @Param range query string false "today|yesterday|week|month|year|all|custom"
// @Param category query string false "deposit|withdrawal|transfer|pool|audit"
// @Param channel query string false "Channel filter"
// @Param name query string false "Case-insensitive participant name substring"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.LedgerQueryResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /transactions [get]
func (h *transactionHandler) queryEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LedgerQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind ledger query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	page, err := h.ledgerService.QueryEntries(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to query transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// archiveEntry godoc
// @Summary Archive a ledger entry
// @Description Soft-deletes one entry after the per-entry permission table allows it
// @Tags transactions
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param reason query string false "Archival reason"
// @Success 204 "Archived"
// @Failure 403 {object} map[string]string "Denied"
// @Failure 404 {object} map[string]string "Not found"
// @Router /transactions/{entryID} [delete]
func (h *transactionHandler) archiveEntry(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	entryID := c.Param("entryID")
	if err := h.ledgerService.ArchiveEntry(c.Request.Context(), actor, entryID, c.Query("reason")); err != nil {
		respondError(c, err, "Failed to archive entry")
		return
	}
	c.Status(http.StatusNoContent)
}
