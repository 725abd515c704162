package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/dto"
	"github.com/floatops/float_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(userService portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: userService}
}

func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)
	users := rg.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("/supervisors", h.listSupervisors)
		users.GET("/:userID", h.getUser)
		users.PUT("/:userID", h.updateUser)
		users.DELETE("/:userID", h.deleteUser)
	}
}

// createUser godoc
// @Summary Create a user
// @Description Creates an admin, supervisor or partner record (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User"
// @Success 201 {object} dto.UserResponse
// @Failure 409 {object} map[string]string "Duplicate phone"
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind create user request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// getUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "Not found"
// @Router /users/{userID} [get]
func (h *userHandler) getUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// listSupervisors godoc
// @Summary List supervisors
// @Tags users
// @Produce json
// @Param onlyActive query bool false "Restrict to ACTIVE supervisors"
// @Success 200 {array} dto.UserResponse
// @Router /users/supervisors [get]
func (h *userHandler) listSupervisors(c *gin.Context) {
	onlyActive, _ := strconv.ParseBool(c.DefaultQuery("onlyActive", "false"))
	supervisors, err := h.userService.ListSupervisors(c.Request.Context(), onlyActive)
	if err != nil {
		respondError(c, err, "Failed to list supervisors")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponses(supervisors))
}

// updateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "Not found"
// @Router /users/{userID} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind update user request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), actor, c.Param("userID"), req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Removes a non-admin user whose accounts are all zeroed
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 204 "Deleted"
// @Failure 409 {object} map[string]string "User still holds a balance"
// @Router /users/{userID} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), actor, c.Param("userID")); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
