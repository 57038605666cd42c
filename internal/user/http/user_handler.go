// Package http provides the administrator endpoints for user management.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/httputil"
	"github.com/allisson/cardvault/internal/user/domain"
	"github.com/allisson/cardvault/internal/user/http/dto"
	"github.com/allisson/cardvault/internal/user/usecase"
)

var errInvalidUserID = errors.New("invalid user ID format: must be a valid UUID")

// UserHandler handles user management requests. Every route requires the ADMIN role.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

func (h *UserHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, errInvalidUserID, h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// ListHandler lists users.
// GET /v1/admin/users?offset=0&limit=10 - Returns 200 OK.
func (h *UserHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToListResponse(users))
}

// GetHandler retrieves a user by ID.
// GET /v1/admin/users/:id - Returns 200 OK.
func (h *UserHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// BlockHandler blocks a user.
// POST /v1/admin/users/:id/block - Returns 200 OK with the updated user.
func (h *UserHandler) BlockHandler(c *gin.Context) {
	h.changeStatus(c, h.userUseCase.Block)
}

// UnblockHandler reactivates a blocked user.
// POST /v1/admin/users/:id/unblock - Returns 200 OK with the updated user.
func (h *UserHandler) UnblockHandler(c *gin.Context) {
	h.changeStatus(c, h.userUseCase.Unblock)
}

func (h *UserHandler) changeStatus(
	c *gin.Context,
	apply func(ctx context.Context, id uuid.UUID) (*domain.User, error),
) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	user, err := apply(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// DeleteHandler removes a user with their cards and transfers.
// DELETE /v1/admin/users/:id - Returns 204 No Content.
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
