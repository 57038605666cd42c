// Package http provides HTTP handlers for card custody and transfers.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/cardvault/internal/auth/domain"
	authHTTP "github.com/allisson/cardvault/internal/auth/http"
	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	"github.com/allisson/cardvault/internal/card/http/dto"
	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
	apperrors "github.com/allisson/cardvault/internal/errors"
	"github.com/allisson/cardvault/internal/httputil"
	customValidation "github.com/allisson/cardvault/internal/validation"
)

var errInvalidCardID = errors.New("invalid card ID format: must be a valid UUID")

// principal returns the authenticated caller or writes a 401.
func principal(c *gin.Context, logger *slog.Logger) (*authDomain.Principal, bool) {
	p, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return nil, false
	}
	return p, true
}

// CardHandler handles card requests. Owner routes act on the caller's cards;
// admin routes act on any card.
type CardHandler struct {
	cardUseCase cardUseCase.CardUseCase
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardUseCase cardUseCase.CardUseCase, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cardUseCase: cardUseCase,
		logger:      logger,
	}
}

func (h *CardHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, errInvalidCardID, h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// CreateHandler stores a card for the caller.
// POST /v1/cards - Returns 201 Created.
func (h *CardHandler) CreateHandler(c *gin.Context) {
	p, ok := principal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := req.ToInput(p.UserID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}
	h.create(c, input)
}

// AdminCreateHandler stores a card for the owner named in the request.
// POST /v1/admin/cards - Returns 201 Created.
func (h *CardHandler) AdminCreateHandler(c *gin.Context) {
	var req dto.AdminCreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}
	input, err := req.ToInput(ownerID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}
	h.create(c, input)
}

func (h *CardHandler) create(c *gin.Context, input cardUseCase.CreateCardInput) {
	card, err := h.cardUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCardToResponse(card))
}

// ListHandler lists the caller's cards, optionally filtered by ?search=.
// GET /v1/cards?offset=0&limit=10&search= - Returns 200 OK.
func (h *CardHandler) ListHandler(c *gin.Context) {
	p, ok := principal(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	cards, err := h.cardUseCase.ListForOwner(c.Request.Context(), p.UserID, c.Query("search"), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardsToListResponse(cards))
}

// ListActiveHandler lists the caller's cards that can take part in transfers.
// GET /v1/cards/active - Returns 200 OK.
func (h *CardHandler) ListActiveHandler(c *gin.Context) {
	p, ok := principal(c, h.logger)
	if !ok {
		return
	}

	cards, err := h.cardUseCase.ListActiveForOwner(c.Request.Context(), p.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardsToListResponse(cards))
}

// GetHandler returns one of the caller's cards after the expiry check.
// GET /v1/cards/:id - Returns 200 OK.
func (h *CardHandler) GetHandler(c *gin.Context) {
	p, ok := principal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	card, err := h.cardUseCase.GetForOwner(c.Request.Context(), id, p.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardToResponse(card))
}

// AdminListHandler lists cards of every owner.
// GET /v1/admin/cards?offset=0&limit=10 - Returns 200 OK.
func (h *CardHandler) AdminListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	cards, err := h.cardUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardsToListResponse(cards))
}

// AdminGetHandler returns any card after the expiry check.
// GET /v1/admin/cards/:id - Returns 200 OK.
func (h *CardHandler) AdminGetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	card, err := h.cardUseCase.Touch(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardToResponse(card))
}

// BlockHandler blocks a card. Owners reach it through /v1/cards/:id/block for
// their own cards, administrators through /v1/admin/cards/:id/block.
// Returns 200 OK with the updated card.
func (h *CardHandler) BlockHandler(c *gin.Context) {
	h.setStatus(c, cardDomain.StatusBlocked)
}

// ActivateHandler activates a card.
// POST /v1/admin/cards/:id/activate - Returns 200 OK with the updated card.
func (h *CardHandler) ActivateHandler(c *gin.Context) {
	h.setStatus(c, cardDomain.StatusActive)
}

func (h *CardHandler) setStatus(c *gin.Context, target cardDomain.Status) {
	p, ok := principal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	card, err := h.cardUseCase.SetStatus(c.Request.Context(), id, target, p.Scope())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardToResponse(card))
}

// DeleteHandler removes a card at any status.
// DELETE /v1/admin/cards/:id - Returns 204 No Content.
func (h *CardHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.cardUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
