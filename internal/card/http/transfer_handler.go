package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/cardvault/internal/card/http/dto"
	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
	"github.com/allisson/cardvault/internal/httputil"
	customValidation "github.com/allisson/cardvault/internal/validation"
)

// TransferHandler handles transfers between cards of the caller.
type TransferHandler struct {
	transferUseCase cardUseCase.TransferUseCase
	logger          *slog.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUseCase cardUseCase.TransferUseCase, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		transferUseCase: transferUseCase,
		logger:          logger,
	}
}

// CreateHandler moves funds between two cards of the caller.
// POST /v1/transfers - Returns 201 Created with the transaction id.
func (h *TransferHandler) CreateHandler(c *gin.Context) {
	p, ok := principal(c, h.logger)
	if !ok {
		return
	}

	var req dto.TransferRequest
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

	result, err := h.transferUseCase.Transfer(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTransferResultToResponse(result))
}

// ListHandler lists the caller's transfers, newest first.
// GET /v1/transfers?offset=0&limit=10 - Returns 200 OK.
func (h *TransferHandler) ListHandler(c *gin.Context) {
	p, ok := principal(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	transfers, err := h.transferUseCase.List(c.Request.Context(), p.UserID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTransfersToListResponse(transfers))
}
