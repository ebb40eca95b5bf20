package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/giftpromo/internal/server/http/dto"
	"github.com/polkiloo/giftpromo/internal/usecase"
)

// ParticipantHandler serves registration, lookup and redemption endpoints.
type ParticipantHandler struct {
	facade ParticipantFacade
	logger *slog.Logger
}

// NewParticipantHandler creates ParticipantHandler instance.
func NewParticipantHandler(facade ParticipantFacade, logger *slog.Logger) *ParticipantHandler {
	return &ParticipantHandler{facade: facade, logger: logger}
}

// Register handles POST /api/register.
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	p, err := h.facade.Register(c.Request.Context(), usecase.Registration{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		status, msg := registerFailure(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("registration failed", slog.String("error", err.Error()))
		}
		writeError(c, status, msg)
		return
	}

	c.JSON(http.StatusOK, dto.RegisterResponse{Code: p.Code, ID: p.ID})
}

// Get handles GET /api/participant/:code.
func (h *ParticipantHandler) Get(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	p, err := h.facade.Participant(c.Request.Context(), code)
	if err != nil {
		if status, _ := redeemFailure(err); status == http.StatusNotFound {
			writeError(c, http.StatusNotFound, msgParticipantMissing)
			return
		}
		h.logger.Error("fetch participant failed", slog.String("error", err.Error()))
		writeError(c, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	c.JSON(http.StatusOK, dto.NewParticipantResponse(p))
}

// Redeem handles POST /api/redeem.
func (h *ParticipantHandler) Redeem(c *gin.Context) {
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Code == nil || strings.TrimSpace(*req.Code) == "" {
		writeError(c, http.StatusBadRequest, msgCodeRequired)
		return
	}

	p, err := h.facade.Redeem(c.Request.Context(), strings.TrimSpace(*req.Code))
	if err != nil {
		status, msg := redeemFailure(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("redemption failed", slog.String("error", err.Error()))
		}
		writeError(c, status, msg)
		return
	}

	c.JSON(http.StatusOK, dto.RedeemResponse{Success: true, Participant: dto.NewParticipantResponse(p)})
}
