package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/server/http/dto"
	"github.com/polkiloo/giftpromo/internal/server/http/middleware"
)

// ClerkHandler issues shop staff sessions.
type ClerkHandler struct {
	facade ClerkFacade
	logger *slog.Logger
}

// NewClerkHandler creates ClerkHandler instance.
func NewClerkHandler(facade ClerkFacade, logger *slog.Logger) *ClerkHandler {
	return &ClerkHandler{facade: facade, logger: logger}
}

// Login handles POST /api/shop/login.
func (h *ClerkHandler) Login(c *gin.Context) {
	if !h.facade.ClerkAuthEnabled() {
		writeError(c, http.StatusNotFound, "Clerk login is disabled")
		return
	}

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	token, err := h.facade.ClerkLogin(req.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			writeError(c, http.StatusUnauthorized, "Invalid password")
			return
		}
		h.logger.Error("clerk login failed", slog.String("error", err.Error()))
		writeError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
