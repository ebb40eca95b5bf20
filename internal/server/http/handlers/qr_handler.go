package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/giftpromo/internal/pkg/qr"
	"github.com/polkiloo/giftpromo/internal/server/http/dto"
)

// QRHandler renders QR images for arbitrary links.
type QRHandler struct {
	facade QRFacade
	logger *slog.Logger
}

// NewQRHandler creates QRHandler instance.
func NewQRHandler(facade QRFacade, logger *slog.Logger) *QRHandler {
	return &QRHandler{facade: facade, logger: logger}
}

// Generate handles GET /api/qr?url=...
func (h *QRHandler) Generate(c *gin.Context) {
	content := c.Query("url")
	if content == "" {
		writeError(c, http.StatusBadRequest, "URL is required")
		return
	}

	dataURL, err := h.facade.QRDataURL(content)
	if err != nil {
		switch {
		case errors.Is(err, qr.ErrEmptyContent):
			writeError(c, http.StatusBadRequest, "URL is required")
		case errors.Is(err, qr.ErrContentTooLong):
			writeError(c, http.StatusBadRequest, "URL is too long")
		default:
			h.logger.Error("qr generation failed", slog.String("error", err.Error()))
			writeError(c, http.StatusInternalServerError, "Failed to generate QR code")
		}
		return
	}

	c.JSON(http.StatusOK, dto.QRResponse{QRCode: dataURL})
}
