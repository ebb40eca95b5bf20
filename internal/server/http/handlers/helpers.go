package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/server/http/dto"
)

const (
	msgRegistrationFailed = "Registration failed"
	msgParticipantMissing = "Participant not found"
	msgFetchFailed        = "Failed to fetch participant"
	msgInvalidCode        = "Invalid code"
	msgAlreadyRedeemed    = "This gift has already been redeemed"
	msgRedemptionFailed   = "Redemption failed"
	msgEmailTaken         = "This email has already been registered"
	msgPhoneTaken         = "This phone number has already been registered"
	msgCodeRequired       = "Code is required"
	msgInvalidBody        = "Invalid request body"
)

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Error: message})
}

// registerFailure maps a registration error to a response status and message.
func registerFailure(err error) (int, string) {
	var ve *domainErrors.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, domainErrors.ErrEmailTaken):
		return http.StatusBadRequest, msgEmailTaken
	case errors.Is(err, domainErrors.ErrPhoneTaken):
		return http.StatusBadRequest, msgPhoneTaken
	default:
		return http.StatusInternalServerError, msgRegistrationFailed
	}
}

// redeemFailure maps a redemption error to a response status and message.
func redeemFailure(err error) (int, string) {
	var ve *domainErrors.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound, msgInvalidCode
	case errors.Is(err, domainErrors.ErrAlreadyRedeemed):
		return http.StatusBadRequest, msgAlreadyRedeemed
	default:
		return http.StatusInternalServerError, msgRedemptionFailed
	}
}

// requestBaseURL prefers the configured public URL and falls back to the request origin.
func requestBaseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return configured
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	host := c.Request.Host
	if fwd := c.GetHeader("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}
