package usecase

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// NewCode returns a fresh redemption code: 32 lowercase hex characters.
func NewCode() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// NewID returns a fresh participant identifier.
func NewID() string {
	return uuid.NewString()
}

// GiftLink is the participant facing page showing the redemption QR.
func GiftLink(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/gift/" + url.PathEscape(code)
}

// RedeemLink is the clerk facing page encoded into the participant's QR.
func RedeemLink(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/redeem/" + url.PathEscape(code)
}

// RegisterLink is the registration page advertised on promotion posters.
func RegisterLink(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/register"
}

// ExtractCode accepts either a bare code or a scanned redeem link and returns the code.
func ExtractCode(input string) string {
	input = strings.TrimSpace(input)
	if i := strings.LastIndex(input, "/redeem/"); i >= 0 {
		input = input[i+len("/redeem/"):]
		if j := strings.IndexAny(input, "/?#"); j >= 0 {
			input = input[:j]
		}
		if unescaped, err := url.PathUnescape(input); err == nil {
			input = unescaped
		}
	}
	return strings.TrimSpace(input)
}
