package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/server/http/middleware"
	"github.com/polkiloo/giftpromo/internal/usecase"
)

const (
	giftInvalidCode = "קוד לא תקין"
	shopPath        = "/shop"
)

// pageView is the data passed to every page template.
type pageView struct {
	Title string
	Lang  string
	Dir   string
	Error string

	Participant *model.Participant
	Success     bool
	QRCode      template.URL
	RegisterURL string

	FullName    string
	ContactType string
	Contact     string
	Code        string
	Next        string
}

func hebrewPage(title string) pageView {
	return pageView{Title: title, Lang: "he", Dir: "rtl"}
}

func englishPage(title string) pageView {
	return pageView{Title: title, Lang: "en", Dir: "ltr"}
}

// PageHandler renders the participant and clerk facing pages.
type PageHandler struct {
	facade  PromotionFacade
	baseURL string
	logger  *slog.Logger
}

// NewPageHandler creates PageHandler instance.
func NewPageHandler(facade PromotionFacade, baseURL string, logger *slog.Logger) *PageHandler {
	return &PageHandler{facade: facade, baseURL: baseURL, logger: logger}
}

// Home handles GET /.
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", hebrewPage("ביסלה"))
}

// Promotion handles GET /chocolate-promotion.
func (h *PageHandler) Promotion(c *gin.Context) {
	view := englishPage("Bisalle Chocolate Promotion")
	view.RegisterURL = usecase.RegisterLink(requestBaseURL(c, h.baseURL))
	if dataURL, err := h.facade.QRDataURL(view.RegisterURL); err != nil {
		h.logger.Error("render promotion qr", slog.String("error", err.Error()))
	} else {
		view.QRCode = template.URL(dataURL)
	}
	c.HTML(http.StatusOK, "promotion.html", view)
}

// RegisterForm handles GET /register.
func (h *PageHandler) RegisterForm(c *gin.Context) {
	view := hebrewPage("הרשמה למתנה")
	view.ContactType = "email"
	c.HTML(http.StatusOK, "register.html", view)
}

// Register handles POST /register and redirects to the gift page on success.
func (h *PageHandler) Register(c *gin.Context) {
	view := hebrewPage("הרשמה למתנה")
	view.FullName = c.PostForm("fullName")
	view.ContactType = c.PostForm("contactType")
	view.Contact = c.PostForm("contact")

	in := usecase.Registration{FullName: view.FullName}
	if view.ContactType == "phone" {
		in.Phone = view.Contact
	} else {
		view.ContactType = "email"
		in.Email = view.Contact
	}

	p, err := h.facade.Register(c.Request.Context(), in)
	if err != nil {
		status, msg := registerFailure(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("registration failed", slog.String("error", err.Error()))
		}
		view.Error = msg
		c.HTML(status, "register.html", view)
		return
	}

	c.Redirect(http.StatusSeeOther, "/gift/"+url.PathEscape(p.Code))
}

// Gift handles GET /gift/:code.
func (h *PageHandler) Gift(c *gin.Context) {
	view := hebrewPage("המתנה שלך")
	p, err := h.facade.Participant(c.Request.Context(), c.Param("code"))
	if err != nil {
		status := http.StatusNotFound
		if !errors.Is(err, domainErrors.ErrNotFound) {
			status = http.StatusInternalServerError
			h.logger.Error("fetch participant failed", slog.String("error", err.Error()))
		}
		view.Error = giftInvalidCode
		c.HTML(status, "gift.html", view)
		return
	}
	view.Participant = p

	if !p.Redeemed {
		dataURL, err := h.facade.QRDataURL(usecase.RedeemLink(requestBaseURL(c, h.baseURL), p.Code))
		if err != nil {
			h.logger.Error("render gift qr", slog.String("error", err.Error()))
			view.Error = "Failed to generate QR code"
			c.HTML(http.StatusInternalServerError, "gift.html", view)
			return
		}
		view.QRCode = template.URL(dataURL)
	}

	c.HTML(http.StatusOK, "gift.html", view)
}

// RedeemForm handles GET /redeem/:code.
func (h *PageHandler) RedeemForm(c *gin.Context) {
	view := englishPage("Redeem Gift")
	p, err := h.facade.Participant(c.Request.Context(), c.Param("code"))
	if err != nil {
		status, msg := http.StatusNotFound, msgInvalidCode
		if !errors.Is(err, domainErrors.ErrNotFound) {
			status, msg = http.StatusInternalServerError, msgFetchFailed
			h.logger.Error("fetch participant failed", slog.String("error", err.Error()))
		}
		view.Error = msg
		c.HTML(status, "redeem.html", view)
		return
	}

	view.Participant = p
	c.HTML(http.StatusOK, "redeem.html", view)
}

// Redeem handles POST /redeem/:code.
func (h *PageHandler) Redeem(c *gin.Context) {
	view := englishPage("Redeem Gift")
	code := c.Param("code")
	p, err := h.facade.Redeem(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyRedeemed) {
			if existing, lookupErr := h.facade.Participant(c.Request.Context(), code); lookupErr == nil {
				view.Participant = existing
				c.HTML(http.StatusBadRequest, "redeem.html", view)
				return
			}
		}
		status, msg := redeemFailure(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("redemption failed", slog.String("error", err.Error()))
		}
		view.Error = msg
		c.HTML(status, "redeem.html", view)
		return
	}

	view.Participant = p
	view.Success = true
	c.HTML(http.StatusOK, "redeem.html", view)
}

// Shop handles GET /shop.
func (h *PageHandler) Shop(c *gin.Context) {
	c.HTML(http.StatusOK, "shop.html", hebrewPage("סורק חנות"))
}

// ShopRedeem handles POST /shop with a typed or scanned code.
func (h *PageHandler) ShopRedeem(c *gin.Context) {
	view := hebrewPage("סורק חנות")
	code := usecase.ExtractCode(c.PostForm("code"))
	if code == "" {
		view.Error = msgCodeRequired
		c.HTML(http.StatusBadRequest, "shop.html", view)
		return
	}

	p, err := h.facade.Redeem(c.Request.Context(), code)
	if err != nil {
		status, msg := redeemFailure(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("redemption failed", slog.String("error", err.Error()))
		}
		view.Code = code
		view.Error = msg
		c.HTML(status, "shop.html", view)
		return
	}

	view.Participant = p
	c.HTML(http.StatusOK, "shop.html", view)
}

// LoginForm handles GET /shop/login.
func (h *PageHandler) LoginForm(c *gin.Context) {
	next := middleware.SafeRedirect(c.Query("next"), shopPath)
	if !h.facade.ClerkAuthEnabled() {
		c.Redirect(http.StatusSeeOther, next)
		return
	}
	view := hebrewPage("כניסת צוות")
	view.Next = next
	c.HTML(http.StatusOK, "login.html", view)
}

// Login handles POST /shop/login.
func (h *PageHandler) Login(c *gin.Context) {
	next := middleware.SafeRedirect(c.PostForm("next"), shopPath)
	if !h.facade.ClerkAuthEnabled() {
		c.Redirect(http.StatusSeeOther, next)
		return
	}

	view := hebrewPage("כניסת צוות")
	view.Next = next
	token, err := h.facade.ClerkLogin(c.PostForm("password"))
	if err != nil {
		status := http.StatusUnauthorized
		view.Error = "סיסמה שגויה"
		if !errors.Is(err, domainErrors.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
			view.Error = "Login failed"
			h.logger.Error("clerk login failed", slog.String("error", err.Error()))
		}
		c.HTML(status, "login.html", view)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Redirect(http.StatusSeeOther, next)
}
