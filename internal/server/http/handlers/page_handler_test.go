package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/domain/model"
	testhelpers "github.com/polkiloo/giftpromo/internal/test"
	"github.com/polkiloo/giftpromo/internal/test/httpstub"
	"github.com/polkiloo/giftpromo/internal/usecase"
)

func newPageHandler(facade httpstub.PromotionFacadeStub) *PageHandler {
	return NewPageHandler(facade, "https://gift.example", discardLogger)
}

func TestPageHandlerStaticPages(t *testing.T) {
	var encoded []string
	handler := newPageHandler(httpstub.PromotionFacadeStub{QRFacadeStub: httpstub.QRFacadeStub{
		QRFn: func(content string) (string, error) {
			encoded = append(encoded, content)
			return "data:image/png;base64,UVI=", nil
		},
	}})

	resp := performRequest(t, http.MethodGet, "/", "/", handler.Home, nil, nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "ביסַלֶה") {
		t.Fatalf("unexpected home page %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/chocolate-promotion", "/chocolate-promotion", handler.Promotion, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Bisalle Chocolate Promotion") || !strings.Contains(body, `src="data:image/png;base64,UVI="`) {
		t.Fatalf("unexpected promotion page %s", body)
	}
	if len(encoded) != 1 || encoded[0] != "https://gift.example/register" {
		t.Fatalf("expected register link to be encoded, got %v", encoded)
	}

	resp = performRequest(t, http.MethodGet, "/register", "/register", handler.RegisterForm, nil, nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "קבל קוד מתנה") {
		t.Fatalf("unexpected register form %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/shop", "/shop", handler.Shop, nil, nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "סורק חנות") {
		t.Fatalf("unexpected shop page %d", resp.Code)
	}
}

func TestPageHandlerRegister(t *testing.T) {
	var got usecase.Registration
	handler := newPageHandler(httpstub.PromotionFacadeStub{ParticipantFacadeStub: httpstub.ParticipantFacadeStub{
		RegisterFn: func(_ context.Context, in usecase.Registration) (*model.Participant, error) {
			got = in
			return testhelpers.SampleParticipant("c0ffee"), nil
		},
	}})

	form := url.Values{"fullName": {"A"}, "contactType": {"phone"}, "contact": {"050-1"}}
	resp := postForm(t, "/register", "/register", handler.Register, form)
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/gift/c0ffee" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if got.Phone != "050-1" || got.Email != "" || got.FullName != "A" {
		t.Fatalf("unexpected registration %+v", got)
	}

	handler = newPageHandler(httpstub.PromotionFacadeStub{ParticipantFacadeStub: httpstub.ParticipantFacadeStub{
		RegisterFn: func(_ context.Context, in usecase.Registration) (*model.Participant, error) {
			got = in
			return nil, domainErrors.ErrEmailTaken
		},
	}})
	form = url.Values{"fullName": {"A"}, "contactType": {"email"}, "contact": {"a@example.com"}}
	resp = postForm(t, "/register", "/register", handler.Register, form)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if got.Email != "a@example.com" {
		t.Fatalf("expected email registration, got %+v", got)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "This email has already been registered") || !strings.Contains(body, `value="a@example.com"`) {
		t.Fatalf("expected error and preserved input, got %s", body)
	}
}

func TestPageHandlerGift(t *testing.T) {
	var encoded string
	handler := newPageHandler(httpstub.PromotionFacadeStub{QRFacadeStub: httpstub.QRFacadeStub{
		QRFn: func(content string) (string, error) {
			encoded = content
			return "data:image/png;base64,UVI=", nil
		},
	}})
	resp := performRequest(t, http.MethodGet, "/gift/abc", "/gift/:code", handler.Gift, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if encoded != "https://gift.example/redeem/abc" {
		t.Fatalf("expected redeem link in qr, got %q", encoded)
	}
	if body := resp.Body.String(); !strings.Contains(body, "מזל טוב, A!") || !strings.Contains(body, "קוד: abc") {
		t.Fatalf("unexpected gift page %s", body)
	}

	handler = newPageHandler(httpstub.PromotionFacadeStub{ParticipantFacadeStub: httpstub.ParticipantFacadeStub{
		ParticipantFn: func(ctx context.Context, code string) (*model.Participant, error) {
			return httpstub.ParticipantFacadeStub{}.Redeem(ctx, code)
		},
	}})
	resp = performRequest(t, http.MethodGet, "/gift/abc", "/gift/:code", handler.Gift, nil, nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "כבר נוצל") {
		t.Fatalf("expected already redeemed page, got %d %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "02/12/2024 10:00") {
		t.Fatalf("expected redemption date, got %s", resp.Body.String())
	}

	handler = newPageHandler(httpstub.PromotionFacadeStub{ParticipantFacadeStub: httpstub.ParticipantFacadeStub{
		ParticipantFn: func(context.Context, string) (*model.Participant, error) {
			return nil, domainErrors.ErrNotFound
		},
	}})
	resp = performRequest(t, http.MethodGet, "/gift/zzz", "/gift/:code", handler.Gift, nil, nil)
	if resp.Code != http.StatusNotFound || !strings.Contains(resp.Body.String(), "קוד לא תקין") {
		t.Fatalf("expected invalid code page, got %d", resp.Code)
	}
}

func TestPageHandlerRedeem(t *testing.T) {
	handler := newPageHandler(httpstub.PromotionFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/redeem/abc", "/redeem/:code", handler.RedeemForm, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); !strings.Contains(body, "Confirm &amp; Give Gift") || !strings.Contains(body, "050-1") {
		t.Fatalf("unexpected redeem form %s", body)
	}

	resp = postForm(t, "/redeem/abc", "/redeem/:code", handler.Redeem, url.Values{})
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "Gift Redeemed!") {
		t.Fatalf("expected success page, got %d %s", resp.Code, resp.Body.String())
	}

	handler = newPageHandler(httpstub.PromotionFacadeStub{ParticipantFacadeStub: httpstub.ParticipantFacadeStub{
		RedeemFn: func(context.Context, string) (*model.Participant, error) {
			return nil, domainErrors.ErrAlreadyRedeemed
		},
		ParticipantFn: func(ctx context.Context, code string) (*model.Participant, error) {
			return httpstub.ParticipantFacadeStub{}.Redeem(ctx, code)
		},
	}})
	resp = postForm(t, "/redeem/abc", "/redeem/:code", handler.Redeem, url.Values{})
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), "This gift was already claimed by A.") {
		t.Fatalf("expected already redeemed page, got %d %s", resp.Code, resp.Body.String())
	}

	handler = newPageHandler(httpstub.PromotionFacadeStub{ParticipantFacadeStub: httpstub.ParticipantFacadeStub{
		RedeemFn: func(context.Context, string) (*model.Participant, error) {
			return nil, domainErrors.ErrNotFound
		},
		ParticipantFn: func(context.Context, string) (*model.Participant, error) {
			return nil, domainErrors.ErrNotFound
		},
	}})
	resp = postForm(t, "/redeem/zzz", "/redeem/:code", handler.Redeem, url.Values{})
	if resp.Code != http.StatusNotFound || !strings.Contains(resp.Body.String(), "Invalid code") {
		t.Fatalf("expected invalid code page, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/redeem/zzz", "/redeem/:code", handler.RedeemForm, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d", resp.Code)
	}
}

func TestPageHandlerShopRedeem(t *testing.T) {
	var redeemed string
	handler := newPageHandler(httpstub.PromotionFacadeStub{ParticipantFacadeStub: httpstub.ParticipantFacadeStub{
		RedeemFn: func(ctx context.Context, code string) (*model.Participant, error) {
			redeemed = code
			return httpstub.ParticipantFacadeStub{}.Redeem(ctx, code)
		},
	}})

	resp := postForm(t, "/shop", "/shop", handler.ShopRedeem, url.Values{"code": {"https://gift.example/redeem/abc"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if redeemed != "abc" {
		t.Fatalf("expected code extracted from scanned link, got %q", redeemed)
	}
	if body := resp.Body.String(); !strings.Contains(body, "המתנה מומשה בהצלחה!") || !strings.Contains(body, "050-1") {
		t.Fatalf("unexpected shop result %s", body)
	}

	resp = postForm(t, "/shop", "/shop", handler.ShopRedeem, url.Values{"code": {"  "}})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty code, got %d", resp.Code)
	}

	handler = newPageHandler(httpstub.PromotionFacadeStub{ParticipantFacadeStub: httpstub.ParticipantFacadeStub{
		RedeemFn: func(context.Context, string) (*model.Participant, error) {
			return nil, errors.New("db down")
		},
	}})
	resp = postForm(t, "/shop", "/shop", handler.ShopRedeem, url.Values{"code": {"abc"}})
	if resp.Code != http.StatusInternalServerError || !strings.Contains(resp.Body.String(), "Redemption failed") {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestPageHandlerLogin(t *testing.T) {
	handler := newPageHandler(httpstub.PromotionFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/shop/login", "/shop/login", handler.LoginForm, nil, nil)
	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/shop" {
		t.Fatalf("expected redirect to shop when clerk auth is disabled, got %d", resp.Code)
	}

	handler = newPageHandler(httpstub.PromotionFacadeStub{ClerkFacadeStub: httpstub.ClerkFacadeStub{
		Enabled: true,
		LoginFn: func(password string) (string, error) {
			if password != "secret" {
				return "", domainErrors.ErrInvalidCredentials
			}
			return "session-token", nil
		},
	}})

	resp = performRequest(t, http.MethodGet, "/shop/login?next=%2Fredeem%2Fabc", "/shop/login", handler.LoginForm, nil, nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `value="/redeem/abc"`) {
		t.Fatalf("expected login form with next, got %d %s", resp.Code, resp.Body.String())
	}

	resp = postForm(t, "/shop/login", "/shop/login", handler.Login, url.Values{"password": {"wrong"}})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	resp = postForm(t, "/shop/login", "/shop/login", handler.Login, url.Values{"password": {"secret"}, "next": {"//evil.example"}})
	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/shop" {
		t.Fatalf("expected redirect to shop, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
	if !strings.Contains(resp.Header().Get("Set-Cookie"), "giftpromo_clerk=session-token") {
		t.Fatalf("expected session cookie, got %q", resp.Header().Get("Set-Cookie"))
	}
}
