package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polkiloo/giftpromo/internal/config"
	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/pkg/qr"
	testhelpers "github.com/polkiloo/giftpromo/internal/test"
	"github.com/polkiloo/giftpromo/internal/usecase"
)

type facadeDeps struct {
	repo     *testhelpers.ParticipantRepositoryStub
	factory  *testhelpers.FactoryStub
	notifier *testhelpers.NotifierStub
}

func newFacade(cfg *config.Config) (*PromotionFacade, facadeDeps) {
	repo := testhelpers.NewParticipantRepositoryStub()
	factory := &testhelpers.FactoryStub{Repo: repo}
	notifier := &testhelpers.NotifierStub{}
	facade := NewPromotionFacade(
		usecase.NewRegistrationUseCase(repo),
		usecase.NewRedemptionUseCase(repo),
		usecase.NewClerkUseCase(cfg, testhelpers.HasherStub{}, testhelpers.StrategyStub{}),
		usecase.NewNotificationUseCase(repo, cfg),
		notifier,
		qr.NewRenderer(128),
		factory,
	)
	return facade, facadeDeps{repo: repo, factory: factory, notifier: notifier}
}

func TestPromotionFacadeRegisterLookupRedeem(t *testing.T) {
	facade, _ := newFacade(&config.Config{})
	ctx := context.Background()

	p, err := facade.Register(ctx, usecase.Registration{FullName: "A", Phone: "050-1"})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	got, err := facade.Participant(ctx, p.Code)
	if err != nil {
		t.Fatalf("participant returned error: %v", err)
	}
	if got.Redeemed {
		t.Fatal("expected participant to be unredeemed")
	}

	redeemed, err := facade.Redeem(ctx, p.Code)
	if err != nil {
		t.Fatalf("redeem returned error: %v", err)
	}
	if !redeemed.Redeemed {
		t.Fatal("expected participant to be redeemed")
	}

	if _, err := facade.Redeem(ctx, p.Code); !errors.Is(err, domainErrors.ErrAlreadyRedeemed) {
		t.Fatalf("expected already redeemed, got %v", err)
	}
	if _, err := facade.Participant(ctx, "unknown"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPromotionFacadeQRAndHealth(t *testing.T) {
	facade, deps := newFacade(&config.Config{})

	url, err := facade.QRDataURL("https://gift.example/register")
	if err != nil {
		t.Fatalf("qr returned error: %v", err)
	}
	if len(url) < len("data:image/png;base64,") || url[:22] != "data:image/png;base64," {
		t.Fatalf("unexpected data url prefix %q", url)
	}

	if err := facade.Health(context.Background()); err != nil {
		t.Fatalf("health returned error: %v", err)
	}
	deps.factory.HealthErr = errors.New("down")
	if err := facade.Health(context.Background()); err == nil {
		t.Fatal("expected health error")
	}
}

func TestPromotionFacadeClerk(t *testing.T) {
	facade, _ := newFacade(&config.Config{ClerkPasswordHash: "hash:secret"})
	if !facade.ClerkAuthEnabled() {
		t.Fatal("expected clerk auth enabled")
	}
	token, err := facade.ClerkLogin("secret")
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if err := facade.ParseToken(token); err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if _, err := facade.ClerkLogin("bad"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestPromotionFacadeNotifications(t *testing.T) {
	cfg := &config.Config{PublicBaseURL: "https://gift.example", Notify: config.NotifyConfig{MaxAttempts: 3, Lease: time.Minute}}
	facade, deps := newFacade(cfg)
	ctx := context.Background()

	p, err := facade.Register(ctx, usecase.Registration{FullName: "A", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	pending, err := facade.PendingNotifications(ctx, 10)
	if err != nil {
		t.Fatalf("pending returned error: %v", err)
	}
	if len(pending) != 1 || pending[0].GiftURL != "https://gift.example/gift/"+p.Code {
		t.Fatalf("unexpected pending notifications %+v", pending)
	}

	if err := facade.SendNotification(ctx, pending[0]); err != nil {
		t.Fatalf("send returned error: %v", err)
	}
	if len(deps.notifier.Sent) != 1 {
		t.Fatalf("expected notifier to receive notification")
	}

	if err := facade.MarkNotified(ctx, p.ID); err != nil {
		t.Fatalf("mark returned error: %v", err)
	}
	stored, _ := deps.repo.GetByCode(ctx, p.Code)
	if stored.NotifiedAt == nil {
		t.Fatal("expected notifiedAt to be set")
	}

	deps.notifier.Err = errors.New("webhook down")
	if err := facade.SendNotification(ctx, model.GiftNotification{}); err == nil {
		t.Fatal("expected notifier error")
	}
}
