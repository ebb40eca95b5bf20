package auth

import (
	"context"
	"testing"
	"time"

	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/giftpromo/internal/config"
)

func TestNewPasswordHasher(t *testing.T) {
	hasher, ok := newPasswordHasher().(*BcryptHasher)
	if !ok {
		t.Fatal("expected *BcryptHasher")
	}
	if hasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", hasher.cost)
	}
}

func TestNewTokenStrategyUsesSessionTTL(t *testing.T) {
	strategy := newTokenStrategy(strategyParams{Config: &config.Config{TokenSecret: "top-secret", ClerkSessionTTL: 3 * time.Hour}})
	hmacStrategy, ok := strategy.(*HMACStrategy)
	if !ok {
		t.Fatalf("expected *HMACStrategy, got %T", strategy)
	}
	if string(hmacStrategy.secret) != "top-secret" {
		t.Fatalf("unexpected secret: %q", string(hmacStrategy.secret))
	}
	if hmacStrategy.TTL() != 3*time.Hour {
		t.Fatalf("unexpected ttl: %s", hmacStrategy.TTL())
	}
}

func TestModuleIssuesClerkSessions(t *testing.T) {
	var strategy Strategy
	var hasher PasswordHasher
	app := fx.New(
		fx.NopLogger,
		fx.Supply(&config.Config{TokenSecret: "secret"}),
		Module,
		fx.Populate(&strategy, &hasher),
	)
	t.Cleanup(func() { _ = app.Stop(context.Background()) })
	if err := app.Err(); err != nil {
		t.Fatalf("fx app failed: %v", err)
	}

	token, err := strategy.IssueToken("clerk")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if subject, err := strategy.ParseToken(token); err != nil || subject != "clerk" {
		t.Fatalf("expected clerk subject, got %q (%v)", subject, err)
	}
	if hasher == nil {
		t.Fatal("expected password hasher")
	}
}
