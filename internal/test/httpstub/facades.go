// Package httpstub provides facade stubs for HTTP layer tests.
package httpstub

import (
	"context"
	"time"

	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/test"
	"github.com/polkiloo/giftpromo/internal/usecase"
)

// ParticipantFacadeStub provides controllable behaviour for participant endpoints.
type ParticipantFacadeStub struct {
	RegisterFn    func(context.Context, usecase.Registration) (*model.Participant, error)
	ParticipantFn func(context.Context, string) (*model.Participant, error)
	RedeemFn      func(context.Context, string) (*model.Participant, error)
}

// Register delegates to provided function or returns a sample participant.
func (s ParticipantFacadeStub) Register(ctx context.Context, in usecase.Registration) (*model.Participant, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	p := test.SampleParticipant("code")
	p.FullName = in.FullName
	return p, nil
}

// Participant delegates to provided function or returns a sample participant.
func (s ParticipantFacadeStub) Participant(ctx context.Context, code string) (*model.Participant, error) {
	if s.ParticipantFn != nil {
		return s.ParticipantFn(ctx, code)
	}
	return test.SampleParticipant(code), nil
}

// Redeem delegates to provided function or returns a redeemed sample participant.
func (s ParticipantFacadeStub) Redeem(ctx context.Context, code string) (*model.Participant, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, code)
	}
	p := test.SampleParticipant(code)
	at := time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC)
	p.Redeemed = true
	p.RedeemedAt = &at
	return p, nil
}

// QRFacadeStub returns fixed data URLs.
type QRFacadeStub struct {
	QRFn func(string) (string, error)
}

// QRDataURL delegates to provided function or returns a fake data URL.
func (s QRFacadeStub) QRDataURL(content string) (string, error) {
	if s.QRFn != nil {
		return s.QRFn(content)
	}
	return "data:image/png;base64,UVI=", nil
}

// ClerkFacadeStub simulates clerk authentication.
type ClerkFacadeStub struct {
	Enabled bool
	LoginFn func(string) (string, error)
	ParseFn func(string) error
}

// ClerkAuthEnabled reports the configured flag.
func (s ClerkFacadeStub) ClerkAuthEnabled() bool { return s.Enabled }

// ClerkLogin returns a token for successful logins.
func (s ClerkFacadeStub) ClerkLogin(password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(password)
	}
	return "token", nil
}

// ParseToken accepts every token unless overridden.
func (s ClerkFacadeStub) ParseToken(token string) error {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return nil
}

// HealthFacadeStub returns the configured error.
type HealthFacadeStub struct {
	Err error
}

// Health returns the configured error.
func (s HealthFacadeStub) Health(context.Context) error { return s.Err }

// PromotionFacadeStub aggregates facade dependencies for HTTP layer tests.
type PromotionFacadeStub struct {
	ParticipantFacadeStub
	QRFacadeStub
	ClerkFacadeStub
	HealthFacadeStub
}
