package handlers

import (
	"context"

	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/usecase"
)

// ParticipantFacade describes registration and redemption capabilities required by handlers.
type ParticipantFacade interface {
	Register(ctx context.Context, in usecase.Registration) (*model.Participant, error)
	Participant(ctx context.Context, code string) (*model.Participant, error)
	Redeem(ctx context.Context, code string) (*model.Participant, error)
}

// QRFacade renders QR codes.
type QRFacade interface {
	QRDataURL(content string) (string, error)
}

// ClerkFacade authenticates shop staff.
type ClerkFacade interface {
	ClerkAuthEnabled() bool
	ClerkLogin(password string) (string, error)
	ParseToken(token string) error
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// PromotionFacade aggregates the full set of operations used across handlers.
type PromotionFacade interface {
	ParticipantFacade
	QRFacade
	ClerkFacade
	HealthFacade
}
