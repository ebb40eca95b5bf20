package app

import (
	"context"

	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/usecase"
)

// Notifier delivers gift links outside the application.
type Notifier interface {
	Send(ctx context.Context, n model.GiftNotification) error
}

// QRRenderer encodes content into a QR data URL.
type QRRenderer interface {
	DataURL(content string) (string, error)
}

// HealthChecker reports storage readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type PromotionFacade struct {
	registration  *usecase.RegistrationUseCase
	redemption    *usecase.RedemptionUseCase
	clerk         *usecase.ClerkUseCase
	notifications *usecase.NotificationUseCase
	notifier      Notifier
	qr            QRRenderer
	health        HealthChecker
}

func NewPromotionFacade(
	registration *usecase.RegistrationUseCase,
	redemption *usecase.RedemptionUseCase,
	clerk *usecase.ClerkUseCase,
	notifications *usecase.NotificationUseCase,
	notifier Notifier,
	qr QRRenderer,
	health HealthChecker,
) *PromotionFacade {
	return &PromotionFacade{
		registration:  registration,
		redemption:    redemption,
		clerk:         clerk,
		notifications: notifications,
		notifier:      notifier,
		qr:            qr,
		health:        health,
	}
}

func (f *PromotionFacade) Register(ctx context.Context, in usecase.Registration) (*model.Participant, error) {
	return f.registration.Register(ctx, in)
}

func (f *PromotionFacade) Participant(ctx context.Context, code string) (*model.Participant, error) {
	return f.registration.Participant(ctx, code)
}

func (f *PromotionFacade) Redeem(ctx context.Context, code string) (*model.Participant, error) {
	return f.redemption.Redeem(ctx, code)
}

func (f *PromotionFacade) QRDataURL(content string) (string, error) {
	return f.qr.DataURL(content)
}

func (f *PromotionFacade) ClerkAuthEnabled() bool {
	return f.clerk.Enabled()
}

func (f *PromotionFacade) ClerkLogin(password string) (string, error) {
	return f.clerk.Login(password)
}

func (f *PromotionFacade) ParseToken(token string) error {
	return f.clerk.ParseToken(token)
}

func (f *PromotionFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *PromotionFacade) PendingNotifications(ctx context.Context, limit int) ([]model.GiftNotification, error) {
	return f.notifications.ClaimBatch(ctx, limit)
}

func (f *PromotionFacade) SendNotification(ctx context.Context, n model.GiftNotification) error {
	return f.notifier.Send(ctx, n)
}

func (f *PromotionFacade) MarkNotified(ctx context.Context, participantID string) error {
	return f.notifications.MarkDelivered(ctx, participantID)
}
