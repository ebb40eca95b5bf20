package usecase

import (
	"context"
	"time"

	"github.com/polkiloo/giftpromo/internal/config"
	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/domain/repository"
)

// NotificationPolicy bounds how gift link deliveries are claimed.
type NotificationPolicy struct {
	BaseURL     string
	MaxAttempts int
	Lease       time.Duration
}

// NotificationUseCase hands pending gift links to the dispatcher.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
	policy        NotificationPolicy
	now           func() time.Time
}

// NewNotificationUseCase constructs NotificationUseCase from configuration.
func NewNotificationUseCase(notifications repository.NotificationRepository, cfg *config.Config) *NotificationUseCase {
	return newNotificationUseCase(notifications, NotificationPolicy{
		BaseURL:     cfg.PublicBaseURL,
		MaxAttempts: cfg.Notify.MaxAttempts,
		Lease:       cfg.Notify.Lease,
	})
}

func newNotificationUseCase(notifications repository.NotificationRepository, policy NotificationPolicy) *NotificationUseCase {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 5
	}
	if policy.Lease <= 0 {
		policy.Lease = time.Minute
	}
	return &NotificationUseCase{notifications: notifications, policy: policy, now: time.Now}
}

// ClaimBatch leases up to limit undelivered participants and builds their notifications.
func (u *NotificationUseCase) ClaimBatch(ctx context.Context, limit int) ([]model.GiftNotification, error) {
	if limit <= 0 {
		return nil, nil
	}
	now := u.now().UTC()
	participants, err := u.notifications.ClaimPending(ctx, repository.ClaimOptions{
		Limit:       limit,
		MaxAttempts: u.policy.MaxAttempts,
		StaleBefore: now.Add(-u.policy.Lease),
		Now:         now,
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.GiftNotification, 0, len(participants))
	for _, p := range participants {
		out = append(out, model.GiftNotification{
			ParticipantID: p.ID,
			FullName:      p.FullName,
			Email:         p.Email,
			Phone:         p.Phone,
			Code:          p.Code,
			GiftURL:       GiftLink(u.policy.BaseURL, p.Code),
		})
	}
	return out, nil
}

// MarkDelivered records a successful delivery so the participant is not claimed again.
func (u *NotificationUseCase) MarkDelivered(ctx context.Context, participantID string) error {
	return u.notifications.MarkNotified(ctx, participantID, u.now().UTC())
}
