package repository

import (
	"context"
	"time"

	"github.com/polkiloo/giftpromo/internal/domain/model"
)

// ClaimOptions bounds a batch of pending gift link deliveries.
type ClaimOptions struct {
	Limit       int
	MaxAttempts int
	// StaleBefore releases claims older than this instant back to the pool.
	StaleBefore time.Time
	Now         time.Time
}

// NotificationRepository tracks delivery of gift links to participants.
type NotificationRepository interface {
	ClaimPending(ctx context.Context, opts ClaimOptions) ([]model.Participant, error)
	MarkNotified(ctx context.Context, participantID string, at time.Time) error
}
