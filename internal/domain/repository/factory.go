package repository

import "context"

// Factory describes access to domain repositories backed by a single store.
type Factory interface {
	Participants() ParticipantRepository
	Notifications() NotificationRepository
	HealthCheck(ctx context.Context) error
	Close() error
}
