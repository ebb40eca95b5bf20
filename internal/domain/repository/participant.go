package repository

import (
	"context"
	"time"

	"github.com/polkiloo/giftpromo/internal/domain/model"
)

// ParticipantRepository describes persistence operations for participants.
//
// Create reports ErrEmailTaken, ErrPhoneTaken or ErrCodeTaken when a unique
// constraint rejects the row. MarkRedeemed is a compare-and-set: it returns
// ErrNotFound for unknown codes and ErrAlreadyRedeemed when the flag was
// already set.
type ParticipantRepository interface {
	Create(ctx context.Context, p *model.Participant) error
	GetByCode(ctx context.Context, code string) (*model.Participant, error)
	GetByEmail(ctx context.Context, email string) (*model.Participant, error)
	GetByPhone(ctx context.Context, phone string) (*model.Participant, error)
	MarkRedeemed(ctx context.Context, code string, at time.Time) (*model.Participant, error)
}
