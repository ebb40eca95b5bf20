package usecase

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/domain/repository"
)

// RedemptionUseCase marks gifts as handed out.
type RedemptionUseCase struct {
	participants repository.ParticipantRepository
	now          func() time.Time
}

// NewRedemptionUseCase constructs RedemptionUseCase.
func NewRedemptionUseCase(participants repository.ParticipantRepository) *RedemptionUseCase {
	return &RedemptionUseCase{participants: participants, now: time.Now}
}

// Redeem flips the participant's redeemed flag exactly once.
// Unknown codes yield ErrNotFound and repeated redemptions ErrAlreadyRedeemed.
func (u *RedemptionUseCase) Redeem(ctx context.Context, code string) (*model.Participant, error) {
	code = ExtractCode(code)
	if code == "" {
		return nil, domainErrors.NewValidationError("Code is required")
	}
	return u.participants.MarkRedeemed(ctx, code, u.now().UTC())
}
