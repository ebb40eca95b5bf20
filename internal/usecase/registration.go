package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/domain/repository"
)

const maxCodeAttempts = 3

// RegistrationUseCase enrolls participants and hands out redemption codes.
type RegistrationUseCase struct {
	participants repository.ParticipantRepository

	newID   func() string
	newCode func() string
	now     func() time.Time
}

// NewRegistrationUseCase constructs RegistrationUseCase.
func NewRegistrationUseCase(participants repository.ParticipantRepository) *RegistrationUseCase {
	return &RegistrationUseCase{
		participants: participants,
		newID:        NewID,
		newCode:      NewCode,
		now:          time.Now,
	}
}

// Register validates input, rejects already registered contacts and stores a new participant.
func (u *RegistrationUseCase) Register(ctx context.Context, in Registration) (*model.Participant, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.Email != "" {
		if err := u.ensureFree(ctx, u.participants.GetByEmail, in.Email, domainErrors.ErrEmailTaken); err != nil {
			return nil, err
		}
	}
	if in.Phone != "" {
		if err := u.ensureFree(ctx, u.participants.GetByPhone, in.Phone, domainErrors.ErrPhoneTaken); err != nil {
			return nil, err
		}
	}

	p := &model.Participant{
		ID:        u.newID(),
		FullName:  in.FullName,
		Email:     optional(in.Email),
		Phone:     optional(in.Phone),
		CreatedAt: u.now().UTC(),
	}

	var err error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		p.Code = u.newCode()
		err = u.participants.Create(ctx, p)
		if !errors.Is(err, domainErrors.ErrCodeTaken) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, domainErrors.ErrCodeTaken) {
			return nil, fmt.Errorf("issue unique code after %d attempts: %w", maxCodeAttempts, err)
		}
		return nil, err
	}

	return p, nil
}

// Participant fetches a participant by redemption code.
func (u *RegistrationUseCase) Participant(ctx context.Context, code string) (*model.Participant, error) {
	code = ExtractCode(code)
	if code == "" {
		return nil, domainErrors.ErrNotFound
	}
	return u.participants.GetByCode(ctx, code)
}

func (u *RegistrationUseCase) ensureFree(
	ctx context.Context,
	lookup func(context.Context, string) (*model.Participant, error),
	value string,
	taken error,
) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, domainErrors.ErrNotFound):
		return nil
	default:
		return err
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
