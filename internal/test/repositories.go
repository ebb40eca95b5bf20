package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	"github.com/polkiloo/giftpromo/internal/domain/model"
	"github.com/polkiloo/giftpromo/internal/domain/repository"
)

// ParticipantRepositoryStub stores participants in-memory and enforces uniqueness like the database.
type ParticipantRepositoryStub struct {
	mu     sync.Mutex
	byCode map[string]*model.Participant
	order  []string

	Err           error
	CreateFn      func(context.Context, *model.Participant) error
	GetByEmailErr error
	GetByPhoneErr error
	Created       int
}

// NewParticipantRepositoryStub constructs stub repository with initialized maps.
func NewParticipantRepositoryStub() *ParticipantRepositoryStub {
	return &ParticipantRepositoryStub{byCode: make(map[string]*model.Participant)}
}

// Create stores the participant unless a unique field is already taken.
func (s *ParticipantRepositoryStub) Create(ctx context.Context, p *model.Participant) error {
	if s.CreateFn != nil {
		if err := s.CreateFn(ctx, p); err != nil {
			return err
		}
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byCode == nil {
		s.byCode = make(map[string]*model.Participant)
	}
	if _, exists := s.byCode[p.Code]; exists {
		return domainErrors.ErrCodeTaken
	}
	for _, existing := range s.byCode {
		if p.Email != nil && existing.Email != nil && *existing.Email == *p.Email {
			return domainErrors.ErrEmailTaken
		}
		if p.Phone != nil && existing.Phone != nil && *existing.Phone == *p.Phone {
			return domainErrors.ErrPhoneTaken
		}
	}
	stored := *p
	s.byCode[p.Code] = &stored
	s.order = append(s.order, p.Code)
	s.Created++
	return nil
}

// GetByCode fetches participant by code or returns not found.
func (s *ParticipantRepositoryStub) GetByCode(ctx context.Context, code string) (*model.Participant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byCode[code]; ok {
		out := *p
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByEmail fetches participant by email or returns not found.
func (s *ParticipantRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.Participant, error) {
	if s.GetByEmailErr != nil {
		return nil, s.GetByEmailErr
	}
	return s.find(func(p *model.Participant) bool { return p.Email != nil && *p.Email == email })
}

// GetByPhone fetches participant by phone or returns not found.
func (s *ParticipantRepositoryStub) GetByPhone(ctx context.Context, phone string) (*model.Participant, error) {
	if s.GetByPhoneErr != nil {
		return nil, s.GetByPhoneErr
	}
	return s.find(func(p *model.Participant) bool { return p.Phone != nil && *p.Phone == phone })
}

// MarkRedeemed flips the redeemed flag once.
func (s *ParticipantRepositoryStub) MarkRedeemed(ctx context.Context, code string, at time.Time) (*model.Participant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byCode[code]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if p.Redeemed {
		return nil, domainErrors.ErrAlreadyRedeemed
	}
	p.Redeemed = true
	p.RedeemedAt = &at
	out := *p
	return &out, nil
}

// ClaimPending leases undelivered participants in creation order.
func (s *ParticipantRepositoryStub) ClaimPending(ctx context.Context, opts repository.ClaimOptions) ([]model.Participant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Participant
	for _, code := range s.order {
		if len(out) >= opts.Limit {
			break
		}
		p := s.byCode[code]
		if p.NotifiedAt != nil || p.NotifyAttempts >= opts.MaxAttempts {
			continue
		}
		if p.NotifyClaimedAt != nil && !p.NotifyClaimedAt.Before(opts.StaleBefore) {
			continue
		}
		now := opts.Now
		p.NotifyClaimedAt = &now
		p.NotifyAttempts++
		out = append(out, *p)
	}
	return out, nil
}

// MarkNotified records delivery time.
func (s *ParticipantRepositoryStub) MarkNotified(ctx context.Context, participantID string, at time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byCode {
		if p.ID == participantID {
			p.NotifiedAt = &at
			p.NotifyClaimedAt = nil
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *ParticipantRepositoryStub) find(match func(*model.Participant) bool) (*model.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, code := range s.order {
		if p := s.byCode[code]; match(p) {
			out := *p
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// FactoryStub serves the in-memory repository through repository.Factory.
type FactoryStub struct {
	Repo      *ParticipantRepositoryStub
	HealthErr error
	Closed    bool
}

// Participants returns the in-memory participant repository.
func (f *FactoryStub) Participants() repository.ParticipantRepository { return f.Repo }

// Notifications returns the in-memory repository as notification store.
func (f *FactoryStub) Notifications() repository.NotificationRepository { return f.Repo }

// HealthCheck returns the configured error.
func (f *FactoryStub) HealthCheck(context.Context) error { return f.HealthErr }

// Close marks the factory closed.
func (f *FactoryStub) Close() error {
	f.Closed = true
	return nil
}

var (
	_ repository.ParticipantRepository  = (*ParticipantRepositoryStub)(nil)
	_ repository.NotificationRepository = (*ParticipantRepositoryStub)(nil)
	_ repository.Factory                = (*FactoryStub)(nil)
)
