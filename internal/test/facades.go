package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/giftpromo/internal/domain/model"
)

// SampleParticipant returns a populated participant for handler tests.
func SampleParticipant(code string) *model.Participant {
	phone := "050-1"
	return &model.Participant{
		ID:        "11111111-2222-3333-4444-555555555555",
		FullName:  "A",
		Phone:     &phone,
		Code:      code,
		CreatedAt: time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC),
	}
}

// WorkerFacadeStub mimics dispatcher interactions with the promotion facade.
type WorkerFacadeStub struct {
	Batches   [][]model.GiftNotification
	PendingFn func(context.Context, int) ([]model.GiftNotification, error)
	SendFn    func(context.Context, model.GiftNotification) error
	MarkFn    func(context.Context, string) error
	Sent      []model.GiftNotification
	Marked    []string
	mu        sync.Mutex
	calls     int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PendingNotifications returns batches from configured queue.
func (s *WorkerFacadeStub) PendingNotifications(ctx context.Context, limit int) ([]model.GiftNotification, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.calls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	return nil, nil
}

// SendNotification records sent notifications.
func (s *WorkerFacadeStub) SendNotification(ctx context.Context, n model.GiftNotification) error {
	if s.SendFn != nil {
		if err := s.SendFn(ctx, n); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, n)
	return nil
}

// MarkNotified records delivered participants.
func (s *WorkerFacadeStub) MarkNotified(ctx context.Context, participantID string) error {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, participantID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Marked = append(s.Marked, participantID)
	return nil
}

// NotifierStub captures notifications sent through the webhook port.
type NotifierStub struct {
	Err  error
	mu   sync.Mutex
	Sent []model.GiftNotification
}

// Send records the notification or returns configured error.
func (s *NotifierStub) Send(ctx context.Context, n model.GiftNotification) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, n)
	return nil
}
