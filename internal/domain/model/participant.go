package model

import "time"

// Participant represents a registered gift recipient.
type Participant struct {
	ID         string
	FullName   string
	Email      *string
	Phone      *string
	Code       string
	Redeemed   bool
	RedeemedAt *time.Time
	CreatedAt  time.Time

	NotifiedAt      *time.Time
	NotifyAttempts  int
	NotifyClaimedAt *time.Time
}

// Contact returns the phone number when present, otherwise the email.
func (p Participant) Contact() string {
	if p.Phone != nil && *p.Phone != "" {
		return *p.Phone
	}
	if p.Email != nil {
		return *p.Email
	}
	return ""
}
