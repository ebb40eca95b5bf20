package model

// GiftNotification is the payload delivered to a participant with their gift link.
type GiftNotification struct {
	ParticipantID string
	FullName      string
	Email         *string
	Phone         *string
	Code          string
	GiftURL       string
}
