package dto

import (
	"time"

	"github.com/polkiloo/giftpromo/internal/domain/model"
)

// RegisterRequest describes the registration payload.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// RegisterResponse returns the issued redemption code.
type RegisterResponse struct {
	Code string `json:"code"`
	ID   string `json:"id"`
}

// ParticipantResponse is the public participant record.
type ParticipantResponse struct {
	ID         string     `json:"id"`
	FullName   string     `json:"fullName"`
	Email      *string    `json:"email"`
	Phone      *string    `json:"phone"`
	Code       string     `json:"code"`
	Redeemed   bool       `json:"redeemed"`
	RedeemedAt *time.Time `json:"redeemedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// RedeemRequest carries the code presented at the shop.
type RedeemRequest struct {
	Code *string `json:"code"`
}

// RedeemResponse reports a successful redemption.
type RedeemResponse struct {
	Success     bool                `json:"success"`
	Participant ParticipantResponse `json:"participant"`
}

// NewParticipantResponse converts a domain participant for the API.
func NewParticipantResponse(p *model.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:         p.ID,
		FullName:   p.FullName,
		Email:      p.Email,
		Phone:      p.Phone,
		Code:       p.Code,
		Redeemed:   p.Redeemed,
		RedeemedAt: p.RedeemedAt,
		CreatedAt:  p.CreatedAt,
	}
}
