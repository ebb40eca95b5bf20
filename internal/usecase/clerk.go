package usecase

import (
	"errors"
	"fmt"

	"github.com/polkiloo/giftpromo/internal/config"
	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
	pkgAuth "github.com/polkiloo/giftpromo/internal/pkg/auth"
)

const clerkSubject = "clerk"

// ClerkUseCase authenticates shop staff against the configured password hash.
type ClerkUseCase struct {
	passwordHash string
	hasher       pkgAuth.PasswordHasher
	tokens       pkgAuth.Strategy
}

// NewClerkUseCase constructs ClerkUseCase.
func NewClerkUseCase(cfg *config.Config, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *ClerkUseCase {
	return &ClerkUseCase{passwordHash: cfg.ClerkPasswordHash, hasher: hasher, tokens: strategy}
}

// Enabled reports whether clerk sessions are required for redemption.
func (u *ClerkUseCase) Enabled() bool {
	return u.passwordHash != ""
}

// Login checks the clerk password and issues a session token.
func (u *ClerkUseCase) Login(password string) (string, error) {
	if !u.Enabled() || password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.passwordHash, password); err != nil {
		if errors.Is(err, pkgAuth.ErrPasswordMismatch) {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("compare clerk password: %w", err)
	}
	return u.tokens.IssueToken(clerkSubject)
}

// ParseToken validates a clerk session token.
func (u *ClerkUseCase) ParseToken(token string) error {
	if token == "" {
		return pkgAuth.ErrInvalidToken
	}
	subject, err := u.tokens.ParseToken(token)
	if err != nil {
		return err
	}
	if subject != clerkSubject {
		return pkgAuth.ErrInvalidToken
	}
	return nil
}
