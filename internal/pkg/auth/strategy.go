package auth

import "time"

// Strategy issues and verifies clerk session tokens.
type Strategy interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

// Options tunes token issuing. Zero values select defaults.
type Options struct {
	TTL time.Duration
	Now func() time.Time
}

// DefaultTTL bounds a clerk session to a working day.
const DefaultTTL = 12 * time.Hour
