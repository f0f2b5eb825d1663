// Package sharelink manages capability tokens that grant time and quota
// bounded public access to a single form. A link moves through a small state
// machine: active, deactivated, and deleted are stored states, while expired
// and quota-reached are projections computed at evaluation time.
package sharelink

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// tokenEntropy is the number of random bytes behind each token.
const tokenEntropy = 32

// Sentinel errors returned by managers and stores.
var (
	ErrNotFound         = errors.New("sharelink: link not found")
	ErrForbidden        = errors.New("sharelink: caller does not own the parent form")
	ErrPasswordRequired = errors.New("sharelink: password required but not provided")
	ErrInvalidPassword  = errors.New("sharelink: invalid password")
	ErrQuotaExceeded    = errors.New("sharelink: response quota exhausted")
)

// Link is one issued share token and its gating policy. ExpiresAt zero means
// the link never expires; MaxResponses zero means unlimited submissions.
type Link struct {
	ID              string    `db:"id"`
	FormID          string    `db:"form_id"`
	Token           string    `db:"token"`
	PasswordHash    string    `db:"password_hash"`
	RequirePassword bool      `db:"require_password"`
	ExpiresAt       time.Time `db:"expires_at"`
	MaxResponses    int       `db:"max_responses"`
	ResponseCount   int       `db:"response_count"`
	IsActive        bool      `db:"is_active"`
	CreatedBy       string    `db:"created_by"`
	CreatedAt       time.Time `db:"created_at"`
}

// Reason identifies which gate made a link unusable.
type Reason string

const (
	ReasonInactive     Reason = "inactive"
	ReasonExpired      Reason = "expired"
	ReasonQuotaReached Reason = "quota_reached"
)

// UnusableError reports the first failing gate for a link. Gates are always
// evaluated in a fixed order: inactive, then expired, then quota.
type UnusableError struct {
	Reason Reason
}

func (e *UnusableError) Error() string {
	return fmt.Sprintf("sharelink: link not usable: %s", e.Reason)
}

// Usability evaluates the gates in order and returns nil when the link can
// accept a submission at the given instant, or an *UnusableError naming the
// first gate that failed.
func Usability(link Link, now time.Time) error {
	if !link.IsActive {
		return &UnusableError{Reason: ReasonInactive}
	}
	if !link.ExpiresAt.IsZero() && !link.ExpiresAt.After(now) {
		return &UnusableError{Reason: ReasonExpired}
	}
	if link.MaxResponses > 0 && link.ResponseCount >= link.MaxResponses {
		return &UnusableError{Reason: ReasonQuotaReached}
	}
	return nil
}

// IsUsable reports whether the link can accept a submission at the given
// instant.
func IsUsable(link Link, now time.Time) bool {
	return Usability(link, now) == nil
}

// GenerateToken returns a URL-safe token carrying 256 bits of entropy.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenEntropy)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sharelink: generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
