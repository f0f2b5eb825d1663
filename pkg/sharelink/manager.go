package sharelink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultExpiryDays applies when IssueOptions leaves ExpiresInDays unset.
const DefaultExpiryDays = 30

// Option configures a Manager.
type Option func(*Manager)

// WithOwnershipChecker gates Issue, Deactivate, and Revoke on form ownership.
// Without one, ownership is not enforced.
func WithOwnershipChecker(checker OwnershipChecker) Option {
	return func(m *Manager) {
		m.owners = checker
	}
}

// WithClock overrides the time source. Tests use this to pin expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger attaches a logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(m *Manager) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			m.cost = cost
		}
	}
}

// Manager issues and gates share links against a Store.
type Manager struct {
	store  Store
	owners OwnershipChecker
	now    func() time.Time
	log    *zap.Logger
	cost   int
}

// NewManager builds a Manager over the given store.
func NewManager(store Store, options ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		log:   zap.NewNop(),
		cost:  bcrypt.DefaultCost,
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// IssueOptions controls the gating policy of a new link. A nil ExpiresInDays
// falls back to DefaultExpiryDays; an explicit non-positive value issues a
// link that never expires.
type IssueOptions struct {
	ExpiresInDays   *int
	MaxResponses    int
	RequirePassword bool
	Password        string
}

// Issue creates and persists a new link for the form, owned by subject. The
// token carries 256 bits of entropy and the password, when required, is
// stored only as a bcrypt hash.
func (m *Manager) Issue(ctx context.Context, formID, subject string, opts IssueOptions) (Link, error) {
	if err := m.checkOwnership(ctx, formID, subject); err != nil {
		return Link{}, err
	}
	if opts.RequirePassword && opts.Password == "" {
		return Link{}, ErrPasswordRequired
	}

	token, err := GenerateToken()
	if err != nil {
		return Link{}, err
	}

	var passwordHash string
	if opts.RequirePassword {
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), m.cost)
		if err != nil {
			return Link{}, fmt.Errorf("sharelink: hash password: %w", err)
		}
		passwordHash = string(hash)
	}

	now := m.now().UTC()
	link := Link{
		ID:              uuid.NewString(),
		FormID:          formID,
		Token:           token,
		PasswordHash:    passwordHash,
		RequirePassword: opts.RequirePassword,
		MaxResponses:    opts.MaxResponses,
		IsActive:        true,
		CreatedBy:       subject,
		CreatedAt:       now,
	}

	days := DefaultExpiryDays
	if opts.ExpiresInDays != nil {
		days = *opts.ExpiresInDays
	}
	if days > 0 {
		link.ExpiresAt = now.AddDate(0, 0, days)
	}

	if err := m.store.Insert(ctx, link); err != nil {
		return Link{}, fmt.Errorf("sharelink: persist link: %w", err)
	}

	m.log.Info("sharelink: issued",
		zap.String("form_id", formID),
		zap.String("link_id", link.ID),
		zap.Bool("password", opts.RequirePassword),
	)
	return link, nil
}

// Resolve looks up a link by exact (formID, token) match. Callers must still
// evaluate usability and the password gate before accepting a submission.
func (m *Manager) Resolve(ctx context.Context, formID, token string) (Link, error) {
	return m.store.GetByToken(ctx, formID, token)
}

// List returns every link issued for the form.
func (m *Manager) List(ctx context.Context, formID string) ([]Link, error) {
	return m.store.List(ctx, formID)
}

// VerifyPassword checks a submitted password against the link's stored hash.
// Links issued without a password gate accept any input.
func (m *Manager) VerifyPassword(link Link, password string) error {
	if !link.RequirePassword {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(link.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// RecordSubmission counts one submission against the link. The inactive and
// expired gates are checked here; the quota gate lives inside the store's
// atomic increment so concurrent submissions cannot push the counter past
// MaxResponses. The returned link reflects the new count.
func (m *Manager) RecordSubmission(ctx context.Context, link Link) (Link, error) {
	if !link.IsActive {
		return Link{}, &UnusableError{Reason: ReasonInactive}
	}
	if !link.ExpiresAt.IsZero() && !link.ExpiresAt.After(m.now()) {
		return Link{}, &UnusableError{Reason: ReasonExpired}
	}

	updated, err := m.store.Increment(ctx, link.ID)
	if errors.Is(err, ErrQuotaExceeded) {
		return Link{}, &UnusableError{Reason: ReasonQuotaReached}
	}
	if err != nil {
		return Link{}, fmt.Errorf("sharelink: record submission: %w", err)
	}
	return updated, nil
}

// Deactivate flips the link inactive. The record survives and the link can
// be reactivated by the store owner out of band.
func (m *Manager) Deactivate(ctx context.Context, formID, linkID, subject string) error {
	if _, err := m.store.GetByID(ctx, formID, linkID); err != nil {
		return err
	}
	if err := m.checkOwnership(ctx, formID, subject); err != nil {
		return err
	}
	return m.store.SetActive(ctx, formID, linkID, false)
}

// Revoke hard-deletes the link. It fails with ErrNotFound when the link does
// not belong to the form and ErrForbidden when the subject does not own the
// parent form. There is no way back from a revoked link.
func (m *Manager) Revoke(ctx context.Context, formID, linkID, subject string) error {
	if _, err := m.store.GetByID(ctx, formID, linkID); err != nil {
		return err
	}
	if err := m.checkOwnership(ctx, formID, subject); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, formID, linkID); err != nil {
		return err
	}
	m.log.Info("sharelink: revoked",
		zap.String("form_id", formID),
		zap.String("link_id", linkID),
	)
	return nil
}

func (m *Manager) checkOwnership(ctx context.Context, formID, subject string) error {
	if m.owners == nil {
		return nil
	}
	return m.owners.CheckOwnership(ctx, formID, subject)
}
