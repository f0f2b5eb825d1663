package sharelink

import "context"

// Store persists links. Implementations must return ErrNotFound for absent
// records and must make Increment safe under concurrent callers.
type Store interface {
	// Insert persists a new link. The caller assigns the ID.
	Insert(ctx context.Context, link Link) error

	// GetByToken returns the link matching (formID, token) exactly.
	GetByToken(ctx context.Context, formID, token string) (Link, error)

	// GetByID returns the link matching (formID, linkID) exactly.
	GetByID(ctx context.Context, formID, linkID string) (Link, error)

	// List returns every link issued for the form, newest first.
	List(ctx context.Context, formID string) ([]Link, error)

	// SetActive flips the stored active flag.
	SetActive(ctx context.Context, formID, linkID string, active bool) error

	// Delete removes the record permanently.
	Delete(ctx context.Context, formID, linkID string) error

	// Increment adds exactly one to the response counter and returns the
	// updated link. The increment and the quota guard are a single atomic
	// step at the storage layer: when the counter already sits at the link's
	// MaxResponses, the store leaves it untouched and returns
	// ErrQuotaExceeded. A read-then-write from application memory is not a
	// valid implementation.
	Increment(ctx context.Context, linkID string) (Link, error)
}

// OwnershipChecker answers whether a subject owns a form. Implementations
// return ErrNotFound when the form does not exist and ErrForbidden when the
// subject is not the owner.
type OwnershipChecker interface {
	CheckOwnership(ctx context.Context, formID, subject string) error
}

// OwnershipCheckerFunc adapts a function to the OwnershipChecker interface.
type OwnershipCheckerFunc func(ctx context.Context, formID, subject string) error

func (f OwnershipCheckerFunc) CheckOwnership(ctx context.Context, formID, subject string) error {
	return f(ctx, formID, subject)
}
