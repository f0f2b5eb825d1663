// Package memory provides an in-process sharelink.Store backed by a mutex
// guarded map. It is the default store for tests and single-node tooling.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-intake/pkg/sharelink"
)

// Store holds links in memory. The zero value is not usable; call New.
type Store struct {
	mu    sync.Mutex
	links map[string]sharelink.Link
}

// New returns an empty store.
func New() *Store {
	return &Store{links: make(map[string]sharelink.Link)}
}

func (s *Store) Insert(_ context.Context, link sharelink.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.ID] = link
	return nil
}

func (s *Store) GetByToken(_ context.Context, formID, token string) (sharelink.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, link := range s.links {
		if link.FormID == formID && link.Token == token {
			return link, nil
		}
	}
	return sharelink.Link{}, sharelink.ErrNotFound
}

func (s *Store) GetByID(_ context.Context, formID, linkID string) (sharelink.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[linkID]
	if !ok || link.FormID != formID {
		return sharelink.Link{}, sharelink.ErrNotFound
	}
	return link, nil
}

func (s *Store) List(_ context.Context, formID string) ([]sharelink.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sharelink.Link
	for _, link := range s.links {
		if link.FormID == formID {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) SetActive(_ context.Context, formID, linkID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[linkID]
	if !ok || link.FormID != formID {
		return sharelink.ErrNotFound
	}
	link.IsActive = active
	s.links[linkID] = link
	return nil
}

func (s *Store) Delete(_ context.Context, formID, linkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[linkID]
	if !ok || link.FormID != formID {
		return sharelink.ErrNotFound
	}
	delete(s.links, linkID)
	return nil
}

// Increment bumps the response counter under the store lock, so the quota
// guard and the write are one atomic step.
func (s *Store) Increment(_ context.Context, linkID string) (sharelink.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[linkID]
	if !ok {
		return sharelink.Link{}, sharelink.ErrNotFound
	}
	if link.MaxResponses > 0 && link.ResponseCount >= link.MaxResponses {
		return sharelink.Link{}, sharelink.ErrQuotaExceeded
	}
	link.ResponseCount++
	s.links[linkID] = link
	return link, nil
}
