package memory

import (
	"context"

	"github.com/ablemap/ablemap/internal/domain"
)

func authKey(provider, providerID string) string {
	return provider + "\x00" + providerID
}

func (s *Store) GetByAuth(_ context.Context, provider, providerID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byAuth[authKey(provider, providerID)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) Upsert(_ context.Context, provider, providerID, nickname string) (*domain.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := authKey(provider, providerID)
	if id, ok := s.byAuth[key]; ok {
		u := s.users[id]
		if nickname != "" {
			u.Nickname = nickname
		}
		u.UpdatedAt = now
		cp := *u
		return &cp, false, nil
	}

	s.nextUser++
	u := &domain.User{
		ID:             s.nextUser,
		Nickname:       nickname,
		AuthProvider:   provider,
		AuthProviderID: providerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.users[u.ID] = u
	s.byAuth[key] = u.ID
	cp := *u
	return &cp, true, nil
}
