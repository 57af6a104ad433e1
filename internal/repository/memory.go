package repository

import (
	"context"
	"sort"
	"sync"

	"tablebid/internal/domain"
)

// Implementaciones en memoria. Se usan cuando no hay DATABASE_URL / REDIS_ADDR y en tests.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Upsert(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.ID]; ok {
		existing.UpdatedAt = user.UpdatedAt
		r.users[user.ID] = existing
		return existing, nil
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]domain.Session)}
}

func (r *MemorySessionRepository) Replace(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, s := range r.sessions {
		if s.UserID == session.UserID {
			delete(r.sessions, hash)
		}
	}
	r.sessions[session.TokenHash] = session
	return nil
}

func (r *MemorySessionRepository) GetByTokenHash(_ context.Context, tokenHash string) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[tokenHash]
	if !ok {
		return domain.Session{}, ErrNotFound
	}
	return s, nil
}

func (r *MemorySessionRepository) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[tokenHash]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, tokenHash)
	return nil
}

type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]domain.OTPChallenge
}

func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{challenges: make(map[string]domain.OTPChallenge)}
}

func (s *MemoryChallengeStore) Put(_ context.Context, challenge domain.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.PhoneNumber] = challenge
	return nil
}

func (s *MemoryChallengeStore) Get(_ context.Context, phoneNumber string) (domain.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[phoneNumber]
	if !ok {
		return domain.OTPChallenge{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryChallengeStore) Consume(_ context.Context, challenge domain.OTPChallenge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.challenges[challenge.PhoneNumber]
	if !ok || current.CodeHash != challenge.CodeHash {
		return false, nil
	}
	delete(s.challenges, challenge.PhoneNumber)
	return true, nil
}

// Len devuelve la cantidad de desafios pendientes.
func (s *MemoryChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}

type MemoryTableRepository struct {
	mu     sync.RWMutex
	tables map[string]domain.Table
}

func NewMemoryTableRepository() *MemoryTableRepository {
	return &MemoryTableRepository{tables: make(map[string]domain.Table)}
}

func (r *MemoryTableRepository) Create(_ context.Context, table domain.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[table.ID] = table
	return nil
}

func (r *MemoryTableRepository) GetByID(_ context.Context, id string) (domain.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	if !ok {
		return domain.Table{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryTableRepository) ListByHost(_ context.Context, hostID string) ([]domain.Table, error) {
	return r.filter(func(t domain.Table) bool { return t.HostID == hostID }), nil
}

func (r *MemoryTableRepository) ListAll(_ context.Context) ([]domain.Table, error) {
	return r.filter(func(domain.Table) bool { return true }), nil
}

func (r *MemoryTableRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[id]; !ok {
		return ErrNotFound
	}
	delete(r.tables, id)
	return nil
}

func (r *MemoryTableRepository) filter(keep func(domain.Table) bool) []domain.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Table{}
	for _, t := range r.tables {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type MemoryBidRepository struct {
	mu   sync.RWMutex
	bids map[string]domain.Bid
}

func NewMemoryBidRepository() *MemoryBidRepository {
	return &MemoryBidRepository{bids: make(map[string]domain.Bid)}
}

func (r *MemoryBidRepository) Create(_ context.Context, bid domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bids[bid.ID] = bid
	return nil
}

func (r *MemoryBidRepository) GetByID(_ context.Context, id string) (domain.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bids[id]
	if !ok {
		return domain.Bid{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryBidRepository) ListByTable(_ context.Context, tableID string) ([]domain.Bid, error) {
	return r.filter(func(b domain.Bid) bool { return b.TableID == tableID }), nil
}

func (r *MemoryBidRepository) ListByUser(_ context.Context, userID string) ([]domain.Bid, error) {
	return r.filter(func(b domain.Bid) bool { return b.UserID == userID }), nil
}

func (r *MemoryBidRepository) FindOldest(_ context.Context, tableID, userID string, status domain.BidStatus) (domain.Bid, error) {
	matches := r.filter(func(b domain.Bid) bool {
		return b.TableID == tableID && b.UserID == userID && b.Status == status
	})
	if len(matches) == 0 {
		return domain.Bid{}, ErrNotFound
	}
	return matches[0], nil
}

func (r *MemoryBidRepository) UpdateStatus(_ context.Context, id string, status domain.BidStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bids[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	r.bids[id] = b
	return nil
}

func (r *MemoryBidRepository) DeleteIfStatus(_ context.Context, id string, status domain.BidStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bids[id]
	if !ok || b.Status != status {
		return false, nil
	}
	delete(r.bids, id)
	return true, nil
}

func (r *MemoryBidRepository) filter(keep func(domain.Bid) bool) []domain.Bid {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Bid{}
	for _, b := range r.bids {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
