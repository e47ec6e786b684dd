package repository

import (
	"sync"

	"invertred/internal/models"
)

// MemoryUserStore and MemoryProfileStore are map-backed store
// implementations. They keep insertion order and hand out copies, so
// services can be exercised without a database.

type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
	order []string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) Create(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryUserStore) GetByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if u := s.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) Save(u *models.User) error {
	return s.Create(u)
}

func (s *MemoryUserStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryUserStore) ListAll() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out, nil
}

type MemoryProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	order    []string
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]*models.Profile)}
}

func (s *MemoryProfileStore) Create(p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(p)
	return nil
}

func (s *MemoryProfileStore) GetByID(id string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyProfile(p), nil
}

func (s *MemoryProfileStore) GetByReferralCode(code string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if p := s.profiles[id]; p.ReferralCode == code {
			return copyProfile(p), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryProfileStore) ListByReferrer(sponsorID string) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Profile
	for _, id := range s.order {
		p := s.profiles[id]
		if p.SponsorID != nil && *p.SponsorID == sponsorID {
			out = append(out, *copyProfile(p))
		}
	}
	return out, nil
}

func (s *MemoryProfileStore) ListAll() ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Profile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *copyProfile(s.profiles[id]))
	}
	return out, nil
}

func (s *MemoryProfileStore) Save(p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		return ErrNotFound
	}
	s.put(p)
	return nil
}

// SaveAll applies the whole batch under one lock, all-or-nothing.
func (s *MemoryProfileStore) SaveAll(ps []*models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range ps {
		if _, ok := s.profiles[p.ID]; !ok {
			return ErrNotFound
		}
	}
	for _, p := range ps {
		s.put(p)
	}
	return nil
}

func (s *MemoryProfileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(s.profiles, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryProfileStore) put(p *models.Profile) {
	if _, ok := s.profiles[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.profiles[p.ID] = copyProfile(p)
}

func copyProfile(p *models.Profile) *models.Profile {
	cp := *p
	if p.SponsorID != nil {
		id := *p.SponsorID
		cp.SponsorID = &id
	}
	cp.Payments = append([]models.PaymentRecord(nil), p.Payments...)
	cp.Commissions = append([]models.CommissionEntry(nil), p.Commissions...)
	cp.Payouts = append([]models.CommissionPayout(nil), p.Payouts...)
	return &cp
}
