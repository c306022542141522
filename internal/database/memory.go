package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"reunion/entity"
)

// InMemory is a registrations store backed by maps, mirroring the MySQL
// store's uniqueness and error classification semantics. It backs tests and
// local runs without a configured database.
type InMemory struct {
	mu      sync.RWMutex
	regs    []*entity.Registration
	byEmail map[string]struct{}
	byCode  map[string]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		byEmail: make(map[string]struct{}),
		byCode:  make(map[string]struct{}),
	}
}

func (s *InMemory) ReferralCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byCode[code]
	return ok, nil
}

func (s *InMemory) CreateRegistration(ctx context.Context, reg *entity.Registration) error {
	if ctx.Err() != nil {
		// caller stopped waiting; a real store may or may not have persisted
		return fmt.Errorf("insert registration: %w", entity.ErrUnknownOutcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[reg.Email]; ok {
		return entity.ErrDuplicateEmail
	}
	if _, ok := s.byCode[reg.ReferralCode]; ok {
		return entity.ErrDuplicateReferralCode
	}

	stored := *reg
	stored.Id = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()

	s.byEmail[stored.Email] = struct{}{}
	s.byCode[stored.ReferralCode] = struct{}{}
	s.regs = append(s.regs, &stored)

	reg.Id = stored.Id
	reg.CreatedAt = stored.CreatedAt
	return nil
}

func (s *InMemory) CountStats(_ context.Context) (*entity.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cities := make(map[string]struct{})
	countriesSet := make(map[string]struct{})
	for _, reg := range s.regs {
		cities[reg.City] = struct{}{}
		countriesSet[reg.Country] = struct{}{}
	}
	return &entity.Stats{
		Registrations: int64(len(s.regs)),
		Cities:        int64(len(cities)),
		Countries:     int64(len(countriesSet)),
	}, nil
}

func (s *InMemory) CountByCountry(_ context.Context) ([]*entity.CountryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, reg := range s.regs {
		counts[reg.Country]++
	}
	points := make([]*entity.CountryCount, 0, len(counts))
	for country, count := range counts {
		points = append(points, &entity.CountryCount{Country: country, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Count != points[j].Count {
			return points[i].Count > points[j].Count
		}
		return points[i].Country < points[j].Country
	})
	return points, nil
}

func (s *InMemory) ListRegistrations(_ context.Context) ([]*entity.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regs := make([]*entity.Registration, len(s.regs))
	for i, reg := range s.regs {
		copied := *reg
		regs[len(s.regs)-1-i] = &copied
	}
	return regs, nil
}

// FindByEmail reports whether a row with the given email exists.
// Test helper for the no-partial-writes property.
func (s *InMemory) FindByEmail(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[email]
	return ok
}
