package auth

// Package auth provides in-memory fakes for auth-related ports and
// repositories, shared by service and HTTP tests.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	redisadapter "github.com/jetonapp/jeton/internal/adapters/redis"
	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// MemorySessionStore is a thread-safe in-memory session store.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Expired(time.Now()) {
		return domainauth.Session{}, redisadapter.ErrNotFound
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions (expired included).
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// MemoryUserRepo is a thread-safe in-memory core.UserRepository.
type MemoryUserRepo struct {
	mu     sync.RWMutex
	users  map[string]*model.User
	nextID int
}

// NewMemoryUserRepo creates an empty MemoryUserRepo.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]*model.User)}
}

// Add stores a prebuilt user; convenience for test fixtures.
func (r *MemoryUserRepo) Add(u *model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
}

func (r *MemoryUserRepo) Create(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now()
	u := &model.User{
		ID:           fmt.Sprintf("user-%d", r.nextID),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: req.PasswordHash,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) GetByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, identifier) {
			cp := *u
			return &cp, nil
		}
	}
	for _, u := range r.users {
		if u.Username == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *MemoryUserRepo) MarkOnboardingCompleted(_ context.Context, userID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, apperrors.NotFound("user not found")
	}
	if u.OnboardingCompleted {
		return false, nil
	}
	u.OnboardingCompleted = true
	u.OnboardingCompletedAt = &at
	return true, nil
}

func (r *MemoryUserRepo) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	u.LastLoginAt = &at
	return nil
}

// MemoryOnboardingRepo is a thread-safe in-memory core.OnboardingRepository.
type MemoryOnboardingRepo struct {
	mu    sync.RWMutex
	steps map[string]map[model.StepName]*model.OnboardingStep
}

// NewMemoryOnboardingRepo creates an empty MemoryOnboardingRepo.
func NewMemoryOnboardingRepo() *MemoryOnboardingRepo {
	return &MemoryOnboardingRepo{steps: make(map[string]map[model.StepName]*model.OnboardingStep)}
}

func (r *MemoryOnboardingRepo) UpsertStep(_ context.Context, req *model.UpsertStepRequest) (*model.OnboardingStep, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byStep, ok := r.steps[req.UserID]
	if !ok {
		byStep = make(map[model.StepName]*model.OnboardingStep)
		r.steps[req.UserID] = byStep
	}
	step := &model.OnboardingStep{
		UserID:    req.UserID,
		StepName:  req.StepName,
		Status:    req.Status,
		Data:      req.Data,
		UpdatedAt: time.Now(),
	}
	byStep[req.StepName] = step
	cp := *step
	return &cp, nil
}

func (r *MemoryOnboardingRepo) ListByUser(_ context.Context, userID string) ([]*model.OnboardingStep, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byStep := r.steps[userID]
	var out []*model.OnboardingStep
	for _, name := range model.RequiredSteps() {
		if step, ok := byStep[name]; ok {
			cp := *step
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MemoryGrantRepo is a thread-safe in-memory core.GrantRepository.
type MemoryGrantRepo struct {
	mu     sync.RWMutex
	grants map[string][]*model.AccessGrant
	nextID int
}

// NewMemoryGrantRepo creates an empty MemoryGrantRepo.
func NewMemoryGrantRepo() *MemoryGrantRepo {
	return &MemoryGrantRepo{grants: make(map[string][]*model.AccessGrant)}
}

func (r *MemoryGrantRepo) Create(_ context.Context, req *model.CreateGrantRequest) (*model.AccessGrant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.grants[req.UserID] {
		g.IsActive = false
	}
	r.nextID++
	g := &model.AccessGrant{
		ID:        fmt.Sprintf("grant-%d", r.nextID),
		UserID:    req.UserID,
		Type:      req.Type,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	r.grants[req.UserID] = append(r.grants[req.UserID], g)
	cp := *g
	return &cp, nil
}

func (r *MemoryGrantRepo) GetActive(_ context.Context, userID string) (*model.AccessGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now := time.Now()
	for _, g := range r.grants[userID] {
		if g.Live(now) {
			cp := *g
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("no active grant")
}

// MemoryAuditRepo is a thread-safe in-memory core.SessionAuditRepository.
// FailWith, when set, makes Record return that error; used to assert that
// audit failures never fail the parent request.
type MemoryAuditRepo struct {
	mu       sync.RWMutex
	entries  []*model.SessionAuditEntry
	FailWith error
}

// NewMemoryAuditRepo creates an empty MemoryAuditRepo.
func NewMemoryAuditRepo() *MemoryAuditRepo {
	return &MemoryAuditRepo{}
}

func (r *MemoryAuditRepo) Record(_ context.Context, entry *model.SessionAuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *MemoryAuditRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*model.SessionAuditEntry
	var deleted int64
	for _, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}

// Entries returns a snapshot of recorded audit entries.
func (r *MemoryAuditRepo) Entries() []*model.SessionAuditEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.SessionAuditEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
