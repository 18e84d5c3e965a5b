package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu       sync.Mutex
	byID     map[string]*domain.User
	nextID   int
	takenErr error // if set, Taken returns this error
	calls    []string
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		clone := *u
		r.byID[u.ID] = &clone
	}
	return r
}

func (r *stubUserRepo) Taken(_ context.Context, field, value, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, field)
	if r.takenErr != nil {
		return false, r.takenErr
	}
	for id, u := range r.byID {
		if id == excludeID {
			continue
		}
		switch field {
		case FieldUsername:
			if u.Username == value {
				return true, nil
			}
		case FieldEmail:
			if u.Email == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *stubUserRepo) takenCalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := *u
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return nil, domain.UserNotFound("id", u.ID)
	}
	clone := *u
	r.byID[u.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.UserNotFound("id", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.UserNotFound("id", id)
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) find(field, value string, match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.UserNotFound(field, value)
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find("username", username, func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find("email", email, func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) List(_ context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.byID {
		if filter.Name != "" && u.Name != filter.Name {
			continue
		}
		if filter.RoleName != "" && u.RoleName != filter.RoleName {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, roleName string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.byID {
		if u.RoleName == roleName {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) ReassignRole(_ context.Context, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.RoleName == from {
			u.RoleName = to
		}
	}
	return nil
}

type stubRoleRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Role
	findErr error // if set, FindByName returns this error
}

func newStubRoleRepo(names ...string) *stubRoleRepo {
	r := &stubRoleRepo{byID: make(map[string]*domain.Role)}
	for i, n := range names {
		id := fmt.Sprintf("r%d", i+1)
		r.byID[id] = &domain.Role{ID: id, Name: n}
	}
	return r
}

func (r *stubRoleRepo) Taken(_ context.Context, _ string, value, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, role := range r.byID {
		if id != excludeID && role.Name == value {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, role := range r.byID {
		if role.Name == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, domain.RoleNotFound("name", name)
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *role
	clone.ID = fmt.Sprintf("r%d", len(r.byID)+1)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *role
	r.byID[role.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.byID[id]
	if !ok {
		return nil, domain.RoleNotFound("id", id)
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) List(context.Context) ([]*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Role, 0, len(r.byID))
	for _, role := range r.byID {
		clone := *role
		out = append(out, &clone)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Credential store, hasher and audit sink stubs
// ---------------------------------------------------------------------------

type stubCredentialStore struct {
	creds     map[string]*domain.Credential
	findErr   error
	failures  map[string]int
	successes map[string]int
}

func newStubCredentialStore(creds ...*domain.Credential) *stubCredentialStore {
	s := &stubCredentialStore{
		creds:     make(map[string]*domain.Credential),
		failures:  make(map[string]int),
		successes: make(map[string]int),
	}
	for _, c := range creds {
		s.creds[c.Username] = c
	}
	return s
}

func (s *stubCredentialStore) FindCredential(_ context.Context, username string) (*domain.Credential, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	c, ok := s.creds[username]
	if !ok {
		return nil, domain.UserNotFound("username", username)
	}
	clone := *c
	return &clone, nil
}

func (s *stubCredentialStore) RecordLoginFailure(_ context.Context, username string) error {
	s.failures[username]++
	return nil
}

func (s *stubCredentialStore) RecordLoginSuccess(_ context.Context, username string) error {
	s.successes[username]++
	return nil
}

// plainHasher prefixes secrets instead of hashing them, keeping tests fast.
type plainHasher struct {
	err error
}

func (h plainHasher) Hash(plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h plainHasher) Matches(hash, plain string) bool {
	return strings.TrimPrefix(hash, "hashed:") == plain && strings.HasPrefix(hash, "hashed:")
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingSink) Record(e domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) last() domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return domain.AuditEvent{}
	}
	return s.events[len(s.events)-1]
}

var errStore = errors.New("store unavailable")
