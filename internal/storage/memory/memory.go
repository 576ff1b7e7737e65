// Package memory implements an in-memory store for development and testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store keeps every collection in maps guarded by a single mutex.
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	users     map[string]models.User
	journals  map[string]models.JournalEntry
	types     []models.JournalType
	resources map[string]models.Resource
	checks    map[string]models.MentalCheck

	// seq orders records written within the same clock tick.
	seq  map[string]uint64
	next uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock stamps created and updated records with now instead of the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty store seeded with the default journal types.
func New(opts ...Option) *Store {
	s := &Store{
		now:       time.Now,
		users:     make(map[string]models.User),
		journals:  make(map[string]models.JournalEntry),
		types:     defaultJournalTypes(),
		resources: make(map[string]models.Resource),
		checks:    make(map[string]models.MentalCheck),
		seq:       make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// touch records id as the most recently written record. Callers hold mu.
func (s *Store) touch(id string) {
	s.next++
	s.seq[id] = s.next
}

// newer reports whether record a was written after record b.
func (s *Store) newer(a, b string, at, bt time.Time) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return s.seq[a] > s.seq[b]
}

func defaultJournalTypes() []models.JournalType {
	return []models.JournalType{
		{ID: 1, Name: "Gratitude", Description: "Write down three things you are grateful for today."},
		{ID: 2, Name: "Reflection", Description: "Reflect on a moment that stood out to you today."},
		{ID: 3, Name: "Worry release", Description: "Name a worry and one small step you can take about it."},
	}
}

// SetJournalTypes replaces the seeded journal types.
func (s *Store) SetJournalTypes(types []models.JournalType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append([]models.JournalType(nil), types...)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}

// --- UserStore ---

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = storage.NormalizeEmail(user.Email)
	if s.emailTakenLocked(user.Email, "") {
		return models.User{}, storage.ErrAlreadyExists
	}
	user.ID = uuid.NewString()
	user.CreatedAt = s.now().UTC()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = storage.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) FindUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, update models.UserUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	if update.Email != nil {
		email := storage.NormalizeEmail(*update.Email)
		if s.emailTakenLocked(email, id) {
			return models.User{}, storage.ErrAlreadyExists
		}
		u.Email = email
	}
	if update.Username != nil {
		u.Username = strings.TrimSpace(*update.Username)
	}
	s.users[id] = u
	return u, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	for entryID, e := range s.journals {
		if e.UserID == id {
			delete(s.journals, entryID)
			delete(s.seq, entryID)
		}
	}
	for checkID, c := range s.checks {
		if c.UserID == id {
			delete(s.checks, checkID)
			delete(s.seq, checkID)
		}
	}
	return nil
}

func (s *Store) emailTakenLocked(email, exceptID string) bool {
	for _, u := range s.users {
		if u.ID != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

// --- JournalStore ---

func (s *Store) CreateEntry(_ context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[entry.UserID]; !ok {
		return models.JournalEntry{}, storage.ErrNotFound
	}
	entry.ID = uuid.NewString()
	entry.Date = s.now().UTC()
	s.journals[entry.ID] = entry
	s.touch(entry.ID)
	return entry, nil
}

func (s *Store) ListEntries(_ context.Context, userID string) ([]models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.JournalEntry, 0)
	for _, e := range s.journals {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.newer(out[i].ID, out[j].ID, out[i].Date, out[j].Date) })
	return out, nil
}

func (s *Store) UpdateEntry(_ context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.journals[entry.ID]
	if !ok || current.UserID != entry.UserID {
		return models.JournalEntry{}, storage.ErrNotFound
	}
	current.Name = entry.Name
	current.Prompt = entry.Prompt
	current.Date = s.now().UTC()
	s.journals[entry.ID] = current
	s.touch(entry.ID)
	return current, nil
}

func (s *Store) DeleteEntry(_ context.Context, userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.journals[entryID]
	if !ok || current.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.journals, entryID)
	delete(s.seq, entryID)
	return nil
}

func (s *Store) ListTypes(context.Context) ([]models.JournalType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.JournalType{}, s.types...), nil
}

// --- ResourceStore ---

func (s *Store) CreateResource(_ context.Context, resource models.Resource) (models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resource.ID = uuid.NewString()
	resource.CreatedAt = s.now().UTC()
	s.resources[resource.ID] = resource
	s.touch(resource.ID)
	return resource, nil
}

func (s *Store) ListResources(_ context.Context, kind models.ResourceKind) ([]models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Resource, 0)
	for _, r := range s.resources {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.newer(out[j].ID, out[i].ID, out[j].CreatedAt, out[i].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateResource(_ context.Context, resource models.Resource) (models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.resources[resource.ID]
	if !ok || current.Kind != resource.Kind {
		return models.Resource{}, storage.ErrNotFound
	}
	current.Title = resource.Title
	current.Description = resource.Description
	current.URL = resource.URL
	current.Category = resource.Category
	s.resources[resource.ID] = current
	return current, nil
}

func (s *Store) DeleteResource(_ context.Context, kind models.ResourceKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.resources[id]
	if !ok || current.Kind != kind {
		return storage.ErrNotFound
	}
	delete(s.resources, id)
	delete(s.seq, id)
	return nil
}

// --- MentalCheckStore ---

func (s *Store) CreateCheck(_ context.Context, check models.MentalCheck) (models.MentalCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[check.UserID]; !ok {
		return models.MentalCheck{}, storage.ErrNotFound
	}
	check.ID = uuid.NewString()
	check.CreatedAt = s.now().UTC()
	s.checks[check.ID] = check
	s.touch(check.ID)
	return check, nil
}

func (s *Store) ListChecks(_ context.Context, userID string) ([]models.MentalCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MentalCheck, 0)
	for _, c := range s.checks {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.newer(out[i].ID, out[j].ID, out[i].CreatedAt, out[j].CreatedAt)
	})
	return out, nil
}
