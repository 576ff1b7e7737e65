package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/mindcare/mindcare-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore persists user identity records. Emails are unique case-insensitively.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// JournalStore persists journal entries scoped to their owning user.
type JournalStore interface {
	CreateEntry(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error)
	ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error)
	UpdateEntry(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
	ListTypes(ctx context.Context) ([]models.JournalType, error)
}

// ResourceStore persists mental-health and support resources, partitioned by kind.
type ResourceStore interface {
	CreateResource(ctx context.Context, resource models.Resource) (models.Resource, error)
	ListResources(ctx context.Context, kind models.ResourceKind) ([]models.Resource, error)
	UpdateResource(ctx context.Context, resource models.Resource) (models.Resource, error)
	DeleteResource(ctx context.Context, kind models.ResourceKind, id string) error
}

// MentalCheckStore persists mood check-ins.
type MentalCheckStore interface {
	CreateCheck(ctx context.Context, check models.MentalCheck) (models.MentalCheck, error)
	ListChecks(ctx context.Context, userID string) ([]models.MentalCheck, error)
}

// Store bundles every collection the server needs.
type Store interface {
	UserStore
	JournalStore
	ResourceStore
	MentalCheckStore
	Ping(ctx context.Context) error
	Close()
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
