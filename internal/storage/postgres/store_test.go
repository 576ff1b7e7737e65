package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run postgres tests")
	}
	for _, path := range []string{".env", "../.env", "../../.env", "../../../.env"} {
		_ = godotenv.Overload(path)
	}
	url := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	require.NotEmpty(t, url, "DATABASE_URL is required")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := NewStore(ctx, url)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func createTestUser(t *testing.T, s *Store) models.User {
	t.Helper()
	name := fmt.Sprintf("pgtest_%d", time.Now().UnixNano())
	u, err := s.CreateUser(t.Context(), models.User{
		Username:     name,
		Email:        name + "@Example.com",
		PasswordHash: "$2a$04$placeholder",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.DeleteUser(context.Background(), u.ID) })
	return u
}

func TestStore_Users(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	require.NoError(t, s.Ping(ctx))

	u := createTestUser(t, s)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	found, err := s.FindUserByEmail(ctx, strings.ToUpper(u.Email))
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = s.CreateUser(ctx, models.User{Username: "dup", Email: strings.ToLower(u.Email), PasswordHash: "x"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	renamed := "renamed"
	updated, err := s.UpdateUser(ctx, u.ID, models.UserUpdate{Username: &renamed})
	require.NoError(t, err)
	assert.Equal(t, renamed, updated.Username)
	assert.Equal(t, u.Email, updated.Email)

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	_, err = s.FindUserByID(ctx, u.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, s.DeleteUser(ctx, u.ID), storage.ErrNotFound)
}

func TestStore_JournalsCascadeOnUserDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	u := createTestUser(t, s)

	entry, err := s.CreateEntry(ctx, models.JournalEntry{UserID: u.ID, Name: "Morning pages", Prompt: "Slept well"})
	require.NoError(t, err)

	_, err = s.UpdateEntry(ctx, models.JournalEntry{ID: entry.ID, UserID: "someone-else", Name: "x", Prompt: "y"})
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.CreateCheck(ctx, models.MentalCheck{UserID: u.ID, Mood: 6})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	entries, err := s.ListEntries(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	checks, err := s.ListChecks(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, checks)

	_, err = s.CreateEntry(ctx, models.JournalEntry{UserID: u.ID, Name: "Orphaned", Prompt: "Orphaned"})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ResourcesByKind(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	r, err := s.CreateResource(ctx, models.Resource{Kind: models.SupportResource, Title: "Hotline", Description: "24/7"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.DeleteResource(context.Background(), models.SupportResource, r.ID) })

	require.ErrorIs(t, s.DeleteResource(ctx, models.MentalResource, r.ID), storage.ErrNotFound)

	list, err := s.ListResources(ctx, models.SupportResource)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, item := range list {
		ids = append(ids, item.ID)
	}
	assert.Contains(t, ids, r.ID)

	types, err := s.ListTypes(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, types)
}
