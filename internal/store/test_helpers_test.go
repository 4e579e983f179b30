// ABOUTME: Shared helpers for store tests
// ABOUTME: Creates throwaway SQLite stores and seeded entities

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *SQLiteStore, username, role string) *User {
	t.Helper()

	user := &User{
		ID:           uuid.NewString(),
		FirstName:    "Test",
		LastName:     "User",
		Username:     username,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhashnotarealhash",
		Role:         role,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func seedPost(t *testing.T, s *SQLiteStore, authorID, title string) *Post {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	post := &Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   "Hello world",
		AuthorID:  authorID,
		Published: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	return post
}
