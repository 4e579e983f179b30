// ABOUTME: Store interface and entity types for inkpost persistence
// ABOUTME: Defines User, Post, Comment structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateUsername is returned when creating a user whose username is taken.
// Uniqueness is enforced by the storage layer, not just by handler pre-checks.
var ErrDuplicateUsername = errors.New("username already exists")

// Role constants for user roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRoles lists all valid role values
var ValidRoles = []string{RoleUser, RoleAdmin}

// User represents an account that can authenticate and author content
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	PasswordHash string // bcrypt hash
	Role         string // "USER" or "ADMIN"
	CreatedAt    time.Time
}

// DisplayName returns the user's first and last name joined with a space.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Post represents a blog post
type Post struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	Published bool
	ImageURL  string // public URL in the object store, empty if none
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment represents a comment on a post
type Comment struct {
	ID        string
	Content   string
	PostID    string
	AuthorID  string
	CreatedAt time.Time
}

// UserProfile holds the mutable profile fields of a user
type UserProfile struct {
	FirstName string
	LastName  string
	Username  string
}

// Store defines the interface for user, post, and comment persistence
type Store interface {
	// Users (credential store)
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, id string, profile UserProfile) error
	DeleteUser(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int, error)

	// Posts (content store)
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	UpdatePost(ctx context.Context, id, authorID, title, content string) error
	TogglePublished(ctx context.Context, id string) error
	DeletePost(ctx context.Context, id string) error

	// Comments
	CreateComment(ctx context.Context, comment *Comment) error
	ListCommentsByPost(ctx context.Context, postID string) ([]*Comment, error)
	DeleteComment(ctx context.Context, id string) error

	// Close releases any resources held by the store
	Close() error
}
