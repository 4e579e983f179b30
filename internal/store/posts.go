// ABOUTME: Post entity store methods for the content store
// ABOUTME: CRUD plus an atomic publish-flag toggle safe under concurrent calls

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreatePost creates a new post.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (id, title, content, author_id, published, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.AuthorID,
		boolToInt(post.Published),
		post.ImageURL,
		post.CreatedAt.UTC().Format(time.RFC3339),
		post.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	s.logger.Debug("created post", "id", post.ID, "author_id", post.AuthorID, "published", post.Published)
	return nil
}

// GetPost retrieves a post by ID. Returns ErrNotFound if the post doesn't exist.
func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*Post, error) {
	query := `
		SELECT id, title, content, author_id, published, image_url, created_at, updated_at
		FROM posts
		WHERE id = ?
	`

	post, err := scanPost(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying post: %w", err)
	}
	return post, nil
}

// ListPosts returns all posts in insertion order.
func (s *SQLiteStore) ListPosts(ctx context.Context) ([]*Post, error) {
	query := `
		SELECT id, title, content, author_id, published, image_url, created_at, updated_at
		FROM posts
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}

	return posts, nil
}

// UpdatePost updates a post's title, content, and author attribution.
// Returns ErrNotFound if the post doesn't exist.
func (s *SQLiteStore) UpdatePost(ctx context.Context, id, authorID, title, content string) error {
	query := `
		UPDATE posts
		SET author_id = ?, title = ?, content = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		authorID,
		title,
		content,
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated post", "id", id)
	return nil
}

// TogglePublished flips a post's published flag. The flip happens in a single
// UPDATE so concurrent toggles on the same post never operate on a stale read.
// Returns ErrNotFound if the post doesn't exist.
func (s *SQLiteStore) TogglePublished(ctx context.Context, id string) error {
	query := `
		UPDATE posts
		SET published = NOT published, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("toggling published: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking toggle result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("toggled published", "id", id)
	return nil
}

// DeletePost deletes a post by ID. Returns ErrNotFound if the post doesn't
// exist. Comments on the post are left in place.
func (s *SQLiteStore) DeletePost(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted post", "id", id)
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var post Post
	var published int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.AuthorID,
		&published,
		&post.ImageURL,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	post.Published = published != 0

	post.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	post.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &post, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
