// ABOUTME: Comment entity store methods for the content store
// ABOUTME: Create, list-by-post in chronological order, and delete

package store

import (
	"context"
	"fmt"
	"time"
)

// CreateComment creates a new comment on a post.
func (s *SQLiteStore) CreateComment(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (id, content, post_id, author_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.Content,
		comment.PostID,
		comment.AuthorID,
		comment.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}

	s.logger.Debug("created comment", "id", comment.ID, "post_id", comment.PostID)
	return nil
}

// ListCommentsByPost returns all comments on a post, oldest first.
// Returns an empty slice for posts with no comments or unknown post IDs.
func (s *SQLiteStore) ListCommentsByPost(ctx context.Context, postID string) ([]*Comment, error) {
	query := `
		SELECT id, content, post_id, author_id, created_at
		FROM comments
		WHERE post_id = ?
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		var comment Comment
		var createdAtStr string

		if err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.PostID,
			&comment.AuthorID,
			&createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}

		comment.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

// DeleteComment deletes a comment by ID. Returns ErrNotFound if the comment
// doesn't exist.
func (s *SQLiteStore) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted comment", "id", id)
	return nil
}
