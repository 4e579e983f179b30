// ABOUTME: Handlers for creating comments on posts and deleting comments
// ABOUTME: Creation requires any authenticated user; deletion is admin-gated in routing

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/store"
)

// commentRequest is the JSON request body for POST /api/posts/{postId}/comments.
type commentRequest struct {
	Content string `json:"content"`
}

// handleCreateComment handles POST /api/posts/{postId}/comments.
// The post must exist; the comment is attributed to the authenticated caller.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postId")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendErrors(w, http.StatusBadRequest, fieldError("Invalid JSON body"))
		return
	}

	if errs := validateCommentContent(req.Content); len(errs) > 0 {
		s.sendErrors(w, http.StatusBadRequest, errs...)
		return
	}

	if _, err := s.store.GetPost(r.Context(), postID); err != nil {
		s.sendStoreError(w, err, "Post not found")
		return
	}

	comment := &store.Comment{
		ID:        uuid.NewString(),
		Content:   req.Content,
		PostID:    postID,
		AuthorID:  auth.MustFromContext(r.Context()),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateComment(r.Context(), comment); err != nil {
		s.sendInternalError(w, err)
		return
	}

	s.sendMessage(w, http.StatusCreated, "Comment created successfully")
}

// handleDeleteComment handles DELETE /api/comments/{commentId}.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID := r.PathValue("commentId")

	if err := s.store.DeleteComment(r.Context(), commentID); err != nil {
		s.sendStoreError(w, err, "Comment not found")
		return
	}

	s.sendMessage(w, http.StatusOK, "Comment deleted successfully")
}
