// ABOUTME: Tests for comment creation and deletion handlers
// ABOUTME: Covers authentication requirements, validation, and missing posts

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/store"
)

func TestCreateComment(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.adminToken(t, "writer")
	postID := ts.createPost(t, adminToken, "Commented", "Body text here")

	_, userToken := ts.seedUserWithRole(t, "reader", store.RoleUser)
	rec := ts.doJSON(t, http.MethodPost, "/api/posts/"+postID+"/comments", userToken, map[string]string{
		"content": "Great read",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Comment created successfully", decodeJSON[messageEnvelope](t, rec).Message)

	comments, err := ts.store.ListCommentsByPost(t.Context(), postID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Great read", comments[0].Content)
}

func TestCreateComment_RequiresToken(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.adminToken(t, "writer")
	postID := ts.createPost(t, adminToken, "Guarded", "Body text here")

	rec := ts.doJSON(t, http.MethodPost, "/api/posts/"+postID+"/comments", "", map[string]string{
		"content": "Anonymous shout",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateComment_TooShort(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.adminToken(t, "writer")
	postID := ts.createPost(t, adminToken, "Strict", "Body text here")

	rec := ts.doJSON(t, http.MethodPost, "/api/posts/"+postID+"/comments", adminToken, map[string]string{
		"content": "ok",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessages(t, rec), "Comment must be a minimum of 3 characters")
}

func TestCreateComment_PostMustExist(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")

	rec := ts.doJSON(t, http.MethodPost, "/api/posts/no-such-post/comments", token, map[string]string{
		"content": "Into the void",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, errorMessages(t, rec), "Post not found")
}

func TestDeleteComment_AdminOnly(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.adminToken(t, "writer")
	postID := ts.createPost(t, adminToken, "Moderated", "Body text here")

	_, userToken := ts.seedUserWithRole(t, "reader", store.RoleUser)
	rec := ts.doJSON(t, http.MethodPost, "/api/posts/"+postID+"/comments", userToken, map[string]string{
		"content": "Delete me please",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	comments, err := ts.store.ListCommentsByPost(t.Context(), postID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	commentID := comments[0].ID

	// A plain user, even the comment's author, cannot delete
	rec = ts.doJSON(t, http.MethodDelete, "/api/comments/"+commentID, userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.doJSON(t, http.MethodDelete, "/api/comments/"+commentID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	comments, err = ts.store.ListCommentsByPost(t.Context(), postID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeleteComment_NotFound(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")

	rec := ts.doJSON(t, http.MethodDelete, "/api/comments/no-such-comment", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, errorMessages(t, rec), "Comment not found")
}
