// ABOUTME: Tests for post handlers: listing, detail, creation, update, toggle, delete
// ABOUTME: Exercises author name resolution, Markdown rendering, and admin gating

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/store"
)

func TestListPosts_EmptyIsArray(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.doJSON(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListPosts_CarriesAuthorName(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")
	ts.createPost(t, token, "First", "Some body text")

	rec := ts.doJSON(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	posts := decodeJSON[[]postResponse](t, rec)
	require.Len(t, posts, 1)
	assert.Equal(t, "First", posts[0].Title)
	assert.Equal(t, "Test Admin", posts[0].AuthorName)
	assert.True(t, posts[0].Published)
	assert.NotEmpty(t, posts[0].Image)
}

func TestListPosts_UnknownAuthorFallback(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")
	ts.createPost(t, token, "Orphaned", "Body text here")

	user, err := ts.store.GetUserByUsername(t.Context(), "writer")
	require.NoError(t, err)
	require.NoError(t, ts.store.DeleteUser(t.Context(), user.ID))

	rec := ts.doJSON(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	posts := decodeJSON[[]postResponse](t, rec)
	require.Len(t, posts, 1)
	assert.Equal(t, "Unknown", posts[0].AuthorName)
}

func TestGetPost_RendersMarkdownAndComments(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")
	postID := ts.createPost(t, token, "Detail", "# Heading\n\nBody text")

	rec := ts.doJSON(t, http.MethodPost, "/api/posts/"+postID+"/comments", token, map[string]string{
		"content": "Nice write-up",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.doJSON(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decodeJSON[postDetailResponse](t, rec)
	assert.Equal(t, "Detail", detail.Post.Title)
	assert.Contains(t, detail.Post.ContentHTML, "<h1>Heading</h1>")
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "Nice write-up", detail.Comments[0].Content)
	assert.Equal(t, "Test Admin", detail.Comments[0].AuthorName)
}

func TestGetPost_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.doJSON(t, http.MethodGet, "/api/posts/no-such-post", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, errorMessages(t, rec), "Post not found")
}

func TestCreatePost_RequiresImage(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")

	rec := ts.doMultipart(t, "/api/posts", token, map[string]string{
		"title":   "No image",
		"content": "Body text here",
	}, "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessages(t, rec), "Please upload a photo.")
}

func TestCreatePost_ValidatesFields(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")

	rec := ts.doMultipart(t, "/api/posts", token, map[string]string{
		"title":   "  ",
		"content": "ab",
	}, "cover.png", []byte("png-bytes"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	msgs := errorMessages(t, rec)
	assert.Contains(t, msgs, "Title must not be empty.")
	assert.Contains(t, msgs, "Blog body must be a minimum of 3 characters")
}

func TestCreatePost_RequiresAdmin(t *testing.T) {
	ts := newTestServer(t)
	_, userToken := ts.seedUserWithRole(t, "reader", store.RoleUser)

	rec := ts.doMultipart(t, "/api/posts", userToken, map[string]string{
		"title":   "Sneaky",
		"content": "Body text here",
	}, "cover.png", []byte("png-bytes"))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.doMultipart(t, "/api/posts", "", map[string]string{
		"title":   "Sneaky",
		"content": "Body text here",
	}, "cover.png", []byte("png-bytes"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePost_StoresImageURL(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")
	postID := ts.createPost(t, token, "With image", "Body text here")

	post, err := ts.store.GetPost(t.Context(), postID)
	require.NoError(t, err)
	assert.Contains(t, post.ImageURL, "http://blobs.test/")
	assert.Contains(t, post.ImageURL, "posts/")
	assert.Contains(t, post.ImageURL, "cover.png")
}

func TestUpdatePost(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")
	postID := ts.createPost(t, token, "Before", "Original body")

	rec := ts.doJSON(t, http.MethodPut, "/api/posts/"+postID, token, map[string]string{
		"title":   "After",
		"content": "Revised body",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	post, err := ts.store.GetPost(t.Context(), postID)
	require.NoError(t, err)
	assert.Equal(t, "After", post.Title)
	assert.Equal(t, "Revised body", post.Content)
}

func TestUpdatePost_NotFound(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")

	rec := ts.doJSON(t, http.MethodPut, "/api/posts/no-such-post", token, map[string]string{
		"title":   "After",
		"content": "Revised body",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTogglePublished_FlipsEachTime(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")
	postID := ts.createPost(t, token, "Toggle me", "Body text here")

	rec := ts.doJSON(t, http.MethodPatch, "/api/posts/"+postID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	post, err := ts.store.GetPost(t.Context(), postID)
	require.NoError(t, err)
	assert.False(t, post.Published)

	rec = ts.doJSON(t, http.MethodPatch, "/api/posts/"+postID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	post, err = ts.store.GetPost(t.Context(), postID)
	require.NoError(t, err)
	assert.True(t, post.Published)
}

func TestDeletePost(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t, "writer")
	postID := ts.createPost(t, token, "Doomed", "Body text here")

	rec := ts.doJSON(t, http.MethodDelete, "/api/posts/"+postID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := ts.store.GetPost(t.Context(), postID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletePost_RequiresAdmin(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.adminToken(t, "writer")
	postID := ts.createPost(t, adminToken, "Protected", "Body text here")

	_, userToken := ts.seedUserWithRole(t, "reader", store.RoleUser)
	rec := ts.doJSON(t, http.MethodDelete, "/api/posts/"+postID, userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Post must survive the rejected delete
	_, err := ts.store.GetPost(t.Context(), postID)
	require.NoError(t, err)
}
