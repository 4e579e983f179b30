// ABOUTME: Handlers for post listing, detail, creation with image upload, and mutation
// ABOUTME: Attaches author display names and renders post Markdown for detail responses

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/blob"
	"github.com/inkpost/inkpost/internal/store"
)

// unknownAuthor is the display name used when an author row no longer exists.
const unknownAuthor = "Unknown"

// postResponse is the JSON shape of a post in list and detail responses.
type postResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ContentHTML string `json:"contentHtml,omitempty"`
	AuthorID    string `json:"authorId"`
	AuthorName  string `json:"authorName"`
	Published   bool   `json:"published"`
	Image       string `json:"image,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// commentResponse is the JSON shape of a comment in detail responses.
type commentResponse struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	PostID     string `json:"postId"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	CreatedAt  string `json:"createdAt"`
}

// postDetailResponse is the JSON response for GET /api/posts/{postId}.
type postDetailResponse struct {
	Post     postResponse      `json:"post"`
	Comments []commentResponse `json:"comments"`
}

// postFieldsRequest is the JSON request body for PUT /api/posts/{postId}.
type postFieldsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// authorNames resolves author display names, deduplicating lookups within a
// single request. Missing authors resolve to "Unknown": dangling references
// are legal after a user deletion.
type authorNames struct {
	store store.Store
	cache map[string]string
}

func (s *Server) newAuthorNames() *authorNames {
	return &authorNames{store: s.store, cache: make(map[string]string)}
}

func (a *authorNames) resolve(ctx context.Context, authorID string) (string, error) {
	if name, ok := a.cache[authorID]; ok {
		return name, nil
	}

	name := unknownAuthor
	user, err := a.store.GetUser(ctx, authorID)
	switch {
	case err == nil:
		name = user.DisplayName()
	case errors.Is(err, store.ErrNotFound):
		// Dangling author reference
	default:
		return "", err
	}

	a.cache[authorID] = name
	return name, nil
}

func toPostResponse(p *store.Post, authorName string) postResponse {
	return postResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		AuthorID:   p.AuthorID,
		AuthorName: authorName,
		Published:  p.Published,
		Image:      p.ImageURL,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListPosts handles GET /api/posts.
// Returns all posts with author names attached.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		s.sendInternalError(w, err)
		return
	}

	names := s.newAuthorNames()
	response := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		name, err := names.resolve(r.Context(), p.AuthorID)
		if err != nil {
			s.sendInternalError(w, err)
			return
		}
		response = append(response, toPostResponse(p, name))
	}

	s.sendJSON(w, http.StatusOK, response)
}

// handleGetPost handles GET /api/posts/{postId}.
// Returns the post with rendered Markdown plus its comments, author names attached.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postId")

	post, err := s.store.GetPost(r.Context(), postID)
	if err != nil {
		s.sendStoreError(w, err, "Post not found")
		return
	}

	names := s.newAuthorNames()
	authorName, err := names.resolve(r.Context(), post.AuthorID)
	if err != nil {
		s.sendInternalError(w, err)
		return
	}

	postResp := toPostResponse(post, authorName)
	postResp.ContentHTML, err = renderMarkdown(post.Content)
	if err != nil {
		s.sendInternalError(w, err)
		return
	}

	comments, err := s.store.ListCommentsByPost(r.Context(), postID)
	if err != nil {
		s.sendInternalError(w, err)
		return
	}

	commentResps := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		name, err := names.resolve(r.Context(), c.AuthorID)
		if err != nil {
			s.sendInternalError(w, err)
			return
		}
		commentResps = append(commentResps, commentResponse{
			ID:         c.ID,
			Content:    c.Content,
			PostID:     c.PostID,
			AuthorID:   c.AuthorID,
			AuthorName: name,
			CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	s.sendJSON(w, http.StatusOK, postDetailResponse{
		Post:     postResp,
		Comments: commentResps,
	})
}

// renderMarkdown converts post Markdown to HTML.
func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// handleCreatePost handles POST /api/posts.
// Multipart form: title, content, published, and a required image file that is
// uploaded to the object store before the post is persisted.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	// Bound memory held per in-flight upload
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.sendErrors(w, http.StatusBadRequest, fieldError("Invalid multipart form or image too large"))
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	published, _ := strconv.ParseBool(r.FormValue("published"))

	errs := validatePostFields(title, content)

	file, header, err := r.FormFile("image")
	if err != nil {
		errs = append(errs, paramError("image", "Please upload a photo."))
	} else {
		defer file.Close()
	}

	if len(errs) > 0 {
		s.sendErrors(w, http.StatusBadRequest, errs...)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.sendInternalError(w, err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := blob.PostImageKey(header.Filename, time.Now())
	imageURL, err := s.blobs.Put(r.Context(), key, data, contentType)
	if err != nil {
		s.sendInternalError(w, err)
		return
	}

	now := time.Now().UTC()
	post := &store.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		AuthorID:  auth.MustFromContext(r.Context()),
		Published: published,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreatePost(r.Context(), post); err != nil {
		s.sendInternalError(w, err)
		return
	}

	s.logger.Info("post created", "post_id", post.ID, "author_id", post.AuthorID)
	s.sendMessage(w, http.StatusCreated, "Post created successfully")
}

// handleUpdatePost handles PUT /api/posts/{postId}.
// Updates title and content, re-attributing the post to the acting admin.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postId")

	var req postFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendErrors(w, http.StatusBadRequest, fieldError("Invalid JSON body"))
		return
	}

	if errs := validatePostFields(req.Title, req.Content); len(errs) > 0 {
		s.sendErrors(w, http.StatusBadRequest, errs...)
		return
	}

	authorID := auth.MustFromContext(r.Context())
	if err := s.store.UpdatePost(r.Context(), postID, authorID, req.Title, req.Content); err != nil {
		s.sendStoreError(w, err, "Post not found")
		return
	}

	s.sendMessage(w, http.StatusOK, "Post updated successfully")
}

// handleTogglePublished handles PATCH /api/posts/{postId}.
func (s *Server) handleTogglePublished(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postId")

	if err := s.store.TogglePublished(r.Context(), postID); err != nil {
		s.sendStoreError(w, err, "Post not found")
		return
	}

	s.sendMessage(w, http.StatusOK, "Change status successfully")
}

// handleDeletePost handles DELETE /api/posts/{postId}.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postId")

	if err := s.store.DeletePost(r.Context(), postID); err != nil {
		s.sendStoreError(w, err, "Post not found")
		return
	}

	s.sendMessage(w, http.StatusOK, "Post deleted successfully")
}
