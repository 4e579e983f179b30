// ABOUTME: Shared test fixtures for the API handler tests
// ABOUTME: Wires a real SQLite store, directory blob store, and auth service

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/blob"
	"github.com/inkpost/inkpost/internal/store"
)

const testMaxUpload = 1 << 20

type testServer struct {
	handler http.Handler
	store   store.Store
	auth    *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	st, err := store.NewSQLiteStore(filepath.Join(dir, "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	verifier := auth.NewJWTVerifier([]byte("test-secret"))
	authSvc := auth.NewService(st, verifier, time.Hour)

	blobs, err := blob.NewDirStore(filepath.Join(dir, "uploads"), "http://blobs.test")
	require.NoError(t, err)

	srv := NewServer(Options{
		Store:         st,
		AuthService:   authSvc,
		Blobs:         blobs,
		MaxUploadSize: testMaxUpload,
		Logger:        slog.New(slog.DiscardHandler),
	})

	return &testServer{handler: srv.Handler(), store: st, auth: authSvc}
}

// doJSON sends a JSON request through the handler. A non-empty token is
// attached as a bearer credential.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// doMultipart sends a multipart form request. imageName may be empty to omit
// the image part entirely.
func (ts *testServer) doMultipart(t *testing.T, path, token string, fields map[string]string, imageName string, imageData []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	if imageName != "" {
		part, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

// signupAdmin registers an admin through the API and returns the username.
func (ts *testServer) signupAdmin(t *testing.T, username string) {
	t.Helper()

	rec := ts.doJSON(t, http.MethodPost, "/api/admin/signup", "", map[string]string{
		"firstname":       "Test",
		"lastname":        "Admin",
		"username":        username,
		"password":        "Abcdef12",
		"confirmpassword": "Abcdef12",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "signup body: %s", rec.Body.String())
}

// loginAdmin logs in a previously signed-up admin and returns the bearer token.
func (ts *testServer) loginAdmin(t *testing.T, username string) string {
	t.Helper()

	rec := ts.doJSON(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": username,
		"password": "Abcdef12",
	})
	require.Equal(t, http.StatusOK, rec.Code, "login body: %s", rec.Body.String())

	resp := decodeJSON[loginResponse](t, rec)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// adminToken signs up and logs in a fresh admin in one step.
func (ts *testServer) adminToken(t *testing.T, username string) string {
	t.Helper()
	ts.signupAdmin(t, username)
	return ts.loginAdmin(t, username)
}

// seedUserWithRole inserts a user directly into the store, bypassing the
// ADMIN-only signup route, and returns a token for them.
func (ts *testServer) seedUserWithRole(t *testing.T, username, role string) (*store.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("Abcdef12")
	require.NoError(t, err)

	user := &store.User{
		ID:           uuid.NewString(),
		FirstName:    "Casual",
		LastName:     "Reader",
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, ts.store.CreateUser(t.Context(), user))

	token, err := ts.auth.Verifier().Generate(user.ID, time.Hour)
	require.NoError(t, err)
	return user, token
}

// createPost creates a post through the API and returns its ID, read back
// from the store listing.
func (ts *testServer) createPost(t *testing.T, token, title, content string) string {
	t.Helper()

	rec := ts.doMultipart(t, "/api/posts", token, map[string]string{
		"title":     title,
		"content":   content,
		"published": "true",
	}, "cover.png", []byte("png-bytes"))
	require.Equal(t, http.StatusCreated, rec.Code, "create post body: %s", rec.Body.String())

	posts, err := ts.store.ListPosts(t.Context())
	require.NoError(t, err)
	for _, p := range posts {
		if p.Title == title {
			return p.ID
		}
	}
	t.Fatalf("created post %q not found in store", title)
	return ""
}

func errorMessages(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	envelope := decodeJSON[errorEnvelope](t, rec)
	msgs := make([]string, 0, len(envelope.Errors))
	for _, e := range envelope.Errors {
		msgs = append(msgs, e.Msg)
	}
	return msgs
}
