// ABOUTME: Handlers for admin signup and login
// ABOUTME: Signup creates ADMIN accounts; login authenticates then authorizes the role

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/store"
)

// loginRequest is the JSON request body for POST /api/admin/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the user shape returned by login; the password hash
// never leaves the server.
type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// loginResponse is the JSON response for a successful login.
type loginResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *store.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleSignup handles POST /api/admin/signup.
// Validates the submission, hashes the password, and creates an ADMIN user.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendErrors(w, http.StatusBadRequest, fieldError("Invalid JSON body"))
		return
	}
	req.normalize()

	errs := req.validate()

	// The storage layer enforces uniqueness too; this pre-check only
	// exists to report it as a field error alongside the others.
	if req.Username != "" {
		_, err := s.store.GetUserByUsername(r.Context(), req.Username)
		switch {
		case err == nil:
			errs = append(errs, paramError("username", "Username already exists"))
		case errors.Is(err, store.ErrNotFound):
			// Available
		default:
			s.sendInternalError(w, err)
			return
		}
	}

	if len(errs) > 0 {
		s.sendErrors(w, http.StatusBadRequest, errs...)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.sendInternalError(w, err)
		return
	}

	user := &store.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         store.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			// Lost the race with a concurrent signup
			s.sendErrors(w, http.StatusBadRequest, paramError("username", "Username already exists"))
			return
		}
		s.sendInternalError(w, err)
		return
	}

	s.logger.Info("admin created", "username", user.Username, "user_id", user.ID)
	s.sendMessage(w, http.StatusCreated, "Admin created successfully")
}

// handleLogin handles POST /api/admin/login.
// Identity is verified first, then the ADMIN role is required as a separate
// step, so a role rejection never reveals anything about the password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendErrors(w, http.StatusBadRequest, fieldError("Invalid JSON body"))
		return
	}

	user, token, err := s.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnknownUser):
			s.sendErrors(w, http.StatusBadRequest, paramError("username", "Username does not exist"))
		case errors.Is(err, auth.ErrWrongPassword):
			s.sendErrors(w, http.StatusBadRequest, paramError("password", "Incorrect password"))
		default:
			s.sendInternalError(w, err)
		}
		return
	}

	if user.Role != store.RoleAdmin {
		s.sendErrors(w, http.StatusForbidden, fieldError("Your account does not meet the required permissions"))
		return
	}

	s.sendJSON(w, http.StatusOK, loginResponse{
		User:  toUserResponse(user),
		Token: token,
	})
}
