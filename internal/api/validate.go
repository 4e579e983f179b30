// ABOUTME: Field-level input validation for signup, posts, and comments
// ABOUTME: Produces the errors list the API returns on 400 responses

package api

import (
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// signupRequest carries the fields of a signup submission after trimming.
type signupRequest struct {
	FirstName       string `json:"firstname"`
	LastName        string `json:"lastname"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmpassword"`
}

// normalize trims whitespace from the identity fields. Passwords are
// compared as submitted.
func (r *signupRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Username = strings.TrimSpace(r.Username)
}

// validate returns the list of field violations, empty when the request is acceptable.
func (r *signupRequest) validate() []FieldError {
	var errs []FieldError

	if r.FirstName == "" {
		errs = append(errs, paramError("firstname", "First name is required"))
	}
	if r.LastName == "" {
		errs = append(errs, paramError("lastname", "Last name is required"))
	}

	switch {
	case r.Username == "":
		errs = append(errs, paramError("username", "Username is required"))
	case len(r.Username) < 3 || len(r.Username) > 20:
		errs = append(errs, paramError("username", "Username must be between 3 and 20 characters long"))
	case !usernamePattern.MatchString(r.Username):
		errs = append(errs, paramError("username", "Username must contain only letters, numbers, underscores, or periods"))
	}

	errs = append(errs, validatePassword(r.Password)...)

	if r.ConfirmPassword != r.Password {
		errs = append(errs, paramError("confirmpassword", "Passwords do not match"))
	}

	return errs
}

func validatePassword(password string) []FieldError {
	if password == "" {
		return []FieldError{paramError("password", "Password is required")}
	}
	if len(password) < 8 || len(password) > 64 {
		return []FieldError{paramError("password", "Password must be between 8 and 64 characters long")}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	var errs []FieldError
	if !hasUpper {
		errs = append(errs, paramError("password", "Password must contain at least one uppercase letter"))
	}
	if !hasLower {
		errs = append(errs, paramError("password", "Password must contain at least one lowercase letter"))
	}
	if !hasDigit {
		errs = append(errs, paramError("password", "Password must contain at least one number"))
	}
	return errs
}

// validatePostFields checks title and content for create/update operations.
func validatePostFields(title, content string) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(title) == "" {
		errs = append(errs, paramError("title", "Title must not be empty."))
	}
	if len(strings.TrimSpace(content)) < 3 {
		errs = append(errs, paramError("content", "Blog body must be a minimum of 3 characters"))
	}
	return errs
}

// validateCommentContent checks a comment body.
func validateCommentContent(content string) []FieldError {
	if len(strings.TrimSpace(content)) < 3 {
		return []FieldError{paramError("content", "Comment must be a minimum of 3 characters")}
	}
	return nil
}
