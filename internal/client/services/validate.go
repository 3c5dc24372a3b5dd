package services

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/common"
)

const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return common.NewValidationError("username", "Username is required")
	}
	if password == "" {
		return common.NewValidationError("password", "Password is required")
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return common.NewValidationError("email", "Email is required")
	}
	if !emailPattern.MatchString(email) {
		return common.NewValidationError("email", "Email address is invalid")
	}
	return nil
}

// ValidateNewUser checks a registration form without touching the network.
func ValidateNewUser(u models.NewUser) error {
	if strings.TrimSpace(u.Name) == "" {
		return common.NewValidationError("name", "Name is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return common.NewValidationError("username", "Username is required")
	}
	if err := validateEmail(u.Email); err != nil {
		return err
	}
	if u.Password == "" {
		return common.NewValidationError("password", "Password is required")
	}
	if len(u.Password) < minPasswordLen {
		return common.NewValidationError("password", "Password must be at least 6 characters")
	}
	return nil
}

// ValidateProfile checks an edited profile.
func ValidateProfile(p models.Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return common.NewValidationError("name", "Name is required")
	}
	if strings.TrimSpace(p.Username) == "" {
		return common.NewValidationError("username", "Username is required")
	}
	return validateEmail(p.Email)
}

// ValidateDraft requires a title, content and at least one image.
func ValidateDraft(d models.Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return common.NewValidationError("title", "Title is required")
	}
	if strings.TrimSpace(d.Content) == "" {
		return common.NewValidationError("content", "Content is required")
	}
	for _, f := range d.Files {
		if mt, ok := models.MediaTypeOf(f.ContentType); ok && mt == models.MediaImage {
			return nil
		}
	}
	return common.NewValidationError("files", "At least one image is required")
}
