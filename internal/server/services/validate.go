package services

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/server/models"
)

const minPasswordLen = 6

var (
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return common.NewValidationError("name", "Name is required")
	}
	return nil
}

// Usernames appear as a path segment, so they are restricted to URL-safe
// characters.
func validateUserName(userName string) error {
	if userName == "" {
		return common.NewValidationError("username", "Username is required")
	}
	if !usernamePattern.MatchString(userName) {
		return common.NewValidationError("username", "Username may only contain letters, digits, '.', '_' and '-'")
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

func validateNewUser(u NewUser) error {
	if err := validateName(u.Name); err != nil {
		return err
	}
	if err := validateUserName(u.UserName); err != nil {
		return err
	}
	if err := validateEmail(u.Email); err != nil {
		return err
	}
	if len(u.Password) < minPasswordLen {
		return common.NewValidationError("password", "Password must be at least 6 characters")
	}
	return nil
}

func validateUserUpdate(upd models.UserUpdate) error {
	if upd.Name != nil {
		if err := validateName(*upd.Name); err != nil {
			return err
		}
	}
	if upd.UserName != nil {
		if err := validateUserName(*upd.UserName); err != nil {
			return err
		}
	}
	if upd.Email != nil {
		return validateEmail(*upd.Email)
	}
	return nil
}

func validateNewPost(p NewPost) error {
	if strings.TrimSpace(p.Title) == "" {
		return common.NewValidationError("title", "Title is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return common.NewValidationError("content", "Content is required")
	}
	for _, m := range p.Media {
		if m.URL == "" {
			return common.NewValidationError("media", "Media url is required")
		}
		if !isMediaType(m.MediaType) {
			return common.NewValidationError("media", "Incorrect file type")
		}
	}
	return nil
}

func isMediaType(t string) bool {
	switch t {
	case "image", "video", "audio":
		return true
	}
	return false
}
