package views

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/common"
)

// FormMode is whether the profile form is read-only or being edited.
type FormMode int

const (
	Viewing FormMode = iota
	Editing
)

func (m FormMode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// Editable profile fields.
const (
	FieldName     = "name"
	FieldUsername = "username"
	FieldEmail    = "email"
)

// ProfileForm holds the last saved profile and, while editing, a draft.
type ProfileForm struct {
	mode  FormMode
	saved models.Profile
	draft models.Profile
}

func NewProfileForm(p models.Profile) *ProfileForm {
	return &ProfileForm{mode: Viewing, saved: p, draft: p}
}

func (f *ProfileForm) Mode() FormMode { return f.mode }

// Profile returns the last saved profile.
func (f *ProfileForm) Profile() models.Profile { return f.saved }

// Edit enters editing mode starting from the saved profile.
func (f *ProfileForm) Edit() {
	if f.mode == Editing {
		return
	}
	f.mode = Editing
	f.draft = f.saved
}

// Set changes one field of the draft.
func (f *ProfileForm) Set(field, value string) error {
	if f.mode != Editing {
		return fmt.Errorf("%w: form is not being edited", ErrInvalidTransition)
	}

	switch strings.ToLower(field) {
	case FieldName:
		f.draft.Name = value
	case FieldUsername:
		f.draft.Username = value
	case FieldEmail:
		f.draft.Email = value
	default:
		return common.NewValidationError(field, "unknown field")
	}
	return nil
}

// Cancel drops the draft and restores the saved profile.
func (f *ProfileForm) Cancel() {
	f.mode = Viewing
	f.draft = f.saved
}

// Draft returns the profile as currently edited.
func (f *ProfileForm) Draft() models.Profile { return f.draft }

// Saved records the server's copy and leaves editing mode.
func (f *ProfileForm) Saved(p models.Profile) {
	f.saved = p
	f.draft = p
	f.mode = Viewing
}
