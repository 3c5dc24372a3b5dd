package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/common"
)

var ann = models.Profile{ID: 1, Name: "Ann", Username: "ann", Email: "ann@example.com"}

func TestProfileForm_EditCancelRestores(t *testing.T) {
	f := NewProfileForm(ann)
	assert.Equal(t, Viewing, f.Mode())

	f.Edit()
	require.NoError(t, f.Set(FieldName, "Annie"))
	require.NoError(t, f.Set("EMAIL", "annie@example.com"))
	assert.Equal(t, "Annie", f.Draft().Name)
	assert.Equal(t, "annie@example.com", f.Draft().Email)

	f.Cancel()
	assert.Equal(t, Viewing, f.Mode())
	assert.Equal(t, ann, f.Draft())
	assert.Equal(t, ann, f.Profile())
}

func TestProfileForm_SetRequiresEditing(t *testing.T) {
	f := NewProfileForm(ann)

	err := f.Set(FieldName, "x")
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, ann, f.Draft())
}

func TestProfileForm_UnknownField(t *testing.T) {
	f := NewProfileForm(ann)
	f.Edit()

	err := f.Set("id", "7")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestProfileForm_Saved(t *testing.T) {
	f := NewProfileForm(ann)
	f.Edit()
	require.NoError(t, f.Set(FieldUsername, "annie"))

	server := f.Draft()
	server.Email = "normalized@example.com"
	f.Saved(server)

	assert.Equal(t, Viewing, f.Mode())
	assert.Equal(t, server, f.Profile())
	assert.Equal(t, server, f.Draft())
	assert.Equal(t, "editing", Editing.String())
}

func TestProfileForm_EditTwiceKeepsDraft(t *testing.T) {
	f := NewProfileForm(ann)
	f.Edit()
	require.NoError(t, f.Set(FieldName, "Annie"))
	f.Edit()
	assert.Equal(t, "Annie", f.Draft().Name)
}
