package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_ValidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		intents []Intent
		want    State
	}{
		{"open create", []Intent{OpenCreate}, CreatePost},
		{"open profile", []Intent{OpenProfile}, Profile},
		{"cancel create", []Intent{OpenCreate, Cancel}, Dashboard},
		{"publish", []Intent{OpenCreate, PublishSucceeded}, Dashboard},
		{"cancel profile", []Intent{OpenProfile, Cancel}, Dashboard},
		{"save profile", []Intent{OpenProfile, ProfileSaved}, Dashboard},
		{"round trip", []Intent{OpenCreate, Cancel, OpenProfile}, Profile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			for _, in := range tt.intents {
				_, err := m.Apply(in)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, m.State())
		})
	}
}

func TestMachine_InvalidTransitionsKeepState(t *testing.T) {
	tests := []struct {
		name   string
		setup  []Intent
		intent Intent
		state  State
	}{
		{"create to profile", []Intent{OpenCreate}, OpenProfile, CreatePost},
		{"profile to create", []Intent{OpenProfile}, OpenCreate, Profile},
		{"cancel on dashboard", nil, Cancel, Dashboard},
		{"publish from profile", []Intent{OpenProfile}, PublishSucceeded, Profile},
		{"profile saved from create", []Intent{OpenCreate}, ProfileSaved, CreatePost},
		{"unknown intent", nil, Intent(42), Dashboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			for _, in := range tt.setup {
				_, err := m.Apply(in)
				require.NoError(t, err)
			}

			got, err := m.Apply(tt.intent)
			require.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.state, got)
			assert.Equal(t, tt.state, m.State())
		})
	}
}

func TestMachine_ZeroValueAndReset(t *testing.T) {
	var m Machine
	assert.Equal(t, Dashboard, m.State())

	_, err := m.Apply(OpenProfile)
	require.NoError(t, err)
	m.Reset()
	assert.Equal(t, Dashboard, m.State())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "CREATE_POST", CreatePost.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.Equal(t, "publish-succeeded", PublishSucceeded.String())
	assert.Equal(t, "Intent(9)", Intent(9).String())
}
