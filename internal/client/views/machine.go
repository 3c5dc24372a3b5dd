// Package views tracks which screen the signed-in user is on and the
// edit state of the profile form.
package views

import (
	"errors"
	"fmt"
	"sync"
)

// State is a protected screen.
type State int

const (
	Dashboard State = iota
	CreatePost
	Profile
)

func (s State) String() string {
	switch s {
	case Dashboard:
		return "DASHBOARD"
	case CreatePost:
		return "CREATE_POST"
	case Profile:
		return "PROFILE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Intent is a user action that may move between screens.
type Intent int

const (
	OpenCreate Intent = iota
	OpenProfile
	Cancel
	PublishSucceeded
	ProfileSaved
)

func (i Intent) String() string {
	switch i {
	case OpenCreate:
		return "open-create"
	case OpenProfile:
		return "open-profile"
	case Cancel:
		return "cancel"
	case PublishSucceeded:
		return "publish-succeeded"
	case ProfileSaved:
		return "profile-saved"
	default:
		return fmt.Sprintf("Intent(%d)", int(i))
	}
}

var ErrInvalidTransition = errors.New("invalid view transition")

type transition struct {
	from   State
	intent Intent
}

// Screens other than the dashboard only lead back to it.
var transitions = map[transition]State{
	{Dashboard, OpenCreate}:        CreatePost,
	{Dashboard, OpenProfile}:       Profile,
	{CreatePost, Cancel}:           Dashboard,
	{CreatePost, PublishSucceeded}: Dashboard,
	{Profile, Cancel}:              Dashboard,
	{Profile, ProfileSaved}:        Dashboard,
}

// Machine is the process-local navigation state. The zero value starts on
// the dashboard.
type Machine struct {
	mu    sync.Mutex
	state State
}

func NewMachine() *Machine {
	return &Machine{state: Dashboard}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Apply moves to the screen intent leads to. An intent that is not valid
// from the current screen leaves the state unchanged.
func (m *Machine) Apply(intent Intent) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := transitions[transition{m.state, intent}]
	if !ok {
		return m.state, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, intent, m.state)
	}
	m.state = next
	return next, nil
}

// Reset returns to the dashboard. Called on every fresh authenticated entry.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.state = Dashboard
	m.mu.Unlock()
}
