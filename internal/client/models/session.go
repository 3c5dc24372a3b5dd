package models

// Session is the persisted credential plus the cached profile.
// A Profile is never stored without an AccessToken.
type Session struct {
	AccessToken  string
	RefreshToken string
	Profile      *Profile
}

// Authenticated reports whether the session carries a credential.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Clone returns a deep copy, safe to hand to the presentation layer.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Profile != nil {
		p := *s.Profile
		c.Profile = &p
	}
	return &c
}

// Profile is the server's view of the signed-in user. It is always replaced
// as a whole.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProfileUpdate carries the fields sent by an edit; nil fields are left
// unchanged by the server.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// NewUser is the registration form.
type NewUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Tokens is the result of a credential exchange.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}
