// Package common contains shared constants and sentinel errors used across
// the Chyrp client and development server.
package common

// Session metadata keys. These are the only names under which the client
// persists authentication state.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	ProfileKey      = "profile"
)

// AuthorizationHeaderName carries the bearer credential on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// TokenTypeAccess and TokenTypeRefresh tag issued JWTs.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
