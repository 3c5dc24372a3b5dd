package services

import "github.com/dmitrijs2005/chyrp/internal/common"

// Failure pairs a sentinel from package common with the message shown to
// API callers.
type Failure struct {
	Err    error
	Detail string
}

func (f *Failure) Error() string {
	return f.Detail
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(err error, detail string) error {
	return &Failure{Err: err, Detail: detail}
}

var (
	errBadCredentials = fail(common.ErrorUnauthorized, "Incorrect username or password")
	errCredentials    = fail(common.ErrorUnauthorized, "Could not validate credentials")
	errRevoked        = fail(common.ErrTokenRevoked, "Token has been revoked")
	errInactive       = fail(common.ErrValidation, "Inactive user")
	errForbidden      = fail(common.ErrorForbidden, "Not enough permissions")
	errUserNotFound   = fail(common.ErrorNotFound, "User not found")
	errPostNotFound   = fail(common.ErrorNotFound, "Post not found")
	errFileNotFound   = fail(common.ErrorNotFound, "File not found")
)
