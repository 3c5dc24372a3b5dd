// Package models defines the client-side data model: the persisted session,
// the user profile, drafts, posts and the media they carry.
package models
