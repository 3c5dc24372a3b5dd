// Package services holds the client's application logic: the route gate
// that owns the session lifecycle, the concurrent upload orchestrator, the
// post publisher and the profile and post services built on them.
package services
