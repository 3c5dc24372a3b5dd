// Package client talks to the blogging service and bootstraps local storage.
//
// The API contract is the Client interface; HTTPClient implements it over
// REST/JSON with multipart uploads. Every call takes the bearer credential
// explicitly, so the client itself holds no session state.
//
// Failures map onto a small taxonomy matched with errors.Is/As:
//
//   - ErrUnavailable: the request never produced an HTTP response
//   - ErrUnauthorized: the server answered 401 or 403
//   - ErrNotFound: the server answered 404
//   - *RemoteError: any non-2xx answer, carrying the server's detail text
//
// A *RemoteError for a 401 also matches ErrUnauthorized, so callers can both
// show the detail and route the failure as an expired session.
//
// InitDatabase opens the client's SQLite file and applies embedded goose
// migrations.
package client
