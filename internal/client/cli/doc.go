// Package cli is the interactive terminal front end of the blogging client.
//
// App wires configuration, the local session database, the API client and
// the services, then runs a line-oriented REPL. Every command that needs a
// signed-in user asks the route gate first; an expired session sends the
// user back to the login prompt.
//
// Commands depend on the current screen:
//
//	signed out:   register, login, exit
//	dashboard:    list, show <id>, new, profile, logout, exit
//	create post:  title <text>, content, attach <path>..., files, publish, cancel
//	profile:      edit, set <field> <value>, save, cancel
package cli
