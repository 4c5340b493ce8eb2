// Package cli provides the interactive multisession command-line client.
//
// It wires configuration, local account storage, the auth API client, the
// session service and the route guard, then runs a REPL. The REPL keeps a
// current page (a route path) and every page change goes through the guard,
// so signing out of the last admin account bounces the user off /admin the
// same way a browser router would.
//
// Key features:
//   - Register, log in, log out of one or all accounts
//   - Several signed-in accounts at once, switch or remove by username
//   - Refresh the current profile from the server
//   - Navigate between pages with login redirects and role homes
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
