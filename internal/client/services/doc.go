// Package services contains application services for the multisession client.
//
// SessionService is the facade the visual layer talks to. It derives the
// current token, profile and login state from the account registry, and runs
// the authentication actions (login, register, profile refresh, logout)
// against the auth API client. Every user-triggered action reports its
// outcome through exactly one Notifier call and never returns an error: the
// boolean or RegisterResult it returns is the whole contract.
package services
