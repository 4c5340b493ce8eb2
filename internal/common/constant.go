// Package common contains shared constants and sentinel errors used across
// multisession components.
package common

// AuthorizationHeaderName is the HTTP header / gRPC metadata key used to carry
// the bearer access token on authenticated requests.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the access token in the authorization value.
const BearerPrefix = "Bearer "

// Storage keys owned by the account registry.
const (
	StorageKeyAccounts       = "user_accounts"
	StorageKeyCurrentAccount = "current_account_id"
)

// Keys of the single-account layout written by earlier client versions.
// They are read once during migration and then erased.
const (
	LegacyStorageKeyToken = "token"
	LegacyStorageKeyUser  = "user"
)
