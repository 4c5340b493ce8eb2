// Package accounts implements the multi-account registry: an ordered set of
// locally cached accounts plus a pointer to the current one, persisted
// through a storage.Storage.
//
// # Invariants
//
//   - The current id, when set, always keys an existing account. Removing
//     the current account repoints it to the first remaining account, or
//     to none when the registry becomes empty.
//   - An account's ID always equals its Username.
//
// # Persistence
//
// Every mutation is followed by Save, which writes the account list and the
// current id in one storage.Apply batch. A failed save is logged and never
// undoes the in-memory change. Load never fails: unreadable or malformed
// data leaves an empty registry.
//
// The single-account layout of earlier client versions (a bare token plus
// a JSON user blob) is migrated by Load the first time it is seen.
//
// # Events
//
// Subscribe registers a callback that receives an Event after every
// mutation, outside the registry lock.
package accounts
