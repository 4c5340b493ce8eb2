package accounts

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/multisession/internal/client/models"
	"github.com/dmitrijs2005/multisession/internal/client/storage"
	"github.com/dmitrijs2005/multisession/internal/common"
	"github.com/dmitrijs2005/multisession/internal/logging"
)

// Registry owns the lifecycle of locally cached accounts.
// It is safe for concurrent use.
type Registry struct {
	store storage.Storage
	log   logging.Logger
	now   func() time.Time

	mu        sync.Mutex
	order     []string
	accounts  map[string]models.Account
	currentID string

	subMu       sync.Mutex
	subscribers map[uuid.UUID]func(Event)
}

// Option customises a Registry.
type Option func(*Registry)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns an empty registry backed by store. Call Load to read
// persisted accounts.
func NewRegistry(store storage.Storage, log logging.Logger, opts ...Option) *Registry {
	r := &Registry{
		store:       store,
		log:         log.With("component", "accounts"),
		now:         time.Now,
		accounts:    make(map[string]models.Account),
		subscribers: make(map[uuid.UUID]func(Event)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the in-memory state with what storage holds.
//
// Order: read the current layout; if absent, migrate the legacy
// single-account layout; then validate the stored current id, falling back
// to the first account or none. Load never fails. Unreadable or malformed
// data leaves an empty registry and a warning in the log.
func (r *Registry) Load(ctx context.Context) {
	r.mu.Lock()
	r.resetLocked()

	raw, found, err := r.store.Get(ctx, common.StorageKeyAccounts)
	switch {
	case err != nil:
		r.log.Warn(ctx, "read accounts failed, starting empty", "err", err)
	case found:
		r.loadEntriesLocked(ctx, raw)
	default:
		r.migrateLegacyLocked(ctx)
	}

	savedID, ok, err := r.store.Get(ctx, common.StorageKeyCurrentAccount)
	if err != nil {
		r.log.Warn(ctx, "read current account failed", "err", err)
	}
	r.currentID = ""
	if _, exists := r.accounts[savedID]; ok && exists {
		r.currentID = savedID
	} else if len(r.order) > 0 {
		r.currentID = r.order[0]
	}

	ev := Event{Kind: EventLoaded, CurrentID: r.currentID}
	r.log.Debug(ctx, "accounts loaded", "count", len(r.order), "current", r.currentID)
	r.mu.Unlock()

	r.publish(ev)
}

func (r *Registry) loadEntriesLocked(ctx context.Context, raw string) {
	entries, err := decodeAccounts(raw)
	if err != nil {
		r.log.Warn(ctx, "malformed persisted accounts, starting empty", "err", err)
		return
	}
	for _, e := range entries {
		if e.ID == "" || e.ID != e.Account.Username || e.Account.ID != e.ID {
			r.log.Warn(ctx, "dropping persisted account with inconsistent id", "id", e.ID, "username", e.Account.Username)
			continue
		}
		r.putLocked(e.Account)
	}
}

// migrateLegacyLocked converts the legacy token+user keys into one account.
// Legacy keys are erased only after the new layout has been written.
func (r *Registry) migrateLegacyLocked(ctx context.Context) {
	token, tokenOK, err := r.store.Get(ctx, common.LegacyStorageKeyToken)
	if err != nil || !tokenOK || token == "" {
		return
	}
	rawUser, userOK, err := r.store.Get(ctx, common.LegacyStorageKeyUser)
	if err != nil || !userOK {
		return
	}

	profile, err := decodeLegacyUser(rawUser)
	if err != nil {
		r.log.Warn(ctx, "legacy auth data is malformed, leaving it in place", "err", err)
		return
	}

	acc := r.newAccount(token, profile)
	r.putLocked(acc)
	r.currentID = acc.ID

	if err := r.saveLocked(ctx); err != nil {
		return
	}
	if err := storage.Apply(ctx, r.store,
		storage.RemoveOp(common.LegacyStorageKeyToken),
		storage.RemoveOp(common.LegacyStorageKeyUser),
	); err != nil {
		r.log.Warn(ctx, "erase legacy auth data failed", "err", err)
		return
	}
	r.log.Info(ctx, "migrated legacy single-account session", "account", acc.ID)
}

// Save writes the registry to storage. The error is also logged; callers of
// the mutating methods never see it because a failed write must not undo the
// in-memory change.
func (r *Registry) Save(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(ctx)
}

func (r *Registry) saveLocked(ctx context.Context) error {
	entries := make([]entry, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, entry{ID: id, Account: r.accounts[id]})
	}
	raw, err := encodeAccounts(entries)
	if err != nil {
		r.log.Warn(ctx, "encode accounts failed, persistence skipped", "err", err)
		return err
	}

	current := storage.RemoveOp(common.StorageKeyCurrentAccount)
	if r.currentID != "" {
		current = storage.SetOp(common.StorageKeyCurrentAccount, r.currentID)
	}

	if err := storage.Apply(ctx, r.store, storage.SetOp(common.StorageKeyAccounts, raw), current); err != nil {
		r.log.Warn(ctx, "persist accounts failed, keeping in-memory state", "err", err)
		return err
	}
	return nil
}

// AddOrUpdate stores the account for profile.Username with token and makes
// it current. See Upsert.
func (r *Registry) AddOrUpdate(ctx context.Context, token string, profile models.Profile) (created bool) {
	return r.Upsert(ctx, token, profile, true)
}

// Upsert inserts or refreshes the account keyed by profile.Username.
//
// An existing account gets the new token, login time, email, role and expiry
// in place and becomes current only when switchExisting is true. A new account
// is appended and always becomes current. The registry is saved either way.
func (r *Registry) Upsert(ctx context.Context, token string, profile models.Profile, switchExisting bool) (created bool) {
	id := profile.Username
	if id == "" {
		r.log.Warn(ctx, "refusing to store account without username")
		return false
	}

	r.mu.Lock()
	acc, exists := r.accounts[id]
	if exists {
		acc.Token = token
		acc.LoginTime = r.now().UTC()
		acc.ExpiresAt = tokenExpiry(token)
		acc.Email = profile.Email
		acc.Role = profile.Role
		r.accounts[id] = acc
		if switchExisting {
			r.currentID = id
		}
	} else {
		r.putLocked(r.newAccount(token, profile))
		r.currentID = id
	}
	_ = r.saveLocked(ctx)

	ev := Event{Kind: EventAdded, AccountID: id, CurrentID: r.currentID}
	if exists {
		ev.Kind = EventUpdated
	}
	r.mu.Unlock()

	r.publish(ev)
	return !exists
}

// UpdateProfile refreshes email and role of account id in place and saves.
// It reports false when id is unknown.
func (r *Registry) UpdateProfile(ctx context.Context, id, email string, role models.Role) bool {
	r.mu.Lock()
	acc, ok := r.accounts[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	acc.Email = email
	acc.Role = role
	r.accounts[id] = acc
	_ = r.saveLocked(ctx)
	ev := Event{Kind: EventUpdated, AccountID: id, CurrentID: r.currentID}
	r.mu.Unlock()

	r.publish(ev)
	return true
}

// SwitchTo makes id current. Unknown ids leave the state untouched and
// return false.
func (r *Registry) SwitchTo(ctx context.Context, id string) bool {
	r.mu.Lock()
	if _, ok := r.accounts[id]; !ok {
		r.mu.Unlock()
		return false
	}
	r.currentID = id
	_ = r.saveLocked(ctx)
	ev := Event{Kind: EventSwitched, AccountID: id, CurrentID: id}
	r.mu.Unlock()

	r.publish(ev)
	return true
}

// Remove deletes account id. If it was current, the first remaining account
// becomes current, or none. The registry is saved even when nothing was
// removed; the result reports whether an account existed.
func (r *Registry) Remove(ctx context.Context, id string) bool {
	r.mu.Lock()
	_, existed := r.accounts[id]
	if existed {
		delete(r.accounts, id)
		r.order = slices.DeleteFunc(r.order, func(k string) bool { return k == id })
		if r.currentID == id {
			r.currentID = ""
			if len(r.order) > 0 {
				r.currentID = r.order[0]
			}
		}
	}
	_ = r.saveLocked(ctx)
	ev := Event{Kind: EventRemoved, AccountID: id, CurrentID: r.currentID}
	r.mu.Unlock()

	if existed {
		r.publish(ev)
	}
	return existed
}

// ClearAll removes every account and saves.
func (r *Registry) ClearAll(ctx context.Context) {
	r.mu.Lock()
	r.resetLocked()
	_ = r.saveLocked(ctx)
	r.mu.Unlock()

	r.publish(Event{Kind: EventCleared})
}

// List returns copies of all accounts in registry order.
func (r *Registry) List() []models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Account, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.accounts[id])
	}
	return out
}

// Get returns a copy of account id.
func (r *Registry) Get(id string) (models.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	return acc, ok
}

// Current returns a copy of the current account, if any.
func (r *Registry) Current() (models.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.currentID == "" {
		return models.Account{}, false
	}
	acc, ok := r.accounts[r.currentID]
	return acc, ok
}

// CurrentID returns the current account id, or "" when none.
func (r *Registry) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentID
}

// Len returns the number of accounts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *Registry) newAccount(token string, p models.Profile) models.Account {
	return models.Account{
		ID:        p.Username,
		Username:  p.Username,
		Email:     p.Email,
		Role:      p.Role,
		Token:     token,
		LoginTime: r.now().UTC(),
		ExpiresAt: tokenExpiry(token),
	}
}

// putLocked inserts or replaces acc, keeping the first position of its id.
func (r *Registry) putLocked(acc models.Account) {
	if _, ok := r.accounts[acc.ID]; !ok {
		r.order = append(r.order, acc.ID)
	}
	r.accounts[acc.ID] = acc
}

func (r *Registry) resetLocked() {
	r.order = nil
	r.accounts = make(map[string]models.Account)
	r.currentID = ""
}
