package services

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/multisession/internal/client/accounts"
	"github.com/dmitrijs2005/multisession/internal/client/client"
	"github.com/dmitrijs2005/multisession/internal/client/models"
	"github.com/dmitrijs2005/multisession/internal/client/storage"
	"github.com/dmitrijs2005/multisession/internal/logging"
	"github.com/dmitrijs2005/multisession/internal/server/httpapi"
	"github.com/dmitrijs2005/multisession/internal/server/users"
)

// Full round trip against the dev auth server and the SQLite backend,
// including a process "restart" between sessions.
func TestSession_EndToEnd(t *testing.T) {
	ctx := context.Background()

	svc := users.NewService(users.NewMemoryRepository(), "secret", time.Hour).WithHashCost(bcrypt.MinCost)
	srv := httptest.NewServer(httpapi.NewRouter(svc, logging.Discard()))
	t.Cleanup(srv.Close)

	api := client.NewHTTPClient(srv.URL, 5*time.Second)
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	open := func() (*SessionService, storage.Backend) {
		store, err := storage.Open(ctx, storage.KindSQLite, dbPath)
		require.NoError(t, err)
		reg := accounts.NewRegistry(store, logging.Discard())
		s := NewSessionService(api, reg, &recorder{}, logging.Discard())
		s.RestoreAuth(ctx)
		return s, store
	}

	s, store := open()
	require.True(t, s.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.org", Password: "pw"}).Success)
	require.True(t, s.Register(ctx, RegisterInput{Username: "root", Email: "root@example.org", Password: "pw", Role: models.RoleAdmin}).Success)

	dup := s.Register(ctx, RegisterInput{Username: "alice", Email: "x@example.org", Password: "pw"})
	assert.Equal(t, RegisterDuplicateUsername, dup.Kind)
	bad := s.Register(ctx, RegisterInput{Username: "eve", Email: "nope", Password: "pw"})
	assert.Equal(t, RegisterInvalidEmail, bad.Kind)

	require.True(t, s.Login(ctx, "alice", "pw", true))
	require.True(t, s.Login(ctx, "root", "pw", true))
	assert.False(t, s.Login(ctx, "alice", "wrong", true))

	acc, ok := s.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, acc.Role)
	assert.False(t, acc.ExpiresAt.IsZero(), "expiry is read from the JWT")

	require.True(t, s.FetchProfile(ctx))
	require.NoError(t, store.Close())

	s, store = open()
	t.Cleanup(func() { _ = store.Close() })

	assert.Len(t, s.Accounts(), 2)
	assert.Equal(t, "root", s.CurrentAccountID())
	require.True(t, s.SwitchAccount(ctx, "alice"))
	require.True(t, s.FetchProfile(ctx))

	p, _ := s.Profile()
	assert.Equal(t, models.Profile{Username: "alice", Email: "alice@example.org", Role: models.RoleUser}, p)
}
