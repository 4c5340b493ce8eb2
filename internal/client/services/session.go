package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/multisession/internal/client/accounts"
	"github.com/dmitrijs2005/multisession/internal/client/client"
	"github.com/dmitrijs2005/multisession/internal/client/models"
	"github.com/dmitrijs2005/multisession/internal/logging"
)

const (
	msgLoginFailed       = "Login failed, check your username and password"
	msgLoginUnreachable  = "Login failed: cannot reach the server"
	msgSessionExpired    = "Session expired, please log in again"
	msgRegisterSucceeded = "Registration successful, please log in"
)

// SessionService is the multi-account session facade.
type SessionService struct {
	client     client.Client
	registry   *accounts.Registry
	notifier   Notifier
	classifier *RegisterClassifier
	log        logging.Logger
}

// Option configures a SessionService.
type Option func(*SessionService)

// WithRegisterRules replaces the registration error table.
func WithRegisterRules(rules ...RegisterRule) Option {
	return func(s *SessionService) { s.classifier = NewRegisterClassifier(rules...) }
}

// NewSessionService builds the facade over registry r. User-facing messages
// go to n.
func NewSessionService(c client.Client, r *accounts.Registry, n Notifier, l logging.Logger, opts ...Option) *SessionService {
	s := &SessionService{
		client:     c,
		registry:   r,
		notifier:   n,
		classifier: NewRegisterClassifier(),
		log:        l.With("component", "session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentAccount returns the current account, if any.
func (s *SessionService) CurrentAccount() (models.Account, bool) { return s.registry.Current() }

// CurrentAccountID is the id of the current account, or "".
func (s *SessionService) CurrentAccountID() string { return s.registry.CurrentID() }

// Token is the current account's token, or "".
func (s *SessionService) Token() string {
	acc, _ := s.registry.Current()
	return acc.Token
}

// Profile is the current account without its credentials.
func (s *SessionService) Profile() (models.Profile, bool) {
	acc, ok := s.registry.Current()
	if !ok {
		return models.Profile{}, false
	}
	return acc.Profile(), true
}

// IsLoggedIn reports whether the current account holds a token.
func (s *SessionService) IsLoggedIn() bool { return s.Token() != "" }

// Accounts lists the signed-in accounts in insertion order.
func (s *SessionService) Accounts() []models.Account { return s.registry.List() }

// Subscribe forwards to the registry event stream.
func (s *SessionService) Subscribe(fn func(accounts.Event)) (cancel func()) {
	return s.registry.Subscribe(fn)
}

// RestoreAuth reloads accounts from storage.
func (s *SessionService) RestoreAuth(ctx context.Context) {
	s.registry.Load(ctx)
}

// Login authenticates and stores the account. A new account always becomes
// current; an existing one only when switchToNew is set.
func (s *SessionService) Login(ctx context.Context, username, password string, switchToNew bool) bool {
	res, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.log.Info(ctx, "login failed", "username", username, "err", err)
		s.notifier.Notify(LevelError, loginFailureMessage(err))
		return false
	}
	if res.Profile.Username == "" {
		s.log.Warn(ctx, "login response without username", "requested", username)
		s.notifier.Notify(LevelError, msgLoginFailed)
		return false
	}

	created := s.registry.Upsert(ctx, res.AccessToken, res.Profile, switchToNew)
	if created {
		s.notifier.Notify(LevelSuccess, fmt.Sprintf("Logged in as %s", res.Profile.Username))
	} else {
		s.notifier.Notify(LevelSuccess, fmt.Sprintf("Account %s updated", res.Profile.Username))
	}
	return true
}

func loginFailureMessage(err error) string {
	if detail, ok := client.DetailOf(err); ok {
		return detail
	}
	if errors.Is(err, client.ErrUnavailable) {
		return msgLoginUnreachable
	}
	return msgLoginFailed
}

// Register creates an account on the server. It never logs in.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) RegisterResult {
	role := models.RoleUser
	if in.Role != models.RoleUnset {
		var ok bool
		role, ok = models.ParseRole(string(in.Role))
		if !ok {
			res := RegisterResult{
				Kind:    RegisterInvalidRole,
				Message: "Registration failed: role must be 'admin' or 'user'",
				Detail:  fmt.Sprintf("unknown role %q", in.Role),
			}
			s.notifier.Notify(LevelError, res.Message)
			return res
		}
	}

	err := s.client.Register(ctx, client.RegisterRequest{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Role:     role,
	})
	if err != nil {
		res := s.classifier.Classify(err)
		s.log.Info(ctx, "registration failed", "username", in.Username, "kind", res.Kind, "err", err)
		s.notifier.Notify(LevelError, res.Message)
		return res
	}

	s.notifier.Notify(LevelSuccess, msgRegisterSucceeded)
	return RegisterResult{Success: true, Kind: RegisterOK, Message: "Registration successful"}
}

// FetchProfile refreshes email and role of the current account from the
// server. The account is fixed when the call starts; a 401 evicts that
// account only, and only if its token has not been replaced in the meantime.
// The expiry warning is shown only when an account was evicted.
func (s *SessionService) FetchProfile(ctx context.Context) bool {
	acc, ok := s.registry.Current()
	if !ok || acc.Token == "" {
		return false
	}

	p, err := s.client.FetchCurrentProfile(ctx, acc.Token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			latest, ok := s.registry.Get(acc.ID)
			if !ok || latest.Token != acc.Token {
				s.log.Info(ctx, "stale token rejected, account already replaced", "account", acc.ID)
				return false
			}
			s.registry.Remove(ctx, acc.ID)
			s.log.Info(ctx, "token rejected, account evicted", "account", acc.ID)
			s.notifier.Notify(LevelWarning, msgSessionExpired)
			return false
		}
		s.log.Warn(ctx, "fetch profile failed", "account", acc.ID, "err", err)
		s.notifier.Notify(LevelError, fetchFailureMessage(err))
		return false
	}

	if !s.registry.UpdateProfile(ctx, acc.ID, p.Email, p.Role) {
		s.notifier.Notify(LevelWarning, fmt.Sprintf("Account %s is no longer signed in", acc.ID))
		return false
	}
	s.notifier.Notify(LevelSuccess, fmt.Sprintf("Profile of %s refreshed", acc.ID))
	return true
}

func fetchFailureMessage(err error) string {
	if detail, ok := client.DetailOf(err); ok {
		return "Could not load profile: " + detail
	}
	if errors.Is(err, client.ErrUnavailable) {
		return "Could not load profile: cannot reach the server"
	}
	return "Could not load profile"
}

// Logout signs out of the current account only. It reports false when no
// account is current.
func (s *SessionService) Logout(ctx context.Context) bool {
	acc, ok := s.registry.Current()
	if !ok {
		return false
	}
	s.registry.Remove(ctx, acc.ID)
	s.notifier.Notify(LevelSuccess, fmt.Sprintf("Logged out of %s", acc.Username))
	return true
}

// LogoutAll signs out of every account.
func (s *SessionService) LogoutAll(ctx context.Context) {
	s.registry.ClearAll(ctx)
	s.notifier.Notify(LevelSuccess, "Logged out of all accounts")
}

// SwitchAccount makes account id current. It reports false and notifies an
// error when id is unknown.
func (s *SessionService) SwitchAccount(ctx context.Context, id string) bool {
	if !s.registry.SwitchTo(ctx, id) {
		s.notifier.Notify(LevelError, fmt.Sprintf("Account %s not found", id))
		return false
	}
	acc, _ := s.registry.Get(id)
	s.notifier.Notify(LevelSuccess, fmt.Sprintf("Switched to account %s", acc.Username))
	return true
}

// RemoveAccount signs out of account id. Removing the current account moves
// current to the first remaining one.
func (s *SessionService) RemoveAccount(ctx context.Context, id string) bool {
	if !s.registry.Remove(ctx, id) {
		s.notifier.Notify(LevelError, fmt.Sprintf("Account %s not found", id))
		return false
	}
	s.notifier.Notify(LevelSuccess, "Account removed")
	return true
}
