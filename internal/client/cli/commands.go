package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/multisession/internal/client/guard"
	"github.com/dmitrijs2005/multisession/internal/client/models"
	"github.com/dmitrijs2005/multisession/internal/client/services"
	"github.com/dmitrijs2005/multisession/internal/common"
)

const (
	accountsPath = "/accounts"
	registerPath = "/register"

	maxRedirects = 5
)

var errRedirectLoop = errors.New("too many redirects")

// Goto navigates to path, following guard redirects. On success the App
// is on the final page and its description is printed.
func (a *App) Goto(ctx context.Context, path string) error {
	target := path
	for range maxRedirects {
		route, d, err := a.guard.Navigate(target)
		if err != nil {
			return err
		}
		if d.Action == guard.Redirect {
			a.log.Debug(ctx, "navigation redirected", "from", target, "to", d.Target)
			target = d.Target
			continue
		}
		changed := a.path != target
		a.route, a.path = route, target
		if changed {
			a.showPage()
		}
		return nil
	}
	a.log.Error(ctx, "redirect loop", "path", path, "last", target)
	return fmt.Errorf("%w: %s", errRedirectLoop, path)
}

// recheck re-runs the guard on the current page after the session changed.
func (a *App) recheck(ctx context.Context) {
	if a.path == "" {
		return
	}
	_ = a.Goto(ctx, a.path)
}

func (a *App) showPage() {
	switch a.route.Name {
	case "login":
		printlnFn("[Login] Type 'login' to sign in or 'register' to create an account.")
	case "register":
		printlnFn("[Register] Type 'register' to create an account.")
	case "evaluation":
		printlnFn("[Evaluation] Signed in. Type 'whoami' to refresh your profile.")
	case "accounts":
		printlnFn("[Accounts] Type 'accounts' to list, 'switch <username>' or 'remove <username>'.")
	case "admin":
		printlnFn("[Admin] Administrator dashboard.")
	case "admin-users":
		printlnFn("[Admin / Users] Administrator user management.")
	default:
		printlnFn(fmt.Sprintf("[%s]", a.route.Name))
	}
}

// Pages lists every route and who may open it. The current page is marked
// with '*'.
func (a *App) Pages(ctx context.Context) error {
	for _, r := range a.guard.Routes() {
		mark := " "
		if r.Path == a.route.Path {
			mark = "*"
		}
		printlnFn(fmt.Sprintf("%s %-14s %s", mark, r.Path, r.Access))
	}
	return nil
}

// pendingRedirect returns the page the login page was asked to send the user
// to, if the App is on the login page and the value is a local path.
func (a *App) pendingRedirect() string {
	cfg := a.guard.Config()
	if a.route.Path != cfg.LoginPath {
		return ""
	}
	_, rawQuery, ok := strings.Cut(a.path, "?")
	if !ok {
		return ""
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	target := q.Get(cfg.RedirectParam)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return ""
	}
	return target
}

// Login prompts for credentials and signs in. With switchToNew unset an
// already known account is refreshed without becoming current.
//
// After a switching login the App follows the pending login redirect, or
// lands on the home page of the account's role.
func (a *App) Login(ctx context.Context, switchToNew bool) error {
	username, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.session.Login(ctx, username, string(password), switchToNew) {
		return nil
	}

	if !switchToNew {
		a.recheck(ctx)
		return nil
	}
	target := a.pendingRedirect()
	if target == "" {
		target = a.guard.Config().LoginPath
	}
	return a.Goto(ctx, target)
}

// Register prompts for the new account's details and creates it. It does
// not sign in; on success the login page is shown.
func (a *App) Register(ctx context.Context) error {
	if a.route.Path != registerPath {
		if err := a.Goto(ctx, registerPath); err != nil {
			return err
		}
	}

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	role, err := getSimpleText(a.reader, "Enter role (user or admin, empty for user)", a.out)
	if err != nil {
		return err
	}

	res := a.session.Register(ctx, services.RegisterInput{
		Username: username,
		Email:    email,
		Password: string(password),
		Role:     models.Role(role),
	})
	if !res.Success {
		if res.Detail != "" && !strings.Contains(res.Message, res.Detail) {
			printlnFn(res.Detail)
		}
		return nil
	}
	return a.Goto(ctx, a.guard.Config().LoginPath)
}

// Profile refreshes the current account from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}

	a.session.FetchProfile(ctx)
	if acc, ok := a.session.CurrentAccount(); ok {
		printlnFn(fmt.Sprintf("Username: %s", acc.Username))
		printlnFn(fmt.Sprintf("Email:    %s", acc.Email))
		printlnFn(fmt.Sprintf("Role:     %s", roleName(acc.Role)))
	}
	a.recheck(ctx)
	return nil
}

// Accounts opens the accounts page and lists every signed-in account. The
// current one is marked with '*'.
func (a *App) Accounts(ctx context.Context) error {
	if err := a.Goto(ctx, accountsPath); err != nil {
		return err
	}
	if a.route.Path != accountsPath {
		return nil
	}

	current := a.session.CurrentAccountID()
	now := time.Now()
	for _, acc := range a.session.Accounts() {
		printlnFn(formatAccount(acc, acc.ID == current, now))
	}
	return nil
}

func formatAccount(acc models.Account, current bool, now time.Time) string {
	mark := " "
	if current {
		mark = "*"
	}
	line := fmt.Sprintf("%s %-20s %-6s %-30s logged in %s",
		mark, acc.Username, roleName(acc.Role), acc.Email, acc.LoginTime.Local().Format(time.DateTime))
	if acc.Expired(now) {
		line += " (expired)"
	}
	return line
}

func roleName(r models.Role) string {
	if r == models.RoleUnset {
		return "-"
	}
	return string(r)
}

func (a *App) Switch(ctx context.Context, id string) error {
	if a.session.SwitchAccount(ctx, id) {
		a.recheck(ctx)
	}
	return nil
}

func (a *App) Remove(ctx context.Context, id string) error {
	if a.session.RemoveAccount(ctx, id) {
		a.recheck(ctx)
	}
	return nil
}

// Logout signs out of the current account. Other accounts stay signed in.
func (a *App) Logout(ctx context.Context) error {
	if !a.session.Logout(ctx) {
		printlnFn("Not logged in")
		return nil
	}
	a.recheck(ctx)
	return nil
}

// LogoutAll asks for confirmation, then signs out of every account.
func (a *App) LogoutAll(ctx context.Context) error {
	ok, err := GetConfirmation(a.reader, "Log out of all accounts?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	a.session.LogoutAll(ctx)
	a.recheck(ctx)
	return nil
}
