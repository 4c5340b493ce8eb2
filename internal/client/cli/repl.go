package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context, switchToNew bool) error
	Profile(ctx context.Context) error
	Accounts(ctx context.Context) error
	Switch(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) error
	Goto(ctx context.Context, path string) error
	Pages(ctx context.Context) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF or
// "exit"/"quit". The prompt shows statusFn().
//
//	Always:
//	  help                 show available commands
//	  register             create an account
//	  login                sign in and switch to the account
//	  goto <path>          open a page, e.g. goto /admin
//	  pages                list pages and their access levels
//	  home                 open the home page of the current role
//	  exit | quit          leave the program
//
//	Signed in:
//	  add-account          sign in to another account, keep the current one
//	  whoami | profile     refresh and show the current profile
//	  accounts             list signed-in accounts
//	  switch <username>    make another account current
//	  remove <username>    sign out of one account
//	  logout               sign out of the current account
//	  logout-all           sign out of every account
//
// Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ms %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, accounts, add-account, switch <username>, remove <username>, logout, logout-all, login, register, goto <path>, pages, home, exit")
			} else {
				printlnFn("Available commands: login, register, goto <path>, pages, home, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx, true)

		case "add-account":
			err = a.Login(ctx, false)

		case "whoami", "profile":
			err = a.Profile(ctx)

		case "accounts":
			err = a.Accounts(ctx)

		case "switch", "remove":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <username>", cmd))
				continue
			}
			if cmd == "switch" {
				err = a.Switch(ctx, args[0])
			} else {
				err = a.Remove(ctx, args[0])
			}

		case "logout":
			err = a.Logout(ctx)

		case "logout-all":
			err = a.LogoutAll(ctx)

		case "goto", "go":
			if len(args) != 1 {
				printlnFn("Usage: goto <path>")
				continue
			}
			err = a.Goto(ctx, args[0])

		case "pages":
			err = a.Pages(ctx)

		case "home":
			err = a.Goto(ctx, "/")

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
