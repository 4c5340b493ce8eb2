package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	err   error
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool                   { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error { return f.record("register") }
func (f *fakeExec) Login(ctx context.Context, switchToNew bool) error {
	f.loggedIn = true
	return f.record(fmt.Sprintf("login switch=%t", switchToNew))
}
func (f *fakeExec) Profile(ctx context.Context) error  { return f.record("profile") }
func (f *fakeExec) Accounts(ctx context.Context) error { return f.record("accounts") }
func (f *fakeExec) Switch(ctx context.Context, id string) error {
	return f.record("switch " + id)
}
func (f *fakeExec) Remove(ctx context.Context, id string) error {
	return f.record("remove " + id)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) LogoutAll(ctx context.Context) error { return f.record("logout-all") }
func (f *fakeExec) Pages(ctx context.Context) error     { return f.record("pages") }
func (f *fakeExec) Goto(ctx context.Context, path string) error {
	return f.record("goto " + path)
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func scannerOf(lines ...string) *bufio.Scanner {
	return bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, scannerOf(
		"",
		"register",
		"login",
		"add-account",
		"whoami",
		"profile",
		"accounts",
		"switch bob",
		"remove carol",
		"goto /admin",
		"go /accounts",
		"home",
		"pages",
		"logout",
		"logout-all",
		"quit",
		"login",
	))

	want := []string{
		"register",
		"login switch=true",
		"login switch=false",
		"profile",
		"profile",
		"accounts",
		"switch bob",
		"remove carol",
		"goto /admin",
		"goto /accounts",
		"goto /",
		"pages",
		"logout",
		"logout-all",
	}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := capturePrintln(t)

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "(x)" }, scannerOf(
		"switch",
		"remove a b",
		"goto",
		"frobnicate",
	))

	if len(f.calls) != 0 {
		t.Fatalf("expected no calls, got %v", f.calls)
	}
	joined := strings.Join(*out, "\n")
	for _, s := range []string{
		"Usage: switch <username>",
		"Usage: remove <username>",
		"Usage: goto <path>",
		"Unknown command: frobnicate",
		"ms (x)>",
	} {
		if !strings.Contains(joined, s) {
			t.Errorf("output lacks %q:\n%s", s, joined)
		}
	}
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	out := capturePrintln(t)

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, scannerOf("help", "login", "help", "exit"))

	var helps []string
	for _, l := range *out {
		if strings.HasPrefix(l, "Available commands:") {
			helps = append(helps, l)
		}
	}
	if len(helps) != 2 {
		t.Fatalf("want 2 help lines, got %v", helps)
	}
	if strings.Contains(helps[0], "logout") {
		t.Errorf("anonymous help lists logout: %s", helps[0])
	}
	if !strings.Contains(helps[1], "switch <username>") {
		t.Errorf("signed-in help lacks switch: %s", helps[1])
	}
	if (*out)[len(*out)-1] != "Bye!" {
		t.Errorf("last line = %q, want Bye!", (*out)[len(*out)-1])
	}
}

func TestRunREPL_PrintsHandlerErrors(t *testing.T) {
	out := capturePrintln(t)

	f := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), f, func() string { return "" }, scannerOf("accounts"))

	if !strings.Contains(strings.Join(*out, "\n"), "Error: boom") {
		t.Fatalf("error not printed: %v", *out)
	}
}
