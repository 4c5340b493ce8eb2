package services

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/multisession/internal/client/client"
	"github.com/dmitrijs2005/multisession/internal/client/models"
)

// RegisterKind classifies the outcome of a registration attempt.
type RegisterKind string

const (
	RegisterOK                RegisterKind = "ok"
	RegisterDuplicateUsername RegisterKind = "duplicate_username"
	RegisterDuplicateEmail    RegisterKind = "duplicate_email"
	RegisterInvalidEmail      RegisterKind = "invalid_email"
	RegisterInvalidRole       RegisterKind = "invalid_role"
	RegisterRejected          RegisterKind = "rejected"
	RegisterUnreachable       RegisterKind = "unreachable"
	RegisterUnknown           RegisterKind = "unknown"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	// Role defaults to models.RoleUser when unset.
	Role models.Role
}

// RegisterResult is what Register reports back to the caller. Message is a
// short headline, Detail a longer hint or the raw server text.
type RegisterResult struct {
	Success bool
	Kind    RegisterKind
	Message string
	Detail  string
}

// RegisterRule maps server error text to a friendlier result. A rule matches
// when the server detail contains any of Substrings, ignoring case.
type RegisterRule struct {
	Substrings []string
	Kind       RegisterKind
	Message    string
	Detail     string
}

func (r RegisterRule) matches(detail string) bool {
	detail = strings.ToLower(detail)
	for _, s := range r.Substrings {
		if s != "" && strings.Contains(detail, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// DefaultRegisterRules returns the built-in table. Order matters: the
// generic "email" rule must come after the duplicate-email one.
func DefaultRegisterRules() []RegisterRule {
	return []RegisterRule{
		{
			Substrings: []string{"username already exists", "username is taken"},
			Kind:       RegisterDuplicateUsername,
			Message:    "Registration failed: username is already taken",
			Detail:     "This username is registered by another user, try a different one",
		},
		{
			Substrings: []string{"email already registered", "email is already registered"},
			Kind:       RegisterDuplicateEmail,
			Message:    "Registration failed: email is already registered",
			Detail:     "This email is already registered, use another email or log in",
		},
		{
			Substrings: []string{"email"},
			Kind:       RegisterInvalidEmail,
			Message:    "Registration failed: invalid email format",
			Detail:     "Enter a valid email address, for example user@example.com",
		},
	}
}

// RegisterClassifier turns registration errors into RegisterResults.
type RegisterClassifier struct {
	rules []RegisterRule
}

// NewRegisterClassifier uses rules in order, or the default table when none
// are given.
func NewRegisterClassifier(rules ...RegisterRule) *RegisterClassifier {
	if len(rules) == 0 {
		rules = DefaultRegisterRules()
	}
	return &RegisterClassifier{rules: rules}
}

// Classify never returns a successful result.
func (c *RegisterClassifier) Classify(err error) RegisterResult {
	if errors.Is(err, client.ErrUnavailable) {
		return RegisterResult{
			Kind:    RegisterUnreachable,
			Message: "Registration failed: cannot reach the server",
			Detail:  "Check your network connection or make sure the auth server is running",
		}
	}

	if detail, ok := client.DetailOf(err); ok {
		for _, rule := range c.rules {
			if rule.matches(detail) {
				return RegisterResult{Kind: rule.Kind, Message: rule.Message, Detail: rule.Detail}
			}
		}
		return RegisterResult{
			Kind:    RegisterRejected,
			Message: "Registration failed: " + detail,
			Detail:  detail,
		}
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return RegisterResult{Kind: RegisterUnknown, Message: "Registration failed", Detail: apiErr.Error()}
	}

	detail := "Please try again later"
	if err != nil {
		detail = err.Error()
	}
	return RegisterResult{
		Kind:    RegisterUnknown,
		Message: "Registration failed: unexpected error",
		Detail:  detail,
	}
}
