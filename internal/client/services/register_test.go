package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/multisession/internal/client/client"
)

func TestRegisterClassifier_DefaultRules(t *testing.T) {
	c := NewRegisterClassifier()

	tests := []struct {
		name       string
		err        error
		kind       RegisterKind
		message    string
		detailFrom string
	}{
		{"duplicate username", &client.APIError{StatusCode: 400, Detail: "Username already exists"},
			RegisterDuplicateUsername, "Registration failed: username is already taken", ""},
		{"duplicate username any case", &client.APIError{StatusCode: 409, Detail: "USERNAME ALREADY EXISTS"},
			RegisterDuplicateUsername, "Registration failed: username is already taken", ""},
		{"duplicate email", &client.APIError{StatusCode: 400, Detail: "Email already registered"},
			RegisterDuplicateEmail, "Registration failed: email is already registered", ""},
		{"malformed email", &client.APIError{StatusCode: 422, Detail: "value is not a valid email address"},
			RegisterInvalidEmail, "Registration failed: invalid email format", ""},
		{"passthrough", &client.APIError{StatusCode: 400, Detail: "Role must be 'admin' or 'user'"},
			RegisterRejected, "Registration failed: Role must be 'admin' or 'user'", "Role must be 'admin' or 'user'"},
		{"unreachable", fmt.Errorf("%w: connection refused", client.ErrUnavailable),
			RegisterUnreachable, "Registration failed: cannot reach the server", ""},
		{"status without detail", &client.APIError{StatusCode: 500},
			RegisterUnknown, "Registration failed", "api error: status 500"},
		{"unknown", errors.New("boom"),
			RegisterUnknown, "Registration failed: unexpected error", "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.err)
			assert.False(t, res.Success)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.message, res.Message)
			if tt.detailFrom != "" {
				assert.Equal(t, tt.detailFrom, res.Detail)
			} else {
				assert.NotEmpty(t, res.Detail)
			}
		})
	}
}

func TestRegisterClassifier_RuleOrder(t *testing.T) {
	c := NewRegisterClassifier(
		RegisterRule{Substrings: []string{"email"}, Kind: RegisterInvalidEmail},
		RegisterRule{Substrings: []string{"already registered"}, Kind: RegisterDuplicateEmail},
	)

	res := c.Classify(&client.APIError{StatusCode: 400, Detail: "Email already registered"})
	assert.Equal(t, RegisterInvalidEmail, res.Kind, "first matching rule wins")
}

func TestRegisterRule_EmptySubstringNeverMatches(t *testing.T) {
	r := RegisterRule{Substrings: []string{""}}
	assert.False(t, r.matches("anything"))
}
