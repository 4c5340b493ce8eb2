package accounts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/multisession/internal/client/models"
)

// entry is one persisted [id, account] pair.
type entry struct {
	ID      string
	Account models.Account
}

func (e entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Account})
}

func (e *entry) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("account entry: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.ID); err != nil {
		return fmt.Errorf("account entry id: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Account); err != nil {
		return fmt.Errorf("account entry %q: %w", e.ID, err)
	}
	return nil
}

func encodeAccounts(entries []entry) (string, error) {
	if entries == nil {
		entries = []entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeAccounts(raw string) ([]entry, error) {
	var entries []entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// legacyUser is the profile blob stored under the legacy "user" key.
type legacyUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func decodeLegacyUser(raw string) (models.Profile, error) {
	var u legacyUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return models.Profile{}, err
	}
	if u.Username == "" {
		return models.Profile{}, fmt.Errorf("legacy user has no username")
	}
	role, _ := models.ParseRole(u.Role)
	return models.Profile{Username: u.Username, Email: u.Email, Role: role}, nil
}

// tokenExpiry reads the exp claim of a JWT without verifying it. The client
// has no key to verify with; the value is used for display only.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.UTC()
}
