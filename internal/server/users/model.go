package users

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}
