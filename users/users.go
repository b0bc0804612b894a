package users

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string    `json:"id,omitempty"`          // Unique identifier for the user
	Name         string    `json:"name,omitempty"`        // Display name
	Email        string    `json:"email,omitempty"`       // Login identifier, stored lower-cased
	PasswordHash string    `json:"-"`                     // Hashed version of the user's password - never serialize
	DateJoined   time.Time `json:"date_joined,omitempty"` // Date and time when the user registered
	LastLogin    time.Time `json:"last_login,omitempty"`  // Last time the user logged in
}

// New builds a user with a bcrypt hash of password. Name, email and
// password are all required.
func New(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormaliseEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		DateJoined:   time.Now().UTC(),
	}, nil
}

func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
