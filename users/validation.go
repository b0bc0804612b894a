package users

import (
	"fmt"
	"strings"
)

// ValidateCredentials validates login credentials
func ValidateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	// Basic email format validation
	at := strings.LastIndex(email, "@")
	if at < 1 || !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("invalid email format")
	}

	if password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// ValidateSignup validates a registration request
func ValidateSignup(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return ValidateCredentials(email, password)
}
