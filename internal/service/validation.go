package service

import (
	"net/mail"
	"net/url"
	"strings"

	"yamlrg-backend/internal/domain"
)

func validateEmail(field, email string) error {
	if email == "" {
		return domain.NewValidationError(field, "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.NewValidationError(field, "is not a valid email address")
	}
	return nil
}

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, "is required")
	}
	return nil
}

// validateURL accepts absolute http and https URLs only
func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.NewValidationError(field, "must be an absolute http(s) URL")
	}
	return nil
}

func validateDate(field, value string) error {
	if _, err := domain.ParseTimestamp(value); err != nil {
		return domain.NewValidationError(field, "must be YYYY-MM-DD or an ISO-8601 timestamp")
	}
	return nil
}
