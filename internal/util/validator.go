package util

import (
	"errors"
	"net/url"
	"strings"
)

// RequireString garante string não vazia.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(field + " obrigatório")
	}
	return nil
}

// ValidateHTTPURL exige URL absoluta com esquema http ou https.
func ValidateHTTPURL(raw, field string) error {
	if err := RequireString(raw, field); err != nil {
		return err
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return errors.New(field + " inválida")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(field + " deve usar http ou https")
	}
	if u.Host == "" {
		return errors.New(field + " sem host")
	}
	return nil
}
