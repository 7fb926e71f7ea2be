package validate

import (
	"errors"
	"net/mail"
	"strconv"
)

// Email returns a check that accepts syntactically valid email addresses.
func Email(message string) Check {
	return func(value any, _ Payload) error {
		s, ok := value.(string)
		if !ok {
			return errors.New(message)
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return errors.New(message)
		}
		return nil
	}
}

// MinLen returns a check that requires a string of at least n characters.
func MinLen(n int, message string) Check {
	return func(value any, _ Payload) error {
		s, ok := value.(string)
		if !ok || len(s) < n {
			return errors.New(message)
		}
		return nil
	}
}

// PositiveInt returns a check that requires a positive whole number.  JSON
// numbers arrive as float64; numeric strings are coerced the way the API
// always has.
func PositiveInt(message string) Check {
	return func(value any, _ Payload) error {
		switch v := value.(type) {
		case float64:
			if v > 0 && v == float64(int64(v)) {
				return nil
			}
		case string:
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return nil
			}
		}
		return errors.New(message)
	}
}

// MatchesField returns a cross-field check that requires the value to equal
// the named sibling field.
func MatchesField(other, message string) Check {
	return func(value any, payload Payload) error {
		if value != payload[other] {
			return errors.New(message)
		}
		return nil
	}
}
