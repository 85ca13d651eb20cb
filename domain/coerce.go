package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Float accepts a JSON number or a numeric string ("19.99")
type Float float64

// UnmarshalJSON implements json.Unmarshaler
func (f *Float) UnmarshalJSON(b []byte) error {
	s, isNull, err := scalar(b)
	if err != nil || isNull {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*f = Float(v)
	return nil
}

// Int accepts a JSON number or a numeric string ("3")
type Int int64

// UnmarshalJSON implements json.Unmarshaler
func (i *Int) UnmarshalJSON(b []byte) error {
	s, isNull, err := scalar(b)
	if err != nil || isNull {
		return err
	}
	if s == "" {
		*i = 0
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*i = Int(v)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	*i = Int(v)
	return nil
}

// Bool accepts true/false, "true"/"false", "1"/"0", 1/0
type Bool bool

// UnmarshalJSON implements json.Unmarshaler
func (v *Bool) UnmarshalJSON(b []byte) error {
	s, isNull, err := scalar(b)
	if err != nil || isNull {
		return err
	}
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		*v = true
	case "false", "0", "no", "off", "":
		*v = false
	default:
		return fmt.Errorf("invalid boolean %q", s)
	}
	return nil
}

// scalar returns the textual form of a JSON scalar with quotes removed
func scalar(b []byte) (string, bool, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", true, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false, err
		}
		return strings.TrimSpace(s), false, nil
	}
	if b[0] == '{' || b[0] == '[' {
		return "", false, fmt.Errorf("expected scalar, got %s", b)
	}
	return string(b), false, nil
}
