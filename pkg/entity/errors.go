package entity

import (
	"fmt"
)

// ConfigurationError reports a body that failed validation when entering the store
type ConfigurationError struct {
	BodyID ID
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid body %d: %s=%v: %s", e.BodyID, e.Field, e.Value, e.Reason)
}

func invalid(id ID, field string, value any, reason string) error {
	return &ConfigurationError{BodyID: id, Field: field, Value: value, Reason: reason}
}
