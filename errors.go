package coinvest

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// General keys carry messages that are not attached to a single field.
const (
	DetailKey         = "detail"
	NonFieldErrorsKey = "non_field_errors"
)

// ValidationError is a validation failure keyed by field.
//
// It is either reported by the server (Status is the HTTP status) or built
// locally before a request is sent (Status is 0).
type ValidationError struct {
	Status int
	Fields map[string][]string
}

// Add appends a message to the field 'key'.
func (e *ValidationError) Add(key, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[key] = append(e.Fields[key], msg)
}

// Empty reports whether no message was recorded.
func (e *ValidationError) Empty() bool { return e == nil || len(e.Fields) == 0 }

// Keys returns the field keys in a stable order.
func (e *ValidationError) Keys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Field returns the messages of field 'key' joined in a single line, or "".
func (e *ValidationError) Field(key string) string {
	return strings.Join(e.Fields[key], " ")
}

// Alerts returns one user facing message per key, so that no partial
// validation message is lost.
func (e *ValidationError) Alerts() []string {
	alerts := make([]string, 0, len(e.Fields))
	for _, k := range e.Keys() {
		msg := e.Field(k)
		if k == DetailKey || k == NonFieldErrorsKey {
			alerts = append(alerts, msg)
			continue
		}
		alerts = append(alerts, fmt.Sprintf("%s: %s", k, msg))
	}
	return alerts
}

func (e *ValidationError) Error() string {
	msg := strings.Join(e.Alerts(), "; ")
	if e.Status != 0 {
		return fmt.Sprintf("validation failed (%d): %s", e.Status, msg)
	}
	return "validation failed: " + msg
}

// AsValidationError returns the ValidationError in err's chain, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
