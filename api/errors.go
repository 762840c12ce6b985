package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/coinvest"
)

// TransportError is a request that never got an answer from the server.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot http %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// maxRawError bounds the raw body kept in an error built from a non JSON body.
const maxRawError = 300

// decodeError builds the error of a non successful response.
//
// The server reports failures as JSON objects keyed by field, whose values are
// a message or a list of messages, possibly nested for batch updates. Generic
// failures use the "detail" key. Anything else is kept as raw text.
func decodeError(status int, data []byte) error {
	verr := &coinvest.ValidationError{Status: status}

	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		text := strings.TrimSpace(string(data))
		if text == "" {
			text = http.StatusText(status)
		}
		verr.Add(coinvest.DetailKey, truncate(text, maxRawError))
		return verr
	}

	// "detail" alone is the generic error: permission denied, not found, etc.
	// Next to other keys it is one message among the others.
	if m, ok := obj.(map[string]any); ok && len(m) == 1 {
		if detail, err := jsonpath.Get("$.detail", obj); err == nil {
			if s, ok := detail.(string); ok {
				verr.Add(coinvest.DetailKey, s)
				return verr
			}
		}
	}

	switch v := obj.(type) {
	case map[string]any:
		for k, val := range v {
			addMessages(verr, k, val)
		}
	case []any:
		addMessages(verr, coinvest.NonFieldErrorsKey, v)
	case string:
		verr.Add(coinvest.DetailKey, v)
	}
	if verr.Empty() {
		verr.Add(coinvest.DetailKey, http.StatusText(status))
	}
	return verr
}

// truncate cuts 'text' to at most 'n' bytes on a rune boundary.
func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	i := n
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return text[:i] + "…"
}

// addMessages flattens the messages of 'val' under 'key'. Nested objects are
// keyed "key.sub".
func addMessages(verr *coinvest.ValidationError, key string, val any) {
	switch v := val.(type) {
	case string:
		verr.Add(key, v)
	case []any:
		for _, e := range v {
			addMessages(verr, key, e)
		}
	case map[string]any:
		for k, e := range v {
			addMessages(verr, key+"."+k, e)
		}
	case nil:
	default:
		verr.Add(key, fmt.Sprint(v))
	}
}
