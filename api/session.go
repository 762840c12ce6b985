package api

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// CSRFHeader is the header carrying the CSRF token.
const CSRFHeader = "X-CSRFToken"

// Cookie names of the hosting application.
const (
	sessionCookie = "sessionid"
	csrfCookie    = "csrftoken"
)

// Session holds the opaque credentials of a logged in user, as found in the
// browser: the CSRF token of the page and the session cookie.
type Session struct {
	CSRFToken string
	SessionID string
}

// IsZero reports whether no credential is set.
func (s Session) IsZero() bool { return s.CSRFToken == "" && s.SessionID == "" }

// Header returns the session as http headers.
func (s Session) Header() http.Header {
	h := make(http.Header)
	if s.CSRFToken != "" {
		h.Set(CSRFHeader, s.CSRFToken)
	}
	var cookies []string
	if s.SessionID != "" {
		cookies = append(cookies, (&http.Cookie{Name: sessionCookie, Value: s.SessionID}).String())
	}
	if s.CSRFToken != "" {
		// the server checks the header against the cookie.
		cookies = append(cookies, (&http.Cookie{Name: csrfCookie, Value: s.CSRFToken}).String())
	}
	if len(cookies) > 0 {
		h.Set("Cookie", strings.Join(cookies, "; "))
	}
	return h
}

// apply sets the session headers on 'req'.
func (s Session) apply(req *http.Request) {
	for k, v := range s.Header() {
		req.Header[k] = v
	}
}

// Merge returns s with the empty credentials taken from 'o'.
func (s Session) Merge(o Session) Session {
	if s.CSRFToken == "" {
		s.CSRFToken = o.CSRFToken
	}
	if s.SessionID == "" {
		s.SessionID = o.SessionID
	}
	return s
}

// Save stores the session as header lines in 'path', readable by the user only.
func (s Session) Save(path string) error {
	var b strings.Builder
	if err := s.Header().Write(&b); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("cannot save session: %w", err)
	}
	return nil
}

// LoadSession reads a session stored by Save.
func LoadSession(path string) (Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return Session{}, fmt.Errorf("session not found, please run 'coinvest login' first: %w", err)
	}
	defer f.Close()
	return ParseSession(f)
}

// ParseSession reads the credentials from header lines, as stored by Save or
// copied from a browser request. Other headers are ignored.
func ParseSession(r io.Reader) (Session, error) {
	headers := make(http.Header)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name, value, ok := strings.Cut(scanner.Text(), ":")
		if ok {
			headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return Session{}, err
	}

	s := Session{CSRFToken: headers.Get(CSRFHeader)}
	for _, line := range headers.Values("Cookie") {
		cookies, err := http.ParseCookie(line)
		if err != nil {
			return Session{}, fmt.Errorf("invalid session cookie %q: %w", line, err)
		}
		for _, c := range cookies {
			switch c.Name {
			case sessionCookie:
				s.SessionID = c.Value
			case csrfCookie:
				if s.CSRFToken == "" {
					s.CSRFToken = c.Value
				}
			}
		}
	}
	return s, nil
}
