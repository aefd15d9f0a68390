// internal/session/session.go
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// CookieName is the session cookie set by the auth frontend.
const CookieName = "paigham_session"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the tenant-scoped identity carried by the signed cookie. Auth
// issuance is external; this package only verifies and decodes.
type Session struct {
	User        User   `json:"user"`
	CompanyID   string `json:"company_id"`
	AccessToken string `json:"access_token"`
}

// Encode signs a session into cookie-value form:
// base64url(payload) "." base64url(hmac-sha256(payload)).
func Encode(s *Session, secret []byte) (string, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + sign(body, secret), nil
}

// Parse resolves the session from request headers. It is a pure function of
// the request and the secret: no IO, no shared state.
func Parse(r *http.Request, secret []byte) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, fmt.Errorf("no session cookie")
	}
	return Decode(c.Value, secret)
}

// Decode verifies the signature and unmarshals the payload.
func Decode(value string, secret []byte) (*Session, error) {
	body, sig, ok := strings.Cut(value, ".")
	if !ok {
		return nil, fmt.Errorf("malformed session cookie")
	}
	if !hmac.Equal([]byte(sign(body, secret)), []byte(sig)) {
		return nil, fmt.Errorf("session signature mismatch")
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("malformed session payload")
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("malformed session payload")
	}
	if s.CompanyID == "" || s.User.ID == "" {
		return nil, fmt.Errorf("incomplete session")
	}
	return &s, nil
}

func sign(body string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
