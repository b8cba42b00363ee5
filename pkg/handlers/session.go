package handlers

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the dataset session cookie.
const SessionName = "chemmd-session"

// SessionKeyDataset holds the last dataset exported by the client.
const SessionKeyDataset = "dataset"

// SessionStore remembers the selected dataset between requests so follow-up
// requests (row details) may omit it.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates a cookie-based session store.
//
// The secret parameter is used to sign session cookies. It can be any
// passphrase - it will be SHA-256 hashed to derive a 32-byte key.
// The secret must be consistent across server restarts and multiple
// servers in a load-balanced deployment.
//
// Set secure when the server is reached over HTTPS.
func NewSessionStore(secret string, secure bool) *SessionStore {
	// Hash the secret to get a consistent 32-byte key
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// Dataset returns the dataset remembered for the request, if any.
func (s *SessionStore) Dataset(r *http.Request) string {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	name, _ := session.Values[SessionKeyDataset].(string)
	return name
}

// RememberDataset stores name in the session cookie.
// Must be called before the response body is written.
func (s *SessionStore) RememberDataset(w http.ResponseWriter, r *http.Request, name string) error {
	// A stale or tampered cookie still yields a usable new session
	session, _ := s.store.Get(r, SessionName)
	session.Values[SessionKeyDataset] = name
	return session.Save(r, w)
}
