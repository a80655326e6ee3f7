// Package auth manages invigilator accounts and cookie sessions for
// the admin endpoints. Sessions created without a logged-in invigilator
// fall back to a placeholder owner id; multi-tenant authorization is a
// later concern, but the owning identity is recorded from day one.
package auth

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

const sessionName = "queon-session"

var (
	// ErrInvalidCredentials is returned when the provided credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when registering an already-taken username.
	ErrUserExists = errors.New("user already exists")
	// ErrNotAuthenticated is returned when no invigilator is logged in.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Invigilator is an exam administrator account.
type Invigilator struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Auth provides registration, login and session lookup.
type Auth struct {
	mu    sync.RWMutex
	users map[string]*Invigilator // keyed by username
	store sessions.Store
}

// New creates an Auth instance. An empty sessionKey gets a random one,
// which invalidates cookies across restarts; fine for development.
func New(sessionKey string) *Auth {
	key := []byte(sessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	return &Auth{
		users: make(map[string]*Invigilator),
		store: sessions.NewCookieStore(key),
	}
}

// Register creates a new invigilator account.
func (a *Auth) Register(username, password string) (*Invigilator, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.users[username]; ok {
		return nil, ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	inv := &Invigilator{
		ID:           "inv--" + uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	a.users[username] = inv
	return inv, nil
}

// Login checks credentials and writes a session cookie.
func (a *Auth) Login(username, password string, r *http.Request, w http.ResponseWriter) error {
	a.mu.RLock()
	inv, ok := a.users[username]
	a.mu.RUnlock()
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(inv.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	session, err := a.store.New(r, sessionName)
	if err != nil {
		return err
	}
	session.Values["invigilatorId"] = inv.ID
	session.Values["username"] = username
	return a.store.Save(r, w, session)
}

// Logout clears the session cookie.
func (a *Auth) Logout(r *http.Request, w http.ResponseWriter) error {
	session, err := a.store.Get(r, sessionName)
	if err != nil {
		return err
	}
	session.Options.MaxAge = -1
	return a.store.Save(r, w, session)
}

// CurrentInvigilatorID returns the logged-in invigilator's id, or
// ErrNotAuthenticated.
func (a *Auth) CurrentInvigilatorID(r *http.Request) (string, error) {
	session, err := a.store.Get(r, sessionName)
	if err != nil {
		return "", err
	}
	id, ok := session.Values["invigilatorId"].(string)
	if !ok || id == "" {
		return "", ErrNotAuthenticated
	}
	return id, nil
}
