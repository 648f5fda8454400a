// Package identity tracks which user is signed in and tells subscribers when
// that changes.
package identity

import (
	"errors"
	"sync"

	"github.com/julianstephens/focusflow/internal/keyring"
	"github.com/julianstephens/focusflow/internal/logger"
)

// Provider reports the current user and notifies subscribers on sign-in and
// sign-out. An empty user id in a notification means nobody is signed in.
type Provider interface {
	Current() (userID string, ok bool)
	Subscribe(fn func(userID string)) (unsubscribe func())
}

// subscribers is a set of change listeners shared by the providers.
type subscribers struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(string)
}

func (s *subscribers) add(fn func(string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(string))
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) notify(userID string) {
	s.mu.Lock()
	fns := make([]func(string), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(userID)
	}
}

// Session is an in-memory Provider.
type Session struct {
	mu     sync.Mutex
	userID string
	subs   subscribers
}

// NewSession returns a Session with nobody signed in.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userID != ""
}

func (s *Session) Subscribe(fn func(string)) func() {
	return s.subs.add(fn)
}

// SignIn makes userID the current user. Signing in the user who is already
// signed in does not notify.
func (s *Session) SignIn(userID string) {
	s.mu.Lock()
	if s.userID == userID {
		s.mu.Unlock()
		return
	}
	s.userID = userID
	s.mu.Unlock()

	s.subs.notify(userID)
}

// SignOut clears the current user.
func (s *Session) SignOut() {
	s.SignIn("")
}

// Keyring is a Provider backed by the OS keyring, so the signed-in user
// survives between CLI invocations.
type Keyring struct {
	subs subscribers
}

// NewKeyring returns a keyring-backed Provider.
func NewKeyring() *Keyring {
	return &Keyring{}
}

func (k *Keyring) Current() (string, bool) {
	userID, err := keyring.GetCurrentUser()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Failed to read signed-in user from keyring", "error", err)
		}
		return "", false
	}
	return userID, true
}

func (k *Keyring) Subscribe(fn func(string)) func() {
	return k.subs.add(fn)
}

// SignIn stores userID in the keyring and notifies subscribers.
func (k *Keyring) SignIn(userID string) error {
	if err := keyring.SetCurrentUser(userID); err != nil {
		return err
	}
	logger.Info("Signed in", "user", userID)
	k.subs.notify(userID)
	return nil
}

// SignOut removes the signed-in user from the keyring and notifies
// subscribers. Signing out when nobody is signed in is not an error.
func (k *Keyring) SignOut() error {
	if err := keyring.DeleteCurrentUser(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	logger.Info("Signed out")
	k.subs.notify("")
	return nil
}
