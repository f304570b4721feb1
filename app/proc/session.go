package proc

import (
	log "github.com/go-pkgz/lgr"
	"github.com/pkg/errors"

	"github.com/umputun/photo-feed/app/store"
)

// Resetter drops state kept for the signed-in user
type Resetter interface {
	Reset()
}

// Session ties token with the state loaded on behalf of the user
type Session struct {
	Store    store.TokenStore
	Photos   Resetter
	Profiles Resetter
	Avatars  Resetter
	notifier // logout subscribers
}

// SignedIn checks if bearer token is present
func (s *Session) SignedIn() (bool, error) {
	_, ok, err := s.Store.Get()
	return ok, err
}

// Logout removes token and resets everything loaded for the user. Logout subscribers
// are notified even if the token can't be removed.
func (s *Session) Logout() error {
	err := s.Store.Set("")
	for _, r := range []Resetter{s.Profiles, s.Avatars, s.Photos} {
		if r != nil {
			r.Reset()
		}
	}
	s.notify()
	if err != nil {
		return errors.Wrap(err, "can't remove token")
	}
	log.Printf("[INFO] logged out")
	return nil
}
