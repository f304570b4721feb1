package proc

import (
	"context"
	"net/url"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/lcw"
	"github.com/pkg/errors"

	"github.com/umputun/photo-feed/app/models"
	"github.com/umputun/photo-feed/app/store"
)

// Profiles loads profile of the signed-in user and keeps the last one
type Profiles struct {
	API   Requester
	Store store.TokenStore
	Clean func(string) string // applied to bio

	mu      sync.Mutex
	profile *models.Profile
}

// Fetch loads profile from /me
func (p *Profiles) Fetch(ctx context.Context) (models.Profile, error) {
	token, err := bearer(p.Store)
	if err != nil {
		return models.Profile{}, err
	}
	req, err := p.API.NewRequest(ctx, "GET", "/me", nil, token)
	if err != nil {
		return models.Profile{}, err
	}

	var rec models.ProfileResult
	if err = p.API.SendJSON(req, &rec); err != nil {
		log.Printf("[WARN] can't load profile, %v", err)
		return models.Profile{}, errors.Wrap(err, "can't load profile")
	}

	res := models.NewProfile(rec)
	if p.Clean != nil {
		res.Bio = p.Clean(res.Bio)
	}
	p.mu.Lock()
	p.profile = &res
	p.mu.Unlock()
	log.Printf("[DEBUG] profile loaded, %s", res.LoginName)
	return res, nil
}

// Profile returns the last loaded profile
func (p *Profiles) Profile() (models.Profile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.profile == nil {
		return models.Profile{}, false
	}
	return *p.profile, true
}

// Reset forgets loaded profile
func (p *Profiles) Reset() {
	p.mu.Lock()
	p.profile = nil
	p.mu.Unlock()
}

// Avatars loads and caches small avatar urls of users
type Avatars struct {
	API   Requester
	Store store.TokenStore

	cache lcw.LoadingCache
	notifier
}

// NewAvatars makes Avatars with cache of up to maxKeys urls, each kept for ttl
func NewAvatars(requester Requester, tokenStore store.TokenStore, ttl time.Duration, maxKeys int) (*Avatars, error) {
	cache, err := lcw.NewExpirableCache(lcw.MaxKeys(maxKeys), lcw.TTL(ttl))
	if err != nil {
		return nil, errors.Wrap(err, "can't make avatars cache")
	}
	return &Avatars{API: requester, Store: tokenStore, cache: cache}, nil
}

// Fetch returns avatar url of the user, loads from /users/{username} on cache miss
func (a *Avatars) Fetch(ctx context.Context, username string) (string, error) {
	loaded := false
	v, err := a.cache.Get(username, func() (interface{}, error) {
		token, err := bearer(a.Store)
		if err != nil {
			return nil, err
		}
		req, err := a.API.NewRequest(ctx, "GET", "/users/"+url.PathEscape(username), nil, token)
		if err != nil {
			return nil, err
		}
		var rec models.UserResult
		if err = a.API.SendJSON(req, &rec); err != nil {
			return nil, err
		}
		loaded = true
		return rec.ProfileImage.Small, nil
	})
	if err != nil {
		log.Printf("[WARN] can't load avatar of %s, %v", username, err)
		return "", errors.Wrapf(err, "can't load avatar of %s", username)
	}

	if loaded {
		a.notify()
	}
	return v.(string), nil
}

// Reset drops all cached urls
func (a *Avatars) Reset() {
	a.cache.Purge()
	a.notify()
}
