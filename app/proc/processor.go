// Package proc provides client-side services of the photo feed: paged photo list with likes,
// user profile and avatar, logout and batch processing of likes
package proc

import (
	"context"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"
	"github.com/pkg/errors"
)

// Conf for the client config yml
type Conf struct {
	Auth struct {
		Host         string   `yaml:"host"`
		ClientID     string   `yaml:"client_id"`
		ClientSecret string   `yaml:"client_secret"`
		RedirectURI  string   `yaml:"redirect_uri"`
		Scopes       []string `yaml:"scopes"`
	} `yaml:"auth"`
	API struct {
		Host    string        `yaml:"host"`
		PerPage int           `yaml:"per_page"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	System struct {
		Concurrent int           `yaml:"concurrent"`
		AvatarTTL  time.Duration `yaml:"avatar_ttl"`
		MaxAvatars int           `yaml:"max_avatars"`
	} `yaml:"system"`
}

// SetDefaults fills missing values
func (c *Conf) SetDefaults() {
	if c.Auth.Host == "" {
		c.Auth.Host = "https://unsplash.com"
	}
	if c.Auth.RedirectURI == "" {
		c.Auth.RedirectURI = "urn:ietf:wg:oauth:2.0:oob"
	}
	if len(c.Auth.Scopes) == 0 {
		c.Auth.Scopes = []string{"public", "read_user", "write_likes"}
	}
	if c.API.Host == "" {
		c.API.Host = "https://api.unsplash.com"
	}
	if c.API.PerPage == 0 {
		c.API.PerPage = DefaultPerPage
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.System.Concurrent == 0 {
		c.System.Concurrent = 4
	}
	if c.System.AvatarTTL == 0 {
		c.System.AvatarTTL = time.Hour
	}
	if c.System.MaxAvatars == 0 {
		c.System.MaxAvatars = 100
	}
}

// Liker changes like state of a single photo
type Liker interface {
	ToggleLike(ctx context.Context, id string, liked bool) error
}

// Processor applies like changes to many photos
type Processor struct {
	Photos     Liker
	Concurrent int
}

// ToggleLikes sets like state for all ids, up to p.Concurrent requests in flight.
// Order of requests is not defined, the same id passed twice may race.
func (p *Processor) ToggleLikes(ctx context.Context, ids []string, liked bool) error {
	concurrent := p.Concurrent
	if concurrent <= 0 {
		concurrent = 1
	}

	log.Printf("[INFO] set like=%v for %d photos", liked, len(ids))
	ewg := syncs.NewErrSizedGroup(concurrent, syncs.Preemptive)
	for _, id := range ids {
		id := id
		ewg.Go(func() error {
			if err := p.Photos.ToggleLike(ctx, id, liked); err != nil {
				return errors.Wrapf(err, "photo %s", id)
			}
			return nil
		})
	}
	return ewg.Wait()
}
