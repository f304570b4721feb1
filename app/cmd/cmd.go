// Package cmd has all top-level commands dispatched by main's flag.Parse
// The primary reason for putting commands in a separate package is to simplify testing
package cmd

import (
	"io"
	"net/http"
	"os"

	log "github.com/go-pkgz/lgr"
	"github.com/pkg/errors"

	"github.com/umputun/photo-feed/app/api"
	"github.com/umputun/photo-feed/app/auth"
	"github.com/umputun/photo-feed/app/proc"
	"github.com/umputun/photo-feed/app/store"
)

// CommonOptionsCommander extends flags.Commander with SetCommon
// All commands should implement this interfaces
type CommonOptionsCommander interface {
	SetCommon(commonOpts CommonOpts)
	Execute(args []string) error
}

// CommonOpts sets externally from main, shared across all commands
type CommonOpts struct {
	Conf     proc.Conf
	DB       string // empty for in-memory token store
	Revision string
	Stdout   io.Writer
	Stdin    io.Reader
}

// SetCommon satisfies CommonOptionsCommander interface and sets common option fields
// The method called by main for each command
func (c *CommonOpts) SetCommon(commonOpts CommonOpts) {
	*c = commonOpts
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
}

// services wires all parts of the client together
type services struct {
	store    store.TokenStore
	helper   auth.Helper
	auth     *auth.Service
	photos   *proc.Photos
	profiles *proc.Profiles
	avatars  *proc.Avatars
	session  *proc.Session
	render   *proc.Renderer
	close    func() error
}

func (c *CommonOpts) services() (*services, error) {
	var tokenStore store.TokenStore = &store.MemStore{}
	closer := func() error { return nil }
	if c.DB != "" {
		bs, err := store.NewBoltStore(c.DB)
		if err != nil {
			return nil, errors.Wrapf(err, "can't open db %s", c.DB)
		}
		tokenStore, closer = bs, bs.Close
	} else {
		log.Printf("[WARN] no db file, token won't be kept")
	}

	conf := c.Conf
	conf.SetDefaults()
	httpClient := &http.Client{Timeout: conf.API.Timeout}
	apiClient := &api.Client{BaseURL: conf.API.Host, HTTPClient: httpClient}
	params := auth.Params{
		AuthHost:     conf.Auth.Host,
		ClientID:     conf.Auth.ClientID,
		ClientSecret: conf.Auth.ClientSecret,
		RedirectURI:  conf.Auth.RedirectURI,
		Scopes:       conf.Auth.Scopes,
	}
	renderer := proc.NewRenderer()

	avatars, err := proc.NewAvatars(apiClient, tokenStore, conf.System.AvatarTTL, conf.System.MaxAvatars)
	if err != nil {
		_ = closer()
		return nil, err
	}

	res := &services{
		store:  tokenStore,
		helper: auth.Helper{Params: params},
		auth: &auth.Service{
			Params: params,
			Client: &api.Client{BaseURL: conf.Auth.Host, HTTPClient: httpClient},
			Store:  tokenStore,
		},
		photos:   &proc.Photos{API: apiClient, Store: tokenStore, PerPage: conf.API.PerPage, Clean: renderer.Clean},
		profiles: &proc.Profiles{API: apiClient, Store: tokenStore, Clean: renderer.Clean},
		avatars:  avatars,
		render:   renderer,
		close:    closer,
	}
	res.session = &proc.Session{Store: tokenStore, Photos: res.photos, Profiles: res.profiles, Avatars: res.avatars}
	return res, nil
}
