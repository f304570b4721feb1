// Package auth implements oauth2 authorization code flow against unsplash: authorize url,
// redirect handling and single-flight exchange of the code to a bearer token.
package auth

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	log "github.com/go-pkgz/lgr"
	"github.com/pkg/errors"

	"github.com/umputun/photo-feed/app/api"
	"github.com/umputun/photo-feed/app/models"
	"github.com/umputun/photo-feed/app/store"
)

const tokenEndpoint = "/oauth/token"

// Service exchanges authorization code to bearer token and keeps it in the token store.
// Only one exchange tracked at a time, repeated code rejected while the exchange for it is in progress.
type Service struct {
	Params Params
	Client *api.Client // client for auth host
	Store  store.TokenStore

	mu          sync.Mutex
	currentCode string
	cancel      context.CancelFunc
}

// Exchange trades code for a token and saves it. Exchange for another code in progress gets canceled.
func (s *Service) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", api.ErrEmptyCode
	}

	s.mu.Lock()
	if s.currentCode != "" && s.currentCode == code {
		s.mu.Unlock()
		log.Printf("[WARN] exchange for the same code already in progress")
		return "", api.ErrDuplicateRequest
	}
	if s.cancel != nil {
		log.Printf("[DEBUG] cancel exchange in progress")
		s.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	s.currentCode, s.cancel = code, cancel
	s.mu.Unlock()

	token, err := s.exchange(reqCtx, code)

	s.mu.Lock()
	if s.currentCode == code {
		s.currentCode, s.cancel = "", nil
	}
	s.mu.Unlock()
	cancel()

	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) exchange(ctx context.Context, code string) (string, error) {
	req, err := s.tokenRequest(ctx, code)
	if err != nil {
		return "", err
	}

	var resp models.TokenResult
	if err = s.Client.SendJSON(req, &resp); err != nil {
		log.Printf("[WARN] token exchange failed, %v", err)
		return "", errors.Wrap(err, "token exchange")
	}
	if resp.AccessToken == "" {
		return "", errors.Wrap(&api.DecodeError{Err: errors.New("empty access_token")}, "token exchange")
	}

	if err = s.Store.Set(resp.AccessToken); err != nil {
		return "", errors.Wrap(err, "can't store token")
	}
	log.Printf("[INFO] bearer token received")
	return resp.AccessToken, nil
}

func (s *Service) tokenRequest(ctx context.Context, code string) (*http.Request, error) {
	q := url.Values{}
	q.Set("client_id", s.Params.ClientID)
	q.Set("client_secret", s.Params.ClientSecret)
	q.Set("redirect_uri", s.Params.RedirectURI)
	q.Set("code", code)
	q.Set("grant_type", "authorization_code")

	u := s.Params.AuthHost + tokenEndpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, "POST", u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "can't make token request")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
