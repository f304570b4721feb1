package auth

import (
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// NativeRedirectPath is the path unsplash redirects to for out-of-band (urn:ietf:wg:oauth:2.0:oob) clients
const NativeRedirectPath = "/oauth/authorize/native"

// Params of the oauth application
type Params struct {
	AuthHost     string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
}

// Helper builds authorize url and parses redirects
type Helper struct {
	Params Params
}

func (h Helper) config() *oauth2.Config {
	host := strings.TrimSuffix(h.Params.AuthHost, "/")
	return &oauth2.Config{
		ClientID:     h.Params.ClientID,
		ClientSecret: h.Params.ClientSecret,
		RedirectURL:  h.Params.RedirectURI,
		Scopes:       h.Params.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   host + "/oauth/authorize",
			TokenURL:  host + tokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthURL returns url of the login page, state is passed back with the redirect
func (h Helper) AuthURL(state string) string {
	return h.config().AuthCodeURL(state)
}

// CodeFromURL extracts authorization code from the redirect url
func (h Helper) CodeFromURL(u *url.URL) (string, bool) {
	if u == nil {
		return "", false
	}
	if u.Path != NativeRedirectPath && u.Path != h.redirectPath() {
		return "", false
	}
	code := u.Query().Get("code")
	return code, code != ""
}

func (h Helper) redirectPath() string {
	ru, err := url.Parse(h.Params.RedirectURI)
	if err != nil || ru.Path == "" {
		return "/"
	}
	return ru.Path
}

// IsLocalRedirect checks if redirect uri points to this machine, so code can be received directly
func (h Helper) IsLocalRedirect() bool {
	ru, err := url.Parse(h.Params.RedirectURI)
	if err != nil || ru.Scheme != "http" {
		return false
	}
	host := ru.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
