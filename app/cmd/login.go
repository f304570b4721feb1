package cmd

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/pkg/errors"

	"github.com/umputun/photo-feed/app/auth"
)

// LoginCommand set of flags and command for oauth login
type LoginCommand struct {
	Code      string        `long:"code" description:"authorization code, skips the browser flow"`
	URL       string        `long:"url" description:"redirect url with authorization code"`
	NoBrowser bool          `long:"no-browser" description:"don't open browser, print login url"`
	Timeout   time.Duration `long:"timeout" default:"5m" description:"time to wait for the redirect"`

	CommonOpts
}

// Execute is the entry point for "login" command, called by flag parser
func (lc *LoginCommand) Execute(_ []string) error {
	svc, err := lc.services()
	if err != nil {
		return err
	}
	defer svc.close() // nolint

	timeout := lc.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	code, err := lc.code(ctx, svc)
	if err != nil {
		return err
	}

	if _, err = svc.auth.Exchange(ctx, code); err != nil {
		return errors.Wrap(err, "login failed")
	}

	profile, err := svc.profiles.Fetch(ctx)
	if err != nil {
		log.Printf("[WARN] logged in, but profile is not available, %v", err)
		fmt.Fprintln(lc.Stdout, "logged in")
		return nil
	}
	fmt.Fprintf(lc.Stdout, "logged in as %s\n", profile.LoginName)
	return nil
}

func (lc *LoginCommand) code(ctx context.Context, svc *services) (string, error) {
	if lc.Code != "" {
		return lc.Code, nil
	}
	if lc.URL != "" {
		return codeFromInput(svc, lc.URL)
	}

	state := uuid.New().String()
	authURL := svc.helper.AuthURL(state)
	lc.open(authURL)

	if svc.helper.IsLocalRedirect() {
		return auth.NewReceiver(svc.helper, state, lc.Revision).Listen(ctx)
	}

	fmt.Fprint(lc.Stdout, "paste the url you were redirected to, or the code: ")
	line, err := bufio.NewReader(lc.Stdin).ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		return "", errors.Wrap(err, "can't read code")
	}
	return codeFromInput(svc, line)
}

func (lc *LoginCommand) open(authURL string) {
	if !lc.NoBrowser {
		if err := browser.OpenURL(authURL); err == nil {
			return
		}
		log.Printf("[WARN] can't open browser")
	}
	fmt.Fprintf(lc.Stdout, "login url: %s\n", authURL)
}

// codeFromInput accepts either redirect url or bare code
func codeFromInput(svc *services, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("empty code")
	}
	if !strings.Contains(input, "://") {
		return input, nil
	}
	u, err := url.Parse(input)
	if err != nil {
		return "", errors.Wrapf(err, "bad url %q", input)
	}
	code, ok := svc.helper.CodeFromURL(u)
	if !ok {
		return "", errors.Errorf("no code in %s", u.Path)
	}
	return code, nil
}
