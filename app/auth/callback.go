package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth_chi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/pkg/errors"
)

const (
	msgLoggedIn   = "<html><body><h3>Logged in</h3><p>You can close this window and return to the terminal.</p></body></html>"
	msgNoCode     = "authorization code is missing"
	msgWrongState = "unexpected state"
)

// Receiver is a local http server accepting oauth redirect with authorization code.
// Used when redirect uri points to localhost.
type Receiver struct {
	Helper  Helper
	State   string
	Version string

	codes chan string
}

// NewReceiver makes Receiver expecting the given state
func NewReceiver(helper Helper, state, version string) *Receiver {
	return &Receiver{Helper: helper, State: state, Version: version, codes: make(chan string, 1)}
}

// Listen starts server on redirect uri address and returns the first code received
func (r *Receiver) Listen(ctx context.Context) (string, error) {
	addr, err := r.addr()
	if err != nil {
		return "", err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "can't listen on %s", addr)
	}
	return r.Serve(ctx, ln)
}

// Serve accepts redirects on ln until a code received or ctx is done
func (r *Receiver) Serve(ctx context.Context, ln net.Listener) (string, error) {
	srv := &http.Server{
		Handler:           r.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       10 * time.Second,
	}

	go func() {
		log.Printf("[INFO] waiting for oauth redirect on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[WARN] callback server terminated, %v", err)
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[DEBUG] callback server shutdown, %v", err)
		}
	}()

	select {
	case code := <-r.codes:
		return code, nil
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "no authorization code received")
	}
}

func (r *Receiver) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RealIP, middleware.Recoverer)
	router.Use(rest.AppInfo("photo-feed", "umputun", r.Version), rest.Ping)
	router.Use(tollbooth_chi.LimitHandler(tollbooth.NewLimiter(10, nil)))
	router.Get(r.Helper.redirectPath(), r.callbackCtrl)
	return router
}

// GET <redirect path>?code=xxx&state=yyy
func (r *Receiver) callbackCtrl(w http.ResponseWriter, req *http.Request) {
	if r.State != "" && req.URL.Query().Get("state") != r.State {
		log.Printf("[WARN] redirect with unexpected state from %s", req.RemoteAddr)
		render.Status(req, http.StatusBadRequest)
		render.PlainText(w, req, msgWrongState)
		return
	}

	code, ok := r.Helper.CodeFromURL(req.URL)
	if !ok {
		msg := msgNoCode
		if e := req.URL.Query().Get("error_description"); e != "" {
			msg = fmt.Sprintf("%s: %s", msgNoCode, e)
		}
		render.Status(req, http.StatusBadRequest)
		render.PlainText(w, req, msg)
		return
	}

	select {
	case r.codes <- code:
		log.Printf("[INFO] authorization code received")
	default:
		log.Printf("[DEBUG] authorization code already received, ignore")
	}
	render.HTML(w, req, msgLoggedIn)
}

func (r *Receiver) addr() (string, error) {
	u, err := url.Parse(r.Helper.Params.RedirectURI)
	if err != nil {
		return "", errors.Wrapf(err, "bad redirect uri %q", r.Helper.Params.RedirectURI)
	}
	port := u.Port()
	if port == "" {
		port = "80"
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
