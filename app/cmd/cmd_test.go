package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/photo-feed/app/proc"
	"github.com/umputun/photo-feed/app/store"
)

// unsplashMock serves both auth and api endpoints
type unsplashMock struct {
	mu    sync.Mutex
	liked map[string]bool
	calls []string
}

func (m *unsplashMock) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, r.Method+" "+r.URL.Path)

	if r.URL.Path == "/oauth/token" {
		if r.Method != "POST" || r.URL.Query().Get("code") != "good-code" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tkn-1","token_type":"Bearer"}`))
		return
	}

	if r.Header.Get("Authorization") != "Bearer tkn-1" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/me":
		_, _ = w.Write([]byte(`{"username":"jdoe","first_name":"John","last_name":"Doe","bio":"hi there"}`))
	case r.URL.Path == "/users/jdoe":
		_, _ = w.Write([]byte(`{"profile_image":{"small":"https://img/jdoe/s"}}`))
	case r.URL.Path == "/photos":
		page := r.URL.Query().Get("page")
		_, _ = w.Write([]byte(fmt.Sprintf(`[{"id":"p%s-1","width":1,"height":2,"urls":{"full":"https://img/p%s-1"}},`+
			`{"id":"p%s-2","width":3,"height":4,"liked_by_user":true,"urls":{"full":"https://img/p%s-2"}}]`, page, page, page, page)))
	case strings.HasSuffix(r.URL.Path, "/like"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/photos/"), "/like")
		m.liked[id] = r.Method == "POST"
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (m *unsplashMock) likes() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := map[string]bool{}
	for k, v := range m.liked {
		res[k] = v
	}
	return res
}

func (m *unsplashMock) requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

func prepCommon(t *testing.T) (CommonOpts, *bytes.Buffer, *unsplashMock) {
	mock := &unsplashMock{liked: map[string]bool{}}
	ts := httptest.NewServer(mock)
	t.Cleanup(ts.Close)

	conf := proc.Conf{}
	conf.Auth.Host = ts.URL
	conf.Auth.ClientID = "client-id"
	conf.Auth.ClientSecret = "client-secret"
	conf.API.Host = ts.URL

	out := &bytes.Buffer{}
	opts := CommonOpts{}
	opts.SetCommon(CommonOpts{
		Conf:     conf,
		DB:       filepath.Join(t.TempDir(), "test.bdb"),
		Revision: "test",
		Stdout:   out,
	})
	return opts, out, mock
}

func login(t *testing.T, opts CommonOpts) {
	cmd := LoginCommand{Code: "good-code", CommonOpts: opts}
	require.NoError(t, cmd.Execute(nil))
}

func TestLoginCommand(t *testing.T) {
	opts, out, _ := prepCommon(t)

	cmd := LoginCommand{Code: "bad-code", CommonOpts: opts}
	err := cmd.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")

	login(t, opts)
	assert.Equal(t, "logged in as @jdoe\n", out.String())

	bs, err := store.NewBoltStore(opts.DB)
	require.NoError(t, err)
	defer bs.Close()
	token, ok, err := bs.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tkn-1", token)
}

func TestLoginCommand_PastedURL(t *testing.T) {
	opts, out, _ := prepCommon(t)
	opts.Stdin = strings.NewReader("https://unsplash.com/oauth/authorize/native?code=good-code\n")

	cmd := LoginCommand{NoBrowser: true, CommonOpts: opts}
	require.NoError(t, cmd.Execute(nil))
	assert.Contains(t, out.String(), "login url: "+opts.Conf.Auth.Host+"/oauth/authorize?")
	assert.Contains(t, out.String(), "logged in as @jdoe\n")

	out.Reset()
	cmd = LoginCommand{URL: "https://unsplash.com/oauth/authorize/native?code=good-code", CommonOpts: opts}
	require.NoError(t, cmd.Execute(nil))
	assert.Equal(t, "logged in as @jdoe\n", out.String())

	cmd = LoginCommand{URL: "https://unsplash.com/something?code=good-code", CommonOpts: opts}
	assert.Error(t, cmd.Execute(nil))
}

func TestFeedCommand(t *testing.T) {
	opts, out, mock := prepCommon(t)

	cmd := FeedCommand{Pages: 1, CommonOpts: opts}
	assert.Error(t, cmd.Execute(nil), "not logged in")

	login(t, opts)
	out.Reset()

	cmd = FeedCommand{Pages: 2, CommonOpts: opts}
	require.NoError(t, cmd.Execute(nil))
	exp := "  1   p1-1 1x2\n      https://img/p1-1\n" +
		"  2 ♥ p1-2 3x4\n      https://img/p1-2\n" +
		"  3   p2-1 1x2\n      https://img/p2-1\n" +
		"  4 ♥ p2-2 3x4\n      https://img/p2-2\n"
	assert.Equal(t, exp, out.String())
	assert.Contains(t, mock.requests(), "GET /photos")
}

func TestLikeCommand(t *testing.T) {
	opts, out, mock := prepCommon(t)
	login(t, opts)
	out.Reset()

	cmd := LikeCommand{CommonOpts: opts}
	cmd.Args.IDs = []string{"a1", "b2", "c3"}
	require.NoError(t, cmd.Execute(nil))
	assert.Equal(t, "liked 3 photo(s)\n", out.String())
	assert.Equal(t, map[string]bool{"a1": true, "b2": true, "c3": true}, mock.likes())

	out.Reset()
	cmd = LikeCommand{Unlike: true, CommonOpts: opts}
	cmd.Args.IDs = []string{"b2"}
	require.NoError(t, cmd.Execute(nil))
	assert.Equal(t, "unliked 1 photo(s)\n", out.String())
	assert.False(t, mock.likes()["b2"])
}

func TestProfileCommand(t *testing.T) {
	opts, out, _ := prepCommon(t)
	login(t, opts)
	out.Reset()

	cmd := ProfileCommand{CommonOpts: opts}
	require.NoError(t, cmd.Execute(nil))
	assert.Equal(t, "John Doe\n@jdoe\nhi there\nhttps://img/jdoe/s\n", out.String())
}

func TestLogoutAndStatusCommands(t *testing.T) {
	opts, out, _ := prepCommon(t)

	status := StatusCommand{CommonOpts: opts}
	require.NoError(t, status.Execute(nil))
	assert.Equal(t, "not logged in\n", out.String())

	login(t, opts)
	out.Reset()
	require.NoError(t, status.Execute(nil))
	assert.Equal(t, "logged in\n", out.String())

	out.Reset()
	logout := LogoutCommand{CommonOpts: opts}
	require.NoError(t, logout.Execute(nil))
	assert.Equal(t, "logged out\n", out.String())

	out.Reset()
	require.NoError(t, status.Execute(nil))
	assert.Equal(t, "not logged in\n", out.String())
}

func TestCommonOpts_servicesInMemory(t *testing.T) {
	opts, _, _ := prepCommon(t)
	opts.DB = ""
	svc, err := opts.services()
	require.NoError(t, err)
	defer svc.close() // nolint
	_, ok := svc.store.(*store.MemStore)
	assert.True(t, ok)
}

func TestUnlikeCommand(t *testing.T) {
	opts, out, mock := prepCommon(t)
	login(t, opts)
	out.Reset()

	cmd := UnlikeCommand{CommonOpts: opts}
	cmd.Args.IDs = []string{"a1", "b2"}
	require.NoError(t, cmd.Execute(nil))
	assert.Equal(t, "unliked 2 photo(s)\n", out.String())
	assert.Equal(t, map[string]bool{"a1": false, "b2": false}, mock.likes())
	assert.Contains(t, mock.requests(), "DELETE /photos/a1/like")
}

func TestTokenCommand(t *testing.T) {
	opts, out, _ := prepCommon(t)

	cmd := TokenCommand{CommonOpts: opts}
	require.NoError(t, cmd.Execute(nil))
	assert.Equal(t, "no token\n", out.String())

	login(t, opts)
	out.Reset()
	require.NoError(t, cmd.Execute(nil))
	assert.Equal(t, "*****\n", out.String())

	out.Reset()
	cmd.Show = true
	require.NoError(t, cmd.Execute(nil))
	assert.Equal(t, "tkn-1\n", out.String())
}

func TestMaskToken(t *testing.T) {
	tbl := []struct {
		in, out string
	}{
		{"", ""},
		{"abc", "***"},
		{"123456789012", "************"},
		{"abcd1234567890wxyz", "abcd**********wxyz"},
	}
	for _, tt := range tbl {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, maskToken(tt.in))
		})
	}
}
