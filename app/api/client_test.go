package api

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoerFunc adapts a func to the Doer interface
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req)
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestClient_NewRequest(t *testing.T) {
	c := Client{BaseURL: "https://api.example.com/"}

	req, err := c.NewRequest(context.Background(), "GET", "/photos", url.Values{"page": {"2"}, "per_page": {"10"}}, "tkn")
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "https://api.example.com/photos?page=2&per_page=10", req.URL.String())
	assert.Equal(t, "Bearer tkn", req.Header.Get("Authorization"))

	req, err = c.NewRequest(context.Background(), "DELETE", "photos/abc/like", nil, "tkn")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/photos/abc/like", req.URL.String())

	_, err = c.NewRequest(context.Background(), "GET", "/me", nil, "")
	assert.Equal(t, ErrMissingToken, err)
}

func TestClient_SendJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/me":
			_, _ = w.Write([]byte(`{"username":"jdoe","first_name":"John"}`))
		case "/bad":
			_, _ = w.Write([]byte(`[1,2,3]`))
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["nope"]}`))
		}
	}))
	defer ts.Close()

	c := Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	send := func(path string, v interface{}) error {
		req, err := c.NewRequest(context.Background(), "GET", path, nil, "secret")
		require.NoError(t, err)
		return c.SendJSON(req, v)
	}

	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, send("/me", &me))
	assert.Equal(t, "jdoe", me.Username)

	err := send("/bad", &me)
	var de *DecodeError
	require.True(t, errors.As(err, &de), "%v", err)
	assert.Equal(t, "[1,2,3]", string(de.Body))

	err = send("/empty", &me)
	assert.True(t, errors.Is(err, ErrNoData), "%v", err)

	err = send("/forbidden", &me)
	var se *StatusError
	require.True(t, errors.As(err, &se), "%v", err)
	assert.Equal(t, 403, se.Code)
	assert.True(t, IsStatus(err, 403))
	assert.False(t, IsStatus(err, 404))
}

func TestClient_SendEmpty(t *testing.T) {
	c := Client{BaseURL: "https://api.example.com", HTTPClient: DoerFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 201, Body: ioutil.NopCloser(strings.NewReader(""))}, nil
	})}
	req, err := c.NewRequest(context.Background(), "POST", "/photos/1/like", nil, "t")
	require.NoError(t, err)
	assert.NoError(t, c.SendEmpty(req))

	_, err = c.Send(req)
	assert.Equal(t, ErrNoData, err)
}

func TestClient_Failures(t *testing.T) {
	tbl := []struct {
		name  string
		do    DoerFunc
		check func(t *testing.T, err error)
	}{
		{"transport", func(*http.Request) (*http.Response, error) { return nil, errors.New("connection refused") },
			func(t *testing.T, err error) {
				var te *TransportError
				require.True(t, errors.As(err, &te))
				assert.EqualError(t, te.Err, "connection refused")
			}},
		{"no response", func(*http.Request) (*http.Response, error) { return nil, nil },
			func(t *testing.T, err error) { assert.Equal(t, ErrMalformedResponse, err) }},
		{"no body", func(*http.Request) (*http.Response, error) { return &http.Response{StatusCode: 200}, nil },
			func(t *testing.T, err error) { assert.Equal(t, ErrMalformedResponse, err) }},
		{"status", func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 500, Body: ioutil.NopCloser(strings.NewReader("ERROR"))}, nil
		}, func(t *testing.T, err error) { assert.EqualError(t, err, "http status 500") }},
	}

	for _, tt := range tbl {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := Client{BaseURL: "https://api.example.com", HTTPClient: tt.do}
			req, err := c.NewRequest(context.Background(), "GET", "/photos", nil, "t")
			require.NoError(t, err)
			_, err = c.Send(req)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_join(t *testing.T) {
	c := Client{BaseURL: "https://unsplash.com"}
	assert.Equal(t, "https://unsplash.com/oauth/token", c.join("/oauth/token"))
}
