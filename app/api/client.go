// Package api implements http client for unsplash api. All requests are sent with bearer token
// and all failures reported with typed errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/pkg/errors"
)

// maxLoggedPayload limits raw body dumped on decode failure
const maxLoggedPayload = 1024

// Doer sends http requests, satisfied by *http.Client
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client for api host
type Client struct {
	BaseURL    string
	HTTPClient Doer
}

// NewRequest makes request to the api host with bearer token. Refuses to build request without token.
func (c *Client) NewRequest(ctx context.Context, method, endpoint string, query url.Values, token string) (*http.Request, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	u := c.join(endpoint)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "can't make request %s %s", method, u)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Send makes the call and returns body of successful response
func (c *Client) Send(req *http.Request) ([]byte, error) {
	body, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrNoData
	}
	return body, nil
}

// SendEmpty makes the call ignoring the body, empty successful response is fine
func (c *Client) SendEmpty(req *http.Request) error {
	_, err := c.send(req)
	return err
}

// SendJSON makes the call and decodes response body to v
func (c *Client) SendJSON(req *http.Request, v interface{}) error {
	body, err := c.Send(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		log.Printf("[WARN] can't decode response of %s %s, %v, payload: %s", req.Method, req.URL.Path, err, trim(body))
		return &DecodeError{Err: err, Body: body}
	}
	return nil
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	log.Printf("[DEBUG] %s %s", req.Method, req.URL.Path)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp == nil || resp.Body == nil {
		return nil, ErrMalformedResponse
	}
	defer resp.Body.Close() // nolint

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[DEBUG] %s %s responded with %d, body: %s", req.Method, req.URL.Path, resp.StatusCode, trim(body))
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return body, nil
}

func (c *Client) join(endpoint string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(c.BaseURL, "/"), strings.TrimPrefix(endpoint, "/"))
}

func trim(body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) > maxLoggedPayload {
		return body[:maxLoggedPayload]
	}
	return body
}
