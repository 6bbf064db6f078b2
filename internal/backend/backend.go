// Package backend is the HTTP client for the activities API.
// It loads the activity directory and submits signup and unregister requests.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Shivanand-hulikatti/activities-frontend/internal/model"
)

// ErrFetch is returned when the directory cannot be retrieved.
var ErrFetch = errors.New("fetch activities")

// ErrDecode is returned when a response body is not the expected JSON.
var ErrDecode = errors.New("decode response")

// ErrServer is returned when the backend answers a signup with a non-2xx status.
var ErrServer = errors.New("backend rejected request")

// ErrTransport is returned when a signup request never got a response.
var ErrTransport = errors.New("backend unreachable")

const maxBody = 1 << 20 // 1 MB limit

// ServerError carries the status and optional detail of a rejected request.
// It matches ErrServer under errors.Is.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend rejected request: status %d", e.Status)
	}
	return fmt.Sprintf("backend rejected request: status %d: %s", e.Status, e.Detail)
}

// Is reports whether target is ErrServer.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// Client talks to one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a Client. A nil hc uses http.DefaultClient.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// LoadActivities issues GET /activities and returns the directory in the
// key order of the response object.
func (c *Client) LoadActivities(ctx context.Context) (model.Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/activities", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}
	return decodeDirectory(body)
}

func decodeDirectory(body []byte) (model.Directory, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrDecode)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrDecode, root.Type)
	}

	var (
		dir     model.Directory
		itemErr error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		var a model.Activity
		if err := json.Unmarshal([]byte(value.Raw), &a); err != nil {
			itemErr = fmt.Errorf("%w: activity %q: %v", ErrDecode, key.String(), err)
			return false
		}
		a.Name = key.String()
		dir = append(dir, a)
		return true
	})
	if itemErr != nil {
		return nil, itemErr
	}
	return dir, nil
}

// Signup issues POST /activities/{name}/signup?email={email}.
func (c *Client) Signup(ctx context.Context, r model.SignupRequest) (model.MessageResponse, error) {
	return c.post(ctx, r, "signup")
}

// Unregister issues POST /activities/{name}/unregister?email={email}.
func (c *Client) Unregister(ctx context.Context, r model.SignupRequest) (model.MessageResponse, error) {
	return c.post(ctx, r, "unregister")
}

// post sends a participant action. A 2xx answer yields its message; any
// other status yields a *ServerError carrying the detail field when it is a
// string.
func (c *Client) post(ctx context.Context, r model.SignupRequest, action string) (model.MessageResponse, error) {
	target := c.baseURL + "/activities/" + url.PathEscape(r.ActivityName) + "/" + action +
		"?email=" + url.QueryEscape(r.Email)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return model.MessageResponse{}, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return model.MessageResponse{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return model.MessageResponse{}, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if !gjson.ValidBytes(body) {
		return model.MessageResponse{}, fmt.Errorf("%w: %s response is not valid JSON", ErrDecode, action)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &ServerError{Status: resp.StatusCode}
		if d := gjson.GetBytes(body, "detail"); d.Type == gjson.String {
			se.Detail = d.Str
		}
		return model.MessageResponse{}, se
	}
	return model.MessageResponse{Message: gjson.GetBytes(body, "message").String()}, nil
}
