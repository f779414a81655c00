// Package client is the Go consumer of the taskboard API: an HTTP client
// carrying the session cookie, plus a state container for front ends.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"taskboard/pkg/api"
	"taskboard/pkg/model"
)

// APIError carries the status and {error_msg} body of a failed call.
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Msg)
}

type Client struct {
	BaseURL string
	// Token, when set, is sent as the session cookie on every request.
	// It comes from the login response body; within one process the
	// cookie jar alone is enough.
	Token string

	hc *http.Client
}

func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: baseURL,
		hc:      &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

func (c *Client) Register(username, email, password string) error {
	return c.do(http.MethodPost, "/register",
		map[string]string{"username": username, "email": email, "password": password}, nil)
}

// Login authenticates and returns the role reported by the server. The
// token from the response body is kept on the client for reuse across
// processes.
func (c *Client) Login(username, password string) (model.Role, error) {
	var out struct {
		Token string     `json:"token"`
		Role  model.Role `json:"role"`
	}
	err := c.do(http.MethodPost, "/login",
		map[string]string{"username": username, "password": password}, &out)
	if err != nil {
		return "", err
	}
	c.Token = out.Token
	return out.Role, nil
}

func (c *Client) Me() (model.User, error) {
	var out struct {
		User model.User `json:"user"`
	}
	err := c.do(http.MethodGet, "/me", nil, &out)
	return out.User, err
}

func (c *Client) Logout() error {
	if err := c.do(http.MethodPost, "/logout", nil, nil); err != nil {
		return err
	}
	c.Token = ""
	return nil
}

func (c *Client) Tasks() ([]api.TaskResponse, error) {
	var out struct {
		Tasks []api.TaskResponse `json:"tasks"`
	}
	err := c.do(http.MethodGet, "/tasks", nil, &out)
	return out.Tasks, err
}

func (c *Client) CreateTask(title string) (api.TaskResponse, error) {
	var out struct {
		Task api.TaskResponse `json:"task"`
	}
	err := c.do(http.MethodPost, "/tasks", map[string]string{"title": title}, &out)
	return out.Task, err
}

func (c *Client) UpdateTask(id uint, title string) (api.TaskResponse, error) {
	var out struct {
		Task api.TaskResponse `json:"task"`
	}
	err := c.do(http.MethodPut, fmt.Sprintf("/tasks/%d", id), map[string]string{"title": title}, &out)
	return out.Task, err
}

func (c *Client) DeleteTask(id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

func (c *Client) Audit(limit int) ([]model.AuditEntry, error) {
	var out struct {
		Items []model.AuditEntry `json:"items"`
	}
	path := "/audit"
	if limit > 0 {
		path = fmt.Sprintf("/audit?limit=%d", limit)
	}
	err := c.do(http.MethodGet, path, nil, &out)
	return out.Items, err
}

func (c *Client) do(method, path string, payload, out interface{}) error {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: c.Token})
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Msg string `json:"error_msg"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Msg == "" {
			e.Msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Msg: e.Msg}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
