// Package remote implements the clients of the backend Course and Question APIs.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

// FallbackMessage is used when a failed response carries no message.
const FallbackMessage = "something went wrong, please try again"

// Error is a failed response of the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote: %d %s", e.Status, e.Message)
}

// envelope is the body of every backend response.
type envelope struct {
	Status  *bool           `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client performs authenticated requests against the backend.
type Client struct {
	http *resty.Client
}

func NewClient(conf core.RemoteConfig) *Client {
	c := resty.New().
		SetBaseURL(conf.BaseURL).
		SetTimeout(conf.Timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

func (c *Client) request(ctx context.Context, sess session.Session) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", sess.AuthorizationHeader())
}

// do executes req and decodes the data of the response envelope into out (if not nil).
// Non 2xx responses and envelopes with a false status are returned as *Error.
func (c *Client) do(req *resty.Request, method, path string, out interface{}) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)
	if resp.IsError() || (decodeErr == nil && env.Status != nil && !*env.Status) {
		rErr := &Error{Status: resp.StatusCode(), Message: env.Message}
		if rErr.Message == "" {
			rErr.Message = FallbackMessage
		}
		if rErr.Status < http.StatusBadRequest {
			rErr.Status = http.StatusBadRequest
		}
		return rErr
	}
	if decodeErr != nil {
		return errors.Wrapf(decodeErr, "decoding response of %s %s", method, path)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(env.Data, out), "decoding data of %s %s", method, path)
}

// IsNotFound reports whether the cause of err is a 404 response.
func IsNotFound(err error) bool {
	rErr, ok := errors.Cause(err).(*Error)
	return ok && rErr.Status == http.StatusNotFound
}
