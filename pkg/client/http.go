package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/skillshare-dao/skillshare-dao/pkg/logger"
	"github.com/tidwall/gjson"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d %s: %s", e.Status, e.Kind, e.Message)
}

// Unwrap maps the wire kind back to the apperror sentinel so callers can use
// errors.Is(err, apperror.ErrNotFound).
func (e *APIError) Unwrap() error {
	for _, k := range []error{apperror.ErrNotFound, apperror.ErrInvalidState, apperror.ErrInvalidInput,
		apperror.ErrUnauthorized, apperror.ErrUpstream, apperror.ErrUnavailable, apperror.ErrInternal} {
		if k.Error() == e.Kind {
			return k
		}
	}
	return nil
}

// GET issues a GET and decodes the answer into out (see Do).
func (c *Client) GET(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, params, nil, out)
}

// POST sends in as JSON and decodes the answer into out (see Do).
func (c *Client) POST(ctx context.Context, path string, in, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, in, out)
}

// Do sends one request to the backend, attaching the session's bearer token.
// An access token past its exp claim is refreshed first. A 401 answer to an
// authenticated call triggers one refresh and one retry; the session is
// dropped only when the refresh itself is rejected.
// JSON answers are decoded into out; any other content type is delivered as
// text and requires out to be a *string. out may be nil.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, in, out interface{}) error {
	return c.do(ctx, method, path, params, in, out, true)
}

type reply struct {
	status      int
	contentType string
	body        []byte
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out interface{}, auth bool) error {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperror.InvalidInput("cannot encode request body", err)
		}
		body = b
	}

	token := ""
	if auth {
		var err error
		if token, err = c.bearer(ctx); err != nil {
			return err
		}
	}
	rep, err := c.send(ctx, method, u.String(), body, token)
	if err != nil {
		return err
	}
	if rep.status == http.StatusUnauthorized && token != "" {
		logger.Debugf("client: %s %s answered 401, refreshing", method, path)
		if err := c.renew(ctx, token); err != nil {
			return err
		}
		if s := c.Session(); s != nil && s.AccessToken != token {
			if rep, err = c.send(ctx, method, u.String(), body, s.AccessToken); err != nil {
				return err
			}
		}
	}

	isJSON := isJSONContent(rep.contentType)
	if rep.status < 200 || rep.status > 299 {
		return apiError(rep.status, rep.body, isJSON)
	}
	if out == nil {
		return nil
	}
	if isJSON {
		if err := json.Unmarshal(rep.body, out); err != nil {
			return apperror.Upstream("failed to parse the server response", err)
		}
		return nil
	}
	str, ok := out.(*string)
	if !ok {
		return apperror.Upstream("unexpected response content type "+rep.contentType, nil)
	}
	*str = string(rep.body)
	return nil
}

func (c *Client) send(ctx context.Context, method, target string, body []byte, token string) (*reply, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return nil, apperror.InvalidInput("cannot build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Upstream(fmt.Sprintf("request failed for path: %s", req.URL.Path), err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Upstream("failed to read response", err)
	}
	return &reply{status: resp.StatusCode, contentType: resp.Header.Get("Content-Type"), body: raw}, nil
}

func isJSONContent(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "application/json"
}

func apiError(status int, raw []byte, isJSON bool) *APIError {
	e := &APIError{Status: status, Message: strings.TrimSpace(string(raw))}
	if isJSON && gjson.ValidBytes(raw) {
		doc := gjson.ParseBytes(raw)
		e.Kind = doc.Get("error").String()
		if m := doc.Get("message"); m.Exists() {
			e.Message = m.String()
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
