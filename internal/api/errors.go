package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// NetworkError is a transport failure: the request never produced an HTTP
// response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FieldError is one entry of a backend validation error body, in the order
// the backend sent it.
type FieldError struct {
	Field    string
	Messages []string
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	Method string
	Path   string
	Status int
	// Detail is the backend's "detail" string when present.
	Detail string
	// Fields holds the other top-level keys of a JSON error body.
	Fields []FieldError
	Body   []byte
}

func (e *HTTPError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Flatten()
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s failed (%d): %s", e.Method, e.Path, e.Status, msg)
}

// Flatten joins every message of the error body, detail first, then each
// field in response order, with single spaces.
func (e *HTTPError) Flatten() string {
	var parts []string
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	for _, f := range e.Fields {
		parts = append(parts, f.Messages...)
	}
	return strings.Join(parts, " ")
}

// Unauthorized reports whether the response was a 401.
func (e *HTTPError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// IsUnauthorized reports whether err wraps a 401 HTTPError.
func IsUnauthorized(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Unauthorized()
}

// IsNetwork reports whether err wraps a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// newHTTPError reads the body and decodes DRF-style error payloads:
// {"detail": "..."} or {"field": ["msg", ...], "other": "msg"}.
func newHTTPError(method, path string, resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	he := &HTTPError{Method: method, Path: path, Status: resp.StatusCode, Body: body}
	he.Detail, he.Fields = parseErrorBody(body)
	return he
}

func parseErrorBody(body []byte) (string, []FieldError) {
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return "", nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		// Lists and bare strings are all messages.
		var msgs []string
		collect(body, &msgs)
		if len(msgs) == 0 {
			return "", nil
		}
		return "", []FieldError{{Field: "", Messages: msgs}}
	}

	var detail string
	var fields []FieldError
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			break
		}
		var msgs []string
		collect(raw, &msgs)
		if key == "detail" && len(msgs) > 0 {
			detail = strings.Join(msgs, " ")
			continue
		}
		if len(msgs) > 0 {
			fields = append(fields, FieldError{Field: key, Messages: msgs})
		}
	}
	return detail, fields
}

// collect appends every string (and number) found in raw, flattening
// nested arrays and objects depth-first.
func collect(raw json.RawMessage, out *[]string) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			*out = append(*out, t)
		case float64, bool:
			*out = append(*out, fmt.Sprint(t))
		case []any:
			for _, item := range t {
				walk(item)
			}
		case map[string]any:
			// Nested objects are rare; order is not preserved here.
			for _, item := range t {
				walk(item)
			}
		}
	}
	walk(v)
}
