package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind is the closed set of ways an API call can fail.
type Kind int

const (
	// KindTransport covers network failures and HTTP errors without an envelope.
	KindTransport Kind = iota + 1
	// KindBusiness is an envelope with success=false.
	KindBusiness
	// KindUnauthorized is an HTTP 401: the token is missing, expired or revoked.
	KindUnauthorized
	// KindDecode means the response body was not a valid envelope.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindBusiness:
		return "business"
	case KindUnauthorized:
		return "unauthorized"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method that fails.
type Error struct {
	Kind    Kind
	Op      string // "GET /session/active"
	Status  int    // HTTP status, 0 when the request never completed
	Message string // server message, if any
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// Message picks the text a screen should show for err: the server's message
// when there is one, then the first field validation error, then fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return fallback
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if len(apiErr.Fields) > 0 {
		keys := make([]string, 0, len(apiErr.Fields))
		for k := range apiErr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msgs := apiErr.Fields[k]; len(msgs) > 0 {
				return msgs[0]
			}
		}
	}
	return fallback
}

// IsNotFound reports whether the backend answered 404, e.g. a user with no
// account yet.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
