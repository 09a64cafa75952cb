package remote

import (
	"fmt"
	"net/http"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrMalformedResponse = errors.Base("malformed response from remote API")
	ErrMaxDepth          = errors.Base("maximum directory depth exceeded")
	ErrInvalidPath       = errors.Base("invalid file path")
)

// TransportError means the remote host could not be reached or did not answer in time.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to connect to remote API: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("repository or path not found: %s", e.URL)
}

type ForbiddenError struct {
	URL string
	// RateLimited is set when the remote API reported an exhausted rate limit
	RateLimited bool
}

func (e *ForbiddenError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("access forbidden, rate limit exceeded: %s", e.URL)
	}
	return fmt.Sprintf("access forbidden (rate limit or permissions): %s", e.URL)
}

type UnexpectedStatusError struct {
	URL        string
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("remote API returned status %d for %s", e.StatusCode, e.URL)
}

func statusError(url string, statusCode int, rateLimited bool) error {
	switch statusCode {
	case http.StatusNotFound:
		return errors.WithStack(&NotFoundError{URL: url})
	case http.StatusForbidden:
		return errors.WithStack(&ForbiddenError{URL: url, RateLimited: rateLimited})
	default:
		return errors.WithStack(&UnexpectedStatusError{URL: url, StatusCode: statusCode})
	}
}

// HttpStatus maps a remote error to the status code that is handed to our own clients.
func HttpStatus(err error) int {
	var notFound *NotFoundError
	var forbidden *ForbiddenError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidPath), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}
