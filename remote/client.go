package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dreitier/releasegate/config"
	"github.com/google/go-github/v60/github"
	log "github.com/sirupsen/logrus"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/time/rate"
)

const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// Node is a single item of a directory listing as returned by the contents API.
type Node = github.RepositoryContent

// Client issues single, unretried requests against the remote contents API.
type Client struct {
	api             *github.Client
	authorization   string
	requestTimeout  time.Duration
	downloadTimeout time.Duration
	limiter         *rate.Limiter
}

func NewClient(cfg *config.RemoteConfiguration) *Client {
	return NewClientWithHttpClient(cfg, &http.Client{})
}

func NewClientWithHttpClient(cfg *config.RemoteConfiguration, httpClient *http.Client) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		api:             github.NewClient(httpClient),
		authorization:   cfg.AuthorizationHeader(),
		requestTimeout:  cfg.RequestTimeout,
		downloadTimeout: cfg.DownloadTimeout,
		limiter:         rate.NewLimiter(limit, 1),
	}
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(&TransportError{URL: url, Err: err})
	}

	req, err := c.api.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithStack(&TransportError{URL: url, Err: err})
	}

	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}

	return req, nil
}

// classify turns the outcome of a request into one of the typed remote errors
func classify(url string, resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil {
		if err == nil {
			return nil
		}
		return errors.WithStack(&TransportError{URL: url, Err: err})
	}

	if resp.StatusCode != http.StatusOK {
		var rateLimit *github.RateLimitError
		var abuse *github.AbuseRateLimitError
		rateLimited := errors.As(err, &rateLimit) || errors.As(err, &abuse)

		return statusError(url, resp.StatusCode, rateLimited)
	}

	if err != nil {
		return errors.WrapWith(err, ErrMalformedResponse)
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, url string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	var body json.RawMessage
	resp, err := c.api.Do(ctx, req, &body)

	if err = classify(url, resp, err); err != nil {
		return nil, err
	}

	return body, nil
}

// ListDirectory fetches the items of the directory listed at url.
func (c *Client) ListDirectory(ctx context.Context, url string) ([]*Node, error) {
	body, err := c.getJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	var items []*Node
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errors.WrapWith(err, ErrMalformedResponse)
	}

	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("Listing of %s: %s", url, dump(items))
	}

	return items, nil
}

// GetFile fetches the metadata of a single file. Directories are reported as not found.
func (c *Client) GetFile(ctx context.Context, url string) (*Node, error) {
	body, err := c.getJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, errors.WithStack(&NotFoundError{URL: url})
	}

	var item Node
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, errors.WrapWith(err, ErrMalformedResponse)
	}

	return &item, nil
}

// Open starts fetching raw content. The returned body must be closed by the caller.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, c.downloadTimeout)

	req, err := c.newRequest(ctx, url)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	resp, err := c.api.BareDo(ctx, req)

	// the body of a failed response has already been closed by BareDo
	if err = classify(url, resp, err); err != nil {
		cancel()
		return nil, nil, err
	}

	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, resp.Header, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
