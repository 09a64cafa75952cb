package remote

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dreitier/releasegate/metrics"
	"github.com/dreitier/releasegate/release"
	log "github.com/sirupsen/logrus"
	"gitlab.com/tozd/go/errors"
)

// PathFilter decides whether a discovered file becomes part of the listing.
type PathFilter interface {
	IsPathIncluded(path string) bool
}

// Skipped records a directory node whose subtree could not be listed.
type Skipped struct {
	URL    string
	Path   string
	Reason error
}

type WalkResult struct {
	Records []release.FileRecord
	Skipped []Skipped
}

func (r *WalkResult) skip(url string, path string, reason error) {
	log.Warnf("Skipping %s (%s): %s", displayPath(path), url, reason)
	metrics.GetListingMetrics().NodeSkipped(ReasonLabel(reason))
	r.Skipped = append(r.Skipped, Skipped{URL: url, Path: path, Reason: reason})
}

// Walker lists all files below a root directory of the contents API, depth first.
type Walker struct {
	client   *Client
	rootURL  string
	maxDepth int
	filter   PathFilter
}

func NewWalker(client *Client, rootURL string, maxDepth int, filter PathFilter) *Walker {
	return &Walker{client: client, rootURL: rootURL, maxDepth: maxDepth, filter: filter}
}

// Walk returns every file below the root. Failing subdirectories are skipped and reported in
// the result; only a failure of the root directory itself is returned as error, together with
// an empty result.
func (w *Walker) Walk(ctx context.Context) (*WalkResult, error) {
	start := time.Now()
	result := &WalkResult{Records: []release.FileRecord{}}

	log.Debugf("Walking %s", w.rootURL)

	if err := w.walkNode(ctx, w.rootURL, "", 0, result); err != nil {
		log.Errorf("Failed to list root directory %s: %s", w.rootURL, err)
		metrics.GetListingMetrics().Walked(false, time.Since(start))
		return &WalkResult{Records: []release.FileRecord{}}, err
	}

	log.Infof("Found %d files below %s (%d directories skipped)", len(result.Records), w.rootURL, len(result.Skipped))
	metrics.GetListingMetrics().Walked(true, time.Since(start))

	return result, nil
}

func (w *Walker) walkNode(ctx context.Context, url string, prefix string, depth int, result *WalkResult) error {
	items, err := w.client.ListDirectory(ctx, url)
	if err != nil {
		return err
	}

	for _, item := range items {
		path := release.JoinPath(prefix, item.GetName())

		switch item.GetType() {
		case TypeFile:
			if w.filter != nil && !w.filter.IsPathIncluded(path) {
				continue
			}

			result.Records = append(result.Records, release.NewFileRecord(
				item.GetName(),
				path,
				int64(item.GetSize()),
				item.GetDownloadURL(),
			))
		case TypeDir:
			if depth+1 > w.maxDepth {
				result.skip(item.GetURL(), path, errors.WithStack(ErrMaxDepth))
				continue
			}

			if err := w.walkNode(ctx, item.GetURL(), path, depth+1, result); err != nil {
				result.skip(item.GetURL(), path, err)
			}
		default:
			log.Debugf("Ignoring %s of type %#q", path, item.GetType())
		}
	}

	return nil
}

// ReasonLabel is a short, fixed description of why a node has been skipped.
func ReasonLabel(reason error) string {
	var notFound *NotFoundError
	var forbidden *ForbiddenError
	var unexpected *UnexpectedStatusError
	var transport *TransportError

	switch {
	case errors.As(reason, &notFound):
		return "not_found"
	case errors.As(reason, &forbidden):
		return "forbidden"
	case errors.As(reason, &unexpected):
		return "unexpected_status"
	case errors.As(reason, &transport):
		return "transport"
	case errors.Is(reason, ErrMaxDepth):
		return "max_depth"
	case errors.Is(reason, ErrMalformedResponse):
		return "malformed"
	default:
		return "unknown"
	}
}

func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func dump(v interface{}) string {
	return spew.Sdump(v)
}
