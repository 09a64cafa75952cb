package remote

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/dreitier/releasegate/metrics"
	log "github.com/sirupsen/logrus"
	"gitlab.com/tozd/go/errors"
)

type Download struct {
	// Name is the last segment of the requested path, suggested as file name when saving
	Name        string
	Size        int64
	ContentType string
	Body        io.ReadCloser
}

// Downloader resolves single files below the root directory without consulting any cache.
type Downloader struct {
	client  *Client
	rootURL string
}

func NewDownloader(client *Client, rootURL string) *Downloader {
	return &Downloader{client: client, rootURL: rootURL}
}

// Fetch resolves filePath, relative to the root directory, to its download location and opens it.
func (d *Downloader) Fetch(ctx context.Context, filePath string) (download *Download, err error) {
	defer func() {
		metrics.GetListingMetrics().Downloaded(HttpStatus(err))
	}()

	segments, err := splitPath(filePath)
	if err != nil {
		return nil, err
	}

	metadataURL, err := d.metadataURL(segments)
	if err != nil {
		return nil, err
	}

	item, err := d.client.GetFile(ctx, metadataURL)
	if err != nil {
		log.Warnf("Cannot resolve %s: %s", filePath, err)
		return nil, err
	}

	if item.GetType() != TypeFile || item.GetDownloadURL() == "" {
		return nil, errors.WithStack(&NotFoundError{URL: metadataURL})
	}

	body, header, err := d.client.Open(ctx, item.GetDownloadURL())
	if err != nil {
		log.Warnf("Cannot download %s from %s: %s", filePath, item.GetDownloadURL(), err)
		return nil, err
	}

	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	log.Debugf("Streaming %s from %s", filePath, item.GetDownloadURL())

	return &Download{
		Name:        segments[len(segments)-1],
		Size:        int64(item.GetSize()),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (d *Downloader) metadataURL(segments []string) (string, error) {
	root, err := url.Parse(d.rootURL)
	if err != nil {
		return "", errors.Errorf("invalid root URL: %w", err)
	}

	// JoinPath expects escaped segments, file names may contain '%', '#' or '?'
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}

	// keeps query parameters like ?ref=main
	return root.JoinPath(escaped...).String(), nil
}

func splitPath(filePath string) ([]string, error) {
	trimmed := strings.Trim(filePath, "/")
	if trimmed == "" {
		return nil, errors.WithDetails(ErrInvalidPath, "path", filePath)
	}

	segments := strings.Split(trimmed, "/")
	for _, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			return nil, errors.WithDetails(ErrInvalidPath, "path", filePath)
		}
	}

	return segments, nil
}
