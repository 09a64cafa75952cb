package config

import (
	"errors"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultRootURL         = "https://api.github.com/repos/ASD-T2/ASD_Installer-repo/contents/installers"
	DefaultTokenScheme     = "token"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultDownloadTimeout = 5 * time.Minute
	DefaultMaxDepth        = 16
)

type RemoteConfiguration struct {
	RootURL           string
	Token             string
	TokenScheme       string
	RequestTimeout    time.Duration
	DownloadTimeout   time.Duration
	MaxDepth          int
	RequestsPerSecond float64
}

// AuthorizationHeader returns the value of the Authorization header or an empty string for anonymous access
func (r *RemoteConfiguration) AuthorizationHeader() string {
	if r.Token == "" {
		return ""
	}
	if r.TokenScheme == "" {
		return r.Token
	}
	return r.TokenScheme + " " + r.Token
}

func parseRemote(cfg Raw) (*RemoteConfiguration, error) {
	if cfg == nil {
		cfg = Raw{}
	}

	remote := &RemoteConfiguration{
		RootURL:         DefaultRootURL,
		TokenScheme:     DefaultTokenScheme,
		RequestTimeout:  DefaultRequestTimeout,
		DownloadTimeout: DefaultDownloadTimeout,
		MaxDepth:        DefaultMaxDepth,
	}

	if cfg.Has("root_url") {
		remote.RootURL = cfg.String("root_url")
	}

	parsed, err := url.Parse(remote.RootURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.New("'remote.root_url' must be an absolute URL")
	}

	remote.Token = cfg.String("token")

	if cfg.Has("token_scheme") {
		remote.TokenScheme = cfg.String("token_scheme")
	}

	if cfg.Has("request_timeout") {
		remote.RequestTimeout = cfg.Duration("request_timeout")
	}

	if remote.RequestTimeout <= 0 {
		log.Warnf("Request timeout must be positive, defaulting to %s", DefaultRequestTimeout)
		remote.RequestTimeout = DefaultRequestTimeout
	}

	if cfg.Has("download_timeout") {
		remote.DownloadTimeout = cfg.Duration("download_timeout")
	}

	if remote.DownloadTimeout <= 0 {
		log.Warnf("Download timeout must be positive, defaulting to %s", DefaultDownloadTimeout)
		remote.DownloadTimeout = DefaultDownloadTimeout
	}

	if cfg.Has("max_depth") {
		remote.MaxDepth = int(cfg.Int64("max_depth"))
	}

	if remote.MaxDepth < 1 {
		log.Warnf("Max depth must be at least 1, defaulting to %d", DefaultMaxDepth)
		remote.MaxDepth = DefaultMaxDepth
	}

	remote.RequestsPerSecond = cfg.Float64("requests_per_second")
	if remote.RequestsPerSecond < 0 {
		remote.RequestsPerSecond = 0
	}

	return remote, nil
}
