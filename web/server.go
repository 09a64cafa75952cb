package web

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/dreitier/releasegate/cache"
	"github.com/dreitier/releasegate/config"
	"github.com/dreitier/releasegate/release"
	"github.com/dreitier/releasegate/remote"
	log "github.com/sirupsen/logrus"
)

// Listing is the cached view of the remote tree.
type Listing interface {
	Listing(ctx context.Context) ([]release.FileRecord, error)
	Invalidate()
	Snapshot() *cache.Snapshot
}

type Fetcher interface {
	Fetch(ctx context.Context, filePath string) (*remote.Download, error)
}

type Server struct {
	cfg       *config.Configuration
	listing   Listing
	downloads Fetcher
	handler   http.Handler
}

func NewServer(cfg *config.Configuration, listing Listing, downloads Fetcher) *Server {
	s := &Server{
		cfg:       cfg,
		listing:   listing,
		downloads: downloads,
	}
	s.handler = s.routes()

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start blocks until the server stops or fails to start.
func (s *Server) Start() error {
	listenAddr := fmt.Sprintf(":%d", s.cfg.Global().HttpPort())

	log.Infof("Starting webserver on %s", listenAddr)

	// optional tls.Config, by default we are not configuring TLS ciphers and let them as they are
	var tlsServerConfig *tls.Config
	var tlsNextProto map[string]func(*http.Server, *tls.Conn, http.Handler)

	userDefinedTlsConfiguration := s.cfg.Http().Tls

	if userDefinedTlsConfiguration != nil {
		// `strict: true` sets the TLS configuration to something SSLLabs prefers
		// @see https://gist.github.com/denji/12b3a568f092ab951456
		if userDefinedTlsConfiguration.IsStrict {
			tlsServerConfig = &tls.Config{
				MinVersion:       tls.VersionTLS12,
				CurvePreferences: []tls.CurveID{tls.CurveP521, tls.CurveP384, tls.CurveP256},
				CipherSuites: []uint16{
					tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
					tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
					tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
					tls.TLS_RSA_WITH_AES_256_CBC_SHA,
				},
			}
		}

		// an empty map disables HTTP/2
		tlsNextProto = make(map[string]func(*http.Server, *tls.Conn, http.Handler))
	}

	srv := &http.Server{
		Handler:      s.handler,
		Addr:         listenAddr,
		TLSConfig:    tlsServerConfig,
		TLSNextProto: tlsNextProto,
	}

	if userDefinedTlsConfiguration != nil {
		return srv.ListenAndServeTLS(userDefinedTlsConfiguration.CertificatePath, userDefinedTlsConfiguration.PrivateKeyPath)
	}

	// no TLS configuration present, work in unencrypted mode
	return srv.ListenAndServe()
}
