package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dreitier/releasegate/metrics"
	"github.com/goji/httpauth"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	DashboardRoute = "/dashboard"
	FilesRoute     = "/api/files"
	DownloadPrefix = "/download/"
	RefreshRoute   = "/refresh"

	RequestIdHeader = "X-Request-Id"

	realm = "releasegate"
)

type contextKey int

const loggerKey contextKey = iota

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter().UseEncodedPath()
	router.Use(withRequestId)

	// neither metrics nor health checks are gated
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", HealthHandler).Methods(http.MethodGet)

	gated := router.NewRoute().Subrouter()
	gated.Use(s.gate())

	gated.HandleFunc("/", BaseHandler).Methods(http.MethodGet)
	gated.HandleFunc(DashboardRoute, s.DashboardHandler).Methods(http.MethodGet)
	gated.HandleFunc(FilesRoute, s.FilesHandler).Methods(http.MethodGet)
	gated.HandleFunc(DownloadPrefix+"{path:.+}", s.DownloadHandler).Methods(http.MethodGet)
	gated.HandleFunc(RefreshRoute, s.RefreshHandler).Methods(http.MethodPost)

	return router
}

func (s *Server) gate() mux.MiddlewareFunc {
	credentials := s.cfg.Http().BasicAuth

	return httpauth.BasicAuth(httpauth.AuthOptions{
		Realm:               realm,
		User:                credentials.Username,
		Password:            credentials.Password,
		UnauthorizedHandler: http.HandlerFunc(unauthorized),
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	requestLogger(r).Warnf("Rejected unauthenticated request for %s", r.URL.Path)

	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}

func withRequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(RequestIdHeader)
		if _, err := uuid.Parse(requestId); err != nil {
			requestId = uuid.NewString()
		}

		w.Header().Set(RequestIdHeader, requestId)

		logger := log.WithFields(log.Fields{
			"request_id": requestId,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		logger.Debug("Handling request")

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey, logger)))
	})
}

func requestLogger(r *http.Request) *log.Entry {
	if logger, ok := r.Context().Value(loggerKey).(*log.Entry); ok {
		return logger
	}
	return log.NewEntry(log.StandardLogger())
}

// BaseHandler sends operators to the dashboard.
func BaseHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, DashboardRoute, http.StatusFound)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func unescape(vars map[string]string) {
	for key, val := range vars {
		val, err := url.PathUnescape(val)
		if err == nil {
			vars[key] = val
		}
	}
}
