package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dreitier/releasegate/release"
)

//go:embed templates/*.html
var templateFiles embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"downloadLink": downloadLink,
}).ParseFS(templateFiles, "templates/dashboard.html"))

// downloadLink escapes every segment of filePath, DownloadHandler unescapes it again.
func downloadLink(filePath string) string {
	segments := strings.Split(filePath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return DownloadPrefix + strings.Join(segments, "/")
}

type dashboardPage struct {
	Username     string
	Files        []release.FileRecord
	Error        string
	FetchedAt    string
	RefreshRoute string
}

func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	username, _, _ := r.BasicAuth()

	page := dashboardPage{
		Username:     username,
		RefreshRoute: RefreshRoute,
	}

	files, err := s.listing.Listing(r.Context())
	if err != nil {
		requestLogger(r).Errorf("Unable to list files for the dashboard: %s", err)
		page.Error = err.Error()
	} else {
		page.Files = files
		if snapshot := s.listing.Snapshot(); snapshot != nil {
			page.FetchedAt = snapshot.FetchedAt.Format(time.RFC1123)
		}
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		requestLogger(r).Errorf("Unable to render dashboard: %s", err)
		plainText(w, http.StatusInternalServerError, "Unable to render dashboard")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
