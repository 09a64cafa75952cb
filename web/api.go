package web

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dreitier/releasegate/release"
	"github.com/dreitier/releasegate/remote"
	"github.com/gorilla/mux"
)

type filesFailure struct {
	Error string               `json:"error"`
	Files []release.FileRecord `json:"files"`
}

func (s *Server) FilesHandler(w http.ResponseWriter, r *http.Request) {
	files, err := s.listing.Listing(r.Context())
	if err != nil {
		requestLogger(r).Errorf("Unable to list files: %s", err)
		writeJSON(w, http.StatusInternalServerError, filesFailure{Error: err.Error(), Files: []release.FileRecord{}})
		return
	}

	writeData(w, files)
}

func (s *Server) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	unescape(vars)
	filePath := vars["path"]

	logger := requestLogger(r).WithField("file", filePath)

	download, err := s.downloads.Fetch(r.Context(), filePath)
	if err != nil {
		statusCode := remote.HttpStatus(err)
		logger.Warnf("Download failed with status %d: %s", statusCode, err)

		switch statusCode {
		case http.StatusNotFound:
			fileNotFound(w, filePath)
		case http.StatusForbidden:
			fileForbidden(w, filePath)
		default:
			remoteFailed(w, err)
		}
		return
	}
	defer download.Body.Close()

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": download.Name}))
	if download.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(download.Size, 10))
	}

	// the status line is sent with the first byte, failures afterwards can only be logged
	written, err := io.Copy(w, download.Body)
	if err != nil {
		logger.Errorf("Streaming aborted after %d bytes: %s", written, err)
		return
	}

	logger.Debugf("Streamed %d bytes", written)
}

func (s *Server) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	s.listing.Invalidate()
	requestLogger(r).Info("Cache invalidated on request")

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, DashboardRoute, http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	b, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(b)
}

func fileNotFound(w http.ResponseWriter, file string) {
	plainText(w, http.StatusNotFound, "File '"+file+"' does not exist.")
}

func fileForbidden(w http.ResponseWriter, file string) {
	plainText(w, http.StatusForbidden, "Access to '"+file+"' is forbidden by the remote API.")
}

func remoteFailed(w http.ResponseWriter, err error) {
	plainText(w, http.StatusBadGateway, "Remote API error: "+err.Error())
}

func plainText(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(message))
}
