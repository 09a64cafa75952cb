// Package remotetest provides an in-process fake of the remote contents API.
package remotetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"sync"
	"testing"
)

const ContentsPrefix = "/contents/installers"

type Item map[string]interface{}

type FakeAPI struct {
	server *httptest.Server

	mu             sync.Mutex
	routes         map[string]http.HandlerFunc
	hits           map[string]int
	authorizations []string
	queries        []string
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	f := &FakeAPI{
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)

	return f
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.authorizations = append(f.authorizations, r.Header.Get("Authorization"))
	f.queries = append(f.queries, r.URL.RawQuery)
	handler := f.routes[r.URL.Path]
	f.mu.Unlock()

	if handler == nil {
		WriteJSON(w, http.StatusNotFound, Item{"message": "Not Found"})
		return
	}

	handler(w, r)
}

// URL is the base URL of the fake server.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// RootURL is the contents URL of the listed root directory.
func (f *FakeAPI) RootURL() string {
	return f.server.URL + ContentsPrefix
}

func (f *FakeAPI) Close() {
	f.server.Close()
}

func (f *FakeAPI) Handle(urlPath string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[urlPath] = handler
}

// ContentsPath is the request path of the contents endpoint for a root relative path.
func ContentsPath(relative string) string {
	if relative == "" {
		return ContentsPrefix
	}
	return ContentsPrefix + "/" + relative
}

// RawPath is the request path serving the raw content of a root relative file.
func RawPath(relative string) string {
	return "/raw/" + relative
}

// Listing serves items as the directory listing of relative.
func (f *FakeAPI) Listing(relative string, items ...Item) {
	if items == nil {
		items = []Item{}
	}
	f.Handle(ContentsPath(relative), func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, items)
	})
}

// Status makes the contents endpoint of relative answer with the given status code.
func (f *FakeAPI) Status(relative string, statusCode int) {
	f.Handle(ContentsPath(relative), func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, statusCode, Item{"message": http.StatusText(statusCode)})
	})
}

// File registers the metadata and the raw content of relative and returns its listing item.
func (f *FakeAPI) File(relative string, content string) Item {
	item := f.FileItem(relative, len(content))

	f.Handle(ContentsPath(relative), func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, item)
	})
	f.Handle(RawPath(relative), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte(content))
	})

	return item
}

func (f *FakeAPI) FileItem(relative string, size int) Item {
	return Item{
		"type":         "file",
		"name":         path.Base(relative),
		"path":         "installers/" + relative,
		"size":         size,
		"download_url": f.server.URL + escapePath(RawPath(relative)),
		"url":          f.server.URL + escapePath(ContentsPath(relative)),
	}
}

func (f *FakeAPI) DirItem(relative string) Item {
	return Item{
		"type":         "dir",
		"name":         path.Base(relative),
		"path":         "installers/" + relative,
		"size":         0,
		"download_url": nil,
		"url":          f.server.URL + escapePath(ContentsPath(relative)),
	}
}

// escapePath escapes every segment of urlPath the way the remote API does in item URLs.
func escapePath(urlPath string) string {
	segments := strings.Split(urlPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func (f *FakeAPI) Hits(urlPath string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[urlPath]
}

func (f *FakeAPI) Authorizations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authorizations...)
}

func (f *FakeAPI) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
