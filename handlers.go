package main

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jamoo-dev/curtain/pkg/content"
	"github.com/jamoo-dev/curtain/pkg/feed"
	"github.com/jamoo-dev/curtain/pkg/percent"
	"github.com/jamoo-dev/curtain/pkg/render"
	"github.com/pkg/errors"
)

const (
	headerContentType   = "Content-Type"
	headerContentLength = "Content-Length"

	mimeHTML    = "text/html; charset=utf-8"
	mimeText    = "text/plain; charset=utf-8"
	dateLayout  = "2006-01-02"
	indexPage   = "index"
	postPage    = "post"
	paramAfter  = "after"
	varPostID   = "id"
	varTemplate = "template"
	varFileName = "file"
)

var errBadRequest = errors.New("bad request")

func respond(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set(headerContentType, contentType)
	w.Header().Set(headerContentLength, strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// parseAfter reads the optional "after" query parameter, given in Unix
// seconds. Without it every entry is listed.
func parseAfter(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get(paramAfter)
	if raw == "" {
		return time.Time{}, nil
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, errors.Wrapf(errBadRequest, "invalid %s parameter %q", paramAfter, raw)
	}
	return time.Unix(seconds, 0), nil
}

func (s *Server) site() map[string]interface{} {
	return map[string]interface{}{
		"title":       s.config.SiteTitle,
		"url":         s.config.SiteURL,
		"description": s.config.SiteDescription,
		"author":      s.config.SiteAuthor,
		"version":     version(),
	}
}

func (s *Server) list(limit int, r *http.Request) ([]content.Entry, error) {
	after, err := parseAfter(r)
	if err != nil {
		return nil, err
	}

	var entries []content.Entry
	measure(metricListTime, func() {
		entries, err = s.posts.List(limit, after)
	})
	if err != nil {
		return nil, err
	}

	metricEntriesListed.Add(uint64(len(entries)))
	return entries, nil
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	entries, err := s.list(s.config.PostsPerPage, r)
	if s.respondError(w, r, err) {
		return
	}

	posts := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		posts = append(posts, map[string]string{
			"title": entry.Title,
			"url":   entry.URLPath(),
			"date":  entry.ModTime.Format(dateLayout),
		})
	}

	body, err := s.pages.Render(indexPage, map[string]interface{}{
		"site":  s.site(),
		"posts": posts,
	})
	if s.respondError(w, r, err) {
		return
	}

	respond(w, mimeHTML, []byte(body))
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	entries, err := s.list(s.config.FeedSize, r)
	if s.respondError(w, r, err) {
		return
	}

	items := make([]feed.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, feed.Item{
			Title:     entry.Title,
			Path:      entry.URLPath(),
			Published: entry.ModTime,
		})
	}

	rss, err := feed.Build(feed.Channel{
		Title:       s.config.SiteTitle,
		Link:        s.config.SiteURL,
		Description: s.config.SiteDescription,
		Author:      s.config.SiteAuthor,
	}, items)
	if s.respondError(w, r, err) {
		return
	}

	respond(w, feed.ContentType, []byte(rss))
}

func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	entry, err := s.posts.Resolve(mux.Vars(r)[varPostID])
	if err != nil {
		metricResolveFailed.Add(1)
		s.respondError(w, r, err)
		return
	}

	raw, err := s.posts.Read(entry)
	if s.respondError(w, r, err) {
		return
	}

	var doc *render.Document
	measure(metricRenderTime, func() {
		doc, err = s.renderer.Render(raw)
	})
	if s.respondError(w, r, errors.WithMessagef(err, "rendering %s", entry.Path)) {
		return
	}

	title := doc.Title
	if title == "" {
		title = entry.Title
	}
	date := doc.Date
	if date.IsZero() {
		date = entry.ModTime
	}

	body, err := s.pages.Render(postPage, map[string]interface{}{
		"site": s.site(),
		"post": map[string]string{
			"title": title,
			"date":  date.Format(dateLayout),
			"url":   entry.URLPath(),
			"body":  doc.HTML,
		},
	})
	if s.respondError(w, r, err) {
		return
	}

	respond(w, mimeHTML, []byte(body))
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	name, err := percent.Decode(mux.Vars(r)[varTemplate])
	if s.respondError(w, r, err) {
		return
	}

	body, err := s.pages.Render(string(name), map[string]interface{}{
		"site": s.site(),
	})
	if s.respondError(w, r, err) {
		return
	}

	respond(w, mimeHTML, []byte(body))
}

func (s *Server) staticFile(w http.ResponseWriter, r *http.Request) {
	entry, err := s.static.Resolve(mux.Vars(r)[varFileName])
	if s.respondError(w, r, err) {
		return
	}

	body, err := s.static.Read(entry)
	if s.respondError(w, r, err) {
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(entry.Path))
	if contentType == "" {
		contentType = mimeText
	}

	respond(w, contentType, body)
}
