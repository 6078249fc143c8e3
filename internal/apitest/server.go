// Package apitest is an in-memory fake of the Krepsys REST API for tests.
// Every route counts its requests so callers can assert on traffic.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
)

// Server is a running fake backend
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	feeds      map[int64]*model.Feed
	articles   map[int64]*model.Article
	tags       map[string]model.Tag
	highlights map[int64]*model.Highlight
	nextID     int64
	counts     map[string]int
	failures   map[string]failure
	gates      map[string]chan struct{}
	now        time.Time
}

type failure struct {
	status int
	detail string
}

// New starts a fake server; it is closed with t.Cleanup by callers
func New() *Server {
	s := &Server{
		feeds:      map[int64]*model.Feed{},
		articles:   map[int64]*model.Article{},
		tags:       map[string]model.Tag{},
		highlights: map[int64]*model.Highlight{},
		counts:     map[string]int{},
		failures:   map[string]failure{},
		gates:      map[string]chan struct{}{},
		now:        time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/feeds", func(r chi.Router) {
		r.Get("/", s.track(s.listFeeds))
		r.Post("/", s.track(s.createFeed))
		r.Get("/{id}", s.track(s.getFeed))
		r.Patch("/{id}", s.track(s.updateFeed))
		r.Delete("/{id}", s.track(s.deleteFeed))
		r.Post("/{id}/refresh", s.track(s.refreshFeed))
	})

	r.Route("/api/articles", func(r chi.Router) {
		r.Get("/", s.track(s.listArticles))
		r.Get("/tags/all", s.track(s.listTags))
		r.Patch("/highlights/{id}", s.track(s.updateHighlight))
		r.Delete("/highlights/{id}", s.track(s.deleteHighlight))
		r.Get("/{id}/", s.track(s.getArticle))
		r.Patch("/{id}/", s.track(s.updateArticle))
		r.Post("/{id}/tags", s.track(s.addTag))
		r.Delete("/{id}/tags/{name}", s.track(s.removeTag))
		r.Get("/{id}/highlights", s.track(s.listHighlights))
		r.Post("/{id}/highlights", s.track(s.createHighlight))
	})

	return r
}

// track records "METHOD pattern" for a routed request and applies any
// injected failure or gate for that route
func (s *Server) track(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, chi.RouteContext(r.Context()).RoutePattern())

		s.mu.Lock()
		s.counts[key]++
		f, failing := s.failures[key]
		if failing {
			delete(s.failures, key)
		}
		gate := s.gates[key]
		s.mu.Unlock()

		if gate != nil {
			<-gate
		}
		if failing {
			writeError(w, f.status, f.detail)
			return
		}
		next(w, r)
	}
}

// routeKey ignores a trailing slash: chi reports "/api/articles/{id}" for
// a route registered as "/{id}/" under "/api/articles"
func routeKey(method, pattern string) string {
	if pattern != "/" {
		pattern = strings.TrimSuffix(pattern, "/")
	}
	return method + " " + pattern
}

// Count returns how many requests hit method+pattern, e.g.
// Count("PATCH", "/api/articles/{id}/")
func (s *Server) Count(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[routeKey(method, pattern)]
}

// ResetCounts clears the request counters
func (s *Server) ResetCounts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = map[string]int{}
}

// FailNext makes the next request on method+pattern return status with detail
func (s *Server) FailNext(method, pattern string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey(method, pattern)] = failure{status: status, detail: detail}
}

// Hold blocks requests on method+pattern until the returned release is called
func (s *Server) Hold(method, pattern string) (release func()) {
	gate := make(chan struct{})
	key := routeKey(method, pattern)
	s.mu.Lock()
	s.gates[key] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, key)
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// AddFeed seeds a feed
func (s *Server) AddFeed(name, feedURL string) model.Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &model.Feed{ID: s.id(), Name: name, URL: feedURL, IsActive: true, CreatedAt: model.NewTimestamp(s.now)}
	s.feeds[f.ID] = f
	return *f
}

// AddArticle seeds an article; a zero ID is assigned
func (s *Server) AddArticle(a model.Article) model.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	} else if a.ID > s.nextID {
		s.nextID = a.ID
	}
	if a.FetchedAt.IsZero() {
		a.FetchedAt = model.NewTimestamp(s.now)
	}
	if a.Tags == nil {
		a.Tags = []model.Tag{}
	}
	cp := a
	s.articles[a.ID] = &cp
	return cp
}

// AddHighlight seeds a highlight
func (s *Server) AddHighlight(articleID int64, text string, color model.Color) model.Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &model.Highlight{ID: s.id(), ArticleID: articleID, Text: text, Color: color, CreatedAt: model.NewTimestamp(s.now)}
	s.highlights[h.ID] = h
	return *h
}

// Article returns the stored copy of an article
func (s *Server) Article(id int64) (model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return model.Article{}, false
	}
	return *a, true
}

// SetArticle overwrites fields server side, as if another client changed them
func (s *Server) SetArticle(a model.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := a
	s.articles[a.ID] = &cp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (s *Server) listFeeds(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	feeds := make([]model.Feed, 0, len(s.feeds))
	for _, f := range s.feeds {
		feeds = append(feeds, *f)
	}
	sort.Slice(feeds, func(i, j int) bool { return feeds[i].ID < feeds[j].ID })
	writeJSON(w, http.StatusOK, feeds)
}

func (s *Server) createFeed(w http.ResponseWriter, r *http.Request) {
	var req model.FeedCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "url"}, "msg": "invalid or missing URL scheme"}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feeds {
		if f.URL == req.URL {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Feed with URL %s already exists", req.URL))
			return
		}
	}
	f := &model.Feed{ID: s.id(), Name: req.Name, URL: req.URL, IsActive: true, FetchInterval: 3600, CreatedAt: model.NewTimestamp(s.now)}
	s.feeds[f.ID] = f
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feeds[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Feed with id %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) updateFeed(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var req model.FeedUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feeds[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Feed with id %d not found", id))
		return
	}
	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) deleteFeed(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.feeds[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Feed with id %d not found", id))
		return
	}
	delete(s.feeds, id)
	for aid, a := range s.articles {
		if a.FeedID == id {
			delete(s.articles, aid)
			for hid, h := range s.highlights {
				if h.ArticleID == aid {
					delete(s.highlights, hid)
				}
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) refreshFeed(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feeds[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Feed with id %d not found", id))
		return
	}
	f.LastFetched = model.NewTimestamp(s.now)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Feed refresh scheduled"})
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	f, err := filter.FromValues(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	order, err := filter.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	articles := make([]model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		articles = append(articles, *a)
	}
	articles = f.Apply(articles)
	sort.Slice(articles, func(i, j int) bool {
		ti, tj := articles[i].DisplayTime(), articles[j].DisplayTime()
		if ti.Equal(tj) {
			return articles[i].ID < articles[j].ID
		}
		if order == filter.Oldest {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var req model.ArticleUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	if req.IsRead != nil {
		a.IsRead = *req.IsRead
	}
	if req.IsSaved != nil {
		a.IsSaved = *req.IsSaved
	}
	if req.IsArchived != nil {
		a.IsArchived = *req.IsArchived
	}
	if req.Note != nil {
		note := *req.Note
		a.Note = &note
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make([]model.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) addTag(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var req model.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		writeError(w, http.StatusBadRequest, "Tag name required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	tag, ok := s.tags[name]
	if !ok {
		tag = model.Tag{ID: s.id(), Name: name}
		s.tags[name] = tag
	}
	if !a.HasTag(name) {
		a.Tags = append(a.Tags, tag)
	}
	writeJSON(w, http.StatusOK, a.Tags)
}

func (s *Server) removeTag(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tag name")
		return
	}
	name = strings.ToLower(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	kept := a.Tags[:0]
	for _, t := range a.Tags {
		if t.Name != name {
			kept = append(kept, t)
		}
	}
	a.Tags = kept
	writeJSON(w, http.StatusOK, a.Tags)
}

func (s *Server) listHighlights(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	out := []model.Highlight{}
	for _, h := range s.highlights {
		if h.ArticleID == id {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createHighlight(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var req model.HighlightCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if !req.Color.Valid() {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid color %q", req.Color))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	h := &model.Highlight{ID: s.id(), ArticleID: id, Text: req.Text, Color: req.Color, Note: req.Note, CreatedAt: model.NewTimestamp(s.now)}
	s.highlights[h.ID] = h
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) updateHighlight(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var req model.HighlightUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.highlights[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Highlight not found")
		return
	}
	if req.Color != nil {
		h.Color = *req.Color
	}
	if req.Note != nil {
		note := *req.Note
		h.Note = &note
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) deleteHighlight(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.highlights[id]; !ok {
		writeError(w, http.StatusNotFound, "Highlight not found")
		return
	}
	delete(s.highlights, id)
	w.WriteHeader(http.StatusNoContent)
}
