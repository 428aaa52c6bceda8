// Package api implements the handler set and the dispatcher: one
// handler per (route template, HTTP method) pair, looked up in a
// static registry built once at startup.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/newsline/newsline/internal/model"
	"github.com/newsline/newsline/internal/routes"
	"github.com/newsline/newsline/internal/store"
)

// Envelope is the {status, body} pair a handler returns and the
// transport serializes. A nil Body means an empty response body.
type Envelope struct {
	Status int
	Body   interface{}
}

// Route is a dispatch key.
type Route struct {
	Method   string
	Template routes.Template
}

// HandlerFunc validates input, mutates the store where relevant, and
// builds the response envelope. Handlers never touch net/http.
type HandlerFunc func(s *store.Store, path string, body json.RawMessage) Envelope

// Registry builds the full (template, method) -> handler table.
func Registry() map[Route]HandlerFunc {
	return map[Route]HandlerFunc{
		{http.MethodPost, routes.Users}:          getOrCreateUser,
		{http.MethodGet, routes.UserByName}:      getUser,
		{http.MethodGet, routes.Articles}:        getArticles,
		{http.MethodPost, routes.Articles}:       createArticle,
		{http.MethodGet, routes.ArticleByID}:     getArticle,
		{http.MethodPut, routes.ArticleByID}:     updateArticle,
		{http.MethodDelete, routes.ArticleByID}:  deleteArticle,
		{http.MethodPut, routes.ArticleUpvote}:   upvoteArticle,
		{http.MethodPut, routes.ArticleDownvote}: downvoteArticle,
		{http.MethodPost, routes.Comments}:       createComment,
		{http.MethodPut, routes.CommentByID}:     updateComment,
		{http.MethodDelete, routes.CommentByID}:  deleteComment,
		{http.MethodPut, routes.CommentUpvote}:   upvoteComment,
		{http.MethodPut, routes.CommentDownvote}: downvoteComment,
	}
}

// Dispatcher is the sole entry point the transport calls. Its mutex
// serializes request handling end to end, which is what makes the
// store safe without locking of its own.
type Dispatcher struct {
	mu       sync.Mutex
	store    *store.Store
	registry map[Route]HandlerFunc
}

// NewDispatcher wires a registry around the given store.
func NewDispatcher(s *store.Store) *Dispatcher {
	return &Dispatcher{store: s, registry: Registry()}
}

// Dispatch resolves the path to its template, looks up the (template,
// method) pair and invokes the handler. Unregistered pairs yield 400
// with no body, not 404; existing clients depend on that.
func (d *Dispatcher) Dispatch(method, path string, body json.RawMessage) Envelope {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, ok := d.registry[Route{Method: method, Template: routes.Resolve(path)}]
	if !ok {
		return Envelope{Status: http.StatusBadRequest}
	}

	return h(d.store, path, body)
}

// Snapshot copies the store under the same lock that serializes
// dispatch, so the persistence boundary always sees consistent state.
func (d *Dispatcher) Snapshot() *model.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.store.Snapshot()
}
