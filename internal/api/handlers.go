package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/newsline/newsline/internal/errs"
	"github.com/newsline/newsline/internal/model"
	"github.com/newsline/newsline/internal/routes"
	"github.com/newsline/newsline/internal/store"
	"github.com/newsline/newsline/internal/vote"
)

// getOrCreateUser returns 201 with the new user, or 200 with the
// existing one when the username was already registered.
func getOrCreateUser(s *store.Store, path string, body json.RawMessage) Envelope {
	var req userRequest
	if err := decode(body, &req); err != nil {
		return Envelope{Status: http.StatusBadRequest}
	}

	u, created, err := s.GetOrCreateUser(req.Username)
	if err != nil {
		return Envelope{Status: http.StatusBadRequest}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	return Envelope{Status: status, Body: userResponse{User: u}}
}

// getUser returns the user together with its live articles and
// comments resolved from the id lists.
func getUser(s *store.Store, path string, body json.RawMessage) Envelope {
	u, err := s.User(pathUsername(path))
	if err != nil {
		return Envelope{Status: errStatus(err)}
	}

	return Envelope{Status: http.StatusOK, Body: userDetailResponse{
		User:         u,
		UserArticles: s.UserArticles(u),
		UserComments: s.UserComments(u),
	}}
}

func getArticles(s *store.Store, path string, body json.RawMessage) Envelope {
	return Envelope{Status: http.StatusOK, Body: articlesResponse{Articles: s.Articles()}}
}

func createArticle(s *store.Store, path string, body json.RawMessage) Envelope {
	var req articleRequest
	if err := decode(body, &req); err != nil || req.Article == nil {
		return Envelope{Status: http.StatusBadRequest}
	}

	// An unknown author is a client error here, not a 404.
	a, err := s.CreateArticle(req.Article.Title, req.Article.URL, req.Article.Username)
	if err != nil {
		return Envelope{Status: http.StatusBadRequest}
	}

	return Envelope{Status: http.StatusCreated, Body: articleResponse{Article: a}}
}

func getArticle(s *store.Store, path string, body json.RawMessage) Envelope {
	id, ok := pathID(path)
	if !ok {
		return Envelope{Status: http.StatusBadRequest}
	}

	a, err := s.Article(id)
	if err != nil {
		return Envelope{Status: errStatus(err)}
	}

	return Envelope{Status: http.StatusOK, Body: articleDetailResponse{
		Article: &articleView{Article: a, Comments: s.ResolveComments(a)},
	}}
}

func updateArticle(s *store.Store, path string, body json.RawMessage) Envelope {
	id, ok := pathID(path)
	if !ok {
		return Envelope{Status: http.StatusBadRequest}
	}

	var req articleRequest
	if err := decode(body, &req); err != nil || req.Article == nil {
		return Envelope{Status: http.StatusBadRequest}
	}

	a, err := s.UpdateArticle(id, req.Article.Title, req.Article.URL)
	if err != nil {
		return Envelope{Status: errStatus(err)}
	}

	return Envelope{Status: http.StatusOK, Body: articleResponse{Article: a}}
}

// deleteArticle answers 400 for a missing id, not 404. Inconsistent
// with deleteComment, kept for compatibility.
func deleteArticle(s *store.Store, path string, body json.RawMessage) Envelope {
	id, ok := pathID(path)
	if !ok {
		return Envelope{Status: http.StatusBadRequest}
	}

	if err := s.DeleteArticle(id); err != nil {
		return Envelope{Status: http.StatusBadRequest}
	}

	return Envelope{Status: http.StatusNoContent}
}

func upvoteArticle(s *store.Store, path string, body json.RawMessage) Envelope {
	return voteArticle(s, path, body, vote.Upvote)
}

func downvoteArticle(s *store.Store, path string, body json.RawMessage) Envelope {
	return voteArticle(s, path, body, vote.Downvote)
}

// voteArticle checks the preconditions the vote engine itself does
// not: the voter and the article must both exist. Any miss is a
// client error.
func voteArticle(s *store.Store, path string, body json.RawMessage, apply func(model.Votable, string)) Envelope {
	id, ok := pathID(path)
	if !ok {
		return Envelope{Status: http.StatusBadRequest}
	}

	username, ok := voter(s, body)
	if !ok {
		return Envelope{Status: http.StatusBadRequest}
	}

	a, err := s.Article(id)
	if err != nil {
		return Envelope{Status: http.StatusBadRequest}
	}
	apply(a, username)

	return Envelope{Status: http.StatusOK, Body: articleResponse{Article: a}}
}

func createComment(s *store.Store, path string, body json.RawMessage) Envelope {
	var req commentRequest
	if err := decode(body, &req); err != nil || req.Comment == nil {
		return Envelope{Status: http.StatusBadRequest}
	}

	c, err := s.CreateComment(req.Comment.Body, req.Comment.Username, req.Comment.ArticleID)
	if err != nil {
		return Envelope{Status: http.StatusBadRequest}
	}

	return Envelope{Status: http.StatusCreated, Body: commentResponse{Comment: c}}
}

func updateComment(s *store.Store, path string, body json.RawMessage) Envelope {
	id, ok := pathID(path)
	if !ok {
		return Envelope{Status: http.StatusBadRequest}
	}

	var req commentRequest
	if err := decode(body, &req); err != nil || req.Comment == nil {
		return Envelope{Status: http.StatusBadRequest}
	}

	c, err := s.UpdateComment(id, req.Comment.Body)
	if err != nil {
		return Envelope{Status: errStatus(err)}
	}

	return Envelope{Status: http.StatusOK, Body: commentResponse{Comment: c}}
}

// deleteComment answers 404 for anything that does not name a live
// comment, including an unparsable id.
func deleteComment(s *store.Store, path string, body json.RawMessage) Envelope {
	id, ok := pathID(path)
	if !ok {
		return Envelope{Status: http.StatusNotFound}
	}

	if err := s.DeleteComment(id); err != nil {
		return Envelope{Status: http.StatusNotFound}
	}

	return Envelope{Status: http.StatusNoContent}
}

func upvoteComment(s *store.Store, path string, body json.RawMessage) Envelope {
	return voteComment(s, path, body, vote.Upvote)
}

func downvoteComment(s *store.Store, path string, body json.RawMessage) Envelope {
	return voteComment(s, path, body, vote.Downvote)
}

func voteComment(s *store.Store, path string, body json.RawMessage, apply func(model.Votable, string)) Envelope {
	id, ok := pathID(path)
	if !ok {
		return Envelope{Status: http.StatusBadRequest}
	}

	username, ok := voter(s, body)
	if !ok {
		return Envelope{Status: http.StatusBadRequest}
	}

	c, err := s.Comment(id)
	if err != nil {
		return Envelope{Status: http.StatusBadRequest}
	}
	apply(c, username)

	return Envelope{Status: http.StatusOK, Body: commentResponse{Comment: c}}
}

// voter extracts and checks the voting username from a request body.
func voter(s *store.Store, body json.RawMessage) (string, bool) {
	var req voteRequest
	if err := decode(body, &req); err != nil || req.Username == "" {
		return "", false
	}
	if _, err := s.User(req.Username); err != nil {
		return "", false
	}

	return req.Username, true
}

func decode(body json.RawMessage, v interface{}) error {
	if body == nil {
		return errs.NewValidationError("body", "missing request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errs.NewValidationError("body", err.Error())
	}

	return nil
}

// pathID parses the second path segment as an entity id. Zero and
// negative values never name an entity, so they are rejected here.
func pathID(path string) (int, bool) {
	segs := routes.Segments(path)
	if len(segs) < 2 {
		return 0, false
	}

	id, err := strconv.Atoi(segs[1])
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func pathUsername(path string) string {
	segs := routes.Segments(path)
	if len(segs) < 2 {
		return ""
	}

	return segs[1]
}

func errStatus(err error) int {
	if errs.IsNotFound(err) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}
