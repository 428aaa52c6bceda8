package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsline/newsline/internal/store"
)

func body(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	return raw
}

func seeded(t *testing.T) *Dispatcher {
	t.Helper()
	s := store.New()
	_, _, err := s.GetOrCreateUser("alice")
	require.NoError(t, err)

	return NewDispatcher(s)
}

func TestGetOrCreateUser(t *testing.T) {
	d := NewDispatcher(store.New())

	env := d.Dispatch(http.MethodPost, "/users", body(t, map[string]string{"username": "alice"}))
	require.Equal(t, http.StatusCreated, env.Status)
	resp, ok := env.Body.(userResponse)
	require.True(t, ok)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, []int{}, resp.User.ArticleIDs)
	assert.Equal(t, []int{}, resp.User.CommentIDs)

	// Same call again: 200, same body.
	env = d.Dispatch(http.MethodPost, "/users", body(t, map[string]string{"username": "alice"}))
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, resp, env.Body)

	env = d.Dispatch(http.MethodPost, "/users", body(t, map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, env.Status)

	env = d.Dispatch(http.MethodPost, "/users", nil)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestGetUser(t *testing.T) {
	d := seeded(t)

	env := d.Dispatch(http.MethodGet, "/users/alice", nil)
	require.Equal(t, http.StatusOK, env.Status)
	resp, ok := env.Body.(userDetailResponse)
	require.True(t, ok)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Empty(t, resp.UserArticles)
	assert.Empty(t, resp.UserComments)

	env = d.Dispatch(http.MethodGet, "/users/ghost", nil)
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestCreateArticle(t *testing.T) {
	d := seeded(t)

	env := d.Dispatch(http.MethodPost, "/articles", body(t, map[string]interface{}{
		"article": map[string]string{"title": "T", "url": "http://x", "username": "alice"},
	}))
	require.Equal(t, http.StatusCreated, env.Status)
	resp, ok := env.Body.(articleResponse)
	require.True(t, ok)
	assert.Equal(t, 1, resp.Article.ID)
	assert.Equal(t, []int{}, resp.Article.CommentIDs)
	assert.Equal(t, []string{}, resp.Article.UpvotedBy)
	assert.Equal(t, []string{}, resp.Article.DownvotedBy)

	tests := []struct {
		name string
		in   interface{}
	}{
		{"missing article key", map[string]string{"title": "T"}},
		{"missing title", map[string]interface{}{"article": map[string]string{"url": "http://x", "username": "alice"}}},
		{"unknown user", map[string]interface{}{"article": map[string]string{"title": "T", "url": "http://x", "username": "ghost"}}},
	}
	for _, tt := range tests {
		env := d.Dispatch(http.MethodPost, "/articles", body(t, tt.in))
		assert.Equal(t, http.StatusBadRequest, env.Status, tt.name)
	}
}

func TestGetArticle(t *testing.T) {
	d := seeded(t)
	d.Dispatch(http.MethodPost, "/articles", body(t, map[string]interface{}{
		"article": map[string]string{"title": "T", "url": "http://x", "username": "alice"},
	}))
	d.Dispatch(http.MethodPost, "/comments", body(t, map[string]interface{}{
		"comment": map[string]interface{}{"body": "hi", "username": "alice", "articleId": 1},
	}))

	env := d.Dispatch(http.MethodGet, "/articles/1", nil)
	require.Equal(t, http.StatusOK, env.Status)
	resp, ok := env.Body.(articleDetailResponse)
	require.True(t, ok)
	assert.Equal(t, 1, resp.Article.ID)
	require.Len(t, resp.Article.Comments, 1)
	assert.Equal(t, "hi", resp.Article.Comments[0].Body)

	// Never-created id: 404. Non-numeric id: 400.
	env = d.Dispatch(http.MethodGet, "/articles/999", nil)
	assert.Equal(t, http.StatusNotFound, env.Status)
	env = d.Dispatch(http.MethodGet, "/articles/abc", nil)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestGetArticlesNewestFirst(t *testing.T) {
	d := seeded(t)
	for _, title := range []string{"one", "two"} {
		d.Dispatch(http.MethodPost, "/articles", body(t, map[string]interface{}{
			"article": map[string]string{"title": title, "url": "http://x", "username": "alice"},
		}))
	}

	env := d.Dispatch(http.MethodGet, "/articles", nil)
	require.Equal(t, http.StatusOK, env.Status)
	resp, ok := env.Body.(articlesResponse)
	require.True(t, ok)
	require.Len(t, resp.Articles, 2)
	assert.Equal(t, 2, resp.Articles[0].ID)
	assert.Equal(t, 1, resp.Articles[1].ID)
}

func TestUpdateArticle(t *testing.T) {
	d := seeded(t)
	d.Dispatch(http.MethodPost, "/articles", body(t, map[string]interface{}{
		"article": map[string]string{"title": "T", "url": "http://x", "username": "alice"},
	}))

	env := d.Dispatch(http.MethodPut, "/articles/1", body(t, map[string]interface{}{
		"article": map[string]string{"title": "T2"},
	}))
	require.Equal(t, http.StatusOK, env.Status)
	resp, ok := env.Body.(articleResponse)
	require.True(t, ok)
	assert.Equal(t, "T2", resp.Article.Title)
	assert.Equal(t, "http://x", resp.Article.URL)

	env = d.Dispatch(http.MethodPut, "/articles/1", nil)
	assert.Equal(t, http.StatusBadRequest, env.Status)

	env = d.Dispatch(http.MethodPut, "/articles/99", body(t, map[string]interface{}{
		"article": map[string]string{"title": "T2"},
	}))
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestDeleteArticle(t *testing.T) {
	d := seeded(t)
	d.Dispatch(http.MethodPost, "/articles", body(t, map[string]interface{}{
		"article": map[string]string{"title": "T", "url": "http://x", "username": "alice"},
	}))
	d.Dispatch(http.MethodPost, "/comments", body(t, map[string]interface{}{
		"comment": map[string]interface{}{"body": "hi", "username": "alice", "articleId": 1},
	}))

	env := d.Dispatch(http.MethodDelete, "/articles/1", nil)
	require.Equal(t, http.StatusNoContent, env.Status)
	assert.Nil(t, env.Body)

	env = d.Dispatch(http.MethodGet, "/articles/1", nil)
	assert.Equal(t, http.StatusNotFound, env.Status)

	// Cascade: the comment is gone from the author's list.
	env = d.Dispatch(http.MethodGet, "/users/alice", nil)
	require.Equal(t, http.StatusOK, env.Status)
	resp := env.Body.(userDetailResponse)
	assert.Equal(t, []int{}, resp.User.CommentIDs)
	assert.Equal(t, []int{}, resp.User.ArticleIDs)

	// Missing article answers 400 here, not 404. Kept for
	// compatibility with existing clients.
	env = d.Dispatch(http.MethodDelete, "/articles/1", nil)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestVoteArticle(t *testing.T) {
	d := seeded(t)
	d.Dispatch(http.MethodPost, "/articles", body(t, map[string]interface{}{
		"article": map[string]string{"title": "T", "url": "http://x", "username": "alice"},
	}))

	vote := body(t, map[string]string{"username": "alice"})

	env := d.Dispatch(http.MethodPut, "/articles/1/upvote", vote)
	require.Equal(t, http.StatusOK, env.Status)
	resp := env.Body.(articleResponse)
	assert.Equal(t, []string{"alice"}, resp.Article.UpvotedBy)

	// Second identical call: 200, no duplicate.
	env = d.Dispatch(http.MethodPut, "/articles/1/upvote", vote)
	require.Equal(t, http.StatusOK, env.Status)
	resp = env.Body.(articleResponse)
	assert.Equal(t, []string{"alice"}, resp.Article.UpvotedBy)

	env = d.Dispatch(http.MethodPut, "/articles/1/downvote", vote)
	require.Equal(t, http.StatusOK, env.Status)
	resp = env.Body.(articleResponse)
	assert.Equal(t, []string{}, resp.Article.UpvotedBy)
	assert.Equal(t, []string{"alice"}, resp.Article.DownvotedBy)

	tests := []struct {
		name string
		path string
		in   json.RawMessage
	}{
		{"unknown user", "/articles/1/upvote", body(t, map[string]string{"username": "ghost"})},
		{"missing username", "/articles/1/upvote", body(t, map[string]string{})},
		{"missing body", "/articles/1/upvote", nil},
		{"missing article", "/articles/99/upvote", vote},
		{"bad id", "/articles/abc/upvote", vote},
	}
	for _, tt := range tests {
		env := d.Dispatch(http.MethodPut, tt.path, tt.in)
		assert.Equal(t, http.StatusBadRequest, env.Status, tt.name)
	}
}

func TestComments(t *testing.T) {
	d := seeded(t)
	d.Dispatch(http.MethodPost, "/articles", body(t, map[string]interface{}{
		"article": map[string]string{"title": "T", "url": "http://x", "username": "alice"},
	}))

	env := d.Dispatch(http.MethodPost, "/comments", body(t, map[string]interface{}{
		"comment": map[string]interface{}{"body": "hi", "username": "alice", "articleId": 1},
	}))
	require.Equal(t, http.StatusCreated, env.Status)
	resp := env.Body.(commentResponse)
	assert.Equal(t, 1, resp.Comment.ID)

	env = d.Dispatch(http.MethodPut, "/comments/1", body(t, map[string]interface{}{
		"comment": map[string]string{"body": "edited"},
	}))
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "edited", env.Body.(commentResponse).Comment.Body)

	env = d.Dispatch(http.MethodPut, "/comments/99", body(t, map[string]interface{}{
		"comment": map[string]string{"body": "edited"},
	}))
	assert.Equal(t, http.StatusNotFound, env.Status)

	env = d.Dispatch(http.MethodPut, "/comments/1/upvote", body(t, map[string]string{"username": "alice"}))
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, []string{"alice"}, env.Body.(commentResponse).Comment.UpvotedBy)

	env = d.Dispatch(http.MethodDelete, "/comments/1", nil)
	assert.Equal(t, http.StatusNoContent, env.Status)

	// deleteComment answers 404 for anything not naming a live comment.
	env = d.Dispatch(http.MethodDelete, "/comments/1", nil)
	assert.Equal(t, http.StatusNotFound, env.Status)
	env = d.Dispatch(http.MethodDelete, "/comments/abc", nil)
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestUnmatchedRoutesAnswer400(t *testing.T) {
	d := seeded(t)

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/widgets"},
		{http.MethodDelete, "/users/alice"},
		{http.MethodPost, "/articles/1/upvote"}, // votes are PUT
		{http.MethodGet, "/comments"},
	}
	for _, tt := range tests {
		env := d.Dispatch(tt.method, tt.path, nil)
		assert.Equal(t, http.StatusBadRequest, env.Status, "%s %s", tt.method, tt.path)
		assert.Nil(t, env.Body, "%s %s", tt.method, tt.path)
	}
}
