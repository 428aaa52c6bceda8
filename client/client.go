// Package client is a typed HTTP client for the newsline API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/newsline/newsline/internal/model"
)

type Client struct {
	http.Client
	Addr string
}

// CreateUser registers username, or fetches it when it already exists.
func (c *Client) CreateUser(username string) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	err := c.do(http.MethodPost, "/users", map[string]string{"username": username}, &out)

	return out.User, err
}

// User fetches a user with its resolved articles and comments.
func (c *Client) User(username string) (*model.User, []*model.Article, []*model.Comment, error) {
	var out struct {
		User         *model.User      `json:"user"`
		UserArticles []*model.Article `json:"userArticles"`
		UserComments []*model.Comment `json:"userComments"`
	}
	err := c.do(http.MethodGet, "/users/"+username, nil, &out)

	return out.User, out.UserArticles, out.UserComments, err
}

// Articles lists all live articles, newest first.
func (c *Client) Articles() ([]*model.Article, error) {
	var out struct {
		Articles []*model.Article `json:"articles"`
	}
	err := c.do(http.MethodGet, "/articles", nil, &out)

	return out.Articles, err
}

// CreateArticle posts a new article authored by username.
func (c *Client) CreateArticle(title, url, username string) (*model.Article, error) {
	in := map[string]interface{}{
		"article": map[string]string{"title": title, "url": url, "username": username},
	}
	var out struct {
		Article *model.Article `json:"article"`
	}
	err := c.do(http.MethodPost, "/articles", in, &out)

	return out.Article, err
}

// UpvoteArticle records an upvote by username. Repeating the call is
// harmless.
func (c *Client) UpvoteArticle(id int, username string) (*model.Article, error) {
	var out struct {
		Article *model.Article `json:"article"`
	}
	err := c.do(http.MethodPut, "/articles/"+strconv.Itoa(id)+"/upvote",
		map[string]string{"username": username}, &out)

	return out.Article, err
}

// DownvoteArticle records a downvote by username.
func (c *Client) DownvoteArticle(id int, username string) (*model.Article, error) {
	var out struct {
		Article *model.Article `json:"article"`
	}
	err := c.do(http.MethodPut, "/articles/"+strconv.Itoa(id)+"/downvote",
		map[string]string{"username": username}, &out)

	return out.Article, err
}

// CreateComment posts a comment on articleID authored by username.
func (c *Client) CreateComment(body, username string, articleID int) (*model.Comment, error) {
	in := map[string]interface{}{
		"comment": map[string]interface{}{
			"body": body, "username": username, "articleId": articleID,
		},
	}
	var out struct {
		Comment *model.Comment `json:"comment"`
	}
	err := c.do(http.MethodPost, "/comments", in, &out)

	return out.Comment, err
}

// DeleteArticle removes an article and cascades to its comments.
func (c *Client) DeleteArticle(id int) error {
	return c.do(http.MethodDelete, "/articles/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) do(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.Addr+path, body)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	return json.Unmarshal(raw, out)
}
