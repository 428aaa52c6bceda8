package api

import "github.com/newsline/newsline/internal/model"

//--
// Request and response payloads for the REST api.
//
// The payloads embed the data model objects; request payloads wrap
// their fields under the entity key the same way clients send them.
//--

type userRequest struct {
	Username string `json:"username"`
}

type articleRequest struct {
	Article *articleFields `json:"article"`
}

type articleFields struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

type commentRequest struct {
	Comment *commentFields `json:"comment"`
}

type commentFields struct {
	Body      string `json:"body"`
	Username  string `json:"username"`
	ArticleID int    `json:"articleId"`
}

type voteRequest struct {
	Username string `json:"username"`
}

type userResponse struct {
	User *model.User `json:"user"`
}

type userDetailResponse struct {
	User         *model.User      `json:"user"`
	UserArticles []*model.Article `json:"userArticles"`
	UserComments []*model.Comment `json:"userComments"`
}

type articlesResponse struct {
	Articles []*model.Article `json:"articles"`
}

type articleResponse struct {
	Article *model.Article `json:"article"`
}

// articleView attaches the resolved comment records to an article on
// read. The field is assembled at read time and never persisted.
type articleView struct {
	*model.Article

	Comments []*model.Comment `json:"comments"`
}

type articleDetailResponse struct {
	Article *articleView `json:"article"`
}

type commentResponse struct {
	Comment *model.Comment `json:"comment"`
}
