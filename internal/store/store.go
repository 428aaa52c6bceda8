// Package store owns the user, article and comment records and the id
// counters. A Store is constructed explicitly and passed by reference
// into the dispatcher, so tests can run isolated instances in
// parallel. The store itself does no locking: the dispatcher
// serializes requests, which is the only concurrent entry point.
package store

import (
	"sort"
	"strconv"

	"github.com/newsline/newsline/internal/errs"
	"github.com/newsline/newsline/internal/model"
)

// Store holds all live entity records. Deleted articles and comments
// are removed from the backing maps; the id counters only ever
// increment, so ids are never reused.
type Store struct {
	users    map[string]*model.User
	articles map[int]*model.Article
	comments map[int]*model.Comment

	nextArticleID int
	nextCommentID int
}

// New returns an empty store with counters starting at 1.
func New() *Store {
	s := &Store{}
	s.Reset()

	return s
}

// Reset drops every record and restarts the id counters. Intended for
// tests; never called in the request flow.
func (s *Store) Reset() {
	s.users = map[string]*model.User{}
	s.articles = map[int]*model.Article{}
	s.comments = map[int]*model.Comment{}
	s.nextArticleID = 1
	s.nextCommentID = 1
}

// GetOrCreateUser returns the user for username, creating it with
// empty id lists when absent. The second return value reports whether
// a new record was created.
func (s *Store) GetOrCreateUser(username string) (*model.User, bool, error) {
	if username == "" {
		return nil, false, errs.NewValidationError("username", "must not be empty")
	}

	if u, ok := s.users[username]; ok {
		return u, false, nil
	}

	u := &model.User{
		Username:   username,
		ArticleIDs: []int{},
		CommentIDs: []int{},
	}
	s.users[username] = u

	return u, true, nil
}

// User returns the user for username.
func (s *Store) User(username string) (*model.User, error) {
	if username == "" {
		return nil, errs.NewValidationError("username", "must not be empty")
	}

	u, ok := s.users[username]
	if !ok {
		return nil, errs.NewNotFoundError("user", username)
	}

	return u, nil
}

// CreateArticle assigns the next article id and appends it to the
// author's articleIds. Title, url and username are all required, and
// the author must already exist.
func (s *Store) CreateArticle(title, url, username string) (*model.Article, error) {
	switch {
	case title == "":
		return nil, errs.NewValidationError("title", "must not be empty")
	case url == "":
		return nil, errs.NewValidationError("url", "must not be empty")
	case username == "":
		return nil, errs.NewValidationError("username", "must not be empty")
	}

	u, ok := s.users[username]
	if !ok {
		return nil, errs.NewNotFoundError("user", username)
	}

	a := &model.Article{
		ID:          s.nextArticleID,
		Title:       title,
		URL:         url,
		Username:    username,
		CommentIDs:  []int{},
		UpvotedBy:   []string{},
		DownvotedBy: []string{},
	}
	s.nextArticleID++
	s.articles[a.ID] = a
	u.ArticleIDs = append(u.ArticleIDs, a.ID)

	return a, nil
}

// Article returns the live article for id.
func (s *Store) Article(id int) (*model.Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, errs.NewNotFoundError("article", strconv.Itoa(id))
	}

	return a, nil
}

// Articles returns all live articles ordered by id descending, newest
// first.
func (s *Store) Articles() []*model.Article {
	list := make([]*model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })

	return list
}

// UpdateArticle overwrites title and url when the given values are
// non-empty; empty values preserve the prior field. A field can
// therefore never be cleared to empty, which is a known quirk kept
// for compatibility.
func (s *Store) UpdateArticle(id int, title, url string) (*model.Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, errs.NewNotFoundError("article", strconv.Itoa(id))
	}

	if title != "" {
		a.Title = title
	}
	if url != "" {
		a.URL = url
	}

	return a, nil
}

// DeleteArticle removes the article, all of its comments, and every
// reference to them from the owning users' id lists.
func (s *Store) DeleteArticle(id int) error {
	a, ok := s.articles[id]
	if !ok {
		return errs.NewNotFoundError("article", strconv.Itoa(id))
	}

	for _, cid := range a.CommentIDs {
		c, ok := s.comments[cid]
		if !ok {
			continue
		}
		if u, ok := s.users[c.Username]; ok {
			u.CommentIDs = removeID(u.CommentIDs, cid)
		}
		delete(s.comments, cid)
	}

	if u, ok := s.users[a.Username]; ok {
		u.ArticleIDs = removeID(u.ArticleIDs, id)
	}
	delete(s.articles, id)

	return nil
}

// CreateComment assigns the next comment id and appends it to both the
// author's and the parent article's commentIds.
func (s *Store) CreateComment(body, username string, articleID int) (*model.Comment, error) {
	switch {
	case body == "":
		return nil, errs.NewValidationError("body", "must not be empty")
	case username == "":
		return nil, errs.NewValidationError("username", "must not be empty")
	case articleID == 0:
		return nil, errs.NewValidationError("articleId", "must not be empty")
	}

	u, ok := s.users[username]
	if !ok {
		return nil, errs.NewNotFoundError("user", username)
	}
	a, ok := s.articles[articleID]
	if !ok {
		return nil, errs.NewNotFoundError("article", strconv.Itoa(articleID))
	}

	c := &model.Comment{
		ID:          s.nextCommentID,
		Body:        body,
		Username:    username,
		ArticleID:   articleID,
		UpvotedBy:   []string{},
		DownvotedBy: []string{},
	}
	s.nextCommentID++
	s.comments[c.ID] = c
	u.CommentIDs = append(u.CommentIDs, c.ID)
	a.CommentIDs = append(a.CommentIDs, c.ID)

	return c, nil
}

// Comment returns the live comment for id.
func (s *Store) Comment(id int) (*model.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, errs.NewNotFoundError("comment", strconv.Itoa(id))
	}

	return c, nil
}

// UpdateComment overwrites body when non-empty, same falsy-preserve
// policy as UpdateArticle.
func (s *Store) UpdateComment(id int, body string) (*model.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, errs.NewNotFoundError("comment", strconv.Itoa(id))
	}

	if body != "" {
		c.Body = body
	}

	return c, nil
}

// DeleteComment removes the comment and its id from both the owning
// user's and the owning article's commentIds.
func (s *Store) DeleteComment(id int) error {
	c, ok := s.comments[id]
	if !ok {
		return errs.NewNotFoundError("comment", strconv.Itoa(id))
	}

	if u, ok := s.users[c.Username]; ok {
		u.CommentIDs = removeID(u.CommentIDs, id)
	}
	if a, ok := s.articles[c.ArticleID]; ok {
		a.CommentIDs = removeID(a.CommentIDs, id)
	}
	delete(s.comments, id)

	return nil
}

// ResolveComments assembles the full comment records for an article in
// commentIds order. The result is transient read-time data, not part
// of the canonical article record.
func (s *Store) ResolveComments(a *model.Article) []*model.Comment {
	list := make([]*model.Comment, 0, len(a.CommentIDs))
	for _, cid := range a.CommentIDs {
		if c, ok := s.comments[cid]; ok {
			list = append(list, c)
		}
	}

	return list
}

// UserArticles returns the user's live articles in articleIds order.
func (s *Store) UserArticles(u *model.User) []*model.Article {
	list := make([]*model.Article, 0, len(u.ArticleIDs))
	for _, id := range u.ArticleIDs {
		if a, ok := s.articles[id]; ok {
			list = append(list, a)
		}
	}

	return list
}

// UserComments returns the user's live comments in commentIds order.
func (s *Store) UserComments(u *model.User) []*model.Comment {
	list := make([]*model.Comment, 0, len(u.CommentIDs))
	for _, id := range u.CommentIDs {
		if c, ok := s.comments[id]; ok {
			list = append(list, c)
		}
	}

	return list
}

func removeID(list []int, id int) []int {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...)
		}
	}

	return list
}
