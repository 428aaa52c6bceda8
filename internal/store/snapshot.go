package store

import "github.com/newsline/newsline/internal/model"

// Snapshot returns a deep copy of the whole store for the persistence
// boundary. The copy shares nothing with the live records, so it can
// be serialized after the dispatcher has moved on.
func (s *Store) Snapshot() *model.Snapshot {
	snap := &model.Snapshot{
		Users:         make(map[string]*model.User, len(s.users)),
		Articles:      make(map[int]*model.Article, len(s.articles)),
		Comments:      make(map[int]*model.Comment, len(s.comments)),
		NextArticleID: s.nextArticleID,
		NextCommentID: s.nextCommentID,
	}

	for name, u := range s.users {
		cp := *u
		cp.ArticleIDs = append([]int{}, u.ArticleIDs...)
		cp.CommentIDs = append([]int{}, u.CommentIDs...)
		snap.Users[name] = &cp
	}
	for id, a := range s.articles {
		cp := *a
		cp.CommentIDs = append([]int{}, a.CommentIDs...)
		cp.UpvotedBy = append([]string{}, a.UpvotedBy...)
		cp.DownvotedBy = append([]string{}, a.DownvotedBy...)
		snap.Articles[id] = &cp
	}
	for id, c := range s.comments {
		cp := *c
		cp.UpvotedBy = append([]string{}, c.UpvotedBy...)
		cp.DownvotedBy = append([]string{}, c.DownvotedBy...)
		snap.Comments[id] = &cp
	}

	return snap
}

// Restore merges a loaded snapshot into the store field by field. Only
// fields present and non-empty in the snapshot overwrite the freshly
// initialized state; a nil snapshot is a no-op. Restored records get
// their nil id and vote lists normalized to empty, so they serialize
// as [] on the wire.
func (s *Store) Restore(snap *model.Snapshot) {
	if snap == nil {
		return
	}

	if len(snap.Users) > 0 {
		s.users = snap.Users
		for _, u := range s.users {
			if u.ArticleIDs == nil {
				u.ArticleIDs = []int{}
			}
			if u.CommentIDs == nil {
				u.CommentIDs = []int{}
			}
		}
	}
	if len(snap.Articles) > 0 {
		s.articles = snap.Articles
		for _, a := range s.articles {
			if a.CommentIDs == nil {
				a.CommentIDs = []int{}
			}
			if a.UpvotedBy == nil {
				a.UpvotedBy = []string{}
			}
			if a.DownvotedBy == nil {
				a.DownvotedBy = []string{}
			}
		}
	}
	if len(snap.Comments) > 0 {
		s.comments = snap.Comments
		for _, c := range s.comments {
			if c.UpvotedBy == nil {
				c.UpvotedBy = []string{}
			}
			if c.DownvotedBy == nil {
				c.DownvotedBy = []string{}
			}
		}
	}
	if snap.NextArticleID > 0 {
		s.nextArticleID = snap.NextArticleID
	}
	if snap.NextCommentID > 0 {
		s.nextCommentID = snap.NextCommentID
	}
}
