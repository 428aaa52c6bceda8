package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want Template
	}{
		// single segment: collection route
		{"/users", Users},
		{"/articles", Articles},
		{"/comments", Comments},
		{"/anything", Template("/anything")},

		// third segment upvote/downvote: vote route
		{"/articles/1/upvote", ArticleUpvote},
		{"/articles/17/downvote", ArticleDownvote},
		{"/comments/3/upvote", CommentUpvote},
		{"/comments/3/downvote", CommentDownvote},
		{"/widgets/9/upvote", Template("/widgets/:id/upvote")},

		// /users second segment is a username
		{"/users/alice", UserByName},
		{"/users/alice/whatever", UserByName},

		// everything else: id route
		{"/articles/1", ArticleByID},
		{"/articles/abc", ArticleByID},
		{"/comments/42", CommentByID},
		{"/widgets/9", Template("/widgets/:id")},
		{"/articles/1/comments", ArticleByID},

		// trailing and duplicate slashes collapse
		{"/articles/", Articles},
		{"//articles//1", ArticleByID},
		{"/", Template("/")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(tt.path), "path %q", tt.path)
	}
}

func TestSegments(t *testing.T) {
	assert.Nil(t, Segments("/"))
	assert.Equal(t, []string{"articles", "1"}, Segments("/articles/1"))
	assert.Equal(t, []string{"articles", "1"}, Segments("articles/1/"))
}
