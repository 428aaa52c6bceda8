// Package routes canonicalizes raw URL paths into the route templates
// used as dispatch keys.
package routes

import "strings"

// Template is a canonical route pattern with placeholders, e.g.
// "/articles/:id/upvote".
type Template string

// The registered route templates.
const (
	Users           Template = "/users"
	UserByName      Template = "/users/:username"
	Articles        Template = "/articles"
	ArticleByID     Template = "/articles/:id"
	ArticleUpvote   Template = "/articles/:id/upvote"
	ArticleDownvote Template = "/articles/:id/downvote"
	Comments        Template = "/comments"
	CommentByID     Template = "/comments/:id"
	CommentUpvote   Template = "/comments/:id/upvote"
	CommentDownvote Template = "/comments/:id/downvote"
)

// Resolve maps a raw path onto its template. The four rules are fixed
// for compatibility with existing clients and applied in order: a
// single segment is a collection route; a third segment of upvote or
// downvote is a vote route; anything under /users is a username route;
// everything else is an id route. Resolution always succeeds
// structurally; whether the (template, method) pair is actually
// registered is the dispatcher's call.
func Resolve(path string) Template {
	segs := Segments(path)

	switch {
	case len(segs) == 0:
		return Template("/")
	case len(segs) == 1:
		return Template("/" + segs[0])
	case len(segs) == 3 && (segs[2] == "upvote" || segs[2] == "downvote"):
		return Template("/" + segs[0] + "/:id/" + segs[2])
	case segs[0] == "users":
		return UserByName
	default:
		return Template("/" + segs[0] + "/:id")
	}
}

// Segments splits a path into its non-empty segments.
func Segments(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}

	return segs
}
