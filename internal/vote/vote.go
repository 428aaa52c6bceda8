// Package vote implements the upvote/downvote state transition over
// any record exposing the two vote lists.
package vote

import "github.com/newsline/newsline/internal/model"

// Upvote removes username from the downvote list if present, then adds
// it to the upvote list if absent. The transition is idempotent and
// total: repeated calls produce no duplicates and no error. The caller
// is responsible for checking that the entity and the user exist.
func Upvote(v model.Votable, username string) {
	up, down := v.Votes()
	*down = remove(*down, username)
	*up = add(*up, username)
}

// Downvote is the mirror of Upvote.
func Downvote(v model.Votable, username string) {
	up, down := v.Votes()
	*up = remove(*up, username)
	*down = add(*down, username)
}

func add(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}

	return append(list, s)
}

func remove(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}

	return list
}
