package model

// User data model. Users are created on first reference and never
// deleted; the username is the primary key.
type User struct {
	Username   string `json:"username"`
	ArticleIDs []int  `json:"articleIds"`
	CommentIDs []int  `json:"commentIds"`
}

// Article data model. Articles reference their author by username and
// their comments by id only; the full comment records are resolved at
// read time, never embedded in the canonical record.
type Article struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Username    string   `json:"username"` // the author
	CommentIDs  []int    `json:"commentIds"`
	UpvotedBy   []string `json:"upvotedBy"`
	DownvotedBy []string `json:"downvotedBy"`
}

// Comment data model.
type Comment struct {
	ID          int      `json:"id"`
	Body        string   `json:"body"`
	Username    string   `json:"username"`
	ArticleID   int      `json:"articleId"`
	UpvotedBy   []string `json:"upvotedBy"`
	DownvotedBy []string `json:"downvotedBy"`
}

// Votable is any record carrying the two vote lists. The lists hold
// usernames, each at most once, and never share a member.
type Votable interface {
	Votes() (upvotedBy, downvotedBy *[]string)
}

// Votes implements Votable.
func (a *Article) Votes() (*[]string, *[]string) {
	return &a.UpvotedBy, &a.DownvotedBy
}

// Votes implements Votable.
func (c *Comment) Votes() (*[]string, *[]string) {
	return &c.UpvotedBy, &c.DownvotedBy
}

// Snapshot is the serialized form of the whole store, written to and
// read from the persistence boundary.
type Snapshot struct {
	Users         map[string]*User `json:"users"`
	Articles      map[int]*Article `json:"articles"`
	Comments      map[int]*Comment `json:"comments"`
	NextArticleID int              `json:"nextArticleId"`
	NextCommentID int              `json:"nextCommentId"`
}
