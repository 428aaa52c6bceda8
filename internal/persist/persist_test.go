package persist

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsline/newsline/internal/model"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	f := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	snap, err := f.Load()
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f := NewFileStore(filepath.Join(t.TempDir(), "data", "store.json"))

	in := &model.Snapshot{
		Users: map[string]*model.User{
			"alice": {Username: "alice", ArticleIDs: []int{1}, CommentIDs: []int{}},
		},
		Articles: map[int]*model.Article{
			1: {
				ID: 1, Title: "T", URL: "http://x", Username: "alice",
				CommentIDs: []int{}, UpvotedBy: []string{"alice"}, DownvotedBy: []string{},
			},
		},
		Comments:      map[int]*model.Comment{},
		NextArticleID: 2,
		NextCommentID: 1,
	}
	require.NoError(t, f.Save(in))

	out, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveReplacesPriorSnapshot(t *testing.T) {
	f := NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	require.NoError(t, f.Save(&model.Snapshot{NextArticleID: 1}))
	require.NoError(t, f.Save(&model.Snapshot{NextArticleID: 7}))

	out, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, out.NextArticleID)

	// No stray temp file left behind.
	_, err = ioutil.ReadFile(f.Path + ".tmp")
	assert.Error(t, err)
}

func TestLoadCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, ioutil.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var p Persister = Noop{}

	snap, err := p.Load()
	assert.NoError(t, err)
	assert.Nil(t, snap)
	assert.NoError(t, p.Save(&model.Snapshot{}))
}
