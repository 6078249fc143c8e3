package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
)

func TestZeroSelectionIsAll(t *testing.T) {
	var s Selection

	n, ok := s.ActiveNamed()
	require.True(t, ok)
	assert.Equal(t, filter.All.ID, n.ID)

	_, ok = s.Feed()
	assert.False(t, ok)
	_, ok = s.Article()
	assert.False(t, ok)
}

// INVARIANT: choosing a feed folds feed_id into the filter and clears the article
// BREAKS: the reader keeps showing an article from a different feed
func TestChooseFeed(t *testing.T) {
	s := NewSelection(filter.Unread).ChooseArticle(9).ChooseFeed(3)

	id, ok := s.Feed()
	require.True(t, ok)
	assert.Equal(t, int64(3), id)

	require.NotNil(t, s.Filter().FeedID)
	assert.Equal(t, int64(3), *s.Filter().FeedID)
	require.NotNil(t, s.Filter().IsRead)
	assert.False(t, *s.Filter().IsRead)

	_, ok = s.Article()
	assert.False(t, ok)

	_, ok = s.ActiveNamed()
	assert.False(t, ok, "feed selection suppresses the named filter")
}

// INVARIANT: a named filter replaces the predicate wholesale
// BREAKS: feed_id from an earlier feed sticks to "Saved"
func TestChooseNamed(t *testing.T) {
	s := NewSelection(filter.All).ChooseFeed(3).ChooseArticle(9).ChooseNamed(filter.Saved)

	assert.True(t, s.Filter().Equal(filter.Saved.Filter))
	_, ok := s.Feed()
	assert.False(t, ok)
	_, ok = s.Article()
	assert.False(t, ok)

	n, ok := s.ActiveNamed()
	require.True(t, ok)
	assert.Equal(t, filter.Saved.ID, n.ID)
}

func TestChooseArticleKeepsFilter(t *testing.T) {
	before := NewSelection(filter.Archived).ChooseFeed(2)
	after := before.ChooseArticle(5)

	assert.Equal(t, before.Filter().Key(), after.Filter().Key())
	id, ok := after.Article()
	require.True(t, ok)
	assert.Equal(t, int64(5), id)

	_, ok = after.ClearArticle().Article()
	assert.False(t, ok)
}

func TestChooseFilter(t *testing.T) {
	f := filter.Filter{FeedID: func() *int64 { v := int64(4); return &v }()}

	s := NewSelection(filter.All).ChooseArticle(1).ChooseFilter(f)
	id, ok := s.Feed()
	require.True(t, ok)
	assert.Equal(t, int64(4), id)
	_, ok = s.Article()
	assert.False(t, ok)

	s = s.ChooseFilter(filter.Unread.Filter)
	_, ok = s.Feed()
	assert.False(t, ok)
	n, ok := s.ActiveNamed()
	require.True(t, ok)
	assert.Equal(t, filter.Unread.ID, n.ID)
}

// INVARIANT: mark-as-read fires once per distinct article id, only when loaded unread
// BREAKS: every refetch of the reader issues another PATCH
func TestReadTrigger(t *testing.T) {
	var rt ReadTrigger
	unread := model.Article{ID: 1}
	read := model.Article{ID: 2, IsRead: true}

	assert.False(t, rt.Loaded(unread), "nothing selected yet")

	rt.Select(1)
	assert.True(t, rt.Loaded(unread))
	assert.False(t, rt.Loaded(unread), "second load of same selection")

	rt.Select(1)
	assert.False(t, rt.Loaded(unread), "reselecting the same id does not re-arm")

	rt.Select(2)
	assert.False(t, rt.Loaded(unread), "stale load for the previous article")
	assert.False(t, rt.Loaded(read), "already read")
	rt.Select(1)
	assert.True(t, rt.Loaded(unread), "switching back re-arms")

	rt.Reset()
	assert.False(t, rt.Loaded(unread))
}
