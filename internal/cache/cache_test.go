package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsroom/internal/domain"
)

func TestMemory_GetSetInvalidate(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	_, ok := m.Get(ctx)
	assert.False(t, ok)

	page := &domain.FrontPage{Hero: &domain.Article{ID: "a1"}}
	require.NoError(t, m.Set(ctx, 0, page))

	got, ok := m.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "a1", got.Hero.ID)

	require.NoError(t, m.Invalidate(ctx))
	_, ok = m.Get(ctx)
	assert.False(t, ok)

	gen, err := m.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, gen, page))
	now = now.Add(2 * time.Minute)
	_, ok = m.Get(ctx)
	assert.False(t, ok)
}

func TestMemory_DropsPageBuiltBeforeInvalidate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	gen, err := m.Generation(ctx)
	require.NoError(t, err)

	// an article changes while the page is being built
	require.NoError(t, m.Invalidate(ctx))
	require.NoError(t, m.Set(ctx, gen, &domain.FrontPage{Hero: &domain.Article{ID: "stale"}}))

	_, ok := m.Get(ctx)
	assert.False(t, ok)

	fresh, err := m.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, fresh)
	require.NoError(t, m.Set(ctx, fresh, &domain.FrontPage{Hero: &domain.Article{ID: "fresh"}}))
	got, ok := m.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "fresh", got.Hero.ID)
}

func TestStoredPage_KeepsReadFields(t *testing.T) {
	author := &domain.UserSummary{ID: "u1", Username: "alice"}
	page := &domain.FrontPage{
		Hero:     &domain.Article{ID: "a1", Title: "Hero", Author: author, CommentCount: 3},
		Featured: []domain.Article{{ID: "a2", IsMain: true, CommentCount: 1}},
		Regular:  []domain.Article{{ID: "a3"}},
	}

	stored := newStoredPage(page)
	stored.Generation = 7
	raw, err := json.Marshal(stored)
	require.NoError(t, err)

	var decoded storedPage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, uint64(7), decoded.Generation)
	got := decoded.frontPage()

	require.NotNil(t, got.Hero)
	assert.Equal(t, "Hero", got.Hero.Title)
	assert.Equal(t, 3, got.Hero.CommentCount)
	assert.Equal(t, "alice", got.Hero.Author.Username)
	require.Len(t, got.Featured, 1)
	assert.Equal(t, 1, got.Featured[0].CommentCount)
	require.Len(t, got.Regular, 1)
	assert.Nil(t, got.Regular[0].Author)
}
