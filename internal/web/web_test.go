package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsroom/internal/domain"
)

func TestRenderer_Article(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, PageArticle, PageData{
		Title: "Story",
		Content: ArticleContent{
			Article: &domain.Article{
				ID:        "a1",
				Title:     "Big <news>",
				Content:   "&lt;p&gt;Body&lt;/p&gt;",
				Image:     "javascript:alert(1)",
				CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				Author:    &domain.UserSummary{FirstName: "Ada", LastName: "L"},
			},
			Comments: []domain.Comment{{Content: "<script>x</script>"}},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Big &lt;news&gt;")
	assert.Contains(t, out, "<p>Body</p>")
	assert.Contains(t, out, "&lt;script&gt;x&lt;/script&gt;")
	assert.Contains(t, out, "Deleted user")
	assert.Contains(t, out, "Ada L")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "Log in")
}

func TestRenderer_HomeAndDashboard(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	page := domain.ArrangeFrontPage([]domain.Article{
		{ID: "a1", Title: "Hero", IsHeader: true, Image: "data:image/png;base64,AA=="},
		{ID: "a2", Title: "Side"},
	})
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, PageHome, PageData{
		Viewer:  &domain.User{Username: "boss", Role: domain.RoleAdmin},
		Content: HomeContent{Page: &page},
	}))
	assert.Contains(t, buf.String(), `src="data:image/png;base64,AA=="`)
	assert.Contains(t, buf.String(), "/dashboard/users")

	buf.Reset()
	require.NoError(t, r.Render(&buf, PageDashboard, PageData{Content: DashboardContent{}}))
	assert.Contains(t, buf.String(), "No articles.")

	assert.Error(t, r.Render(&buf, "missing", PageData{}))
}
