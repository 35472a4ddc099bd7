package domain

import "time"

// Article is a published news item.
type Article struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Content         string       `json:"content"`
	Image           string       `json:"image"`
	IsMain          bool         `json:"isMain"`
	IsHeader        bool         `json:"isHeader"`
	EditorSelection bool         `json:"editorSelection"`
	AuthorID        string       `json:"authorId"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	Author          *UserSummary `json:"-"`
	CommentCount    int          `json:"-"`
}

// FrontPage is the home page arrangement of articles.
type FrontPage struct {
	Hero     *Article
	Featured []Article
	Regular  []Article
}

// MaxFeatured bounds the featured row under the hero.
const MaxFeatured = 4

// ArrangeFrontPage lays out articles that are already sorted newest first.
// The hero is the first header article, else the first main article, else the
// first editor selection, else the newest one.
func ArrangeFrontPage(articles []Article) FrontPage {
	var page FrontPage
	if len(articles) == 0 {
		return page
	}

	hero := -1
	for _, pick := range []func(Article) bool{
		func(a Article) bool { return a.IsHeader },
		func(a Article) bool { return a.IsMain },
		func(a Article) bool { return a.EditorSelection },
	} {
		for i := range articles {
			if pick(articles[i]) {
				hero = i
				break
			}
		}
		if hero >= 0 {
			break
		}
	}
	if hero < 0 {
		hero = 0
	}
	heroCopy := articles[hero]
	page.Hero = &heroCopy

	for i := range articles {
		if i == hero {
			continue
		}
		if articles[i].IsMain && len(page.Featured) < MaxFeatured {
			page.Featured = append(page.Featured, articles[i])
			continue
		}
		page.Regular = append(page.Regular, articles[i])
	}
	return page
}
