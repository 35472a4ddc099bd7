package cache

import "github.com/newsdesk/newsroom/internal/domain"

// storedArticle keeps the read-side fields that domain.Article omits from JSON.
type storedArticle struct {
	domain.Article
	Author       *domain.UserSummary `json:"author,omitempty"`
	CommentCount int                 `json:"commentCount"`
}

type storedPage struct {
	Generation uint64 `json:"gen"`
	Hero       *storedArticle  `json:"hero,omitempty"`
	Featured   []storedArticle `json:"featured"`
	Regular    []storedArticle `json:"regular"`
}

func toStored(a domain.Article) storedArticle {
	return storedArticle{Article: a, Author: a.Author, CommentCount: a.CommentCount}
}

func (s storedArticle) article() domain.Article {
	a := s.Article
	a.Author = s.Author
	a.CommentCount = s.CommentCount
	return a
}

func newStoredPage(page *domain.FrontPage) storedPage {
	var out storedPage
	if page == nil {
		return out
	}
	if page.Hero != nil {
		hero := toStored(*page.Hero)
		out.Hero = &hero
	}
	for _, a := range page.Featured {
		out.Featured = append(out.Featured, toStored(a))
	}
	for _, a := range page.Regular {
		out.Regular = append(out.Regular, toStored(a))
	}
	return out
}

func (s storedPage) frontPage() *domain.FrontPage {
	page := &domain.FrontPage{}
	if s.Hero != nil {
		hero := s.Hero.article()
		page.Hero = &hero
	}
	for _, a := range s.Featured {
		page.Featured = append(page.Featured, a.article())
	}
	for _, a := range s.Regular {
		page.Regular = append(page.Regular, a.article())
	}
	return page
}
