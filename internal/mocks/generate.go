// Package mocks holds gomock implementations of the repository interfaces.
//
// To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/newsdesk/newsroom/internal/repository UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=role_repository_mock.go github.com/newsdesk/newsroom/internal/repository RoleRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=article_repository_mock.go github.com/newsdesk/newsroom/internal/repository ArticleRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=comment_repository_mock.go github.com/newsdesk/newsroom/internal/repository CommentRepository
