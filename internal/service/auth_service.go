package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/events"
	"github.com/newsdesk/newsroom/internal/repository"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	BcryptCost int
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput is the self-service signup payload.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// LoginResult carries a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		bcryptCost: deps.BcryptCost,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// Register creates an account with the default role.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := newAccount(input.FirstName, input.LastName, input.Username, input.Password, domain.RoleUser, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapUserWriteError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserRegistered,
		Resource:   "user",
		ResourceID: user.ID,
		Actor:      events.Actor{UserID: user.ID, Role: user.Role},
		Payload:    events.UserChangedPayload{Username: user.Username, Role: user.Role},
	})
	return user, nil
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserLoggedIn,
		Resource:   "user",
		ResourceID: user.ID,
		Actor:      events.Actor{UserID: user.ID, Role: user.Role},
	})
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// newAccount validates signup fields and hashes the password.
func newAccount(firstName, lastName, username, password string, role domain.RoleName, cost int) (*domain.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	username = strings.TrimSpace(username)

	missing := map[string]any{}
	for field, value := range map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"username":  username,
		"password":  password,
	} {
		if value == "" {
			missing[field] = "required"
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("all fields are required", missing)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

func mapUserWriteError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict("username already exists", nil)
	}
	return err
}
