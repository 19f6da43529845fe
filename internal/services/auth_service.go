package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uint64, email string) (string, error)
}

// AuthService handles authentication related business logic.
type AuthService struct {
	users  *UserService
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserService, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string `label:"email" validate:"required,email,max=255"`
	Password string `label:"password" validate:"required,min=8"`
}

// LoginResult is a freshly issued token and the user it belongs to.
type LoginResult struct {
	AccessToken string
	User        *models.User
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareWithDummy spends the same bcrypt work as a real comparison so unknown
// emails are not distinguishable by timing.
func compareWithDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), constants.BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// ValidateCredentials returns the user matching email and password, or nil if
// either is wrong.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		compareWithDummy(password)
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}

	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Password = strings.TrimSpace(input.Password)

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.ValidateCredentials(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		User:        user,
	}, nil
}

// CurrentUser retrieves the authenticated user by ID.
func (s *AuthService) CurrentUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
