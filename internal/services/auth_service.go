package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo    repository.UserRepository
	userService *UserService
	tokens      *auth.TokenManager
	denylist    auth.Denylist
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, userService *UserService, tokens *auth.TokenManager, denylist auth.Denylist) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		userService: userService,
		tokens:      tokens,
		denylist:    denylist,
	}
}

// RegisterInput represents the information a visitor supplies to sign up.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Phone           string
}

// Register creates an active Employee account. Self-registration never grants
// the Administrator role.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	return s.userService.CreateUser(CreateUserInput{
		Username:        input.Username,
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		FullName:        input.FullName,
		Phone:           input.Phone,
		Role:            string(models.RoleEmployee),
	})
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Login verifies credentials and issues a bearer token. Unknown users, wrong
// passwords and deactivated accounts are indistinguishable to the caller.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)

	var violations []string
	if username == "" {
		violations = append(violations, "Username is required")
	}
	if input.Password == "" {
		violations = append(violations, "Password is required")
	}
	if err := apierrors.NewValidationError(violations); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	issued, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		User:      user,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	return s.userService.GetUser(id)
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.denylist.Revoke(ctx, tokenID, expiresAt); err != nil {
		return &apierrors.UnavailableError{Message: "Unable to revoke token", Err: err}
	}
	return nil
}
