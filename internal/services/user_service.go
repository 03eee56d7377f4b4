package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles account management
type UserService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// CreateUserInput represents input for creating an account.
// An empty Role means Employee.
type CreateUserInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Phone           string
	Role            string
}

// UpdateUserInput holds the fields an administrator may change. Nil fields are left as is.
type UpdateUserInput struct {
	FullName *string
	Email    *string
	Phone    *string
	Role     *string
	IsActive *bool
	Password *string
}

// CreateUser validates and stores a new active account
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	phone := strings.TrimSpace(input.Phone)

	role := models.RoleEmployee
	var roleViolations []string
	if input.Role != "" {
		role, roleViolations = validation.Role(input.Role)
	}

	violations := validation.Collect(
		validation.Username(username),
		validation.Email(email),
		validation.Password(input.Password),
		validation.PasswordConfirmation(input.Password, input.ConfirmPassword),
		validation.FullName(fullName),
		validation.Phone(phone),
		roleViolations,
	)
	if err := apierrors.NewValidationError(violations); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(username, email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Phone:        phone,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if isDuplicate(err) {
			return nil, &apierrors.ConflictError{Message: "Username or email already exists"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ensureUnique checks username and email; selfID is skipped when updating
func (s *UserService) ensureUnique(username, email string, selfID uint64) error {
	if username != "" {
		existing, err := s.userRepo.FindByUsername(username)
		switch {
		case err == nil && existing.ID != selfID:
			return ErrUsernameTaken
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to check username: %w", err)
		}
	}

	if email != "" {
		existing, err := s.userRepo.FindByEmail(email)
		switch {
		case err == nil && existing.ID != selfID:
			return ErrEmailTaken
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to check email: %w", err)
		}
	}

	return nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every account, active or not
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List(repository.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListEmployees returns active employees, the candidates for assignment
func (s *UserService) ListEmployees() ([]models.User, error) {
	role := models.RoleEmployee
	users, err := s.userRepo.List(repository.UserFilter{Role: &role, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return users, nil
}

// UpdateUser applies the supplied fields. Username is immutable.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	var violations []string
	if input.FullName != nil {
		*input.FullName = strings.TrimSpace(*input.FullName)
		violations = append(violations, validation.FullName(*input.FullName)...)
	}
	if input.Email != nil {
		*input.Email = strings.TrimSpace(*input.Email)
		violations = append(violations, validation.Email(*input.Email)...)
	}
	if input.Phone != nil {
		*input.Phone = strings.TrimSpace(*input.Phone)
		violations = append(violations, validation.Phone(*input.Phone)...)
	}
	var role models.Role
	if input.Role != nil {
		var roleViolations []string
		role, roleViolations = validation.Role(*input.Role)
		violations = append(violations, roleViolations...)
	}
	if input.Password != nil {
		violations = append(violations, validation.Password(*input.Password)...)
	}
	if err := apierrors.NewValidationError(violations); err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := s.ensureUnique("", *input.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeactivateUser marks the account inactive. Accounts are never deleted so
// that tasks and work-log entries keep their references.
func (s *UserService) DeactivateUser(id uint64) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	user.IsActive = false
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}

// EnsureAdministrator creates the bootstrap administrator when none exists.
// It reports whether an account was created.
func (s *UserService) EnsureAdministrator(username, email, password string) (bool, error) {
	count, err := s.userRepo.CountByRole(models.RoleAdministrator)
	if err != nil {
		return false, fmt.Errorf("failed to count administrators: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if password == "" {
		log.Printf("no administrator exists and ADMIN_PASSWORD is empty; skipping seed")
		return false, nil
	}

	_, err = s.CreateUser(CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		FullName: "System Administrator",
		Role:     string(models.RoleAdministrator),
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed administrator: %w", err)
	}
	return true, nil
}
