package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"go-sales-inventory/internal/model"
	"go-sales-inventory/internal/repository"
	"go-sales-inventory/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	CurrentUser(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	EnsureAdmin(ctx context.Context, email, password, fullName string) (bool, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) CurrentUser(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	resp := user.ToResponse()
	return &resp, nil
}

// EnsureAdmin creates the first operator account unless the email is already taken.
// It reports whether a user was created.
func (s *authService) EnsureAdmin(ctx context.Context, email, password, fullName string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	user := &model.User{Email: email, FullName: fullName, IsActive: true}
	if err := user.SetPassword(password); err != nil {
		return false, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, err
	}
	log.Printf("seeded admin user %s", email)
	return true, nil
}

func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < 6 {
		return validationError("password must be at least 6 characters")
	}

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, user.Password)
}
