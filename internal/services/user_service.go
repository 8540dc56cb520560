// internal/services/user_service.go
package services

import (
	"context"

	"go.uber.org/zap"

	"styleforge-backend/internal/models"
	"styleforge-backend/internal/repository"
	apperrors "styleforge-backend/pkg/errors"
)

type UserService interface {
	RegisterUser(ctx context.Context, req *models.RegisterUserRequest) (*models.RegisterUserResponse, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

// RegisterUser creates the user record on first sign-in with the starting
// credit grant. Registration is idempotent: a repeat call for an existing
// user returns the stored record unchanged.
func (s *userService) RegisterUser(ctx context.Context, req *models.RegisterUserRequest) (*models.RegisterUserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, "validation failed", err.Error())
	}

	existing, err := s.userRepo.GetByUserID(ctx, req.UserID)
	if err == nil {
		return &models.RegisterUserResponse{
			Message: "User already registered",
			User:    *existing,
			Credits: existing.Credits,
		}, nil
	}
	if !apperrors.IsErrorType(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user := &models.User{
		UserID:  req.UserID,
		Email:   req.Email,
		Name:    req.Name,
		Credits: models.InitialCredits,
		Plan:    models.PlanFree,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent first sign-in may have won the insert.
		if apperrors.IsErrorType(err, apperrors.ErrUserAlreadyExists) {
			return s.registerExisting(ctx, req.UserID)
		}
		return nil, err
	}

	zap.L().Info("User registered",
		zap.String("userId", user.UserID),
		zap.Int("credits", user.Credits))

	return &models.RegisterUserResponse{
		Message: "User registered successfully",
		User:    *user,
		Credits: user.Credits,
	}, nil
}

func (s *userService) registerExisting(ctx context.Context, userID string) (*models.RegisterUserResponse, error) {
	existing, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.RegisterUserResponse{
		Message: "User already registered",
		User:    *existing,
		Credits: existing.Credits,
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByUserID(ctx, userID)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}
