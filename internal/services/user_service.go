package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lofoneh/usersvc/internal/models"
	"github.com/lofoneh/usersvc/internal/repository"
	appErr "github.com/lofoneh/usersvc/pkg/errors"
	"github.com/lofoneh/usersvc/pkg/logger"
	"github.com/lofoneh/usersvc/pkg/utils"
)

type UserService interface {
	CreateUser(ctx context.Context, input *CreateUserInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, input *UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) (*models.User, error)
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput fields left nil are not modified.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

type userService struct {
	users  repository.UserRepository
	hasher utils.PasswordHasher
}

func NewUserService(users repository.UserRepository, hasher utils.PasswordHasher) UserService {
	return &userService{users: users, hasher: hasher}
}

var _ UserService = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	var missing []string
	if isBlank(input.Name) {
		missing = append(missing, "name")
	}
	if isBlank(input.Email) {
		missing = append(missing, "email")
	}
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, appErr.New(appErr.CodeInvalid, strings.Join(missing, ", ")+" required")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, &models.User{Name: input.Name, Email: input.Email, Password: hash})
	if err != nil {
		return nil, err
	}

	logger.L().Info("user created", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) UpdateUser(ctx context.Context, id int64, input *UpdateUserInput) (*models.User, error) {
	if input.Name != nil && isBlank(*input.Name) {
		return nil, appErr.New(appErr.CodeInvalid, "name must not be empty")
	}
	if input.Email != nil && isBlank(*input.Email) {
		return nil, appErr.New(appErr.CodeInvalid, "email must not be empty")
	}

	patch := models.UserPatch{Name: input.Name, Email: input.Email}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, appErr.New(appErr.CodeInvalid, "password must not be empty")
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}

	u, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	logger.L().Info("user updated",
		zap.Int64("user_id", id),
		zap.Bool("name", input.Name != nil),
		zap.Bool("email", input.Email != nil),
		zap.Bool("password", input.Password != nil),
	)
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.L().Info("user deleted", zap.Int64("user_id", id))
	return u, nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
