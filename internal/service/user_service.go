package service

import (
	"context"

	"github.com/VanZep/FeedbackBook/internal/dto"
	"github.com/VanZep/FeedbackBook/internal/models"
	"github.com/VanZep/FeedbackBook/internal/repository"
	"github.com/VanZep/FeedbackBook/internal/validation"
	"github.com/VanZep/FeedbackBook/pkg/apperror"
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error)
	Create(ctx context.Context, d dto.CreateUserDTO) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, username string, d dto.UpdateUserDTO) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	UpdateProfile(ctx context.Context, user *models.User, d dto.UpdateProfileDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginatedUserResponse(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, d dto.CreateUserDTO) (*dto.UserResponse, error) {
	if err := validation.Username(d.Username); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	user := &models.User{
		Username:  d.Username,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Bio:       d.Bio,
		Role:      models.RoleUser,
	}
	if d.Role != nil {
		user.Role = *d.Role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Conflict("a user with this username or email already exists")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, username string, d dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if d.Username != nil {
		if err := validation.Username(*d.Username); err != nil {
			return nil, apperror.BadRequest(err.Error())
		}
	}
	d.ApplyTo(user)

	if err := s.userRepo.Save(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Conflict("a user with this username or email already exists")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UpdateProfile applies a partial self-edit; the role field is never touched.
func (s *userService) UpdateProfile(ctx context.Context, user *models.User, d dto.UpdateProfileDTO) (*dto.UserResponse, error) {
	if d.Username != nil {
		if err := validation.Username(*d.Username); err != nil {
			return nil, apperror.BadRequest(err.Error())
		}
	}
	d.ApplyTo(user)

	if err := s.userRepo.Save(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Conflict("a user with this username or email already exists")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}
