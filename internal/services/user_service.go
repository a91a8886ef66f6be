package services

import (
	"fmt"

	"github.com/Sylvain-Z/signalcampus-backend/internal/dto"
	"github.com/Sylvain-Z/signalcampus-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List() ([]dto.UserResponse, error) {
	var users []models.User
	if err := s.db.Order("login").Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(&u)
	}
	return out, nil
}

func (s *UserService) Get(id uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	resp := toUserResponse(&user)
	return &resp, nil
}

// Update applies a partial merge. A supplied password is re-hashed before
// storage; the hash itself is never accepted from the request.
func (s *UserService) Update(id uuid.UUID, req *dto.UpdateUserRequest) error {
	updates := map[string]interface{}{}
	if req.Login != nil {
		updates["login"] = *req.Login
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		if *req.Role != models.RoleReporter && *req.Role != models.RoleStaff {
			return fmt.Errorf("%w: invalid role", ErrValidation)
		}
		updates["role"] = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}
	if len(updates) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	result := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) Delete(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    u.ID,
		Login: u.Login,
		Email: u.Email,
		Role:  u.Role,
	}
}
