package service

import (
	"errors"
	"training-hub-api/model"
	"training-hub-api/repository"
)

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
}

func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers() ([]*model.User, error) {
	return s.userRepo.GetAllUsers()
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(userID int, newRole model.Role) error {
	if newRole != model.RoleAdmin && newRole != model.RoleTeacher && newRole != model.RoleStudent {
		return errors.New("invalid role specified")
	}
	return s.userRepo.UpdateUserRole(userID, string(newRole))
}
