package service

import (
	"context"

	"esls/api/internal/models"
)

// UserDirectory is the persistence boundary for user records. Implemented by
// repository.UserRepository.
type UserDirectory interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByName(ctx context.Context, name string) (models.User, error)
	FindByTelephone(ctx context.Context, telephone string) (models.User, error)
	FindByMail(ctx context.Context, mail string) (models.User, error)
	Save(ctx context.Context, user models.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash, rawPassword string) error
	UpdateActivateStatus(ctx context.Context, id int64, status byte) error
	UpdateStatus(ctx context.Context, id int64, status byte) (int64, error)
}

// RoleDirectory is the persistence boundary for roles and user-role links.
// Implemented by repository.RoleRepository.
type RoleDirectory interface {
	FindByID(ctx context.Context, id int64) (models.Role, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Role, error)
	LinkUserRole(ctx context.Context, roleID, userID int64) (int64, error)
	UnlinkUserRole(ctx context.Context, roleID, userID int64) (int64, error)
	GrantBaseRoles(ctx context.Context, userID int64) error
	ListPermissionNames(ctx context.Context, userID int64) ([]string, error)
}
