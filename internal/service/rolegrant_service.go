package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"esls/api/internal/repository"
)

var ErrParameterMismatch = errors.New("userIds and roleIdsPerUser length mismatch")

type RoleGrantService struct {
	users UserDirectory
	roles RoleDirectory
	log   zerolog.Logger
}

func NewRoleGrantService(users UserDirectory, roles RoleDirectory, log zerolog.Logger) *RoleGrantService {
	return &RoleGrantService{users: users, roles: roles, log: log}
}

// Grant applies role links across two index-aligned lists: roleIDsPerUser[i]
// names the roles to grant userIDs[i]. The result maps the 1-based request
// position to the number of links that actually landed for that user. A
// missing user scores 0 and does not stop the batch; a missing role is
// skipped silently. Both loops run in input order.
func (s *RoleGrantService) Grant(ctx context.Context, userIDs []int64, roleIDsPerUser [][]int64) (map[int]int, error) {
	if len(userIDs) != len(roleIDsPerUser) {
		return nil, ErrParameterMismatch
	}

	result := make(map[int]int, len(userIDs))
	for i, userID := range userIDs {
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				result[i+1] = 0
				continue
			}
			return nil, err
		}

		tally := 0
		for _, roleID := range roleIDsPerUser[i] {
			if _, err := s.roles.FindByID(ctx, roleID); err != nil {
				if errors.Is(err, repository.ErrRoleNotFound) {
					continue
				}
				return nil, err
			}

			rows, err := s.roles.LinkUserRole(ctx, roleID, userID)
			if err != nil {
				return nil, err
			}
			if rows > 0 {
				tally++
			}
		}
		result[i+1] = tally
	}

	return result, nil
}

type RevokeResult struct {
	Requested int `json:"requested"`
	Revoked   int `json:"revoked"`
}

// Revoke removes role links from one user, existence-checking each role the
// same way Grant does.
func (s *RoleGrantService) Revoke(ctx context.Context, userID int64, roleIDs []int64) (RevokeResult, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return RevokeResult{}, ErrUserNotExist
		}
		return RevokeResult{}, err
	}

	result := RevokeResult{Requested: len(roleIDs)}
	for _, roleID := range roleIDs {
		if _, err := s.roles.FindByID(ctx, roleID); err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				continue
			}
			return RevokeResult{}, err
		}

		rows, err := s.roles.UnlinkUserRole(ctx, roleID, userID)
		if err != nil {
			return RevokeResult{}, err
		}
		if rows > 0 {
			result.Revoked++
		}
	}

	return result, nil
}
