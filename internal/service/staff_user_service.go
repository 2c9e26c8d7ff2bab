package service

import (
	"context"
	"strings"
	"time"

	"github.com/luckyscan/internal/authz"
	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"

	validation "github.com/go-ozzo/ozzo-validation"
)

// StaffUserService 后台账号管理服务
type StaffUserService struct {
	staffRepo repository.StaffUserRepository
	authSvc   *AuthService
	authz     *authz.Service
}

// NewStaffUserService 创建后台账号管理服务
func NewStaffUserService(staffRepo repository.StaffUserRepository, authSvc *AuthService, authzSvc *authz.Service) *StaffUserService {
	return &StaffUserService{
		staffRepo: staffRepo,
		authSvc:   authSvc,
		authz:     authzSvc,
	}
}

// CreateStaffUserInput 创建账号参数
type CreateStaffUserInput struct {
	Username    string
	DisplayName string
	Password    string
	Role        string
}

// Validate 校验创建参数
func (in *CreateStaffUserInput) Validate() error {
	return validation.ValidateStruct(
		in,
		validation.Field(&in.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&in.DisplayName, validation.Length(0, 80)),
		validation.Field(&in.Password, validation.Required),
		validation.Field(&in.Role, validation.Required, validation.In(models.StaffRoleAdmin, models.StaffRoleStaff)),
	)
}

// UpdateStaffUserInput 更新账号参数
type UpdateStaffUserInput struct {
	DisplayName *string
	Role        *string
	IsActive    *bool
	Password    *string
}

// List 账号列表
func (s *StaffUserService) List() ([]models.StaffUser, error) {
	return s.staffRepo.List()
}

// Create 创建账号并同步角色
func (s *StaffUserService) Create(input CreateStaffUserInput) (*models.StaffUser, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	if err := input.Validate(); err != nil {
		return nil, ErrStaffUserInvalid
	}
	if err := s.authSvc.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	existing, err := s.staffRepo.GetByUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStaffUserExists
	}
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.StaffUser{
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.staffRepo.Create(user); err != nil {
		return nil, err
	}
	if s.authz != nil {
		if err := s.authz.AssignRole(user.ID, user.Role); err != nil {
			return nil, err
		}
	}
	logger.Infow("staff_user_created", "staff_id", user.ID, "role", user.Role)
	return user, nil
}

// Update 更新账号，角色或密码变化时吊销已签发 Token
func (s *StaffUserService) Update(id uint, input UpdateStaffUserInput) (*models.StaffUser, error) {
	user, err := s.staffRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrStaffUserNotFound
	}

	revoke := false
	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*input.Role))
		if role != models.StaffRoleAdmin && role != models.StaffRoleStaff {
			return nil, ErrStaffUserInvalid
		}
		if user.Role == models.StaffRoleAdmin && role != models.StaffRoleAdmin {
			if err := s.ensureAnotherAdmin(); err != nil {
				return nil, err
			}
		}
		if role != user.Role {
			user.Role = role
			revoke = true
		}
	}
	if input.IsActive != nil && *input.IsActive != user.IsActive {
		if !*input.IsActive && user.Role == models.StaffRoleAdmin {
			if err := s.ensureAnotherAdmin(); err != nil {
				return nil, err
			}
		}
		user.IsActive = *input.IsActive
		revoke = true
	}
	if input.Password != nil && *input.Password != "" {
		if err := s.authSvc.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		revoke = true
	}
	if revoke {
		now := time.Now()
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}
	if err := s.staffRepo.Update(user); err != nil {
		return nil, err
	}
	if s.authz != nil {
		if err := s.authz.AssignRole(user.ID, user.Role); err != nil {
			return nil, err
		}
	}
	_ = cache.SetStaffAuthState(context.Background(), cache.BuildStaffAuthState(user))
	return user, nil
}

// Delete 删除账号，至少保留一个管理员
func (s *StaffUserService) Delete(id, operatorID uint) error {
	user, err := s.staffRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrStaffUserNotFound
	}
	if id == operatorID {
		return ErrStaffUserInvalid
	}
	if user.Role == models.StaffRoleAdmin {
		if err := s.ensureAnotherAdmin(); err != nil {
			return err
		}
	}
	if err := s.staffRepo.Delete(id); err != nil {
		return err
	}
	if s.authz != nil {
		if err := s.authz.RemoveStaff(id); err != nil {
			return err
		}
	}
	_ = cache.DelStaffAuthState(context.Background(), id)
	logger.Infow("staff_user_deleted", "staff_id", id, "operator_id", operatorID)
	return nil
}

func (s *StaffUserService) ensureAnotherAdmin() error {
	count, err := s.staffRepo.CountByRole(models.StaffRoleAdmin)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrStaffUserLastAdmin
	}
	return nil
}
