package authz

import (
	"fmt"

	"github.com/luckyscan/internal/models"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds 预置角色矩阵：管理员拥有全部后台接口，兑奖员工只能查询与核销兑奖码
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: models.StaffRoleAdmin,
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
		{
			Role: models.StaffRoleStaff,
			Policies: []Policy{
				{Object: "/admin/me", Action: "GET"},
				{Object: "/admin/authz/me", Action: "GET"},
				{Object: "/admin/password", Action: "PUT"},
				{Object: "/admin/prizes/redeem", Action: "POST"},
				{Object: "/admin/prizes/:code", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}

// SyncStaffRoles 按账号表中的角色字段同步角色绑定
func (s *Service) SyncStaffRoles(users []models.StaffUser) error {
	for _, user := range users {
		if err := s.AssignRole(user.ID, user.Role); err != nil {
			return err
		}
	}
	return nil
}
