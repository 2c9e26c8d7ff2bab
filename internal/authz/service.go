package authz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	staffSubjectFmt = "staff:%d"
	rolePrefix      = "role:"
)

const defaultRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service Casbin 授权服务
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务，策略持久化在 casbin_rule 表
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(defaultRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}

	return &Service{enforcer: enforcer}, nil
}

// Enforce 执行授权判断
func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(strings.TrimSpace(sub), NormalizeObject(obj), NormalizeAction(act))
}

// EnforceStaff 按后台账号 ID 判定授权
func (s *Service) EnforceStaff(staffID uint, obj, act string) (bool, error) {
	return s.Enforce(SubjectForStaff(staffID), obj, act)
}

// AssignRole 覆盖设置账号角色（每个账号只有一个角色）
func (s *Service) AssignRole(staffID uint, role string) error {
	if staffID == 0 {
		return fmt.Errorf("staff id is required")
	}
	normalized, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	subject := SubjectForStaff(staffID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear staff roles failed: %w", err)
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, normalized); err != nil {
		return fmt.Errorf("assign staff role failed: %w", err)
	}
	return nil
}

// RemoveStaff 删除账号的全部角色绑定
func (s *Service) RemoveStaff(staffID uint) error {
	if staffID == 0 {
		return nil
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, SubjectForStaff(staffID)); err != nil {
		return fmt.Errorf("remove staff roles failed: %w", err)
	}
	return nil
}

// GetStaffRoles 查询账号角色
func (s *Service) GetStaffRoles(staffID uint) ([]string, error) {
	if staffID == 0 {
		return nil, fmt.Errorf("staff id is required")
	}
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}
	roles, err := s.enforcer.GetRolesForUser(SubjectForStaff(staffID))
	if err != nil {
		return nil, fmt.Errorf("get staff roles failed: %w", err)
	}
	sort.Strings(roles)
	return roles, nil
}

// GetRolePolicies 查询角色策略
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, normalized)
	if err != nil {
		return nil, fmt.Errorf("get role policies failed: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Subject: strings.TrimSpace(rule[0]),
			Object:  NormalizeObject(rule[1]),
			Action:  NormalizeAction(rule[2]),
		})
	}
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Object == policies[j].Object {
			return policies[i].Action < policies[j].Action
		}
		return policies[i].Object < policies[j].Object
	})
	return policies, nil
}

// SubjectForStaff 生成后台账号主体标识
func SubjectForStaff(staffID uint) string {
	return fmt.Sprintf(staffSubjectFmt, staffID)
}

// NormalizeRole 统一角色名称
func NormalizeRole(role string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	if normalized == "" {
		return "", fmt.Errorf("role is required")
	}
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if !strings.HasPrefix(normalized, rolePrefix) {
		normalized = rolePrefix + normalized
	}
	if len(normalized) <= len(rolePrefix) {
		return "", fmt.Errorf("role is required")
	}
	return normalized, nil
}

// NormalizeObject 统一授权资源路径
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if normalized == "" {
		return "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if strings.HasPrefix(normalized, apiV1Prefix+"/") {
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	if normalized == apiV1Prefix {
		return "/"
	}
	return normalized
}

// NormalizeAction 统一授权动作
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
