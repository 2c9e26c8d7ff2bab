package admin

import (
	"github.com/luckyscan/internal/authz"
	"github.com/luckyscan/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAuthzMe 获取当前账号角色与权限
func (h *Handler) GetAuthzMe(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetStaffRoles(staffID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	policies := make([]authz.Policy, 0)
	for _, role := range roles {
		rolePolicies, err := h.AuthzService.GetRolePolicies(role)
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		policies = append(policies, rolePolicies...)
	}

	response.Success(c, gin.H{
		"staff_id": staffID,
		"roles":    roles,
		"policies": policies,
	})
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	policies, err := h.AuthzService.GetRolePolicies(c.Param("role"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, policies)
}
