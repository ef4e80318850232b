package user

import (
	errors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/auth"
	"github.com/henryantwi/activity-tracker/internal/core/common/validation"
)

type UpdateRoleDTO struct {
	Role string `json:"role"`
}

func (dto UpdateRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("role", dto.Role).Required().OneOf(errors.ErrCodeInvalidRole, auth.RoleAdmin, auth.RoleManager, auth.RoleMember)
	return v.Validate()
}
