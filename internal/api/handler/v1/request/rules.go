package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateRuleRequest struct {
	ActionType    string `json:"action_type" binding:"required"`
	PointsPerUnit int64  `json:"points_per_unit" binding:"required"`
	UnitSize      int64  `json:"unit_size" binding:"required"`
	Unit          string `json:"unit" binding:"required"`
}

func (req *CreateRuleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ActionType, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.PointsPerUnit, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.UnitSize, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Unit, validation.Required, validation.Length(1, 20)),
	)
}

type UpdateRuleRequest struct {
	PointsPerUnit int64  `json:"points_per_unit" binding:"required"`
	UnitSize      int64  `json:"unit_size" binding:"required"`
	Unit          string `json:"unit" binding:"required"`
	Active        *bool  `json:"active"`
}

func (req *UpdateRuleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PointsPerUnit, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.UnitSize, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Unit, validation.Required, validation.Length(1, 20)),
	)
}

type RegisterCardRequest struct {
	UID    string `json:"uid" binding:"required"`
	UserID uint   `json:"user_id" binding:"required"`
}

func (req *RegisterCardRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UID, validation.Required, validation.Length(4, 64)),
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
	)
}
