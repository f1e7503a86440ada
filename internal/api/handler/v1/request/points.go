package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateConsumptionRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

func (req *CreateConsumptionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Amount, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Currency, validation.Required, validation.Length(3, 3)),
	)
}

type AdjustPointsRequest struct {
	DeltaPoints int64  `json:"delta_points" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

func (req *AdjustPointsRequest) Validate() error {
	// Required rejects the zero value, which is exactly the non-zero
	// delta precondition.
	return validation.ValidateStruct(
		req,
		validation.Field(&req.DeltaPoints, validation.Required),
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 255)),
	)
}

type EnrollMembershipRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (req *EnrollMembershipRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
	)
}
