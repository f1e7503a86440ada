package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/velora-agency/api/internal/api/handler/v1/request"
	"github.com/velora-agency/api/internal/api/handler/v1/response"
	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/service"
)

type ConsumptionService interface {
	RecordConsumption(ctx context.Context, userID uint, amount int64, currency string) (domain.Consumption, domain.ConsumptionResult, error)
	GetConsumptions(ctx context.Context, userID uint, limit, offset int) ([]domain.Consumption, error)
}

type ConsumptionHandler struct {
	svc   ConsumptionService
	cards CardSyncer
}

func NewConsumptionHandler(svc ConsumptionService, cards CardSyncer) *ConsumptionHandler {
	return &ConsumptionHandler{
		svc:   svc,
		cards: cards,
	}
}

// HandleRecordConsumption godoc
// @Summary      Record a POS consumption and award points
// @Description  Persists the consumption, then awards points per the configured rule. If no rule is configured the consumption is kept and 422 is returned.
// @Tags         consumptions
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateConsumptionRequest  true  "Consumption"
// @Success      201    {object}  response.ConsumptionResponse
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      422    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /consumptions [post]
// @Security BearerAuth
func (h *ConsumptionHandler) HandleRecordConsumption(ctx *gin.Context) {
	var req request.CreateConsumptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	consumption, result, err := h.svc.RecordConsumption(ctx.Request.Context(), req.UserID, req.Amount, req.Currency)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNonPositiveAmount):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrRuleNotFound):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrRuleNotFound))
		case errors.Is(err, service.ErrMembershipNotFound):
			response.RenderErr(ctx, response.ErrNotFound("membership", "userID", req.UserID))
		default:
			var partial *service.PartialFailureError
			if errors.As(err, &partial) {
				response.RenderErr(ctx, response.ErrLedgerDiverged(err))
				return
			}

			err = fmt.Errorf("v1.HandleRecordConsumption -> h.svc.RecordConsumption -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	if result.TierChanged {
		if err = h.cards.SyncTier(ctx.Request.Context(), req.UserID, result.NewTier); err != nil {
			zap.L().Error("nfc card sync failed after tier change",
				zap.Uint("user_id", req.UserID),
				zap.String("tier", result.NewTier),
				zap.Error(err),
			)
		}
	}

	ctx.JSON(http.StatusCreated, response.ConsumptionResponse{
		Consumption:   consumption,
		PointsAwarded: result.PointsAwarded,
		NewBalance:    result.NewBalance,
		NewTier:       result.NewTier,
		TierChanged:   result.TierChanged,
	})
}

// HandleGetConsumptions godoc
// @Summary      List a user's consumptions
// @Tags         consumptions
// @Produce      json
// @Param        userID  path      int  true   "User ID"
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200  {array}   domain.Consumption
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /memberships/{userID}/consumptions [get]
// @Security BearerAuth
func (h *ConsumptionHandler) HandleGetConsumptions(ctx *gin.Context) {
	userID, respErr := parseUserIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	limit, offset := parsePagination(ctx)

	consumptions, err := h.svc.GetConsumptions(ctx.Request.Context(), userID, limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetConsumptions -> h.svc.GetConsumptions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, consumptions)
}
