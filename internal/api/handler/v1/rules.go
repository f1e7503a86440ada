package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velora-agency/api/internal/api/handler/v1/request"
	"github.com/velora-agency/api/internal/api/handler/v1/response"
	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/service"
)

type RuleService interface {
	CreateRule(ctx context.Context, rule domain.PointRule) (domain.PointRule, error)
	UpdateRule(ctx context.Context, rule domain.PointRule) (domain.PointRule, error)
	GetRule(ctx context.Context, actionType string) (domain.PointRule, error)
	ListRules(ctx context.Context) ([]domain.PointRule, error)
}

type RuleHandler struct {
	svc RuleService
}

func NewRuleHandler(svc RuleService) *RuleHandler {
	return &RuleHandler{
		svc: svc,
	}
}

// HandleListRules godoc
// @Summary      List point rules
// @Tags         rules
// @Produce      json
// @Success      200  {array}   domain.PointRule
// @Failure      500  {object}  response.Err
// @Router       /rules [get]
// @Security BearerAuth
func (h *RuleHandler) HandleListRules(ctx *gin.Context) {
	rules, err := h.svc.ListRules(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListRules -> h.svc.ListRules -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rules)
}

// HandleGetRule godoc
// @Summary      Get a point rule
// @Tags         rules
// @Produce      json
// @Param        actionType  path      string  true  "Action type"
// @Success      200  {object}  domain.PointRule
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /rules/{actionType} [get]
// @Security BearerAuth
func (h *RuleHandler) HandleGetRule(ctx *gin.Context) {
	actionType := ctx.Param("actionType")

	rule, err := h.svc.GetRule(ctx.Request.Context(), actionType)
	if err != nil {
		if errors.Is(err, service.ErrRuleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("point rule", "actionType", actionType))
			return
		}

		err = fmt.Errorf("v1.HandleGetRule -> h.svc.GetRule -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rule)
}

// HandleCreateRule godoc
// @Summary      Create a point rule
// @Description  Creates the rule for an action type. An existing rule for the same action type conflicts; use update instead.
// @Tags         rules
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateRuleRequest  true  "Rule"
// @Success      201    {object}  domain.PointRule
// @Failure      400    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /rules [post]
// @Security BearerAuth
func (h *RuleHandler) HandleCreateRule(ctx *gin.Context) {
	var req request.CreateRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rule, err := h.svc.CreateRule(ctx.Request.Context(), domain.PointRule{
		ActionType:    req.ActionType,
		PointsPerUnit: req.PointsPerUnit,
		UnitSize:      req.UnitSize,
		Unit:          req.Unit,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRuleExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRuleExists))
		case errors.Is(err, service.ErrInvalidRuleRate):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateRule -> h.svc.CreateRule -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, rule)
}

// HandleUpdateRule godoc
// @Summary      Update a point rule
// @Tags         rules
// @Accept       json
// @Produce      json
// @Param        actionType  path      string                     true  "Action type"
// @Param        input       body      request.UpdateRuleRequest  true  "Rule fields"
// @Success      200  {object}  domain.PointRule
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /rules/{actionType} [put]
// @Security BearerAuth
func (h *RuleHandler) HandleUpdateRule(ctx *gin.Context) {
	actionType := ctx.Param("actionType")

	var req request.UpdateRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rule, err := h.svc.UpdateRule(ctx.Request.Context(), domain.PointRule{
		ActionType:    actionType,
		PointsPerUnit: req.PointsPerUnit,
		UnitSize:      req.UnitSize,
		Unit:          req.Unit,
		Active:        active,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRuleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("point rule", "actionType", actionType))
		case errors.Is(err, service.ErrInvalidRuleRate):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateRule -> h.svc.UpdateRule -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, rule)
}
