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

type MembershipService interface {
	Enroll(ctx context.Context, userID uint) (domain.Membership, error)
	GetMembership(ctx context.Context, userID uint) (domain.Membership, error)
	Deactivate(ctx context.Context, userID uint) error
}

type PointsService interface {
	AdjustPointsManually(ctx context.Context, userID uint, deltaPoints int64, reason string) (domain.AdjustmentResult, error)
	Reconcile(ctx context.Context, userID uint) (domain.ReconciliationResult, error)
	GetLedger(ctx context.Context, userID uint, limit, offset int) ([]domain.LedgerEntry, error)
}

type CardSyncer interface {
	SyncTier(ctx context.Context, userID uint, tier string) error
}

type MembershipHandler struct {
	svc    MembershipService
	points PointsService
	cards  CardSyncer
}

func NewMembershipHandler(svc MembershipService, points PointsService, cards CardSyncer) *MembershipHandler {
	return &MembershipHandler{
		svc:    svc,
		points: points,
		cards:  cards,
	}
}

// HandleEnroll godoc
// @Summary      Enroll a user into the VIP program
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        input  body      request.EnrollMembershipRequest  true  "Enrollment details"
// @Success      201    {object}  domain.Membership
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /memberships [post]
// @Security BearerAuth
func (h *MembershipHandler) HandleEnroll(ctx *gin.Context) {
	var req request.EnrollMembershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	membership, err := h.svc.Enroll(ctx.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "userID", req.UserID))
			return
		}
		if errors.Is(err, service.ErrMembershipExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrMembershipExists))
			return
		}

		err = fmt.Errorf("v1.HandleEnroll -> h.svc.Enroll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, membership)
}

// HandleGetMembership godoc
// @Summary      Get a user's VIP membership
// @Tags         memberships
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200  {object}  domain.Membership
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /memberships/{userID} [get]
// @Security BearerAuth
func (h *MembershipHandler) HandleGetMembership(ctx *gin.Context) {
	userID, respErr := parseUserIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	membership, err := h.svc.GetMembership(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrMembershipNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("membership", "userID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetMembership -> h.svc.GetMembership -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, membership)
}

// HandleGetLedger godoc
// @Summary      Get a user's points ledger
// @Description  Returns the append-only points log in chronological order.
// @Tags         memberships
// @Produce      json
// @Param        userID  path      int  true   "User ID"
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200  {object}  response.LedgerResponse
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /memberships/{userID}/ledger [get]
// @Security BearerAuth
func (h *MembershipHandler) HandleGetLedger(ctx *gin.Context) {
	userID, respErr := parseUserIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	limit, offset := parsePagination(ctx)

	entries, err := h.points.GetLedger(ctx.Request.Context(), userID, limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetLedger -> h.points.GetLedger -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LedgerResponse{
		Entries: entries,
		Limit:   limit,
		Offset:  offset,
	})
}

// HandleAdjustPoints godoc
// @Summary      Manually adjust a user's points
// @Description  Appends a manual adjustment to the ledger and applies it to the balance. Deductions never reduce lifetime points.
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        userID  path      int                          true  "User ID"
// @Param        input   body      request.AdjustPointsRequest  true  "Adjustment"
// @Success      200  {object}  response.AdjustmentResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /memberships/{userID}/adjustments [post]
// @Security BearerAuth
func (h *MembershipHandler) HandleAdjustPoints(ctx *gin.Context) {
	userID, respErr := parseUserIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AdjustPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.points.AdjustPointsManually(ctx.Request.Context(), userID, req.DeltaPoints, req.Reason)
	if err != nil {
		h.renderPointsErr(ctx, "v1.HandleAdjustPoints", userID, err)
		return
	}

	if result.TierChanged {
		h.syncCards(ctx, userID, result.NewTier)
	}

	ctx.JSON(http.StatusOK, response.AdjustmentResponse{
		Success:     true,
		NewBalance:  result.NewBalance,
		NewTier:     result.NewTier,
		TierChanged: result.TierChanged,
	})
}

// HandleReconcile godoc
// @Summary      Reconcile a membership against its ledger
// @Description  Replays the points ledger and repairs the membership balances and tier if they drifted.
// @Tags         memberships
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200  {object}  domain.ReconciliationResult
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /memberships/{userID}/reconcile [post]
// @Security BearerAuth
func (h *MembershipHandler) HandleReconcile(ctx *gin.Context) {
	userID, respErr := parseUserIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	result, err := h.points.Reconcile(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrMembershipNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("membership", "userID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleReconcile -> h.points.Reconcile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if result.Repaired {
		h.syncCards(ctx, userID, result.Tier)
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleDeactivate godoc
// @Summary      Deactivate a VIP membership
// @Description  Flags the membership as disabled; the record and its ledger remain for audit.
// @Tags         memberships
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /memberships/{userID} [delete]
// @Security BearerAuth
func (h *MembershipHandler) HandleDeactivate(ctx *gin.Context) {
	userID, respErr := parseUserIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Deactivate(ctx.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrMembershipNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("membership", "userID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleDeactivate -> h.svc.Deactivate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *MembershipHandler) renderPointsErr(ctx *gin.Context, op string, userID uint, err error) {
	switch {
	case errors.Is(err, service.ErrZeroDelta), errors.Is(err, service.ErrEmptyReason), errors.Is(err, service.ErrNonPositiveAmount):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrMembershipNotFound):
		response.RenderErr(ctx, response.ErrNotFound("membership", "userID", userID))
	default:
		var partial *service.PartialFailureError
		if errors.As(err, &partial) {
			response.RenderErr(ctx, response.ErrLedgerDiverged(err))
			return
		}

		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%v -> %w", op, err)))
	}
}

// syncCards propagates a tier change onto the user's NFC cards. A sync
// failure does not fail the points operation that already committed.
func (h *MembershipHandler) syncCards(ctx *gin.Context, userID uint, tier string) {
	if err := h.cards.SyncTier(ctx.Request.Context(), userID, tier); err != nil {
		zap.L().Error("nfc card sync failed after tier change",
			zap.Uint("user_id", userID),
			zap.String("tier", tier),
			zap.Error(err),
		)
	}
}
