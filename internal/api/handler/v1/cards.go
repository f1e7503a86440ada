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

type CardService interface {
	RegisterCard(ctx context.Context, uid string, userID uint) (domain.Card, error)
	GetCards(ctx context.Context, userID uint) ([]domain.Card, error)
	DeactivateCard(ctx context.Context, uid string) error
}

type CardHandler struct {
	svc CardService
}

func NewCardHandler(svc CardService) *CardHandler {
	return &CardHandler{
		svc: svc,
	}
}

// HandleRegisterCard godoc
// @Summary      Register an NFC card
// @Description  Binds a card UID to a member and stamps the current tier onto it.
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        input  body      request.RegisterCardRequest  true  "Card"
// @Success      201    {object}  domain.Card
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /cards [post]
// @Security BearerAuth
func (h *CardHandler) HandleRegisterCard(ctx *gin.Context) {
	var req request.RegisterCardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	card, err := h.svc.RegisterCard(ctx.Request.Context(), req.UID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMembershipNotFound):
			response.RenderErr(ctx, response.ErrNotFound("membership", "userID", fmt.Sprint(req.UserID)))
		case errors.Is(err, service.ErrCardUIDExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCardUIDExists))
		default:
			err = fmt.Errorf("v1.HandleRegisterCard -> h.svc.RegisterCard -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, card)
}

// HandleGetCards godoc
// @Summary      List a member's active cards
// @Tags         cards
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200  {array}   domain.Card
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /memberships/{userID}/cards [get]
// @Security BearerAuth
func (h *CardHandler) HandleGetCards(ctx *gin.Context) {
	userID, respErr := parseUserIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	cards, err := h.svc.GetCards(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCards -> h.svc.GetCards -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cards)
}

// HandleDeactivateCard godoc
// @Summary      Deactivate an NFC card
// @Tags         cards
// @Produce      json
// @Param        uid  path  string  true  "Card UID"
// @Success      204
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /cards/{uid} [delete]
// @Security BearerAuth
func (h *CardHandler) HandleDeactivateCard(ctx *gin.Context) {
	uid := ctx.Param("uid")

	if err := h.svc.DeactivateCard(ctx.Request.Context(), uid); err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("card", "uid", uid))
			return
		}

		err = fmt.Errorf("v1.HandleDeactivateCard -> h.svc.DeactivateCard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
