package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/velora-agency/api/internal/api/handler/v1/response"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func parseUserIDParam(ctx *gin.Context) (uint, *response.Err) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil || userID == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid user ID: %v", ctx.Param("userID")))
	}

	return uint(userID), nil
}

func parsePagination(ctx *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset, err = strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}
