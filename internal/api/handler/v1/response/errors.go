package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int    `json:"-"`
	ErrorMsg   string `json:"error"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("%v (HTTP %v)", e.ErrorMsg, e.StatusCode)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		ErrorMsg:   err.Error(),
	}
}

func ErrNotFound(entity, key string, value interface{}) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		ErrorMsg:   fmt.Sprintf("%v not found with %v %v", entity, key, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		ErrorMsg:   err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		ErrorMsg:   err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		ErrorMsg:   err.Error(),
	}
}

// ErrUnprocessable covers requests that are well-formed but cannot be
// acted on, e.g. a consumption recorded while no point rule is configured.
func ErrUnprocessable(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnprocessableEntity,
		ErrorMsg:   err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		StatusCode: http.StatusInternalServerError,
		ErrorMsg:   "internal server error",
	}
}

// ErrLedgerDiverged maps a partial failure: the ledger entry was written
// but the membership was not updated. The 500 carries an explicit marker
// so operators know reconciliation is required rather than a retry.
func ErrLedgerDiverged(err error) *Err {
	zap.L().Error("ledger divergence surfaced to client", zap.Error(err))

	return &Err{
		StatusCode: http.StatusInternalServerError,
		ErrorMsg:   "points ledger divergence, reconciliation required",
	}
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.StatusCode, err)
}
