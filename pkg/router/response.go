package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/payroll-lab/backend/pkg/errorx"
)

type response struct {
	Code  int    `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{
			Code:  int(errx.Code),
			Error: errx.Message,
		}
	}

	return response{
		Code:  int(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func writeError(ginCtx *gin.Context, err error) {
	// Domain errors keep their own code inside the envelope, the transport
	// status stays 200 except for malformed requests.
	status := http.StatusOK
	errx := errorx.Error{}
	if errors.As(err, &errx) && errx.Code == errorx.BadRequest {
		status = http.StatusBadRequest
	}

	ginCtx.JSON(status, newErrorResponse(err))
}
