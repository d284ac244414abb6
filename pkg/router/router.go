// Package router adapts typed domain handlers onto gin. Each endpoint binds
// its request, runs validation when the request implements it, and renders
// the shared response envelope.
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/validation"
	"github.com/payroll-lab/backend/pkg/errorx"
	"github.com/payroll-lab/backend/pkg/xcontext"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler and may enrich the request context.
type MiddlewareFunc func(ctx context.Context, r *http.Request) (context.Context, error)

type Router struct {
	Inner gin.IRouter

	baseCtx     context.Context
	middlewares []MiddlewareFunc
}

// New creates a router whose handlers run on top of baseCtx. The base
// context carries the process-wide environment (configs, logger, database).
func New(baseCtx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{Inner: gin.New(), baseCtx: baseCtx}
}

func (r *Router) Use(middleware MiddlewareFunc) {
	r.middlewares = append(r.middlewares, middleware)
}

func (r *Router) Group(pattern string) *Router {
	return &Router{
		Inner:       r.Inner.Group(pattern),
		baseCtx:     r.baseCtx,
		middlewares: r.middlewares,
	}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func wrapHandler[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = ginCtx.BindQuery(&req)
		default:
			err = ginCtx.ShouldBindJSON(&req)
		}
		if err != nil {
			writeError(ginCtx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			return
		}

		if v, ok := any(req).(validation.Validatable); ok {
			if err := v.Validate(); err != nil {
				writeError(ginCtx, errorx.New(errorx.BadRequest, "%s", err.Error()))
				return
			}
		}

		ctx := r.baseCtx
		for _, middleware := range r.middlewares {
			if ctx, err = middleware(ctx, ginCtx.Request); err != nil {
				writeError(ginCtx, err)
				return
			}
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Request %s failed: %v", ginCtx.FullPath(), err)
			writeError(ginCtx, err)
			return
		}

		ginCtx.JSON(http.StatusOK, newResponse(resp))
	}
}
