package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/payroll-lab/backend/pkg/errorx"
	"github.com/payroll-lab/backend/pkg/router"
	"github.com/payroll-lab/backend/pkg/xcontext"
)

const (
	walletHeader      = "X-Wallet-Address"
	blockHeightHeader = "X-Block-Height"
)

// WithWallet trusts the wallet address header placed by the signature proxy
// in front of this service and records it as the caller identity.
func WithWallet() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		if wallet := r.Header.Get(walletHeader); wallet != "" {
			ctx = xcontext.WithRequestWallet(ctx, wallet)
		}

		return ctx, nil
	}
}

// RequireWallet rejects requests that carry no caller identity.
func RequireWallet() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		if xcontext.RequestWallet(ctx) == "" {
			return nil, errorx.New(errorx.Unauthorized, "Wallet address is required")
		}

		return ctx, nil
	}
}

// WithBlockHeight records the ledger height observed by the caller, used by
// the draw confirmation checks.
func WithBlockHeight() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		raw := r.Header.Get(blockHeightHeader)
		if raw == "" {
			return ctx, nil
		}

		height, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid block height header")
		}

		return xcontext.WithBlockHeight(ctx, height), nil
	}
}

// Logger writes one line per request at debug level.
func Logger() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		xcontext.Logger(ctx).Debugf("%s %s", r.Method, r.URL.Path)
		return ctx, nil
	}
}
