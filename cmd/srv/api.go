package main

import (
	"fmt"
	"net/http"

	"github.com/payroll-lab/backend/internal/middleware"
	"github.com/payroll-lab/backend/pkg/router"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadContext()
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	handler := s.loadRouter().Handler()

	addr := fmt.Sprintf("%s:%s", cfg.ApiServer.Host, cfg.ApiServer.Port)
	xcontext.Logger(s.ctx).Infof("Starting api server on %s", addr)

	httpSrv := &http.Server{Addr: addr, Handler: handler}
	if err := httpSrv.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() *router.Router {
	r := router.New(s.ctx)
	r.Use(middleware.Logger())
	r.Use(middleware.WithWallet())
	r.Use(middleware.WithBlockHeight())

	router.GET(r, "/getPlatform", s.platformDomain.Get)
	router.GET(r, "/getRaffle", s.raffleDomain.Get)

	authRouter := r.Group("/")
	authRouter.Use(middleware.RequireWallet())

	router.POST(authRouter, "/initPlatform", s.platformDomain.Init)
	router.POST(authRouter, "/initSecurityConfig", s.platformDomain.InitSecurityConfig)
	router.POST(authRouter, "/pausePlatform", s.platformDomain.Pause)
	router.POST(authRouter, "/unpausePlatform", s.platformDomain.Unpause)
	router.POST(authRouter, "/initiateAdminTransfer", s.platformDomain.InitiateAdminTransfer)
	router.POST(authRouter, "/completeAdminTransfer", s.platformDomain.CompleteAdminTransfer)
	router.POST(authRouter, "/cancelAdminTransfer", s.platformDomain.CancelAdminTransfer)
	router.POST(authRouter, "/updatePlatformFee", s.platformDomain.UpdateFee)
	router.POST(authRouter, "/addToBlacklist", s.platformDomain.AddToBlacklist)
	router.POST(authRouter, "/removeFromBlacklist", s.platformDomain.RemoveFromBlacklist)
	router.POST(authRouter, "/updateSecurityConfig", s.platformDomain.UpdateSecurityConfig)

	router.POST(authRouter, "/createRaffle", s.raffleDomain.Create)
	router.POST(authRouter, "/buyTicket", s.raffleDomain.BuyTicket)
	router.POST(authRouter, "/drawWinner", s.raffleDomain.DrawWinner)
	router.POST(authRouter, "/setWinner", s.raffleDomain.SetWinner)
	router.POST(authRouter, "/claimPrize", s.raffleDomain.ClaimPrize)
	router.POST(authRouter, "/withdrawProceeds", s.raffleDomain.WithdrawProceeds)
	router.POST(authRouter, "/pauseRaffle", s.raffleDomain.Pause)
	router.POST(authRouter, "/unpauseRaffle", s.raffleDomain.Unpause)

	return r
}
