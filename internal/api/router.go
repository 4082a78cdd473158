package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/arenaplay/wallet-core/internal/api/handler"
	"github.com/arenaplay/wallet-core/internal/api/middleware"
	"github.com/arenaplay/wallet-core/internal/core/ports"
	"github.com/arenaplay/wallet-core/internal/core/service"
	"github.com/arenaplay/wallet-core/internal/infrastructure/config"
	"github.com/arenaplay/wallet-core/internal/infrastructure/platform"
)

// NewRouter builds the Echo instance with all routes registered. It is the
// composition root: platform clients, session manager and wallet cache are
// wired here, and the persisted session is restored before any route can be
// served.
func NewRouter(cfg *config.Config, store ports.KeyValueStore, log zerolog.Logger) (*echo.Echo, *service.WalletCache) {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("wallet"))
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	// The platform client reads the bearer token lazily so the session
	// manager can be constructed after it despite the mutual reference.
	var sessions *service.SessionManager
	client := platform.NewClient(cfg.Platform.BaseURL, cfg.Platform.Timeout, func() string {
		if sessions == nil {
			return ""
		}
		return sessions.AuthToken()
	}, log)

	sessions = service.NewSessionManager(platform.NewAuthClient(client), store, log)
	wallet := service.NewWalletCache(platform.NewWalletClient(client), platform.NewUserClient(client), log)

	// Restore runs once, before any screen reads the session.
	sessions.Restore(context.Background())

	sessionHandler := handler.NewSessionHandler(sessions)
	walletHandler := handler.NewWalletHandler(wallet)
	requireSession := middleware.RequireSession(sessions)

	// --- Auth routes ---
	e.POST("/auth/login", sessionHandler.Login)
	e.POST("/auth/register", sessionHandler.Register)
	e.POST("/auth/logout", sessionHandler.Logout)
	e.GET("/auth/session", sessionHandler.Session)
	e.PATCH("/auth/profile", sessionHandler.UpdateProfile, requireSession)

	// --- Wallet routes (session required) ---
	w := e.Group("/wallet", requireSession)
	w.GET("", walletHandler.State)
	w.POST("/refresh", walletHandler.Refresh)
	w.GET("/transactions", walletHandler.Transactions)
	w.POST("/deposit", walletHandler.Deposit)
	w.POST("/withdraw", walletHandler.Withdraw)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(store)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e, wallet
}
