package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Adiaj449/wiresandnails/internal/middleware"
)

// SessionCookieSigner はセッションCookieの署名と検証を行う。
type SessionCookieSigner interface {
	CookieSigner
	middleware.CookieVerifier
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionStore      middleware.SessionToucher
	CookieSigner      SessionCookieSigner
	CORSAllowedOrigin string
	TrustProxy        bool
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 監視
	HealthChecker  HealthChecker
	HTTPMetrics    middleware.HTTPRecorder // nilの場合はHTTPメトリクスを記録しない
	MetricsHandler http.Handler            // nilの場合は/metricsを公開しない

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 販売店
	DealerService DealerServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → (RealIP) → SecurityHeaders → Metrics → CORS → Session → Logging
//
// ガード（RequireAuth / RequireAuthRedirect / RequireAdmin）はルートグループごとに適用し、
// その内側にレート制限とCSRF検証を置く。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.NewSecurityHeadersMiddleware(deps.AuthConfig.CookieSecure))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSessionMiddleware(deps.SessionStore, deps.CookieSigner, deps.AuthConfig.cookieOptions()))
	r.Use(middleware.NewLoggingMiddleware(logger))

	authHandler := NewAuthHandler(deps.AuthService, deps.CookieSigner, deps.AuthConfig)
	dealerHandler := NewDealerHandler(deps.DealerService)
	pageHandler := NewPageHandler(deps.DealerService)

	csrf := middleware.NewCSRFMiddleware(middleware.CSRFConfig{
		CookieSecure: deps.AuthConfig.CookieSecure,
		CookieDomain: deps.AuthConfig.CookieDomain,
	})

	// --- 監視 ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証不要のルート ---
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/auth/login", authHandler.Login)
	r.With(csrf).Get("/", pageHandler.Landing)
	r.With(csrf).Post("/auth/logout", authHandler.Logout)

	// --- HTMLページ（未ログインはトップページへリダイレクト） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthRedirect(landingPath))
		r.Use(csrf)

		r.Get(dashboardPath, pageHandler.Dashboard)
		r.Get("/dashboard", pageHandler.Dashboard)
	})

	// --- ログイン必須のAPI ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(csrf)

		r.Get("/auth/me", authHandler.Me)

		r.Route("/api/dealers", func(r chi.Router) {
			r.Get("/", dealerHandler.List)
			r.Post("/", dealerHandler.Save)
			r.Get("/{id}", dealerHandler.Get)
			r.Delete("/{id}", dealerHandler.Delete)
		})
	})

	// --- 管理者専用のAPI ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/admin/all-dealers", dealerHandler.ListAll)
	})

	return r
}
