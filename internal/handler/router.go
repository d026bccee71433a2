package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/pawmart/internal/auth"
	"github.com/hitoshi/pawmart/internal/metrics"
	"github.com/hitoshi/pawmart/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	Verifier          auth.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	MetricsRecorder   middleware.HTTPMetricsRecorder
	MetricsGatherer   prometheus.Gatherer

	// ドメインサービス
	AccountService      AccountServiceInterface
	ListingService      ListingServiceInterface
	OrderService        OrderServiceInterface
	SubscriptionService SubscriptionServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → Metrics → Logging
//
// その上で公開ルートにはIPベースのレート制限、
// 保護ルートには認可ゲート → Identityベースのレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))

	healthHandler := NewHealthHandler(deps.HealthChecker)
	accountHandler := NewAccountHandler(deps.AccountService)
	listingHandler := NewListingHandler(deps.ListingService)
	orderHandler := NewOrderHandler(deps.OrderService)
	subHandler := NewSubscriptionHandler(deps.SubscriptionService)

	// --- 運用ルート（レート制限なし）---
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 公開ルート ---
	// ミドルウェアスタック: RateLimit(Public: IPベース)
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.PublicMiddleware())
		}

		// アカウント管理
		r.Get("/users", accountHandler.ListAccounts)
		r.Post("/users", accountHandler.RegisterAccount)

		// リスティング閲覧
		r.Get("/listings", listingHandler.ListListings)
		r.Get("/recent-products", listingHandler.RecentListings)
		r.Get("/category-filtered-product/{category}", listingHandler.CategoryListings)
		r.Get("/search", listingHandler.SearchListings)

		// メール購読
		r.Post("/subscription", subHandler.Subscribe)
	})

	// --- 保護ルート ---
	// ミドルウェアスタック: 認可ゲート → RateLimit(Authed: Identityベース)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.Verifier))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.AuthedMiddleware())
		}

		// リスティング管理
		r.Get("/listing/{id}", listingHandler.GetListing)
		r.Get("/myListings/{email}", listingHandler.MyListings)
		r.Delete("/myListings/{id}", listingHandler.DeleteListing)
		r.Post("/listings", listingHandler.CreateListing)
		r.Patch("/updateItem/{id}", listingHandler.UpdateListing)

		// 注文管理
		r.Get("/myOrders/{email}", orderHandler.MyOrders)
		r.Post("/orders", orderHandler.PlaceOrder)
	})

	return r
}
