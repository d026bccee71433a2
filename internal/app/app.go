// Package app はアプリケーションの初期化・依存関係のワイヤリング・起動を提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/pawmart/internal/account"
	"github.com/hitoshi/pawmart/internal/auth"
	"github.com/hitoshi/pawmart/internal/config"
	"github.com/hitoshi/pawmart/internal/database"
	"github.com/hitoshi/pawmart/internal/handler"
	"github.com/hitoshi/pawmart/internal/listing"
	"github.com/hitoshi/pawmart/internal/logger"
	"github.com/hitoshi/pawmart/internal/metrics"
	"github.com/hitoshi/pawmart/internal/middleware"
	"github.com/hitoshi/pawmart/internal/order"
	"github.com/hitoshi/pawmart/internal/repository"
	"github.com/hitoshi/pawmart/internal/security"
	"github.com/hitoshi/pawmart/internal/subscription"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) *config.Config {
	// ログの初期化（設定読み込み時の警告を出せるように先に行う）
	logger.SetupDefault(w)

	return config.Load()
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg := Init(w)

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
//
// DATABASE_URLとAUTH_SERVICE_KEYのどちらが欠けていても起動は継続する。
// ストレージ未設定ならデータ系ルートが実行時エラーに、資格情報バンドル
// 未設定なら保護ルートが503に縮退する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	// sql.Openは遅延接続のため、URL未設定でもハンドル自体は常に開く。
	// その場合データ系ルートはクエリ実行時にエラーとなり、500に縮退する。
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if cfg.DatabaseURL != "" {
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		slog.Info("database connection established")
	}

	// 2. トークン検証器の初期化（未設定・不正なら保護ルートを503に縮退）
	// 失敗時に型付きnilをインターフェースへ入れないよう、成功時のみ代入する
	var verifier auth.TokenVerifier
	if cfg.AuthServiceKey != "" {
		v, err := auth.NewVerifierFromBundle(cfg.AuthServiceKey)
		if err != nil {
			slog.Warn("failed to initialize token verifier; protected routes will return 503",
				slog.String("error", err.Error()),
			)
		} else {
			verifier = v
			slog.Info("token verifier initialized")
		}
	}

	// 3. リポジトリの初期化
	accountRepo := repository.NewPostgresAccountRepo(db)
	listingRepo := repository.NewPostgresListingRepo(db)
	orderRepo := repository.NewPostgresOrderRepo(db)
	subRepo := repository.NewPostgresSubscriptionRepo(db)

	// 4. セキュリティサービスの初期化
	sanitizer := security.NewContentSanitizer()

	// 5. ドメインサービスの初期化
	accountService := account.NewService(accountRepo)
	listingService := listing.NewService(listingRepo, sanitizer)
	orderService := order.NewService(orderRepo)
	subService := subscription.NewService(subRepo)

	// 6. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 7. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitAuthed, cfg.RateLimitPublic),
	)
	defer rateLimiter.Stop()

	// ストレージ未設定時は/healthでの死活確認をスキップさせる
	var checker handler.HealthChecker
	if cfg.DatabaseURL != "" {
		checker = db
	}

	deps := &handler.RouterDeps{
		HealthChecker:     checker,
		Verifier:          verifier,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		MetricsRecorder:   collector,
		MetricsGatherer:   registry,

		AccountService:      accountService,
		ListingService:      listingService,
		OrderService:        orderService,
		SubscriptionService: subService,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migration")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
