package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/apphub/internal/metrics"
	"github.com/hitoshi/apphub/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionValidator  middleware.SessionValidator
	CORSAllowedOrigin string
	Logger            *slog.Logger

	// メトリクス（nil可。nilの場合は記録と/metrics公開をスキップ）
	Metrics         *metrics.Collector
	MetricsGatherer prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// プロジェクト
	ProjectService ProjectServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging
//
// 認証（セッションCookie検証）は変更系のプロジェクトルートにのみ適用する。
// 一覧取得・ログイン関連・ヘルスチェック・メトリクスは認証不要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	var mutationRecorder metrics.MutationRecorder
	var httpRecorder metrics.HTTPRecorder
	if deps.Metrics != nil {
		mutationRecorder = deps.Metrics
		httpRecorder = deps.Metrics
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, httpRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, mutationRecorder)
	projectHandler := NewProjectHandler(deps.ProjectService, mutationRecorder)

	// ヘルスチェック（DB疎通確認）
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheusスクレイプ
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// 管理者セッション管理
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)
	})

	// プロジェクトディレクトリ
	r.Route("/projects", func(r chi.Router) {
		// 一覧は公開ページから誰でも参照できる
		r.Get("/", projectHandler.List)

		// 変更系はセッションCookie必須
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.SessionValidator))
			r.Post("/", projectHandler.Create)
			r.Patch("/{id}", projectHandler.Update)
			r.Delete("/{id}", projectHandler.Delete)
		})
	})

	return r
}
