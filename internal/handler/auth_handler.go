// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/apphub/internal/metrics"
	"github.com/hitoshi/apphub/internal/middleware"
	"github.com/hitoshi/apphub/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login は管理者の資格情報を検証する（初回は管理者行を遅延生成する）。
	Login(ctx context.Context, username, password string) error
	// SessionToken はプロセス全体で共有される静的セッショントークンを返す。
	SessionToken() string
	// IsAuthenticated はCookie値が共有トークンと一致するかを返す。
	IsAuthenticated(cookieValue string) bool
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler は管理者認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
	metrics metrics.MutationRecorder
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnil可。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, metrics metrics.MutationRecorder) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		metrics: metrics,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionResponse はセッション確認のレスポンス。
type sessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// messageResponse は操作結果メッセージのレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// Login は管理者の資格情報を検証し、成功時にセッションCookieを発行する。
// POST /admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidRequest,
			Message:  "ログインリクエストのボディが不正です。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	// DBアクセスの前に形式検証を行う
	if req.Username == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidRequest,
			Message:  "ユーザー名とパスワードは必須です。",
			Category: "validation",
			Action:   "両方の項目を入力してください。",
		})
		return
	}

	if err := h.service.Login(r.Context(), req.Username, req.Password); err != nil {
		h.recordLogin(false)
		handleServiceError(w, err)
		return
	}
	h.recordLogin(true)

	// 発行するCookieの値はプロセス全体で共有される静的トークン。
	// どのクライアントからのログインでも同じ値になる
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    h.service.SessionToken(),
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "ログインしました。"})
}

// Logout はセッションCookieを無効化する。
// 共有トークン方式のためサーバー側の状態は変化しない。
// POST /admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1, // Max-Age=0 を送出し即時失効させる
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "ログアウトしました。"})
}

// Session は現在のリクエストが認証済みかどうかを返す。
// GET /admin/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		authenticated = h.service.IsAuthenticated(cookie.Value)
	}

	writeJSON(w, http.StatusOK, sessionResponse{Authenticated: authenticated})
}

func (h *AuthHandler) recordLogin(success bool) {
	if h.metrics != nil {
		h.metrics.RecordLoginAttempt(success)
	}
}
