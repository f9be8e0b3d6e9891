// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"net/http"

	"github.com/hitoshi/apphub/internal/model"
)

// SessionCookieName は管理者セッションCookieの名前。
const SessionCookieName = "apphub_admin_session"

// SessionValidator はセッションCookie値の検証に必要なインターフェース。
// 現在の実装はプロセス全体で共有される静的トークンとの完全一致だが、
// 将来ユーザーごとのセッションストアに置き換える場合もハンドラー側の
// 変更なしにこのインターフェースの差し替えで対応できる。
type SessionValidator interface {
	IsAuthenticated(cookieValue string) bool
}

// NewSessionMiddleware はHTTP Only Cookieからセッショントークンを読み取り、
// 有効性を検証するミドルウェアを返す。
// 未認証リクエストにはボディを読む前に401 Unauthorizedを返す。
func NewSessionMiddleware(validator SessionValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			if !validator.IsAuthenticated(cookie.Value) {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
