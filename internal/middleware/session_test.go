package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// staticValidator はSessionValidatorのテスト用実装。
type staticValidator struct {
	token string
}

func (v *staticValidator) IsAuthenticated(cookieValue string) bool {
	return cookieValue == v.token
}

func protectedHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

// 正しいトークンを持つCookieでリクエストが通過することを検証
func TestSessionMiddleware_ValidToken(t *testing.T) {
	called := false
	mw := NewSessionMiddleware(&staticValidator{token: "secret-token"})
	handler := mw(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodPost, "/projects", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "secret-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("next handler should be called for an authenticated request")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// Cookie欠落時に401と統一エラーフォーマットが返ることを検証
func TestSessionMiddleware_MissingCookie(t *testing.T) {
	called := false
	mw := NewSessionMiddleware(&staticValidator{token: "secret-token"})
	handler := mw(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodPost, "/projects", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if called {
		t.Error("next handler should not be called without a session cookie")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Code != "UNAUTHORIZED" {
		t.Errorf("error code = %q, want %q", body.Code, "UNAUTHORIZED")
	}
}

// 誤ったトークンで401が返ることを検証
func TestSessionMiddleware_WrongToken(t *testing.T) {
	called := false
	mw := NewSessionMiddleware(&staticValidator{token: "secret-token"})
	handler := mw(protectedHandler(t, &called))

	cases := []string{"", "other-token", "secret-token2"}
	for _, value := range cases {
		req := httptest.NewRequest(http.MethodDelete, "/projects/p-1", nil)
		if value != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: value})
		}
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if called {
			t.Errorf("next handler should not be called for cookie value %q", value)
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("cookie %q: status = %d, want %d", value, w.Code, http.StatusUnauthorized)
		}
	}
}
