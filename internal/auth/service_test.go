package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/apphub/internal/model"
	"github.com/hitoshi/apphub/internal/security"
)

// --- モック定義 ---

// mockAdminRepo はAdminUserRepositoryのモック実装。
type mockAdminRepo struct {
	countAllFn       func(ctx context.Context) (int, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.AdminUser, error)
	createFn         func(ctx context.Context, admin *model.AdminUser) error
}

func (m *mockAdminRepo) CountAll(ctx context.Context) (int, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	return 0, nil
}

func (m *mockAdminRepo) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockAdminRepo) Create(ctx context.Context, admin *model.AdminUser) error {
	if m.createFn != nil {
		return m.createFn(ctx, admin)
	}
	return nil
}

func testConfig() ServiceConfig {
	return ServiceConfig{
		DefaultUsername: "admin",
		DefaultPassword: "admin123",
		SessionToken:    "test-session-token",
	}
}

// 管理者行が空の場合、初回ログインで管理者が1件だけ作成されることを検証
func TestLogin_BootstrapsInitialAdmin(t *testing.T) {
	var created []*model.AdminUser

	repo := &mockAdminRepo{
		countAllFn: func(ctx context.Context) (int, error) {
			return len(created), nil
		},
		createFn: func(ctx context.Context, admin *model.AdminUser) error {
			created = append(created, admin)
			return nil
		},
		findByUsernameFn: func(ctx context.Context, username string) (*model.AdminUser, error) {
			for _, a := range created {
				if a.Username == username {
					return a, nil
				}
			}
			return nil, nil
		},
	}

	svc := NewService(repo, testConfig())

	if err := svc.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if len(created) != 1 {
		t.Fatalf("created admin rows = %d, want 1", len(created))
	}
	admin := created[0]
	if admin.ID == "" {
		t.Error("created admin should have a generated ID")
	}
	if admin.Username != "admin" {
		t.Errorf("admin.Username = %q, want %q", admin.Username, "admin")
	}
	if admin.PasswordHash == "admin123" || admin.PasswordHash == "" {
		t.Error("password must be stored hashed, not in plain text")
	}
	if !security.VerifyPassword("admin123", admin.PasswordHash) {
		t.Error("stored hash should verify the default password")
	}

	// 2回目のログインは新たな行を作成しない
	if err := svc.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	if len(created) != 1 {
		t.Errorf("created admin rows after second login = %d, want 1", len(created))
	}
}

// 誤ったパスワードでINVALID_LOGINが返ることを検証
func TestLogin_WrongPassword(t *testing.T) {
	hash, err := security.HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	existing := &model.AdminUser{ID: "admin-1", Username: "admin", PasswordHash: hash}

	repo := &mockAdminRepo{
		countAllFn: func(ctx context.Context) (int, error) { return 1, nil },
		findByUsernameFn: func(ctx context.Context, username string) (*model.AdminUser, error) {
			if username == "admin" {
				return existing, nil
			}
			return nil, nil
		},
	}

	svc := NewService(repo, testConfig())

	err = svc.Login(context.Background(), "admin", "wrong-password")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidLogin {
		t.Errorf("Login with wrong password = %v, want INVALID_LOGIN", err)
	}

	// 存在しないユーザー名も同じエラーになる（情報を漏らさない）
	err = svc.Login(context.Background(), "root", "admin123")
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidLogin {
		t.Errorf("Login with unknown username = %v, want INVALID_LOGIN", err)
	}
}

// ユーザー名・パスワードの前後空白が無視されることを検証
func TestLogin_TrimsInput(t *testing.T) {
	hash, err := security.HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	repo := &mockAdminRepo{
		countAllFn: func(ctx context.Context) (int, error) { return 1, nil },
		findByUsernameFn: func(ctx context.Context, username string) (*model.AdminUser, error) {
			if username == "admin" {
				return &model.AdminUser{ID: "admin-1", Username: "admin", PasswordHash: hash}, nil
			}
			return nil, nil
		},
	}

	svc := NewService(repo, testConfig())

	if err := svc.Login(context.Background(), "  admin  ", " admin123 "); err != nil {
		t.Errorf("Login with surrounding whitespace failed: %v", err)
	}
}

// テーブル未作成時にSETUP_INCOMPLETEが返ることを検証
func TestLogin_SchemaMissing(t *testing.T) {
	repo := &mockAdminRepo{
		countAllFn: func(ctx context.Context) (int, error) {
			return 0, model.ErrSchemaMissing
		},
	}

	svc := NewService(repo, testConfig())

	err := svc.Login(context.Background(), "admin", "admin123")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSetupIncomplete {
		t.Errorf("Login with missing schema = %v, want SETUP_INCOMPLETE", err)
	}
}

// ブートストラップの競合に敗れた場合でもログインが継続されることを検証
func TestLogin_BootstrapRaceLoser(t *testing.T) {
	hash, err := security.HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	repo := &mockAdminRepo{
		// カウント時点では空に見えるが、挿入時には別リクエストが先に行を作っている
		countAllFn: func(ctx context.Context) (int, error) { return 0, nil },
		createFn: func(ctx context.Context, admin *model.AdminUser) error {
			return model.ErrDuplicate
		},
		findByUsernameFn: func(ctx context.Context, username string) (*model.AdminUser, error) {
			return &model.AdminUser{ID: "admin-1", Username: "admin", PasswordHash: hash}, nil
		},
	}

	svc := NewService(repo, testConfig())

	if err := svc.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Errorf("Login after losing bootstrap race failed: %v", err)
	}
}

// セッショントークンの完全一致判定を検証
func TestIsAuthenticated(t *testing.T) {
	svc := NewService(&mockAdminRepo{}, testConfig())

	if !svc.IsAuthenticated("test-session-token") {
		t.Error("expected exact token match to authenticate")
	}
	if svc.IsAuthenticated("") {
		t.Error("empty cookie value should not authenticate")
	}
	if svc.IsAuthenticated("test-session-token ") {
		t.Error("near-match should not authenticate")
	}
	if svc.SessionToken() != "test-session-token" {
		t.Errorf("SessionToken() = %q, want %q", svc.SessionToken(), "test-session-token")
	}
}
