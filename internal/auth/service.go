// Package auth は管理者認証とセッショントークン管理を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/apphub/internal/model"
	"github.com/hitoshi/apphub/internal/repository"
	"github.com/hitoshi/apphub/internal/security"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	// DefaultUsername は初回ログイン時に作成される管理者のユーザー名。
	DefaultUsername string
	// DefaultPassword は初回ログイン時に作成される管理者のパスワード（平文）。
	// ハッシュ化して保存され、平文が永続化されることはない。
	DefaultPassword string
	// SessionToken はプロセス全体で共有される静的なセッションシークレット。
	SessionToken string
}

// Service は管理者認証に関するビジネスロジックを提供する。
// セッションは1管理者ロールに対する共有シークレット方式であり、
// ログインごとのセッションレコードは持たない。シークレットをローテート
// すると発行済みCookieは全て同時に無効になる。
type Service struct {
	adminRepo repository.AdminUserRepository
	config    ServiceConfig
}

// NewService はServiceを生成する。
func NewService(adminRepo repository.AdminUserRepository, config ServiceConfig) *Service {
	return &Service{
		adminRepo: adminRepo,
		config:    config,
	}
}

// Login は管理者の資格情報を検証する。
// 管理者行が存在しない場合は設定済みデフォルト値から遅延生成してから検証する。
// 資格情報の不一致はmodel.APIError(INVALID_LOGIN)、テーブル未作成は
// model.APIError(SETUP_INCOMPLETE)として返す。
func (s *Service) Login(ctx context.Context, username, password string) error {
	if err := s.ensureInitialAdmin(ctx); err != nil {
		return err
	}

	admin, err := s.adminRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrSchemaMissing) {
			return model.NewSetupIncompleteError()
		}
		return fmt.Errorf("failed to find admin user: %w", err)
	}

	if admin == nil || !security.VerifyPassword(strings.TrimSpace(password), admin.PasswordHash) {
		return model.NewInvalidLoginError()
	}

	slog.Info("admin logged in", slog.String("username", admin.Username))
	return nil
}

// SessionToken はプロセス全体で共有される静的なセッショントークンを返す。
func (s *Service) SessionToken() string {
	return s.config.SessionToken
}

// IsAuthenticated はCookieの値が共有セッショントークンと完全一致するかを返す。
func (s *Service) IsAuthenticated(cookieValue string) bool {
	return cookieValue == s.config.SessionToken
}

// ensureInitialAdmin は管理者行が1件も存在しない場合にデフォルト値から作成する。
// ログイン呼び出しごとに毎回判定する（起動時1回の初期化ではなく常に最新の
// 状態を確認する）。count→insertは非アトミックだが、並行する初回ログインは
// usernameの一意制約により片方が負け、その場合は既に行が存在するものとして
// 成功扱いにする。
func (s *Service) ensureInitialAdmin(ctx context.Context) error {
	count, err := s.adminRepo.CountAll(ctx)
	if err != nil {
		if errors.Is(err, model.ErrSchemaMissing) {
			return model.NewSetupIncompleteError()
		}
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(s.config.DefaultPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &model.AdminUser{
		ID:           uuid.New().String(),
		Username:     s.config.DefaultUsername,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			// 並行する初回ログインが先に行を作成した
			return nil
		}
		if errors.Is(err, model.ErrSchemaMissing) {
			return model.NewSetupIncompleteError()
		}
		return fmt.Errorf("failed to create initial admin user: %w", err)
	}

	slog.Info("initial admin user created",
		slog.String("username", admin.Username),
	)
	return nil
}
