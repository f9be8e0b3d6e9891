package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/apphub/internal/model"
)

// PostgresAdminUserRepo はPostgreSQLを使用した管理者リポジトリ。
type PostgresAdminUserRepo struct {
	db *sql.DB
}

// NewPostgresAdminUserRepo はPostgresAdminUserRepoを生成する。
func NewPostgresAdminUserRepo(db *sql.DB) *PostgresAdminUserRepo {
	return &PostgresAdminUserRepo{db: db}
}

// CountAll は管理者行の総数を返す。
func (r *PostgresAdminUserRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_users`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admin users: %w", translatePgError(err))
	}
	return count, nil
}

// FindByUsername はユーザー名で管理者を検索する。見つからない場合はnilを返す。
func (r *PostgresAdminUserRepo) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	admin := &model.AdminUser{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admin_users WHERE username = $1`,
		username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin user by username: %w", translatePgError(err))
	}

	return admin, nil
}

// Create は管理者を作成する。ユーザー名が重複した場合はmodel.ErrDuplicateを返す。
func (r *PostgresAdminUserRepo) Create(ctx context.Context, admin *model.AdminUser) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_users (id, username, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", translatePgError(err))
	}
	return nil
}

// compile-time interface check
var _ AdminUserRepository = (*PostgresAdminUserRepo)(nil)
