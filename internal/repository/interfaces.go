// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/apphub/internal/model"
)

// AdminUserRepository は管理者アカウントの永続化インターフェース。
type AdminUserRepository interface {
	// CountAll は管理者行の総数を返す。
	CountAll(ctx context.Context) (int, error)

	// FindByUsername はユーザー名で管理者を検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.AdminUser, error)

	// Create は管理者を作成する。
	// ユーザー名が重複した場合はmodel.ErrDuplicateを返す。
	Create(ctx context.Context, admin *model.AdminUser) error
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
type ProjectRepository interface {
	// List は全プロジェクトをupdated_atの降順（更新が新しい順）で返す。
	List(ctx context.Context) ([]*model.Project, error)

	// CountAll はプロジェクト行の総数を返す。シード要否の判定に使用する。
	CountAll(ctx context.Context) (int, error)


	// Create はプロジェクトを作成する。
	// URLが重複した場合はmodel.ErrDuplicateを返す。
	Create(ctx context.Context, project *model.Project) error

	// CreateBatch は複数プロジェクトを同一トランザクションで作成する。
	// デフォルトデータのシードに使用する。いずれかの行が一意制約に違反した
	// 場合は全体がロールバックされmodel.ErrDuplicateを返す。
	CreateBatch(ctx context.Context, projects []*model.Project) error

	// Update は可変フィールドを全置換で更新しupdated_atを現在時刻にする。
	// 行が存在しない場合はmodel.ErrNotFound、URLが別の行と重複した場合は
	// model.ErrDuplicateを返す。
	Update(ctx context.Context, project *model.Project) error

	// Delete は指定IDの行を削除する。行が存在しない場合はmodel.ErrNotFoundを返す。
	Delete(ctx context.Context, id string) error
}
