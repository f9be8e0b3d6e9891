package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/apphub/internal/model"
)

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

// List は全プロジェクトをupdated_atの降順で返す。
func (r *PostgresProjectRepo) List(ctx context.Context) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, status, platform, url, icon_name, created_at, updated_at
		 FROM projects
		 ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", translatePgError(err))
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		p := &model.Project{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Status, &p.Platform,
			&p.URL, &p.IconName, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project rows: %w", translatePgError(err))
	}

	return projects, nil
}

// CountAll はプロジェクト行の総数を返す。
func (r *PostgresProjectRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", translatePgError(err))
	}
	return count, nil
}

// Create はプロジェクトを作成する。URLが重複した場合はmodel.ErrDuplicateを返す。
func (r *PostgresProjectRepo) Create(ctx context.Context, project *model.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, status, platform, url, icon_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		project.ID, project.Name, project.Description, project.Status, project.Platform,
		project.URL, project.IconName, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", translatePgError(err))
	}
	return nil
}

// CreateBatch は複数プロジェクトを同一トランザクションで作成する。
// urlの一意制約により、並行する初回リクエストが二重シードすることはない
// （後着のトランザクションはmodel.ErrDuplicateでロールバックされる）。
func (r *PostgresProjectRepo) CreateBatch(ctx context.Context, projects []*model.Project) error {
	if len(projects) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", translatePgError(err))
	}
	defer tx.Rollback()

	for _, p := range projects {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, description, status, platform, url, icon_name, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.Name, p.Description, p.Status, p.Platform,
			p.URL, p.IconName, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert seed project %q: %w", p.Name, translatePgError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", translatePgError(err))
	}

	return nil
}

// Update は可変フィールドを全置換で更新しupdated_atを現在時刻にする。
func (r *PostgresProjectRepo) Update(ctx context.Context, project *model.Project) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE projects
		 SET name = $2, description = $3, status = $4, platform = $5,
		     url = $6, icon_name = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		project.ID, project.Name, project.Description, project.Status,
		project.Platform, project.URL, project.IconName,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err == sql.ErrNoRows {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update project: %w", translatePgError(err))
	}

	return nil
}

// Delete は指定IDの行を削除する。行が存在しない場合はmodel.ErrNotFoundを返す。
func (r *PostgresProjectRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", translatePgError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrNotFound
	}

	return nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
