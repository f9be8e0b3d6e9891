package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/hitoshi/apphub/internal/model"
)

// 一意制約違反(23505)がmodel.ErrDuplicateに変換されることを検証
func TestTranslatePgError_UniqueViolation(t *testing.T) {
	pgErr := &pq.Error{Code: "23505", Constraint: "projects_url_key"}

	got := translatePgError(pgErr)
	if !errors.Is(got, model.ErrDuplicate) {
		t.Errorf("translatePgError(23505) = %v, want model.ErrDuplicate", got)
	}
}

// テーブル未作成(42P01)がmodel.ErrSchemaMissingに変換されることを検証
func TestTranslatePgError_UndefinedTable(t *testing.T) {
	pgErr := &pq.Error{Code: "42P01", Message: `relation "admin_users" does not exist`}

	got := translatePgError(pgErr)
	if !errors.Is(got, model.ErrSchemaMissing) {
		t.Errorf("translatePgError(42P01) = %v, want model.ErrSchemaMissing", got)
	}
}

// 分類対象外のエラーはそのまま返されることを検証
func TestTranslatePgError_PassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("connection refused")
	if got := translatePgError(plain); got != plain {
		t.Errorf("translatePgError(plain) = %v, want original error", got)
	}

	pgErr := &pq.Error{Code: "53300"} // too_many_connections
	if got := translatePgError(pgErr); got != error(pgErr) {
		t.Errorf("translatePgError(53300) = %v, want original pq error", got)
	}
}

// ラップ済みのpqエラーもerrors.Asで検出されることを検証
func TestTranslatePgError_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("query failed: %w", &pq.Error{Code: "23505"})

	got := translatePgError(wrapped)
	if !errors.Is(got, model.ErrDuplicate) {
		t.Errorf("translatePgError(wrapped 23505) = %v, want model.ErrDuplicate", got)
	}
}
