package repository

import (
	"errors"

	"github.com/lib/pq"

	"github.com/hitoshi/apphub/internal/model"
)

// PostgreSQLのエラーコード。
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// translatePgError はドライバ固有のエラーをモデル層のセンチネルエラーに変換する。
// 一意制約違反はmodel.ErrDuplicate、テーブル未作成はmodel.ErrSchemaMissingになる。
// 分類できないエラーはそのまま返す。
func translatePgError(err error) error {
	var pgErr *pq.Error
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return model.ErrDuplicate
	case pgUndefinedTable:
		return model.ErrSchemaMissing
	}
	return err
}
