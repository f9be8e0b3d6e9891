package model

import (
	"errors"
	"fmt"
)

// 永続化層の結果を分類するためのセンチネルエラー。
// ストレージエンジン固有のエラーコードはリポジトリ層でこのいずれかに変換され、
// ハンドラー層はHTTPステータスへのマッピングのみを行う。
var (
	// ErrNotFound は指定IDの行が存在しないことを表す。
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate は一意制約違反（URL重複、ユーザー名重複）を表す。
	ErrDuplicate = errors.New("unique constraint violation")
	// ErrSchemaMissing はテーブル未作成（マイグレーション未実行）を表す。
	ErrSchemaMissing = errors.New("schema not migrated")
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, project, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeInvalidLogin    = "INVALID_LOGIN"
	ErrCodeInvalidProject  = "INVALID_PROJECT"
	ErrCodeProjectNotFound = "PROJECT_NOT_FOUND"
	ErrCodeDuplicateURL    = "DUPLICATE_URL"
	ErrCodeSetupIncomplete = "SETUP_INCOMPLETE"
)

// NewUnauthorizedError は認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "管理者ログインが必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewInvalidLoginError はログイン失敗エラーを生成する。
// ユーザー名不一致とパスワード不一致を区別しない。
func NewInvalidLoginError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLogin,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewInvalidProjectError は無効なプロジェクト入力エラーを生成する。
func NewInvalidProjectError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidProject,
		Message:  fmt.Sprintf("プロジェクトの入力内容が不正です: %s", reason),
		Category: "validation",
		Action:   "入力項目を確認してください。",
	}
}

// NewProjectNotFoundError はプロジェクト未検出エラーを生成する。
func NewProjectNotFoundError(projectID string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  fmt.Sprintf("指定されたプロジェクトが見つかりません: %s", projectID),
		Category: "project",
		Action:   "プロジェクトIDを確認してください。",
	}
}

// NewDuplicateURLError はURL重複エラーを生成する。
func NewDuplicateURLError(url string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateURL,
		Message:  fmt.Sprintf("このURLは既に別のプロジェクトで使用されています: %s", url),
		Category: "project",
		Action:   "別のURLを指定してください。",
	}
}

// NewSetupIncompleteError はテーブル未作成エラーを生成する。
// 一般的な内部エラーと区別し、マイグレーション未実行であることを明示する。
func NewSetupIncompleteError() *APIError {
	return &APIError{
		Code:     ErrCodeSetupIncomplete,
		Message:  "データベースのセットアップが完了していません。",
		Category: "system",
		Action:   "migrateサブコマンドでマイグレーションを実行してください。",
	}
}
