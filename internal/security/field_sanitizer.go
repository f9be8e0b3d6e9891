package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// FieldSanitizerService はテキストフィールドのサニタイズ機能のインターフェースを定義する。
// プロジェクトの名前・説明・アイコン名は公開ページにそのまま表示されるため、
// 保存前にHTMLタグを全て除去してプレーンテキストに正規化する。
type FieldSanitizerService interface {
	// Sanitize は入力からHTMLタグを全て除去し、前後の空白を取り除いた
	// プレーンテキストを返す。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// fieldSanitizer はFieldSanitizerServiceの実装。
// bluemondayのStrictPolicy（全タグ除去）を保持し、スレッドセーフに動作する。
type fieldSanitizer struct {
	policy *bluemonday.Policy
}

// NewFieldSanitizer はFieldSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを一切持たないため、scriptやimgを含む
// あらゆるマークアップが除去される。
func NewFieldSanitizer() FieldSanitizerService {
	return &fieldSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグを除去したプレーンテキストを返す。
// bluemondayは残存テキストをHTMLエスケープするため、プレーンテキストとして
// 保存できるようアンエスケープしてから返す。
func (s *fieldSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// compile-time interface check
var _ FieldSanitizerService = (*fieldSanitizer)(nil)
