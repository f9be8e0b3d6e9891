package model

import "time"

// AdminUser は管理者アカウントを表す。
// このシステムでは行は高々1件しか存在しない（初回ログイン時に遅延生成される）。
type AdminUser struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
