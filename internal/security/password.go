// Package security はアプリケーションのセキュリティ機能を提供する。
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scryptのパラメータ。
// N=32768, r=8, p=1 はインタラクティブログイン向けの推奨値。
const (
	scryptN       = 32768
	scryptR       = 8
	scryptP       = 1
	scryptKeyLen  = 64
	saltByteLen   = 16
	hashSeparator = ":"
)

// HashPassword はパスワードをscryptでハッシュ化し、"salt:derivedKey"形式
// （いずれもhexエンコード）の文字列を返す。saltは呼び出しごとに新しく生成される。
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltByteLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	derived, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	return saltHex + hashSeparator + hex.EncodeToString(derived), nil
}

// VerifyPassword はパスワードが保存済みハッシュと一致するかを検証する。
// 保存形式が不正な場合（区切り文字なし、いずれかの部分が空、hexでない）は
// エラーを返さずfalseを返す。
// ダイジェストの比較は定数時間で行い、長さ不一致の場合は比較前にfalseを返す。
func VerifyPassword(password, encoded string) bool {
	saltHex, savedHex, found := strings.Cut(encoded, hashSeparator)
	if !found || saltHex == "" || savedHex == "" {
		return false
	}

	saved, err := hex.DecodeString(savedHex)
	if err != nil {
		return false
	}

	derived, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}

	// subtle.ConstantTimeCompareは等長入力を前提とするため先に長さを確認する
	if len(saved) != len(derived) {
		return false
	}

	return subtle.ConstantTimeCompare(saved, derived) == 1
}
