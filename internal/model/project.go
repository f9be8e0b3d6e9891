// Package model はドメインモデルを定義する。
package model

import "time"

// ProjectStatus はプロジェクトの公開状態を表す。
type ProjectStatus string

const (
	StatusExperiment ProjectStatus = "Experiment"
	StatusBeta       ProjectStatus = "Beta"
	StatusProduction ProjectStatus = "Production"
)

// IsValid はサポート対象のステータスかどうかを返す。
func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusExperiment, StatusBeta, StatusProduction:
		return true
	}
	return false
}

// ProjectPlatform はプロジェクトが構築されたプラットフォームを表す。
type ProjectPlatform string

const (
	PlatformV0      ProjectPlatform = "v0"
	PlatformBase44  ProjectPlatform = "Base44"
	PlatformLovable ProjectPlatform = "Lovable"
	PlatformCustom  ProjectPlatform = "Custom"
)

// IsValid はサポート対象のプラットフォームかどうかを返す。
func (p ProjectPlatform) IsValid() bool {
	switch p {
	case PlatformV0, PlatformBase44, PlatformLovable, PlatformCustom:
		return true
	}
	return false
}

// DefaultIconName は作成時にiconNameが省略された場合に使用されるグリフ識別子。
// 未知の識別子はクライアント側でデフォルトグリフにフォールバックするため、
// サーバー側では非空チェックのみ行う。
const DefaultIconName = "Box"

// Project は公開ディレクトリに掲載される1件のプロジェクトを表す。
type Project struct {
	ID          string
	Name        string
	Description string
	Status      ProjectStatus
	Platform    ProjectPlatform
	URL         string
	IconName    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
