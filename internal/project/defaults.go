// Package project はプロジェクトディレクトリのビジネスロジックを提供する。
package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/apphub/internal/model"
)

// defaultProject はシード用のプロジェクト定義。
// IDとタイムスタンプはシード実行時に付与される。
type defaultProject struct {
	Name        string
	Description string
	Status      model.ProjectStatus
	Platform    model.ProjectPlatform
	URL         string
	IconName    string
}

// defaultProjects はプロジェクトテーブルが空の場合に一度だけ投入される
// 既定の掲載一覧。リセット用途ではなく初期表示のための利便機能。
var defaultProjects = []defaultProject{
	{
		Name:        "Absen Pagi",
		Description: "Sistem absensi Apel Pagi BPAD",
		Status:      model.StatusProduction,
		Platform:    model.PlatformV0,
		URL:         "https://absensi-apelpagi.netlify.app/",
		IconName:    "ClipboardCheck",
	},
	{
		Name:        "Sidak&Absen Apel Pagi",
		Description: "Monitoring dan sidak kehadiran apel pagi dan Istirahat Siang",
		Status:      model.StatusProduction,
		Platform:    model.PlatformBase44,
		URL:         "https://apel-pagi-ntt.base44.app",
		IconName:    "Eye",
	},
	{
		Name:        "MagangHub",
		Description: "Platform manajemen dan pendampingan peserta magang",
		Status:      model.StatusBeta,
		Platform:    model.PlatformLovable,
		URL:         "https://bpad-magang-buddy.lovable.app",
		IconName:    "GraduationCap",
	},
}

// buildSeedProjects はシード定義からIDとタイムスタンプ付きのモデルを構築する。
func buildSeedProjects(now time.Time) []*model.Project {
	projects := make([]*model.Project, len(defaultProjects))
	for i, d := range defaultProjects {
		iconName := d.IconName
		if iconName == "" {
			iconName = model.DefaultIconName
		}
		projects[i] = &model.Project{
			ID:          uuid.New().String(),
			Name:        d.Name,
			Description: d.Description,
			Status:      d.Status,
			Platform:    d.Platform,
			URL:         d.URL,
			IconName:    iconName,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return projects
}
