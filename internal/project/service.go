package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/apphub/internal/model"
	"github.com/hitoshi/apphub/internal/repository"
	"github.com/hitoshi/apphub/internal/security"
)

// Input はプロジェクト作成・更新の入力フィールド。
// 更新は部分パッチではなく全フィールドの置換として扱う。
// IconNameはリクエストボディでキーが省略された場合nilになる。
// 省略と明示的な空文字列は区別され、省略の補完は作成時のみ行われる。
type Input struct {
	Name        string
	Description string
	Status      string
	Platform    string
	URL         string
	IconName    *string
}

// Service はプロジェクトディレクトリのビジネスロジックを提供する。
type Service struct {
	projectRepo repository.ProjectRepository
	sanitizer   security.FieldSanitizerService
}

// NewService はServiceを生成する。
func NewService(projectRepo repository.ProjectRepository, sanitizer security.FieldSanitizerService) *Service {
	return &Service{
		projectRepo: projectRepo,
		sanitizer:   sanitizer,
	}
}

// List は全プロジェクトを更新が新しい順で返す。
// テーブルが空の場合は既定の一覧を先にシードする。並行する初回リクエスト
// 同士の二重シードはurlの一意制約で防がれ、負けた側は通常の一覧取得に
// フォールバックする。
func (s *Service) List(ctx context.Context) ([]*model.Project, error) {
	// シードは利便機能であり、失敗しても一覧取得自体は試みる
	if err := s.seedIfEmpty(ctx); err != nil {
		slog.Warn("failed to seed default projects", slog.String("error", err.Error()))
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Create は入力を検証してプロジェクトを作成する。
// URLが既存の行と重複した場合はmodel.APIError(DUPLICATE_URL)を返す。
func (s *Service) Create(ctx context.Context, input Input) (*model.Project, error) {
	iconName, apiErr := s.resolveIconName(input.IconName, true)
	if apiErr != nil {
		return nil, apiErr
	}

	p, apiErr := s.buildProject(input, iconName)
	if apiErr != nil {
		return nil, apiErr
	}

	now := time.Now()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.projectRepo.Create(ctx, p); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return nil, model.NewDuplicateURLError(p.URL)
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	slog.Info("project created",
		slog.String("project_id", p.ID),
		slog.String("name", p.Name),
	)
	return p, nil
}

// Update は入力を検証し、指定IDのプロジェクトを全フィールド置換で更新する。
// 行が存在しない場合はPROJECT_NOT_FOUND、URLが別の行と重複した場合は
// DUPLICATE_URLを返す。自身の変更前URLと同じ値での更新は成功する。
func (s *Service) Update(ctx context.Context, id string, input Input) (*model.Project, error) {
	iconName, apiErr := s.resolveIconName(input.IconName, false)
	if apiErr != nil {
		return nil, apiErr
	}

	p, apiErr := s.buildProject(input, iconName)
	if apiErr != nil {
		return nil, apiErr
	}
	p.ID = id

	if err := s.projectRepo.Update(ctx, p); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewProjectNotFoundError(id)
		}
		if errors.Is(err, model.ErrDuplicate) {
			return nil, model.NewDuplicateURLError(p.URL)
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	slog.Info("project updated", slog.String("project_id", id))
	return p, nil
}

// Delete は指定IDのプロジェクトを削除する。
// 行が存在しない場合はPROJECT_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewProjectNotFoundError(id)
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	slog.Info("project deleted", slog.String("project_id", id))
	return nil
}

// resolveIconName はアイコン名を検証して確定する。
// 作成時(allowOmitted)のみ省略をデフォルトグリフで補完し、更新時の省略は
// 検証エラーとする。明示的な空文字列はどちらの操作でも受け付けない。
func (s *Service) resolveIconName(iconName *string, allowOmitted bool) (string, *model.APIError) {
	if iconName == nil {
		if allowOmitted {
			return model.DefaultIconName, nil
		}
		return "", model.NewInvalidProjectError("アイコン名は必須です")
	}

	resolved := s.sanitizer.Sanitize(*iconName)
	if resolved == "" {
		return "", model.NewInvalidProjectError("アイコン名が空です")
	}
	return resolved, nil
}

// buildProject は入力をサニタイズ・検証しモデルを構築する。
// 検証に失敗した場合はINVALID_PROJECTのAPIErrorを返す。
// アイコン名は操作ごとの省略規則が異なるため、確定済みの値を受け取る。
func (s *Service) buildProject(input Input, iconName string) (*model.Project, *model.APIError) {
	name := s.sanitizer.Sanitize(input.Name)
	description := s.sanitizer.Sanitize(input.Description)

	if name == "" {
		return nil, model.NewInvalidProjectError("名前が空です")
	}
	if description == "" {
		return nil, model.NewInvalidProjectError("説明が空です")
	}

	status := model.ProjectStatus(input.Status)
	if !status.IsValid() {
		return nil, model.NewInvalidProjectError(fmt.Sprintf("未対応のステータスです: %q", input.Status))
	}

	platform := model.ProjectPlatform(input.Platform)
	if !platform.IsValid() {
		return nil, model.NewInvalidProjectError(fmt.Sprintf("未対応のプラットフォームです: %q", input.Platform))
	}

	if err := validateProjectURL(input.URL); err != nil {
		return nil, model.NewInvalidProjectError(err.Error())
	}

	return &model.Project{
		Name:        name,
		Description: description,
		Status:      status,
		Platform:    platform,
		URL:         input.URL,
		IconName:    iconName,
	}, nil
}

// validateProjectURL はプロジェクトURLが絶対http(s) URLであることを検証する。
// 構文検証のみで到達性の確認は行わない。
func validateProjectURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URLが空です")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("URLの形式が不正です: %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URLはhttpまたはhttpsで始まる必要があります: %q", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("URLにホストがありません: %q", rawURL)
	}

	return nil
}

// seedIfEmpty はテーブルが空の場合に既定のプロジェクト一覧を投入する。
func (s *Service) seedIfEmpty(ctx context.Context) error {
	count, err := s.projectRepo.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to count projects: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds := buildSeedProjects(time.Now())
	if err := s.projectRepo.CreateBatch(ctx, seeds); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			// 並行する初回リクエストが先にシードを完了した
			return nil
		}
		return fmt.Errorf("failed to seed default projects: %w", err)
	}

	slog.Info("seeded default projects", slog.Int("count", len(seeds)))
	return nil
}
