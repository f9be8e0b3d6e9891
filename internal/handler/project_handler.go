package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/apphub/internal/metrics"
	"github.com/hitoshi/apphub/internal/model"
	"github.com/hitoshi/apphub/internal/project"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	// List は全プロジェクトを更新が新しい順で返す（空の場合は既定一覧をシード）。
	List(ctx context.Context) ([]*model.Project, error)
	// Create は入力を検証してプロジェクトを作成する。
	Create(ctx context.Context, input project.Input) (*model.Project, error)
	// Update は指定IDのプロジェクトを全フィールド置換で更新する。
	Update(ctx context.Context, id string, input project.Input) (*model.Project, error)
	// Delete は指定IDのプロジェクトを削除する。
	Delete(ctx context.Context, id string) error
}

// ProjectHandler はプロジェクト管理のHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
	metrics metrics.MutationRecorder
}

// NewProjectHandler はProjectHandlerを生成する。metricsはnil可。
func NewProjectHandler(service ProjectServiceInterface, metrics metrics.MutationRecorder) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		metrics: metrics,
	}
}

// --- リクエスト・レスポンス型 ---

// projectRequest はプロジェクト作成・更新リクエストのボディ。
// 更新も部分パッチではなく全フィールド必須。iconNameのみポインタで
// 受け、キーの省略と明示的な空文字列をサービス層で区別できるようにする。
type projectRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Platform    string  `json:"platform"`
	URL         string  `json:"url"`
	IconName    *string `json:"iconName"`
}

// projectResponse はプロジェクト1件のAPIレスポンス。
type projectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Platform    string    `json:"platform"`
	URL         string    `json:"url"`
	IconName    string    `json:"iconName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// projectListResponse はプロジェクト一覧のレスポンス。
type projectListResponse struct {
	Projects []projectResponse `json:"projects"`
}

// projectDetailResponse はプロジェクト単体のレスポンス。
type projectDetailResponse struct {
	Project projectResponse `json:"project"`
}

func toProjectResponse(p *model.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Platform:    string(p.Platform),
		URL:         p.URL,
		IconName:    p.IconName,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r projectRequest) toInput() project.Input {
	return project.Input{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Platform:    r.Platform,
		URL:         r.URL,
		IconName:    r.IconName,
	}
}

// --- ハンドラー ---

// List は全プロジェクトの一覧を返す。認証不要。
// GET /projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := projectListResponse{Projects: make([]projectResponse, 0, len(projects))}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, toProjectResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create はプロジェクトを新規作成する。
// POST /projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidProjectError("ボディの解析に失敗しました"))
		return
	}

	p, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.recordMutation("create")

	writeJSON(w, http.StatusCreated, projectDetailResponse{Project: toProjectResponse(p)})
}

// Update は指定IDのプロジェクトを全フィールド置換で更新する。
// PATCH /projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidProjectError("ボディの解析に失敗しました"))
		return
	}

	p, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.recordMutation("update")

	writeJSON(w, http.StatusOK, projectDetailResponse{Project: toProjectResponse(p)})
}

// Delete は指定IDのプロジェクトを削除する。
// DELETE /projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	h.recordMutation("delete")

	writeJSON(w, http.StatusOK, messageResponse{Message: "プロジェクトを削除しました。"})
}

func (h *ProjectHandler) recordMutation(operation string) {
	if h.metrics != nil {
		h.metrics.RecordProjectMutation(operation)
	}
}

// --- 共通エラーハンドリング ---

// apiErrorResponse はAPIエラーレスポンスのボディ。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if statusCode >= 500 {
			slog.Error("service error", slog.String("code", apiErr.Code), slog.String("error", apiErr.Message))
		}
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidLogin:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidRequest, model.ErrCodeInvalidProject:
		return http.StatusBadRequest
	case model.ErrCodeProjectNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateURL:
		return http.StatusConflict
	case model.ErrCodeSetupIncomplete:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
