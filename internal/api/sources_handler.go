package api

import (
	"net/http"

	"StreamSync/internal/config"
	"StreamSync/internal/model"
	"StreamSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// DiagnosticLog 最近的来源失败记录
type DiagnosticLog interface {
	Snapshot() []model.Diagnostic
}

// SourceView 来源列表中的一项
type SourceView struct {
	Name    string           `json:"name"`
	Role    model.SourceRole `json:"role"`
	Kind    string           `json:"kind"`
	BaseURL string           `json:"base_url"`
	Enabled bool             `json:"enabled"`
}

// SourcesHandler 来源目录与诊断查询
type SourcesHandler struct {
	cfg         *config.Config
	repo        repository.SourceRepository // 可为 nil：未配置数据库时只看配置文件
	diagnostics DiagnosticLog
	logger      *logrus.Logger
}

func NewSourcesHandler(cfg *config.Config, repo repository.SourceRepository, diagnostics DiagnosticLog, logger *logrus.Logger) *SourcesHandler {
	return &SourcesHandler{cfg: cfg, repo: repo, diagnostics: diagnostics, logger: logger}
}

// ListSources 已配置的来源及启用状态
// GET /api/sources
func (h *SourcesHandler) ListSources(c *gin.Context) {
	var (
		rows []*model.StreamSource
		err  error
	)
	if h.repo != nil {
		rows, err = h.repo.ListSources(c.Request.Context())
	} else {
		rows, err = repository.CatalogFromConfig(h.cfg)
	}
	if err != nil {
		h.logger.WithError(err).Error("ListSources failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, lo.Map(rows, func(s *model.StreamSource, _ int) SourceView {
		return SourceView{
			Name:    s.Name,
			Role:    s.Role,
			Kind:    s.Kind,
			BaseURL: s.BaseURL,
			Enabled: s.IsEnabled,
		}
	}))
}

// ListDiagnostics 最近被容忍的来源失败，可按 source 过滤
// GET /api/diagnostics?source=xxx
func (h *SourcesHandler) ListDiagnostics(c *gin.Context) {
	items := []model.Diagnostic{}
	if h.diagnostics != nil {
		items = h.diagnostics.Snapshot()
	}
	if source := c.Query("source"); source != "" {
		items = lo.Filter(items, func(d model.Diagnostic, _ int) bool { return d.Source == source })
	}
	c.JSON(http.StatusOK, items)
}
