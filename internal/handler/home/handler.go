package home

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/config"
)

//go:embed templates/index.html
var templateFS embed.FS

// Page holds the values rendered into the landing page.
type Page struct {
	Title              string
	DefaultModel       string
	DefaultTemperature float64
	SystemPrompt       string
}

// Handler 渲染模型代理服务的首页
type Handler struct {
	tmpl   *template.Template
	page   Page
	logger *zap.Logger
}

// New parses the embedded template once.
func New(cfg config.RuntimeConfig, logger *zap.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse landing page template: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		tmpl: tmpl,
		page: Page{
			Title:              "Local Model Chat",
			DefaultModel:       cfg.DefaultModel,
			DefaultTemperature: cfg.DefaultTemperature,
			SystemPrompt:       cfg.SystemPrompt,
		},
		logger: logger,
	}, nil
}

// ServeHTTP renders the page into a buffer so a template error never leaves a half-written response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, h.page); err != nil {
		h.logger.Error("render landing page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
