package proxy

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/model/chat"
	"github.com/zhouzirui/wellness/backend/internal/model/llm"
	"github.com/zhouzirui/wellness/backend/pkg/utils"
)

const (
	errInvalidBody    = "invalid request body"
	errMessageMissing = "message is required"
	errRuntimeFailed  = "model runtime request failed"
	errListFailed     = "failed to list models"
)

// Runtime 是代理处理器依赖的模型运行时能力。
type Runtime interface {
	Chat(ctx context.Context, req chat.ProxyRequest) (chat.ProxyReply, error)
	Stream(ctx context.Context, req chat.ProxyRequest) (*schema.StreamReader[*schema.Message], string, error)
	ListModels(ctx context.Context) ([]llm.ModelInfo, error)
}

// Handler 模型代理服务的HTTP处理器
type Handler struct {
	runtime Runtime
	logger  *zap.Logger
	ws      *WebSocketHandler
}

// New 创建代理处理器
func New(runtime Runtime, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		runtime: runtime,
		logger:  logger,
		ws:      NewWebSocketHandler(runtime, logger),
	}
}

// RegisterRoutes 注册代理相关的路由，挂载在 /api 之下
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/chat/stream", h.handleStream)
	r.Get("/chat/ws", h.ws.handleWebSocket)
	r.Get("/models", h.handleModels)
}

// handleChat 单轮对话转发
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	reply, err := h.runtime.Chat(r.Context(), req)
	if err != nil {
		h.logger.Error("chat request failed", zap.Error(err))
		_ = utils.RespondError(w, http.StatusInternalServerError, errRuntimeFailed)
		return
	}

	_ = utils.RespondJSON(w, http.StatusOK, reply)
}

// handleModels 列出本地运行时中名称含标记的模型
func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.runtime.ListModels(r.Context())
	if err != nil {
		h.logger.Error("list models failed", zap.Error(err))
		_ = utils.RespondError(w, http.StatusInternalServerError, errListFailed)
		return
	}

	_ = utils.RespondJSON(w, http.StatusOK, models)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (chat.ProxyRequest, bool) {
	var req chat.ProxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.RespondError(w, http.StatusBadRequest, errInvalidBody)
		return req, false
	}
	if req.Message == "" {
		_ = utils.RespondError(w, http.StatusBadRequest, errMessageMissing)
		return req, false
	}
	return req, true
}
