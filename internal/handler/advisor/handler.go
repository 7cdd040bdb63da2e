package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/analysis/emotion"
	advisormodel "github.com/zhouzirui/wellness/backend/internal/model/advisor"
	"github.com/zhouzirui/wellness/backend/internal/model/chat"
	"github.com/zhouzirui/wellness/backend/internal/model/llm"
	advisorservice "github.com/zhouzirui/wellness/backend/internal/service/advisor"
	"github.com/zhouzirui/wellness/backend/pkg/utils"
)

var errInvalidBody = errors.New("invalid request body")

// Advisor 是处理器依赖的顾问能力。
type Advisor interface {
	Chat(ctx context.Context, req chat.Request) (string, error)
	Analyze(ctx context.Context, req advisormodel.AnalyzeRequest) (string, error)
	Respond(ctx context.Context, req advisormodel.RespondRequest) (string, error)
	Models() []llm.ModelInfo
}

// Handler 启发式顾问服务的HTTP处理器
type Handler struct {
	advisor Advisor
	logger  *zap.Logger
}

// New 创建顾问处理器
func New(advisor Advisor, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{advisor: advisor, logger: logger}
}

// chatError is the body of a surfaced failure.
type chatError struct {
	Error    string `json:"error"`
	Response string `json:"response"`
}

// RegisterRoutes 注册顾问相关的路由。analyze/respond 同时挂在 /api 前缀和根路径下。
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Get("/api/models", h.handleModels)
	r.Post("/api/chat", h.handleChat)

	for _, path := range []string{"/api/analyze", "/analyze"} {
		r.Post(path, h.handleAnalyze)
		r.Options(path, h.handlePreflight)
	}
	for _, path := range []string{"/api/respond", "/respond"} {
		r.Post(path, h.handleRespond)
		r.Options(path, h.handlePreflight)
	}
}

func (h *Handler) handleHome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Heuristic advisor service is running!"))
}

func (h *Handler) handleModels(w http.ResponseWriter, _ *http.Request) {
	_ = utils.RespondJSON(w, http.StatusOK, h.advisor.Models())
}

// handlePreflight 跨域预检，无论请求体如何都返回 204
func (h *Handler) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	utils.RespondNoContent(w)
}

// handleChat 失败时返回 500，同时附带固定的道歉文案。
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	h.serve(w, "chat", advisorservice.PolicySurface, func() (any, error) {
		var req chat.Request
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		text, err := h.advisor.Chat(r.Context(), req)
		if err != nil {
			return nil, err
		}
		return chat.Reply{Response: text}, nil
	}, nil)
}

// handleAnalyze 任何失败都以 200 返回兜底分析。
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req advisormodel.AnalyzeRequest
	h.serve(w, "analyze", advisorservice.PolicySwallow, func() (any, error) {
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		text, err := h.advisor.Analyze(r.Context(), req)
		if err != nil {
			return nil, err
		}
		return advisormodel.AnalyzeReply{Analysis: text}, nil
	}, func() any {
		return advisormodel.AnalyzeReply{Analysis: emotion.FallbackAnalysis(req.Emotion)}
	})
}

// handleRespond 任何失败都以 200 返回对应视角的兜底回复，无法识别时使用 friend。
func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req advisormodel.RespondRequest
	h.serve(w, "respond", advisorservice.PolicySwallow, func() (any, error) {
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		text, err := h.advisor.Respond(r.Context(), req)
		if err != nil {
			return nil, err
		}
		return advisormodel.RespondReply{Response: text}, nil
	}, func() any {
		p, _ := emotion.ParsePerspective(req.AdvisorPerspective)
		return advisormodel.RespondReply{Response: emotion.FallbackResponse(p, req.Emotion)}
	})
}

// serve runs fn and writes its result with 200. Errors and panics are handled per policy.
func (h *Handler) serve(w http.ResponseWriter, route string, policy advisorservice.ErrorPolicy, fn func() (any, error), fallback func() any) {
	defer func() {
		if rec := recover(); rec != nil {
			h.fail(w, route, policy, fmt.Errorf("panic: %v", rec), fallback)
		}
	}()

	body, err := fn()
	if err != nil {
		h.fail(w, route, policy, err, fallback)
		return
	}
	_ = utils.RespondJSON(w, http.StatusOK, body)
}

func (h *Handler) fail(w http.ResponseWriter, route string, policy advisorservice.ErrorPolicy, err error, fallback func() any) {
	h.logger.Error("advisor request failed",
		zap.String("route", route),
		zap.Stringer("policy", policy),
		zap.Error(err),
	)

	if policy == advisorservice.PolicySwallow && fallback != nil {
		_ = utils.RespondJSON(w, http.StatusOK, fallback())
		return
	}
	_ = utils.RespondJSON(w, http.StatusInternalServerError, chatError{
		Error:    err.Error(),
		Response: emotion.ChatErrorMessage,
	})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
