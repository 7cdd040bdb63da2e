package handler

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/config"
	"github.com/zhouzirui/wellness/backend/internal/handler/home"
	"github.com/zhouzirui/wellness/backend/internal/model/llm"
	"github.com/zhouzirui/wellness/backend/internal/service/advisor"
	"github.com/zhouzirui/wellness/backend/internal/service/ai"
)

type stubLister []llm.ModelInfo

func (s stubLister) ListModels(context.Context) ([]llm.ModelInfo, error) { return s, nil }

type stubChatModel struct{}

func (stubChatModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage("pong", nil), nil
}

func (stubChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage("pong", nil)}), nil
}

func (stubChatModel) BindTools([]*schema.ToolInfo) error { return nil }

func proxyRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.RuntimeConfig{
		DefaultModel:       "deepseek-r1:1.5b",
		DefaultTemperature: 0.7,
		SystemPrompt:       config.DefaultSystemPrompt,
		ModelMarker:        "deepseek",
	}
	lister := stubLister{{Name: "deepseek-r1:1.5b"}, {Name: "llama2"}}
	svc, err := ai.NewService(context.Background(), stubChatModel{}, lister, cfg, zap.NewNop())
	require.NoError(t, err)
	landing, err := home.New(cfg, zap.NewNop())
	require.NoError(t, err)
	return NewProxyRouter(svc, landing, zap.NewNop())
}

func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProxyRouterModelsOnlyMarked(t *testing.T) {
	rec := serve(proxyRouter(t), http.MethodGet, "/api/models", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deepseek-r1:1.5b")
	assert.NotContains(t, rec.Body.String(), "llama2")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestProxyRouterChatAndLanding(t *testing.T) {
	r := proxyRouter(t)

	rec := serve(r, http.MethodPost, "/api/chat", `{"message":"ping"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"pong","model":"deepseek-r1:1.5b"}`, rec.Body.String())

	rec = serve(r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
}

func TestProxyRouterPreflight(t *testing.T) {
	rec := serve(proxyRouter(t), http.MethodOptions, "/api/chat", "", map[string]string{
		"Origin":                        "http://localhost:19006",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdvisorRouterPreflightAndCORS(t *testing.T) {
	r := NewAdvisorRouter(advisor.NewService(rand.New(rand.NewPCG(1, 1)), zap.NewNop()), zap.NewNop())

	for _, path := range []string{"/api/analyze", "/api/respond"} {
		rec := serve(r, http.MethodOptions, path, "", map[string]string{
			"Origin":                        "http://localhost:19006",
			"Access-Control-Request-Method": "POST",
		})
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
	}

	rec := serve(r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
