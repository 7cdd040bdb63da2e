package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/analysis/emotion"
	advisormodel "github.com/zhouzirui/wellness/backend/internal/model/advisor"
	"github.com/zhouzirui/wellness/backend/internal/model/chat"
	advisorservice "github.com/zhouzirui/wellness/backend/internal/service/advisor"
)

// brokenAdvisor fails every operation; panics when asked to.
type brokenAdvisor struct {
	*advisorservice.Service
	panics bool
}

func (b brokenAdvisor) Chat(context.Context, chat.Request) (string, error) {
	if b.panics {
		panic("template bank corrupted")
	}
	return "", errors.New("chat exploded")
}

func (b brokenAdvisor) Analyze(context.Context, advisormodel.AnalyzeRequest) (string, error) {
	if b.panics {
		panic("template bank corrupted")
	}
	return "", errors.New("analyze exploded")
}

func (b brokenAdvisor) Respond(context.Context, advisormodel.RespondRequest) (string, error) {
	if b.panics {
		panic("template bank corrupted")
	}
	return "", errors.New("respond exploded")
}

func setupRouter(a Advisor) *chi.Mux {
	r := chi.NewRouter()
	New(a, zap.NewNop()).RegisterRoutes(r)
	return r
}

func realAdvisor() Advisor {
	return advisorservice.NewService(rand.New(rand.NewPCG(3, 4)), zap.NewNop())
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeField(t *testing.T, rec *httptest.ResponseRecorder, field string) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body[field]
}

func filledBank(bank []string, label string) []string {
	out := make([]string, len(bank))
	for i, tpl := range bank {
		out[i] = emotion.Fill(tpl, label)
	}
	return out
}

func TestHomeLiveness(t *testing.T) {
	rec := do(setupRouter(realAdvisor()), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}

func TestPreflightReturnsNoContent(t *testing.T) {
	r := setupRouter(realAdvisor())
	for _, path := range []string{"/api/analyze", "/analyze", "/api/respond", "/respond"} {
		rec := do(r, http.MethodOptions, path, "definitely not json")
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
	}
}

func TestChatGenericReply(t *testing.T) {
	rec := do(setupRouter(realAdvisor()), http.MethodPost, "/api/chat",
		`{"messages":[{"role":"system","content":"You are a helpful assistant."},{"role":"user","content":"Hello"}],"model":"qwen2"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, emotion.GenericAcknowledgment, decodeField(t, rec, "response"))
}

func TestChatAnalyzeReply(t *testing.T) {
	rec := do(setupRouter(realAdvisor()), http.MethodPost, "/api/chat",
		`{"messages":[{"role":"user","content":"Please analyze this. I'm feeling nervous: \"big exam\""}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, filledBank(emotion.CategoryTemplates(emotion.Anxious), "nervous"), decodeField(t, rec, "response"))
}

func TestChatSurfacesErrors(t *testing.T) {
	cases := map[string]struct {
		advisor Advisor
		body    string
	}{
		"bad body": {realAdvisor(), `{"messages":`},
		"error":    {brokenAdvisor{}, `{"messages":[]}`},
		"panic":    {brokenAdvisor{panics: true}, `{"messages":[]}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(setupRouter(tc.advisor), http.MethodPost, "/api/chat", tc.body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, emotion.ChatErrorMessage, decodeField(t, rec, "response"))
			assert.NotEmpty(t, decodeField(t, rec, "error"))
		})
	}
}

func TestAnalyzeBothPaths(t *testing.T) {
	r := setupRouter(realAdvisor())
	for _, path := range []string{"/api/analyze", "/analyze"} {
		rec := do(r, http.MethodPost, path, `{"content":"lost my keys","emotion":"Annoyed"}`)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, filledBank(emotion.CategoryTemplates(emotion.Angry), "Annoyed"), decodeField(t, rec, "analysis"), path)
	}
}

func TestAnalyzeSwallowsFailures(t *testing.T) {
	want := emotion.FallbackAnalysis("sad")

	rec := do(setupRouter(brokenAdvisor{}), http.MethodPost, "/api/analyze", `{"content":"x","emotion":"sad"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, decodeField(t, rec, "analysis"))

	rec = do(setupRouter(brokenAdvisor{panics: true}), http.MethodPost, "/analyze", `{"content":"x","emotion":"sad"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, decodeField(t, rec, "analysis"))

	rec = do(setupRouter(realAdvisor()), http.MethodPost, "/api/analyze", `not json`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, emotion.FallbackAnalysis(""), decodeField(t, rec, "analysis"))
}

func TestRespondBothPaths(t *testing.T) {
	r := setupRouter(realAdvisor())
	for _, path := range []string{"/api/respond", "/respond"} {
		rec := do(r, http.MethodPost, path, `{"content":"x","emotion":"happy","advisorPerspective":"parent","aiSummary":"s"}`)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, filledBank(emotion.PerspectiveTemplates(emotion.Parent), "happy"), decodeField(t, rec, "response"), path)
	}
}

func TestRespondForcedFailureUsesTherapistFallback(t *testing.T) {
	rec := do(setupRouter(brokenAdvisor{}), http.MethodPost, "/api/respond",
		`{"content":"x","emotion":"overwhelmed","advisorPerspective":"therapist"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, emotion.FallbackResponse(emotion.Therapist, "overwhelmed"), decodeField(t, rec, "response"))
}

func TestRespondFallbackDefaultsToFriend(t *testing.T) {
	rec := do(setupRouter(brokenAdvisor{panics: true}), http.MethodPost, "/respond",
		`{"content":"x","emotion":"tired","advisorPerspective":"coach"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, emotion.FallbackResponse(emotion.Friend, "tired"), decodeField(t, rec, "response"))

	rec = do(setupRouter(brokenAdvisor{}), http.MethodPost, "/api/respond",
		`{"content":"x","emotion":"tired","advisorPerspective":"Therapist"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, emotion.FallbackResponse(emotion.Friend, "tired"), decodeField(t, rec, "response"))

	rec = do(setupRouter(realAdvisor()), http.MethodPost, "/api/respond", `{`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, emotion.FallbackResponse(emotion.Friend, ""), decodeField(t, rec, "response"))
}

func TestModelsStaticList(t *testing.T) {
	rec := do(setupRouter(realAdvisor()), http.MethodGet, "/api/models", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "qwen2-1.8b-instruct-q4_k_m.gguf")
}
