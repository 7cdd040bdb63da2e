package advisor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/analysis/emotion"
	advisormodel "github.com/zhouzirui/wellness/backend/internal/model/advisor"
	"github.com/zhouzirui/wellness/backend/internal/model/chat"
	"github.com/zhouzirui/wellness/backend/internal/model/llm"
)

// ErrNoTemplates is returned when a selection has nothing to pick from.
var ErrNoTemplates = errors.New("no response templates available")

// ErrorPolicy 决定某个接口在内部失败时如何应答。
type ErrorPolicy int

const (
	// PolicySurface 返回 500 并携带错误信息。
	PolicySurface ErrorPolicy = iota
	// PolicySwallow 返回 200 并使用固定兜底文案。
	PolicySwallow
)

func (p ErrorPolicy) String() string {
	switch p {
	case PolicySurface:
		return "surface"
	case PolicySwallow:
		return "swallow"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// Route 标识一次选择走的是哪条模板路径。
type Route string

const (
	RouteAnalysis    Route = "analysis"
	RoutePerspective Route = "perspective"
	RouteGeneric     Route = "generic"
)

// Service 是无状态的启发式顾问：只持有随机源与日志。
type Service struct {
	rng    emotion.Source
	logger *zap.Logger
}

// NewService creates an advisor. A nil rng uses the shared global generator.
func NewService(rng emotion.Source, logger *zap.Logger) *Service {
	if rng == nil {
		rng = emotion.GlobalSource{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{rng: rng, logger: logger}
}

// Chat 根据首条 user/system 消息选择回复。
// 含 "analyze" 走分类模板；system 中带视角标签走视角模板；否则返回通用确认语。
func (s *Service) Chat(ctx context.Context, req chat.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	system, _ := req.First(chat.RoleSystem)
	user, _ := req.First(chat.RoleUser)
	extracted := emotion.Extract(user)

	route, text, err := s.route(system, user, extracted)
	if err != nil {
		return "", err
	}

	s.logger.Debug("advisor chat routed",
		zap.String("route", string(route)),
		zap.String("emotion", extracted.Emotion),
		zap.Int("content_length", len(extracted.Content)),
	)
	return text, nil
}

func (s *Service) route(system, user string, extracted emotion.Extraction) (Route, string, error) {
	if emotion.ContainsAnalyze(user) {
		text, err := s.analysis(extracted.Emotion)
		return RouteAnalysis, text, err
	}
	if p, ok := emotion.DetectPerspective(system); ok {
		text, err := s.perspective(p, extracted.Emotion)
		return RoutePerspective, text, err
	}
	return RouteGeneric, emotion.GenericAcknowledgment, nil
}

// Analyze selects an analysis keyed directly by the caller's label.
func (s *Service) Analyze(ctx context.Context, req advisormodel.AnalyzeRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.analysis(req.Emotion)
}

// Respond selects a reply voiced by the requested perspective.
// Unrecognised perspectives use the therapist bank. The AI summary is only logged.
func (s *Service) Respond(ctx context.Context, req advisormodel.RespondRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p, ok := emotion.ParsePerspective(req.AdvisorPerspective)
	if !ok {
		p = emotion.Therapist
	}
	if req.AISummary != "" {
		s.logger.Debug("respond request carries ai summary",
			zap.String("perspective", string(p)),
			zap.Int("summary_length", len(req.AISummary)),
		)
	}
	return s.perspective(p, req.Emotion)
}

// Models 返回顾问服务对外声明的静态模型列表。
func (s *Service) Models() []llm.ModelInfo {
	return []llm.ModelInfo{
		{
			ID:   "qwen2-1.8b-instruct-q4_k_m.gguf",
			Name: "Qwen2 1.8B Instruct",
			Details: llm.ModelDetails{
				Format:            "gguf",
				Family:            "qwen2",
				Families:          []string{"qwen2"},
				ParameterSize:     "1.8B",
				QuantizationLevel: "Q4_K_M",
			},
		},
	}
}

func (s *Service) analysis(label string) (string, error) {
	return s.pick(emotion.CategoryTemplates(emotion.Classify(label)), label)
}

func (s *Service) perspective(p emotion.Perspective, label string) (string, error) {
	return s.pick(emotion.PerspectiveTemplates(p), label)
}

func (s *Service) pick(bank []string, label string) (string, error) {
	if len(bank) == 0 {
		return "", ErrNoTemplates
	}
	return emotion.Select(bank, label, s.rng), nil
}
