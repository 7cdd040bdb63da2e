package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/config"
	"github.com/zhouzirui/wellness/backend/internal/model/chat"
	"github.com/zhouzirui/wellness/backend/internal/model/llm"
)

// ErrUnknownProvider is returned for a provider name with no chat model behind it.
var ErrUnknownProvider = errors.New("unknown runtime provider")

// Service forwards single-turn chat requests to the model runtime.
type Service struct {
	cfg    config.RuntimeConfig
	lister ModelLister
	chain  compose.Runnable[map[string]any, *schema.Message]
	logger *zap.Logger
}

// NewChatModel creates the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg config.RuntimeConfig) (model.ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderOllama, "":
		return NewOpenAIChatModel(cfg.OpenAIBaseURL(), cfg.DefaultModel), nil
	case config.ProviderArk:
		return cfg.Ark.NewChatModel(ctx, cfg.DefaultTemperature)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// NewService compiles the prompt chain around chatModel.
func NewService(ctx context.Context, chatModel model.ChatModel, lister ModelLister, cfg config.RuntimeConfig, logger *zap.Logger) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		cfg:    cfg,
		lister: lister,
		chain:  runnable,
		logger: logger,
	}, nil
}

// Chat sends one system + user exchange to the runtime and waits for the answer.
func (s *Service) Chat(ctx context.Context, req chat.ProxyRequest) (chat.ProxyReply, error) {
	resolved := s.withDefaults(req)

	response, err := s.chain.Invoke(ctx, chainInput(resolved), chainOptions(resolved))
	if err != nil {
		return chat.ProxyReply{}, fmt.Errorf("failed to run chat chain: %w", err)
	}

	s.logger.Info("generated response",
		zap.String("model", resolved.Model),
		zap.Float64("temperature", *resolved.Temperature),
		zap.Int("length", len(response.Content)),
	)
	return chat.ProxyReply{Response: response.Content, Model: resolved.Model}, nil
}

// Stream is Chat with the answer delivered chunk by chunk. The returned model
// name is the one actually requested.
func (s *Service) Stream(ctx context.Context, req chat.ProxyRequest) (*schema.StreamReader[*schema.Message], string, error) {
	resolved := s.withDefaults(req)

	stream, err := s.chain.Stream(ctx, chainInput(resolved), chainOptions(resolved))
	if err != nil {
		return nil, "", fmt.Errorf("failed to stream chat chain output: %w", err)
	}
	return stream, resolved.Model, nil
}

// ListModels returns the runtime's models whose name contains the configured marker.
func (s *Service) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	models, err := s.lister.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return FilterModels(models, s.cfg.ModelMarker), nil
}

// FilterModels keeps the models whose name contains marker, ignoring case.
func FilterModels(models []llm.ModelInfo, marker string) []llm.ModelInfo {
	needle := strings.ToLower(marker)
	filtered := make([]llm.ModelInfo, 0, len(models))
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func (s *Service) withDefaults(req chat.ProxyRequest) chat.ProxyRequest {
	if req.Model == "" {
		req.Model = s.cfg.DefaultModel
	}
	if req.SystemPrompt == "" {
		req.SystemPrompt = s.cfg.SystemPrompt
	}
	if req.Temperature == nil {
		t := s.cfg.DefaultTemperature
		req.Temperature = &t
	}
	return req
}

func chainInput(req chat.ProxyRequest) map[string]any {
	return map[string]any{
		"system": req.SystemPrompt,
		"query":  req.Message,
	}
}

func chainOptions(req chat.ProxyRequest) compose.Option {
	return compose.WithChatModelOption(
		model.WithModel(req.Model),
		model.WithTemperature(float32(*req.Temperature)),
	)
}
