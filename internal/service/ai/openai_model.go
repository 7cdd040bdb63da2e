package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the runtime answers without any choice.
var ErrEmptyCompletion = errors.New("runtime returned no choices")

// OpenAIChatModel adapts an OpenAI-compatible endpoint (Ollama serves one under /v1)
// to eino's chat model interface.
type OpenAIChatModel struct {
	client       *openai.Client
	defaultModel string
}

// NewOpenAIChatModel creates a chat model talking to baseURL. Ollama ignores the key,
// but the client requires one to be set.
func NewOpenAIChatModel(baseURL, defaultModel string) *OpenAIChatModel {
	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = baseURL
	return &OpenAIChatModel{
		client:       openai.NewClientWithConfig(clientConfig),
		defaultModel: defaultModel,
	}
}

// Generate runs one blocking chat completion.
func (m *OpenAIChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	resp, err := m.client.CreateChatCompletion(ctx, m.buildRequest(input, opts))
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}
	return schema.AssistantMessage(resp.Choices[0].Message.Content, nil), nil
}

// Stream runs a streamed chat completion and forwards each delta.
func (m *OpenAIChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	stream, err := m.client.CreateChatCompletionStream(ctx, m.buildRequest(input, opts))
	if err != nil {
		return nil, fmt.Errorf("chat completion stream: %w", err)
	}

	reader, writer := schema.Pipe[*schema.Message](8)
	go func() {
		defer stream.Close()
		defer writer.Close()

		for {
			resp, recvErr := stream.Recv()
			if errors.Is(recvErr, io.EOF) {
				return
			}
			if recvErr != nil {
				writer.Send(nil, recvErr)
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if closed := writer.Send(schema.AssistantMessage(resp.Choices[0].Delta.Content, nil), nil); closed {
				return
			}
		}
	}()

	return reader, nil
}

// BindTools is not supported; the proxy never sends tools.
func (m *OpenAIChatModel) BindTools(_ []*schema.ToolInfo) error {
	return errors.New("tool calling is not supported by the local runtime adapter")
}

func (m *OpenAIChatModel) buildRequest(input []*schema.Message, opts []model.Option) openai.ChatCompletionRequest {
	options := model.GetCommonOptions(&model.Options{Model: &m.defaultModel}, opts...)

	messages := make([]openai.ChatCompletionMessage, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Messages: messages,
		N:        1,
	}
	if options.Model != nil {
		req.Model = *options.Model
	}
	if options.Temperature != nil {
		req.Temperature = *options.Temperature
	}
	if options.MaxTokens != nil {
		req.MaxTokens = *options.MaxTokens
	}
	return req
}
