package proxy

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/pkg/utils"
)

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event    string `json:"event"`
	Content  string `json:"content,omitempty"`
	Model    string `json:"model,omitempty"`
	Finished bool   `json:"finished,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleStream 以 SSE 推送模型输出：start → delta* → message → end，失败时发送 error。
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		_ = utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	stream, modelName, err := h.runtime.Stream(r.Context(), req)
	if err != nil {
		h.logger.Error("stream request failed", zap.Error(err))
		_ = utils.RespondError(w, http.StatusInternalServerError, errRuntimeFailed)
		return
	}
	defer stream.Close()

	utils.SetupSSEHeaders(w)
	send := func(resp StreamResponse) bool {
		if err := utils.SendSSEChunk(w, flusher, resp); err != nil {
			h.logger.Debug("sse write failed", zap.Error(err))
			return false
		}
		return true
	}

	if !send(StreamResponse{Event: "start", Model: modelName}) {
		return
	}

	content, err := drain(stream, func(delta string) bool {
		return send(StreamResponse{Event: "delta", Content: delta})
	})
	if err != nil {
		h.logger.Error("stream interrupted", zap.String("model", modelName), zap.Error(err))
		send(StreamResponse{Event: "error", Error: errRuntimeFailed})
		return
	}

	if send(StreamResponse{Event: "message", Model: modelName, Content: content}) {
		send(StreamResponse{Event: "end", Model: modelName, Finished: true})
	}
}

var errClientGone = errors.New("client stopped reading")

// drain forwards every non-empty chunk to emit and returns the concatenated text.
func drain(stream *schema.StreamReader[*schema.Message], emit func(string) bool) (string, error) {
	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return full.String(), nil
		}
		if err != nil {
			return "", err
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		full.WriteString(chunk.Content)
		if !emit(chunk.Content) {
			return "", errClientGone
		}
	}
}
